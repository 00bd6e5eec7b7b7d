package mapper

import (
	"encoding/json"

	"redoma-support-be/internal/entity"
	"redoma-support-be/internal/model"

	"gorm.io/datatypes"
)

type ErrorLogMapper struct{}

func NewErrorLogMapper() *ErrorLogMapper {
	return &ErrorLogMapper{}
}

func (m *ErrorLogMapper) ToModel(e *entity.ErrorLog) *model.ErrorLog {
	if e == nil {
		return nil
	}
	return &model.ErrorLog{
		Id:             e.Id,
		Source:         e.Source,
		Environment:    e.Environment,
		ErrorCode:      e.ErrorCode,
		ErrorMessage:   e.ErrorMessage,
		ErrorStack:     e.ErrorStack,
		Route:          e.Route,
		Method:         e.Method,
		TableName_:     e.TableName,
		FunctionName:   e.FunctionName,
		UserId:         e.UserId,
		ClientToken:    e.ClientToken,
		SessionId:      e.SessionId,
		RequestPayload: toJSON(e.RequestPayload),
		ExtraContext:   toJSON(e.ExtraContext),
		CreatedAt:      e.CreatedAt,
	}
}

func (m *ErrorLogMapper) ToEntity(e *model.ErrorLog) *entity.ErrorLog {
	if e == nil {
		return nil
	}
	return &entity.ErrorLog{
		Id:             e.Id,
		Source:         e.Source,
		Environment:    e.Environment,
		ErrorCode:      e.ErrorCode,
		ErrorMessage:   e.ErrorMessage,
		ErrorStack:     e.ErrorStack,
		Route:          e.Route,
		Method:         e.Method,
		TableName:      e.TableName_,
		FunctionName:   e.FunctionName,
		UserId:         e.UserId,
		ClientToken:    e.ClientToken,
		SessionId:      e.SessionId,
		RequestPayload: fromJSON(e.RequestPayload),
		ExtraContext:   fromJSON(e.ExtraContext),
		CreatedAt:      e.CreatedAt,
	}
}

func (m *ErrorLogMapper) ToEntities(models []*model.ErrorLog) []*entity.ErrorLog {
	entities := make([]*entity.ErrorLog, 0, len(models))
	for _, mod := range models {
		entities = append(entities, m.ToEntity(mod))
	}
	return entities
}

func toJSON(v map[string]interface{}) datatypes.JSON {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}

func fromJSON(data datatypes.JSON) map[string]interface{} {
	if len(data) == 0 {
		return nil
	}
	var v map[string]interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	return v
}
