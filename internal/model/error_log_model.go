package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ErrorLog struct {
	Id             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Source         string     `gorm:"type:varchar(50);not null"`
	Environment    string     `gorm:"type:varchar(20);not null;default:'prod'"`
	ErrorCode      *string    `gorm:"type:varchar(100)"`
	ErrorMessage   string     `gorm:"type:text;not null"`
	ErrorStack     *string    `gorm:"type:text"`
	Route          *string    `gorm:"type:text"`
	Method         *string    `gorm:"type:varchar(10)"`
	TableName_     *string    `gorm:"column:table_name;type:varchar(100)"`
	FunctionName   *string    `gorm:"type:varchar(255)"`
	UserId         *uuid.UUID `gorm:"type:uuid"`
	ClientToken    *string    `gorm:"type:varchar(100)"`
	SessionId      *string    `gorm:"type:varchar(100)"`
	RequestPayload datatypes.JSON
	ExtraContext   datatypes.JSON
	CreatedAt      time.Time `gorm:"autoCreateTime;index"`
}

func (ErrorLog) TableName() string {
	return "error_logs"
}
