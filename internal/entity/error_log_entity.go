package entity

import (
	"time"

	"github.com/google/uuid"
)

// ErrorLog is a best-effort record of a frontend exception pushed to the
// remote sink. Writes that fail are swallowed by the caller.
type ErrorLog struct {
	Id             uuid.UUID
	Source         string
	Environment    string
	ErrorCode      *string
	ErrorMessage   string
	ErrorStack     *string
	Route          *string
	Method         *string
	TableName      *string
	FunctionName   *string
	UserId         *uuid.UUID
	ClientToken    *string
	SessionId      *string
	RequestPayload map[string]interface{}
	ExtraContext   map[string]interface{}
	CreatedAt      time.Time
}
