package dto

import (
	"time"

	"github.com/google/uuid"
)

type ReportErrorRequest struct {
	Source         string                 `json:"source" validate:"required"`
	Environment    string                 `json:"environment"`
	ErrorCode      string                 `json:"error_code"`
	ErrorMessage   string                 `json:"error_message" validate:"required"`
	ErrorStack     string                 `json:"error_stack"`
	Route          string                 `json:"route"`
	Method         string                 `json:"method"`
	TableName      string                 `json:"table_name"`
	FunctionName   string                 `json:"function_name"`
	UserId         string                 `json:"user_id"`
	ClientToken    string                 `json:"client_token"`
	SessionId      string                 `json:"session_id"`
	RequestPayload map[string]interface{} `json:"request_payload"`
	ExtraContext   map[string]interface{} `json:"extra_context"`
}

type ErrorLogResponse struct {
	Id           uuid.UUID `json:"id"`
	Source       string    `json:"source"`
	Environment  string    `json:"environment,omitempty"`
	ErrorMessage string    `json:"error_message"`
	Route        string    `json:"route,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
