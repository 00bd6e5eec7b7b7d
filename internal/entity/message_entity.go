package entity

import (
	"time"

	"github.com/google/uuid"
)

type SenderType string

const (
	SenderTypeClient SenderType = "client"
	SenderTypeAgent  SenderType = "agent"
)

type MessageKind string

const (
	MessageKindText  MessageKind = "text"
	MessageKindImage MessageKind = "image"
)

// Message is immutable once created. Image messages carry the public URL
// and the storage path of the uploaded object; Text is empty for them.
type Message struct {
	Id             uuid.UUID
	ConversationId uuid.UUID
	SenderType     SenderType
	Kind           MessageKind
	Text           string
	ImageURL       *string
	StoragePath    *string
	ClientToken    *string
	CreatedAt      time.Time
}
