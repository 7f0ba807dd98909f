package notifications

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Notification types pushed to users
const (
	TypeConnectionReceived = "connection.received"
	TypeConnectionAccepted = "connection.accepted"
	TypeConnectionRejected = "connection.rejected"
	TypeChatMessage        = "chat.message.new"
	TypeConversationOpen   = "chat.conversation.open"
)

// Notification is one in-app notification, persisted so users who were
// offline still see what happened.
type Notification struct {
	ID        uuid.UUID      `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID    uuid.UUID      `json:"user_id" gorm:"not null;index"`
	Type      string         `json:"type" gorm:"not null"`
	Title     string         `json:"title" gorm:"not null"`
	Body      string         `json:"body"`
	Data      datatypes.JSON `json:"data" gorm:"type:jsonb"`
	IsRead    bool           `json:"is_read" gorm:"default:false;index"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
}

// WSMessageType classifies realtime frames
type WSMessageType string

const (
	WSMessageTypeEvent    WSMessageType = "event"
	WSMessageTypePresence WSMessageType = "presence"
	WSMessageTypeStatus   WSMessageType = "status"
)

// WebSocketMessage is the frame exchanged with connected clients
type WebSocketMessage struct {
	Type      WSMessageType          `json:"type"`
	Event     string                 `json:"event,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Payload   interface{}            `json:"payload,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Target    string                 `json:"target,omitempty"`
}
