package chat

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// MessageType distinguishes message payloads
type MessageType string

const (
	TypeText          MessageType = "text"
	TypeFile          MessageType = "file"
	TypeProjectUpdate MessageType = "project_update"
)

// ParticipantDetail is the denormalized display info for one side of a
// conversation, keyed by user id in ParticipantDetails.
type ParticipantDetail struct {
	Name   string `json:"name"`
	Role   string `json:"role"`
	Avatar string `json:"avatar,omitempty"`
}

// ParticipantDetails maps user id to display info, stored as JSONB
type ParticipantDetails map[string]ParticipantDetail

// Value implements driver.Valuer
func (p ParticipantDetails) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements sql.Scanner
func (p *ParticipantDetails) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(b, p)
}

// Attachment is one file carried by a message
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

// Attachments is the message's file list, stored as JSONB. Empty lists are
// stored as NULL.
type Attachments []Attachment

// Value implements driver.Valuer
func (a Attachments) Value() (driver.Value, error) {
	if len(a) == 0 {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner
func (a *Attachments) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(b, a)
}

// Message is one append-only chat entry
type Message struct {
	ID             uuid.UUID   `json:"id" db:"id"`
	ConversationID uuid.UUID   `json:"conversation_id" db:"conversation_id"`
	SenderID       uuid.UUID   `json:"sender_id" db:"sender_id"`
	Content        string      `json:"content" db:"content"`
	Type           MessageType `json:"type" db:"type"`
	Attachments    Attachments `json:"attachments,omitempty" db:"attachments"`
	IsRead         bool        `json:"is_read" db:"is_read"`
	Timestamp      time.Time   `json:"timestamp" db:"timestamp"`
}

// LastMessage is the denormalized copy of the newest message on the
// conversation row. Nil until the first message lands.
type LastMessage struct {
	Message *Message
}

// Value implements driver.Valuer
func (l LastMessage) Value() (driver.Value, error) {
	if l.Message == nil {
		return nil, nil
	}
	return json.Marshal(l.Message)
}

// Scan implements sql.Scanner
func (l *LastMessage) Scan(value interface{}) error {
	if value == nil {
		l.Message = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		l.Message = nil
		return nil
	}
	l.Message = &Message{}
	return json.Unmarshal(b, l.Message)
}

// MarshalJSON renders the inner message or null
func (l LastMessage) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Message)
}

// UnmarshalJSON accepts the inner message or null
func (l *LastMessage) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		l.Message = nil
		return nil
	}
	l.Message = &Message{}
	return json.Unmarshal(data, l.Message)
}

// Conversation is a two-party thread about one project. The participant pair
// is stored sorted, so the same two users and project can never produce two
// rows regardless of who initiated.
type Conversation struct {
	ID                 uuid.UUID          `json:"id" db:"id"`
	ParticipantLow     uuid.UUID          `json:"-" db:"participant_low"`
	ParticipantHigh    uuid.UUID          `json:"-" db:"participant_high"`
	ProjectID          uuid.UUID          `json:"project_id" db:"project_id"`
	ProjectTitle       string             `json:"project_title" db:"project_title"`
	ParticipantDetails ParticipantDetails `json:"participant_details" db:"participant_details"`
	LastMessage        LastMessage        `json:"last_message" db:"last_message"`
	LastActivity       time.Time          `json:"last_activity" db:"last_activity"`
	IsActive           bool               `json:"is_active" db:"is_active"`
	CreatedAt          time.Time          `json:"created_at" db:"created_at"`
}

// Participants returns both participant ids
func (c *Conversation) Participants() []uuid.UUID {
	return []uuid.UUID{c.ParticipantLow, c.ParticipantHigh}
}

// HasParticipant reports whether the user is one of the two parties
func (c *Conversation) HasParticipant(userID uuid.UUID) bool {
	return c.ParticipantLow == userID || c.ParticipantHigh == userID
}

// SortParticipants orders a pair of user ids canonically
func SortParticipants(a, b uuid.UUID) (low, high uuid.UUID) {
	if bytes.Compare(a[:], b[:]) <= 0 {
		return a, b
	}
	return b, a
}

// SendMessageRequest posts a message into a conversation
type SendMessageRequest struct {
	Content     string      `json:"content" binding:"required"`
	Type        MessageType `json:"type,omitempty"`
	Attachments Attachments `json:"attachments,omitempty"`
}
