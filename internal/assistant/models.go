package assistant

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// MessageRole distinguishes who authored a transcript entry
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message is one entry in a user's assistant transcript. ProjectID is nil for
// the general ideation thread and set for project-scoped threads.
type Message struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	UserID      uuid.UUID      `json:"user_id" db:"user_id"`
	ProjectID   *uuid.UUID     `json:"project_id,omitempty" db:"project_id"`
	Role        MessageRole    `json:"role" db:"role"`
	Content     string         `json:"content" db:"content"`
	Suggestions pq.StringArray `json:"suggestions,omitempty" db:"suggestions"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
}

// SendMessageRequest posts a user message and asks for a reply
type SendMessageRequest struct {
	Content    string      `json:"content" binding:"required"`
	ProjectID  *uuid.UUID  `json:"project_id,omitempty"`
	Technology TechContext `json:"technology"`
}

// ReplyResponse returns the stored user message, the assistant reply and the
// detected intent so the client can trigger follow-up actions.
type ReplyResponse struct {
	UserMessage *Message `json:"user_message"`
	Reply       *Message `json:"reply"`
	Intent      Intent   `json:"intent"`
}

// DraftMVPRequest asks for a generated MVP planning document
type DraftMVPRequest struct {
	Technology TechContext `json:"technology"`
}
