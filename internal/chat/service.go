package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service errors
var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrNotParticipant       = errors.New("not a conversation participant")
	ErrEmptyMessage         = errors.New("message content is empty")
)

// Notifier pushes realtime events to connected users. A nil notifier is
// allowed; delivery then falls back to polling.
type Notifier interface {
	Notify(userID uuid.UUID, event string, payload interface{})
}

// Event names pushed through the notifier
const (
	EventMessageNew       = "chat.message.new"
	EventConversationOpen = "chat.conversation.open"
)

// BootstrapParams describes the conversation created when a connection
// request is accepted.
type BootstrapParams struct {
	DeveloperID  uuid.UUID
	InvestorID   uuid.UUID
	ProjectID    uuid.UUID
	ProjectTitle string
	Details      ParticipantDetails
}

// Service manages conversations and their message streams
type Service struct {
	repo     Repository
	notifier Notifier
	logger   *zap.Logger
}

// NewService creates the chat service
func NewService(repo Repository, notifier Notifier, logger *zap.Logger) *Service {
	return &Service{repo: repo, notifier: notifier, logger: logger}
}

// Bootstrap opens the conversation for an accepted connection. It is
// idempotent: the sorted participant pair plus project id identifies the
// conversation, so repeated accepts reuse the existing thread untouched. A
// newly created thread is seeded with a greeting authored by the investor.
func (s *Service) Bootstrap(ctx context.Context, params *BootstrapParams) (*Conversation, error) {
	low, high := SortParticipants(params.DeveloperID, params.InvestorID)

	now := time.Now()
	conv, created, err := s.repo.EnsureConversation(ctx, &Conversation{
		ID:                 uuid.New(),
		ParticipantLow:     low,
		ParticipantHigh:    high,
		ProjectID:          params.ProjectID,
		ProjectTitle:       params.ProjectTitle,
		ParticipantDetails: params.Details,
		LastActivity:       now,
		IsActive:           true,
		CreatedAt:          now,
	})
	if err != nil {
		return nil, err
	}
	if !created {
		return conv, nil
	}

	greeting := &Message{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		SenderID:       params.InvestorID,
		Content:        fmt.Sprintf("Hi! I've accepted your connection request for %s. Looking forward to learning more about your progress.", params.ProjectTitle),
		Type:           TypeText,
		Timestamp:      now,
	}
	if err := s.repo.AppendMessage(ctx, greeting); err != nil {
		return nil, err
	}

	s.logger.Info("Conversation bootstrapped",
		zap.String("conversationId", conv.ID.String()),
		zap.String("projectId", params.ProjectID.String()))

	if s.notifier != nil {
		s.notifier.Notify(params.DeveloperID, EventConversationOpen, conv)
	}

	return s.repo.GetConversation(ctx, conv.ID)
}

// ListConversations returns the user's threads, most recently active first
func (s *Service) ListConversations(ctx context.Context, userID uuid.UUID) ([]*Conversation, error) {
	return s.repo.ListConversationsForUser(ctx, userID)
}

// Messages returns a conversation's stream, oldest first
func (s *Service) Messages(ctx context.Context, userID, conversationID uuid.UUID, limit int) ([]*Message, error) {
	if _, err := s.memberConversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	return s.repo.ListMessages(ctx, conversationID, limit)
}

// Send appends a message and pushes it to the other participant
func (s *Service) Send(ctx context.Context, userID, conversationID uuid.UUID, req *SendMessageRequest) (*Message, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, ErrEmptyMessage
	}

	conv, err := s.memberConversation(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}

	msgType := req.Type
	if msgType == "" {
		msgType = TypeText
		if len(req.Attachments) > 0 {
			msgType = TypeFile
		}
	}

	msg := &Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       userID,
		Content:        req.Content,
		Type:           msgType,
		Attachments:    req.Attachments,
		Timestamp:      time.Now(),
	}
	if err := s.repo.AppendMessage(ctx, msg); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		for _, participant := range conv.Participants() {
			if participant != userID {
				s.notifier.Notify(participant, EventMessageNew, msg)
			}
		}
	}

	return msg, nil
}

// MarkRead flags the other party's messages as read
func (s *Service) MarkRead(ctx context.Context, userID, conversationID uuid.UUID) (int64, error) {
	if _, err := s.memberConversation(ctx, userID, conversationID); err != nil {
		return 0, err
	}
	return s.repo.MarkMessagesRead(ctx, conversationID, userID)
}

func (s *Service) memberConversation(ctx context.Context, userID, conversationID uuid.UUID) (*Conversation, error) {
	conv, err := s.repo.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, ErrConversationNotFound
	}
	if !conv.HasParticipant(userID) {
		return nil, ErrNotParticipant
	}
	return conv, nil
}
