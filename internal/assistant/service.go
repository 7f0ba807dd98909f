package assistant

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service drives the canned-template development assistant. Replies are
// deterministic: the turn number within a thread selects the template, so
// replaying a transcript reproduces it exactly.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates the assistant service
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Reply stores the user message, picks the reply template for this turn and
// stores the assistant message with its follow-up suggestions.
func (s *Service) Reply(ctx context.Context, userID uuid.UUID, req *SendMessageRequest) (*ReplyResponse, error) {
	turn, err := s.repo.CountUserTurns(ctx, userID, req.ProjectID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	userMsg := &Message{
		ID:        uuid.New(),
		UserID:    userID,
		ProjectID: req.ProjectID,
		Role:      RoleUser,
		Content:   req.Content,
		CreatedAt: now,
	}
	if err := s.repo.AppendMessage(ctx, userMsg); err != nil {
		return nil, err
	}

	projectContext := req.ProjectID != nil
	reply := &Message{
		ID:          uuid.New(),
		UserID:      userID,
		ProjectID:   req.ProjectID,
		Role:        RoleAssistant,
		Content:     PickReply(req.Technology, projectContext, turn),
		Suggestions: PickSuggestions(projectContext),
		CreatedAt:   now.Add(time.Millisecond),
	}
	if err := s.repo.AppendMessage(ctx, reply); err != nil {
		return nil, err
	}

	return &ReplyResponse{
		UserMessage: userMsg,
		Reply:       reply,
		Intent:      DetectIntent(req.Content),
	}, nil
}

// Transcript returns the thread history, oldest first
func (s *Service) Transcript(ctx context.Context, userID uuid.UUID, projectID *uuid.UUID, limit int) ([]*Message, error) {
	return s.repo.ListMessages(ctx, userID, projectID, limit)
}

// DraftMVP generates the MVP planning document for a technology
func (s *Service) DraftMVP(ctx context.Context, userID uuid.UUID, req *DraftMVPRequest) (string, error) {
	s.logger.Debug("Drafting MVP document",
		zap.String("userId", userID.String()),
		zap.String("technology", req.Technology.Title))
	return RenderMVPDraft(req.Technology), nil
}
