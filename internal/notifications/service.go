package notifications

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Pusher delivers realtime frames to connected users
type Pusher interface {
	SendToUser(userID uuid.UUID, message WebSocketMessage) error
}

// Service persists notifications and pushes them to connected clients.
// Persistence and push are independent: an offline user misses the push but
// finds the notification on next load.
type Service struct {
	db     *gorm.DB
	pusher Pusher
	logger *zap.Logger
}

// NewService creates the notification service
func NewService(db *gorm.DB, pusher Pusher, logger *zap.Logger) *Service {
	return &Service{db: db, pusher: pusher, logger: logger}
}

// AutoMigrate creates the notifications table
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Notification{})
}

// Notify records an event for a user and pushes it over any open WebSocket.
// Satisfies the chat package's notifier contract.
func (s *Service) Notify(userID uuid.UUID, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("Failed to encode notification payload", zap.Error(err))
		return
	}

	notification := &Notification{
		ID:     uuid.New(),
		UserID: userID,
		Type:   event,
		Title:  titleFor(event),
		Data:   data,
	}
	if err := s.db.Create(notification).Error; err != nil {
		s.logger.Error("Failed to persist notification",
			zap.String("userId", userID.String()),
			zap.String("event", event),
			zap.Error(err))
		return
	}

	if s.pusher == nil {
		return
	}
	if err := s.pusher.SendToUser(userID, WebSocketMessage{
		Type:      WSMessageTypeEvent,
		Event:     event,
		Payload:   payload,
		Timestamp: time.Now(),
	}); err != nil {
		// Not connected right now; the persisted row covers it
		s.logger.Debug("Realtime push skipped",
			zap.String("userId", userID.String()),
			zap.String("event", event))
	}
}

// List returns a user's notifications, newest first
func (s *Service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]*Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var notifications []*Notification
	if err := query.Order("created_at DESC").Limit(limit).Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// UnreadCount returns how many notifications the user has not read
func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead flags the given notifications as read, scoped to the user
func (s *Service) MarkRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	return s.db.WithContext(ctx).Model(&Notification{}).
		Where("user_id = ? AND id IN ?", userID, ids).
		Update("is_read", true).Error
}

// MarkAllRead flags every notification of the user as read
func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.db.WithContext(ctx).Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

func titleFor(event string) string {
	switch event {
	case TypeConnectionReceived:
		return "New connection request"
	case TypeConnectionAccepted:
		return "Connection request accepted"
	case TypeConnectionRejected:
		return "Connection request declined"
	case TypeChatMessage:
		return "New message"
	case TypeConversationOpen:
		return "Conversation started"
	default:
		return "Notification"
	}
}
