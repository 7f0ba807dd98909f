package chat

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines conversation and message data access
type Repository interface {
	// EnsureConversation inserts the conversation unless the sorted pair and
	// project already have one, and returns the surviving row. The second
	// return value reports whether this call created it.
	EnsureConversation(ctx context.Context, conv *Conversation) (*Conversation, bool, error)
	GetConversation(ctx context.Context, id uuid.UUID) (*Conversation, error)
	ListConversationsForUser(ctx context.Context, userID uuid.UUID) ([]*Conversation, error)

	// AppendMessage stores the message and denormalizes it onto the
	// conversation row in one transaction.
	AppendMessage(ctx context.Context, msg *Message) error
	ListMessages(ctx context.Context, conversationID uuid.UUID, limit int) ([]*Message, error)
	MarkMessagesRead(ctx context.Context, conversationID, readerID uuid.UUID) (int64, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewRepository creates a PostgreSQL-backed chat repository
func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) EnsureConversation(ctx context.Context, conv *Conversation) (*Conversation, bool, error) {
	insert := `
		INSERT INTO chat_conversations (
			id, participant_low, participant_high, project_id, project_title,
			participant_details, last_message, last_activity, is_active, created_at
		) VALUES (
			:id, :participant_low, :participant_high, :project_id, :project_title,
			:participant_details, :last_message, :last_activity, :is_active, :created_at
		)
		ON CONFLICT (participant_low, participant_high, project_id) DO NOTHING`

	result, err := r.db.NamedExecContext(ctx, insert, conv)
	if err != nil {
		return nil, false, fmt.Errorf("failed to ensure conversation: %w", err)
	}
	inserted, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to check conversation insert: %w", err)
	}

	var existing Conversation
	query := `SELECT * FROM chat_conversations
		WHERE participant_low = $1 AND participant_high = $2 AND project_id = $3`
	if err := r.db.GetContext(ctx, &existing, query, conv.ParticipantLow, conv.ParticipantHigh, conv.ProjectID); err != nil {
		return nil, false, fmt.Errorf("failed to load conversation: %w", err)
	}
	return &existing, inserted > 0, nil
}

func (r *postgresRepository) GetConversation(ctx context.Context, id uuid.UUID) (*Conversation, error) {
	var conv Conversation
	err := r.db.GetContext(ctx, &conv, `SELECT * FROM chat_conversations WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return &conv, nil
}

func (r *postgresRepository) ListConversationsForUser(ctx context.Context, userID uuid.UUID) ([]*Conversation, error) {
	var convs []*Conversation
	query := `SELECT * FROM chat_conversations
		WHERE participant_low = $1 OR participant_high = $1
		ORDER BY last_activity DESC`
	if err := r.db.SelectContext(ctx, &convs, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return convs, nil
}

func (r *postgresRepository) AppendMessage(ctx context.Context, msg *Message) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin message transaction: %w", err)
	}
	defer tx.Rollback()

	insert := `
		INSERT INTO chat_messages (
			id, conversation_id, sender_id, content, type, attachments, is_read, timestamp
		) VALUES (
			:id, :conversation_id, :sender_id, :content, :type, :attachments, :is_read, :timestamp
		)`
	if _, err := tx.NamedExecContext(ctx, insert, msg); err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}

	if err := denormalizeLastMessage(ctx, tx, msg); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit message transaction: %w", err)
	}
	return nil
}

func denormalizeLastMessage(ctx context.Context, tx *sqlx.Tx, msg *Message) error {
	payload := LastMessage{Message: msg}
	value, err := payload.Value()
	if err != nil {
		return fmt.Errorf("failed to encode last message: %w", err)
	}

	update := `UPDATE chat_conversations
		SET last_message = $1, last_activity = $2
		WHERE id = $3`
	result, err := tx.ExecContext(ctx, update, value, msg.Timestamp, msg.ConversationID)
	if err != nil {
		return fmt.Errorf("failed to denormalize last message: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check denormalization: %w", err)
	}
	if rows == 0 {
		return ErrConversationNotFound
	}
	return nil
}

func (r *postgresRepository) ListMessages(ctx context.Context, conversationID uuid.UUID, limit int) ([]*Message, error) {
	if limit <= 0 || limit > 500 {
		limit = 200
	}

	var messages []*Message
	query := `SELECT * FROM chat_messages
		WHERE conversation_id = $1
		ORDER BY timestamp ASC, id ASC
		LIMIT $2`
	if err := r.db.SelectContext(ctx, &messages, query, conversationID, limit); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

func (r *postgresRepository) MarkMessagesRead(ctx context.Context, conversationID, readerID uuid.UUID) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin read transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE chat_messages SET is_read = TRUE
		WHERE conversation_id = $1 AND sender_id <> $2 AND is_read = FALSE`,
		conversationID, readerID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check read update: %w", err)
	}

	// Keep the denormalized copy consistent when it was the unread one
	if _, err := tx.ExecContext(ctx, `
		UPDATE chat_conversations
		SET last_message = jsonb_set(last_message, '{is_read}', 'true')
		WHERE id = $1 AND last_message IS NOT NULL
		  AND (last_message->>'sender_id')::uuid <> $2`,
		conversationID, readerID); err != nil {
		return 0, fmt.Errorf("failed to update last message read flag: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit read transaction: %w", err)
	}
	return rows, nil
}
