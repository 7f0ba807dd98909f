package assistant

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines assistant transcript data access
type Repository interface {
	AppendMessage(ctx context.Context, msg *Message) error
	ListMessages(ctx context.Context, userID uuid.UUID, projectID *uuid.UUID, limit int) ([]*Message, error)
	CountUserTurns(ctx context.Context, userID uuid.UUID, projectID *uuid.UUID) (int, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewRepository creates a PostgreSQL-backed transcript repository
func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) AppendMessage(ctx context.Context, msg *Message) error {
	if msg.Suggestions == nil {
		msg.Suggestions = pq.StringArray{}
	}
	query := `
		INSERT INTO assistant_messages (
			id, user_id, project_id, role, content, suggestions, created_at
		) VALUES (
			:id, :user_id, :project_id, :role, :content, :suggestions, :created_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, msg)
	if err != nil {
		return fmt.Errorf("failed to append assistant message: %w", err)
	}
	return nil
}

func (r *postgresRepository) ListMessages(ctx context.Context, userID uuid.UUID, projectID *uuid.UUID, limit int) ([]*Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}

	var messages []*Message
	var err error
	if projectID != nil {
		query := `SELECT * FROM assistant_messages
			WHERE user_id = $1 AND project_id = $2
			ORDER BY created_at ASC LIMIT $3`
		err = r.db.SelectContext(ctx, &messages, query, userID, *projectID, limit)
	} else {
		query := `SELECT * FROM assistant_messages
			WHERE user_id = $1 AND project_id IS NULL
			ORDER BY created_at ASC LIMIT $2`
		err = r.db.SelectContext(ctx, &messages, query, userID, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list assistant messages: %w", err)
	}
	return messages, nil
}

func (r *postgresRepository) CountUserTurns(ctx context.Context, userID uuid.UUID, projectID *uuid.UUID) (int, error) {
	var count int
	var err error
	if projectID != nil {
		query := `SELECT COUNT(*) FROM assistant_messages
			WHERE user_id = $1 AND project_id = $2 AND role = 'user'`
		err = r.db.GetContext(ctx, &count, query, userID, *projectID)
	} else {
		query := `SELECT COUNT(*) FROM assistant_messages
			WHERE user_id = $1 AND project_id IS NULL AND role = 'user'`
		err = r.db.GetContext(ctx, &count, query, userID)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count assistant turns: %w", err)
	}
	return count, nil
}
