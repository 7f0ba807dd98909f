package connections

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines connection request data access
type Repository interface {
	Create(ctx context.Context, conn *Connection) error
	Get(ctx context.Context, id uuid.UUID) (*Connection, error)
	ListForInvestor(ctx context.Context, investorID uuid.UUID, filters *ListFilters) ([]*Connection, error)
	ListForRequester(ctx context.Context, requesterID uuid.UUID, filters *ListFilters) ([]*Connection, error)

	// Resolve flips a pending request to its terminal status. Returns false
	// when the request was not pending, so resolved requests stay resolved.
	Resolve(ctx context.Context, id uuid.UUID, status Status, responseMessage *string, respondedAt time.Time) (bool, error)

	StatsForInvestor(ctx context.Context, investorID uuid.UUID) (*DashboardStats, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewRepository creates a PostgreSQL-backed connection repository
func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, conn *Connection) error {
	query := `
		INSERT INTO investor_connections (
			id, project_id, requester_id, requester_name, investor_id, status,
			message, response_message, project_data, created_at, responded_at
		) VALUES (
			:id, :project_id, :requester_id, :requester_name, :investor_id, :status,
			:message, :response_message, :project_data, :created_at, :responded_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, conn)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateConnection
		}
		return fmt.Errorf("failed to create connection: %w", err)
	}
	return nil
}

func (r *postgresRepository) Get(ctx context.Context, id uuid.UUID) (*Connection, error) {
	var conn Connection
	err := r.db.GetContext(ctx, &conn, `SELECT * FROM investor_connections WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}
	return &conn, nil
}

func (r *postgresRepository) ListForInvestor(ctx context.Context, investorID uuid.UUID, filters *ListFilters) ([]*Connection, error) {
	return r.list(ctx, "investor_id", investorID, filters)
}

func (r *postgresRepository) ListForRequester(ctx context.Context, requesterID uuid.UUID, filters *ListFilters) ([]*Connection, error) {
	return r.list(ctx, "requester_id", requesterID, filters)
}

func (r *postgresRepository) list(ctx context.Context, column string, userID uuid.UUID, filters *ListFilters) ([]*Connection, error) {
	conditions := []string{fmt.Sprintf("%s = $1", column)}
	args := []interface{}{userID}

	if filters != nil && filters.Status != nil {
		conditions = append(conditions, "status = $2")
		args = append(args, *filters.Status)
	}

	query := `SELECT * FROM investor_connections WHERE ` +
		strings.Join(conditions, " AND ") +
		` ORDER BY created_at DESC`

	var conns []*Connection
	if err := r.db.SelectContext(ctx, &conns, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	return conns, nil
}

func (r *postgresRepository) Resolve(ctx context.Context, id uuid.UUID, status Status, responseMessage *string, respondedAt time.Time) (bool, error) {
	query := `
		UPDATE investor_connections
		SET status = $1, response_message = $2, responded_at = $3
		WHERE id = $4 AND status = 'pending'`

	result, err := r.db.ExecContext(ctx, query, status, responseMessage, respondedAt, id)
	if err != nil {
		return false, fmt.Errorf("failed to resolve connection: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check resolve result: %w", err)
	}
	return rows > 0, nil
}

func (r *postgresRepository) StatsForInvestor(ctx context.Context, investorID uuid.UUID) (*DashboardStats, error) {
	var stats DashboardStats
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending,
			COUNT(*) FILTER (WHERE status = 'accepted') AS accepted,
			COUNT(*) FILTER (WHERE status = 'rejected') AS rejected
		FROM investor_connections
		WHERE investor_id = $1`

	if err := r.db.GetContext(ctx, &stats, query, investorID); err != nil {
		return nil, fmt.Errorf("failed to load connection stats: %w", err)
	}
	return &stats, nil
}
