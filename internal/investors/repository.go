package investors

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines investor directory data access
type Repository interface {
	ListProfiles(ctx context.Context, filters *ListFilters) ([]*Profile, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewRepository creates a PostgreSQL-backed investor repository
func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

const profileColumns = `id, name, firm, focus, stage, check_size, portfolio,
	location, website, actively_investing, created_at`

func (r *postgresRepository) ListProfiles(ctx context.Context, filters *ListFilters) ([]*Profile, error) {
	conditions := []string{"role = 'investor'"}
	var args []interface{}
	argCount := 0

	if filters.Stage != nil {
		argCount++
		conditions = append(conditions, fmt.Sprintf("stage = $%d", argCount))
		args = append(args, *filters.Stage)
	}
	if filters.Focus != nil {
		argCount++
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(focus)", argCount))
		args = append(args, *filters.Focus)
	}
	if filters.ActivelyInvesting != nil {
		argCount++
		conditions = append(conditions, fmt.Sprintf("actively_investing = $%d", argCount))
		args = append(args, *filters.ActivelyInvesting)
	}

	limit := filters.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	argCount++
	args = append(args, limit)

	query := `SELECT ` + profileColumns + ` FROM users WHERE ` +
		strings.Join(conditions, " AND ") +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argCount)

	var profiles []*Profile
	if err := r.db.SelectContext(ctx, &profiles, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list investors: %w", err)
	}
	return profiles, nil
}

func (r *postgresRepository) GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	var profile Profile
	query := `SELECT ` + profileColumns + ` FROM users WHERE id = $1 AND role = 'investor'`
	err := r.db.GetContext(ctx, &profile, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get investor: %w", err)
	}
	return &profile, nil
}
