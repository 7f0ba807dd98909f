package technologies

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines technology feed data access
type Repository interface {
	List(ctx context.Context, filters *ListFilters) ([]*Technology, error)
	Get(ctx context.Context, id uuid.UUID) (*Technology, error)
	Create(ctx context.Context, tech *Technology) error
	Count(ctx context.Context) (int, error)
	RefreshTrending(ctx context.Context, topN int) (int64, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewRepository creates a PostgreSQL-backed technology repository
func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) List(ctx context.Context, filters *ListFilters) ([]*Technology, error) {
	conditions := []string{"1=1"}
	var args []interface{}
	argCount := 0

	if filters.Category != nil {
		argCount++
		conditions = append(conditions, fmt.Sprintf("category = $%d", argCount))
		args = append(args, *filters.Category)
	}
	if filters.Complexity != nil {
		argCount++
		conditions = append(conditions, fmt.Sprintf("complexity = $%d", argCount))
		args = append(args, *filters.Complexity)
	}
	if filters.Search != nil {
		argCount++
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", argCount, argCount))
		args = append(args, "%"+*filters.Search+"%")
	}

	limit := filters.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	argCount++
	args = append(args, limit)

	query := `SELECT * FROM technologies WHERE ` +
		strings.Join(conditions, " AND ") +
		fmt.Sprintf(" ORDER BY popularity DESC, published_at DESC LIMIT $%d", argCount)

	var techs []*Technology
	if err := r.db.SelectContext(ctx, &techs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list technologies: %w", err)
	}
	return techs, nil
}

func (r *postgresRepository) Get(ctx context.Context, id uuid.UUID) (*Technology, error) {
	var tech Technology
	err := r.db.GetContext(ctx, &tech, `SELECT * FROM technologies WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get technology: %w", err)
	}
	return &tech, nil
}

func (r *postgresRepository) Create(ctx context.Context, tech *Technology) error {
	query := `
		INSERT INTO technologies (
			id, title, description, category, tags, complexity, popularity,
			trending, website, source, published_at, created_at, updated_at
		) VALUES (
			:id, :title, :description, :category, :tags, :complexity, :popularity,
			:trending, :website, :source, :published_at, :created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, tech)
	if err != nil {
		return fmt.Errorf("failed to create technology: %w", err)
	}
	return nil
}

func (r *postgresRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM technologies`); err != nil {
		return 0, fmt.Errorf("failed to count technologies: %w", err)
	}
	return count, nil
}

// RefreshTrending marks the top N technologies by popularity as trending and
// clears the flag on the rest. Returns the number of rows that changed.
func (r *postgresRepository) RefreshTrending(ctx context.Context, topN int) (int64, error) {
	query := `
		WITH ranked AS (
			SELECT id, ROW_NUMBER() OVER (ORDER BY popularity DESC, published_at DESC) AS rank
			FROM technologies
		)
		UPDATE technologies t
		SET trending = (r.rank <= $1), updated_at = NOW()
		FROM ranked r
		WHERE t.id = r.id AND t.trending IS DISTINCT FROM (r.rank <= $1)`

	result, err := r.db.ExecContext(ctx, query, topN)
	if err != nil {
		return 0, fmt.Errorf("failed to refresh trending: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check trending refresh result: %w", err)
	}
	return rows, nil
}
