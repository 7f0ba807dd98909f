package projects

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines project and MVP document data access
type Repository interface {
	CreateProject(ctx context.Context, project *Project) error
	GetProject(ctx context.Context, id uuid.UUID) (*Project, error)
	ListProjectsByUser(ctx context.Context, userID uuid.UUID) ([]*Project, error)
	UpdateProject(ctx context.Context, project *Project) error
	DeleteProject(ctx context.Context, id uuid.UUID) error

	UpsertMVPDocument(ctx context.Context, doc *MVPDocument) error
	GetMVPDocument(ctx context.Context, projectID uuid.UUID) (*MVPDocument, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewRepository creates a PostgreSQL-backed project repository
func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateProject(ctx context.Context, project *Project) error {
	query := `
		INSERT INTO projects (
			id, user_id, title, description, technology, status, progress,
			tech_stack, repository, demo, details, is_finalized,
			estimated_completion, created_at, updated_at
		) VALUES (
			:id, :user_id, :title, :description, :technology, :status, :progress,
			:tech_stack, :repository, :demo, :details, :is_finalized,
			:estimated_completion, :created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, project)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetProject(ctx context.Context, id uuid.UUID) (*Project, error) {
	var project Project
	query := `SELECT * FROM projects WHERE id = $1`
	err := r.db.GetContext(ctx, &project, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &project, nil
}

func (r *postgresRepository) ListProjectsByUser(ctx context.Context, userID uuid.UUID) ([]*Project, error) {
	var projects []*Project
	query := `SELECT * FROM projects WHERE user_id = $1 ORDER BY updated_at DESC`
	if err := r.db.SelectContext(ctx, &projects, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

func (r *postgresRepository) UpdateProject(ctx context.Context, project *Project) error {
	project.UpdatedAt = time.Now()
	query := `
		UPDATE projects SET
			title = :title,
			description = :description,
			status = :status,
			progress = :progress,
			tech_stack = :tech_stack,
			repository = :repository,
			demo = :demo,
			details = :details,
			is_finalized = :is_finalized,
			estimated_completion = :estimated_completion,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, project)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (r *postgresRepository) DeleteProject(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (r *postgresRepository) UpsertMVPDocument(ctx context.Context, doc *MVPDocument) error {
	if doc.Features == nil {
		doc.Features = pq.StringArray{}
	}
	query := `
		INSERT INTO mvp_documents (
			id, project_id, title, content, overview, features, tech_stack,
			architecture, timeline, resources, version, created_at, updated_at
		) VALUES (
			:id, :project_id, :title, :content, :overview, :features, :tech_stack,
			:architecture, :timeline, :resources, :version, :created_at, :updated_at
		)
		ON CONFLICT (project_id) DO UPDATE SET
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			overview = EXCLUDED.overview,
			features = EXCLUDED.features,
			tech_stack = EXCLUDED.tech_stack,
			architecture = EXCLUDED.architecture,
			timeline = EXCLUDED.timeline,
			resources = EXCLUDED.resources,
			version = EXCLUDED.version,
			updated_at = EXCLUDED.updated_at`

	_, err := r.db.NamedExecContext(ctx, query, doc)
	if err != nil {
		return fmt.Errorf("failed to upsert mvp document: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetMVPDocument(ctx context.Context, projectID uuid.UUID) (*MVPDocument, error) {
	var doc MVPDocument
	query := `SELECT * FROM mvp_documents WHERE project_id = $1`
	err := r.db.GetContext(ctx, &doc, query, projectID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mvp document: %w", err)
	}
	return &doc, nil
}
