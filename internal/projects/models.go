package projects

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Status tracks the development stage of a project
type Status string

const (
	StatusPlanning    Status = "Planning"
	StatusDevelopment Status = "Development"
	StatusTesting     Status = "Testing"
	StatusDeployed    Status = "Deployed"
)

// TechnologySnapshot is the point-in-time copy of the technology a project was
// started from, embedded on the project row. Later edits to the live
// technology record do not touch it.
type TechnologySnapshot struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags,omitempty"`
	Complexity  string    `json:"complexity,omitempty"`
	Website     string    `json:"website,omitempty"`
}

// Value implements driver.Valuer
func (t TechnologySnapshot) Value() (driver.Value, error) {
	return json.Marshal(t)
}

// Scan implements sql.Scanner
func (t *TechnologySnapshot) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, t)
}

// Details captures the stack specifics chosen for a project
type Details struct {
	Frontend struct {
		Framework       string `json:"framework"`
		Language        string `json:"language"`
		Styling         string `json:"styling"`
		StateManagement string `json:"state_management"`
	} `json:"frontend"`
	Backend struct {
		Framework string `json:"framework"`
		Language  string `json:"language"`
		Runtime   string `json:"runtime"`
		API       string `json:"api"`
	} `json:"backend"`
	Database struct {
		Type string `json:"type"`
		Name string `json:"name"`
		ORM  string `json:"orm,omitempty"`
	} `json:"database"`
	Deployment struct {
		Hosting string `json:"hosting"`
		CICD    string `json:"ci_cd"`
		Domain  string `json:"domain,omitempty"`
	} `json:"deployment"`
	Additional struct {
		Authentication string `json:"authentication"`
		Storage        string `json:"storage"`
		Monitoring     string `json:"monitoring"`
		Testing        string `json:"testing"`
	} `json:"additional"`
}

// DetailsJSON wraps Details for a nullable JSONB column
type DetailsJSON struct {
	Details *Details
}

// Value implements driver.Valuer
func (d DetailsJSON) Value() (driver.Value, error) {
	if d.Details == nil {
		return nil, nil
	}
	return json.Marshal(d.Details)
}

// Scan implements sql.Scanner
func (d *DetailsJSON) Scan(value interface{}) error {
	if value == nil {
		d.Details = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	d.Details = &Details{}
	return json.Unmarshal(bytes, d.Details)
}

// Project is owned by one developer account
type Project struct {
	ID                  uuid.UUID          `json:"id" db:"id"`
	UserID              uuid.UUID          `json:"user_id" db:"user_id"`
	Title               string             `json:"title" db:"title"`
	Description         string             `json:"description" db:"description"`
	Technology          TechnologySnapshot `json:"technology" db:"technology"`
	Status              Status             `json:"status" db:"status"`
	Progress            int                `json:"progress" db:"progress"`
	TechStack           pq.StringArray     `json:"tech_stack" db:"tech_stack"`
	Repository          *string            `json:"repository,omitempty" db:"repository"`
	Demo                *string            `json:"demo,omitempty" db:"demo"`
	Details             DetailsJSON        `json:"details,omitempty" db:"details"`
	IsFinalized         bool               `json:"is_finalized" db:"is_finalized"`
	EstimatedCompletion *time.Time         `json:"estimated_completion,omitempty" db:"estimated_completion"`
	CreatedAt           time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at" db:"updated_at"`
}

// MVPDocument is the structured project-summary artifact drafted by the
// assistant and exportable as Markdown or PDF.
type MVPDocument struct {
	ID           uuid.UUID      `json:"id" db:"id"`
	ProjectID    uuid.UUID      `json:"project_id" db:"project_id"`
	Title        string         `json:"title" db:"title"`
	Content      string         `json:"content" db:"content"`
	Overview     string         `json:"overview" db:"overview"`
	Features     pq.StringArray `json:"features" db:"features"`
	TechStack    string         `json:"tech_stack" db:"tech_stack"`
	Architecture string         `json:"architecture" db:"architecture"`
	Timeline     string         `json:"timeline" db:"timeline"`
	Resources    string         `json:"resources" db:"resources"`
	Version      string         `json:"version" db:"version"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

// CreateProjectRequest starts a project from a technology
type CreateProjectRequest struct {
	Title               string             `json:"title" binding:"required,min=1,max=255"`
	Description         string             `json:"description" binding:"required"`
	Technology          TechnologySnapshot `json:"technology" binding:"required"`
	TechStack           []string           `json:"tech_stack,omitempty"`
	Repository          *string            `json:"repository,omitempty"`
	Demo                *string            `json:"demo,omitempty"`
	EstimatedCompletion *time.Time         `json:"estimated_completion,omitempty"`
}

// UpdateProjectRequest enumerates the mutable project fields
type UpdateProjectRequest struct {
	Title               *string    `json:"title,omitempty"`
	Description         *string    `json:"description,omitempty"`
	Status              *Status    `json:"status,omitempty"`
	Progress            *int       `json:"progress,omitempty"`
	TechStack           []string   `json:"tech_stack,omitempty"`
	Repository          *string    `json:"repository,omitempty"`
	Demo                *string    `json:"demo,omitempty"`
	Details             *Details   `json:"details,omitempty"`
	EstimatedCompletion *time.Time `json:"estimated_completion,omitempty"`
}

// UpsertMVPRequest creates or replaces a project's MVP document
type UpsertMVPRequest struct {
	Title        string   `json:"title" binding:"required"`
	Content      string   `json:"content"`
	Overview     string   `json:"overview"`
	Features     []string `json:"features"`
	TechStack    string   `json:"tech_stack"`
	Architecture string   `json:"architecture"`
	Timeline     string   `json:"timeline"`
	Resources    string   `json:"resources"`
	Version      string   `json:"version"`
}
