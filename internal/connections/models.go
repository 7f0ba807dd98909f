package connections

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Status is the connection request lifecycle state
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// ProjectSnapshot is the copy of project data frozen into the request at
// send time. Investors evaluate what was pitched, not what the project
// becomes afterwards.
type ProjectSnapshot struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Technology  string   `json:"technology"`
	Status      string   `json:"status"`
	Progress    int      `json:"progress"`
	TechStack   []string `json:"tech_stack,omitempty"`
	Repository  string   `json:"repository,omitempty"`
	Demo        string   `json:"demo,omitempty"`
}

// Value implements driver.Valuer
func (p ProjectSnapshot) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements sql.Scanner
func (p *ProjectSnapshot) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(b, p)
}

// Connection is a one-directional request from a project owner to an
// investor. The (project, investor, requester) triple is unique.
type Connection struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	ProjectID       uuid.UUID       `json:"project_id" db:"project_id"`
	RequesterID     uuid.UUID       `json:"requester_id" db:"requester_id"`
	RequesterName   string          `json:"requester_name" db:"requester_name"`
	InvestorID      uuid.UUID       `json:"investor_id" db:"investor_id"`
	Status          Status          `json:"status" db:"status"`
	Message         string          `json:"message" db:"message"`
	ResponseMessage *string         `json:"response_message,omitempty" db:"response_message"`
	ProjectData     ProjectSnapshot `json:"project_data" db:"project_data"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	RespondedAt     *time.Time      `json:"responded_at,omitempty" db:"responded_at"`
}

// CreateConnectionRequest sends a request to one investor
type CreateConnectionRequest struct {
	ProjectID  uuid.UUID `json:"project_id" binding:"required"`
	InvestorID uuid.UUID `json:"investor_id" binding:"required"`
	Message    string    `json:"message" binding:"required"`
}

// RespondRequest resolves a pending request
type RespondRequest struct {
	Accept  bool    `json:"accept"`
	Message *string `json:"message,omitempty"`
}

// ListFilters narrows a connection listing
type ListFilters struct {
	Status *Status
}

// DashboardStats summarizes an investor's request inbox
type DashboardStats struct {
	Total    int `json:"total" db:"total"`
	Pending  int `json:"pending" db:"pending"`
	Accepted int `json:"accepted" db:"accepted"`
	Rejected int `json:"rejected" db:"rejected"`
}
