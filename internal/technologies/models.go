package technologies

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Complexity buckets a technology by how hard it is to adopt
type Complexity string

const (
	ComplexityBeginner     Complexity = "Beginner"
	ComplexityIntermediate Complexity = "Intermediate"
	ComplexityAdvanced     Complexity = "Advanced"
)

// Technology is one entry in the discovery feed
type Technology struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	Title       string         `json:"title" db:"title"`
	Description string         `json:"description" db:"description"`
	Category    string         `json:"category" db:"category"`
	Tags        pq.StringArray `json:"tags" db:"tags"`
	Complexity  Complexity     `json:"complexity" db:"complexity"`
	Popularity  int            `json:"popularity" db:"popularity"`
	Trending    bool           `json:"trending" db:"trending"`
	Website     string         `json:"website" db:"website"`
	Source      string         `json:"source" db:"source"`
	PublishedAt time.Time      `json:"published_at" db:"published_at"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// SubmitRequest adds a community entry to the feed
type SubmitRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Category    string     `json:"category" binding:"required"`
	Tags        []string   `json:"tags"`
	Complexity  Complexity `json:"complexity"`
	Website     string     `json:"website"`
}

// ListFilters narrows the discovery feed
type ListFilters struct {
	Category   *string
	Complexity *Complexity
	Search     *string
	Limit      int
}
