package investors

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Profile is the investor-facing projection of a users row. MatchScore is
// derived on read and never stored.
type Profile struct {
	ID                uuid.UUID      `json:"id" db:"id"`
	Name              string         `json:"name" db:"name"`
	Firm              *string        `json:"firm,omitempty" db:"firm"`
	Focus             pq.StringArray `json:"focus" db:"focus"`
	Stage             *string        `json:"stage,omitempty" db:"stage"`
	CheckSize         *string        `json:"check_size,omitempty" db:"check_size"`
	Portfolio         pq.StringArray `json:"portfolio" db:"portfolio"`
	Location          *string        `json:"location,omitempty" db:"location"`
	Website           *string        `json:"website,omitempty" db:"website"`
	ActivelyInvesting bool           `json:"actively_investing" db:"actively_investing"`
	CreatedAt         time.Time      `json:"created_at" db:"created_at"`

	MatchScore int `json:"match_score" db:"-"`
}

// ListFilters narrows the investor directory
type ListFilters struct {
	Stage             *string
	Focus             *string
	ActivelyInvesting *bool
	Limit             int
}
