package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Role discriminates the two account types stored on the shared users schema.
type Role string

const (
	RoleDeveloper Role = "developer"
	RoleInvestor  Role = "investor"
)

// ExperienceLevel for developer accounts
type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "Beginner"
	ExperienceIntermediate ExperienceLevel = "Intermediate"
	ExperienceExpert       ExperienceLevel = "Expert"
)

// User is a portal account. Developer and investor profiles share one row;
// the role field decides which of the optional columns are meaningful.
type User struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	Email        string          `json:"email" db:"email"`
	PasswordHash string          `json:"-" db:"password_hash"`
	Name         string          `json:"name" db:"name"`
	Role         Role            `json:"role" db:"role"`
	Experience   *ExperienceLevel `json:"experience,omitempty" db:"experience"`
	Interests    pq.StringArray  `json:"interests,omitempty" db:"interests"`

	// Investor profile fields
	Firm              *string        `json:"firm,omitempty" db:"firm"`
	Focus             pq.StringArray `json:"focus,omitempty" db:"focus"`
	Stage             *string        `json:"stage,omitempty" db:"stage"`
	CheckSize         *string        `json:"check_size,omitempty" db:"check_size"`
	Portfolio         pq.StringArray `json:"portfolio,omitempty" db:"portfolio"`
	Location          *string        `json:"location,omitempty" db:"location"`
	Website           *string        `json:"website,omitempty" db:"website"`
	ActivelyInvesting bool           `json:"actively_investing" db:"actively_investing"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// RegisterRequest creates an account. Investor profile fields are accepted
// only when role is investor; the service drops them otherwise.
type RegisterRequest struct {
	Email      string           `json:"email" binding:"required,email"`
	Password   string           `json:"password" binding:"required,min=8"`
	Name       string           `json:"name" binding:"required,min=1,max=255"`
	Role       Role             `json:"role" binding:"required"`
	Experience *ExperienceLevel `json:"experience,omitempty"`
	Interests  []string         `json:"interests,omitempty"`

	Firm              *string  `json:"firm,omitempty"`
	Focus             []string `json:"focus,omitempty"`
	Stage             *string  `json:"stage,omitempty"`
	CheckSize         *string  `json:"check_size,omitempty"`
	Portfolio         []string `json:"portfolio,omitempty"`
	Location          *string  `json:"location,omitempty"`
	Website           *string  `json:"website,omitempty"`
	ActivelyInvesting bool     `json:"actively_investing,omitempty"`
}

// LoginRequest authenticates with credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest enumerates exactly the mutable profile fields.
// Arbitrary partial-document merges are not accepted.
type UpdateProfileRequest struct {
	Name       *string          `json:"name,omitempty"`
	Experience *ExperienceLevel `json:"experience,omitempty"`
	Interests  []string         `json:"interests,omitempty"`

	Firm              *string  `json:"firm,omitempty"`
	Focus             []string `json:"focus,omitempty"`
	Stage             *string  `json:"stage,omitempty"`
	CheckSize         *string  `json:"check_size,omitempty"`
	Portfolio         []string `json:"portfolio,omitempty"`
	Location          *string  `json:"location,omitempty"`
	Website           *string  `json:"website,omitempty"`
	ActivelyInvesting *bool    `json:"actively_investing,omitempty"`
}

// AuthResponse is returned on register and login
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}
