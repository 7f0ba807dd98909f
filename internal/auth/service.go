package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// Service handles account lifecycle and token issuance
type Service struct {
	repo          Repository
	jwtSecret     []byte
	tokenLifetime time.Duration
	logger        *zap.Logger
}

// Claims carried by portal session tokens
type Claims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

// NewService creates the auth service
func NewService(repo Repository, jwtSecret string, tokenLifetime time.Duration, logger *zap.Logger) *Service {
	return &Service{
		repo:          repo,
		jwtSecret:     []byte(jwtSecret),
		tokenLifetime: tokenLifetime,
		logger:        logger,
	}
}

// Register creates an account and returns a session token
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	if req.Role != RoleDeveloper && req.Role != RoleInvestor {
		return nil, errors.New("role must be developer or investor")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         req.Name,
		Role:         req.Role,
		Experience:   req.Experience,
		Interests:    pq.StringArray(req.Interests),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Investor profile fields only mean something for investor accounts
	if req.Role == RoleInvestor {
		user.Firm = req.Firm
		user.Focus = pq.StringArray(req.Focus)
		user.Stage = req.Stage
		user.CheckSize = req.CheckSize
		user.Portfolio = pq.StringArray(req.Portfolio)
		user.Location = req.Location
		user.Website = req.Website
		user.ActivelyInvesting = req.ActivelyInvesting
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	return s.issueToken(user)
}

// Login verifies credentials and returns a session token
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(user)
}

// GetUser loads an account by id
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile applies the enumerated mutable fields to the caller's account
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Experience != nil {
		user.Experience = req.Experience
	}
	if req.Interests != nil {
		user.Interests = pq.StringArray(req.Interests)
	}
	if user.Role == RoleInvestor {
		if req.Firm != nil {
			user.Firm = req.Firm
		}
		if req.Focus != nil {
			user.Focus = pq.StringArray(req.Focus)
		}
		if req.Stage != nil {
			user.Stage = req.Stage
		}
		if req.CheckSize != nil {
			user.CheckSize = req.CheckSize
		}
		if req.Portfolio != nil {
			user.Portfolio = pq.StringArray(req.Portfolio)
		}
		if req.Location != nil {
			user.Location = req.Location
		}
		if req.Website != nil {
			user.Website = req.Website
		}
		if req.ActivelyInvesting != nil {
			user.ActivelyInvesting = *req.ActivelyInvesting
		}
	}
	user.UpdatedAt = time.Now()

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ParseToken validates a session token and returns its claims
func (s *Service) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *Service) issueToken(user *User) (*AuthResponse, error) {
	expiresAt := time.Now().Add(s.tokenLifetime)
	claims := &Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Token:     signed,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}
