package projects

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service errors
var (
	ErrProjectNotFound  = errors.New("project not found")
	ErrNotProjectOwner  = errors.New("not the project owner")
	ErrProjectFinalized = errors.New("project is finalized")
	ErrMVPNotFound      = errors.New("mvp document not found")
)

// Service manages projects and their MVP documents. All mutating operations
// are owner-scoped: the caller's user id must match the project's user_id.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates the project service
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Create starts a project from a technology snapshot
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req *CreateProjectRequest) (*Project, error) {
	now := time.Now()
	project := &Project{
		ID:                  uuid.New(),
		UserID:              userID,
		Title:               req.Title,
		Description:         req.Description,
		Technology:          req.Technology,
		Status:              StatusPlanning,
		Progress:            0,
		TechStack:           req.TechStack,
		Repository:          req.Repository,
		Demo:                req.Demo,
		EstimatedCompletion: req.EstimatedCompletion,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.repo.CreateProject(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("Project created",
		zap.String("projectId", project.ID.String()),
		zap.String("userId", userID.String()))

	return project, nil
}

// Get returns a project owned by the given user
func (s *Service) Get(ctx context.Context, userID, projectID uuid.UUID) (*Project, error) {
	project, err := s.repo.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}
	if project.UserID != userID {
		return nil, ErrNotProjectOwner
	}
	return project, nil
}

// List returns all projects owned by the given user, most recently updated first
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Project, error) {
	return s.repo.ListProjectsByUser(ctx, userID)
}

// Update applies the mutable fields of an owned, non-finalized project.
// Progress is clamped to [0, 100].
func (s *Service) Update(ctx context.Context, userID, projectID uuid.UUID, req *UpdateProjectRequest) (*Project, error) {
	project, err := s.Get(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	if project.IsFinalized {
		return nil, ErrProjectFinalized
	}

	if req.Title != nil {
		project.Title = *req.Title
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Status != nil {
		project.Status = *req.Status
	}
	if req.Progress != nil {
		project.Progress = clampProgress(*req.Progress)
	}
	if req.TechStack != nil {
		project.TechStack = req.TechStack
	}
	if req.Repository != nil {
		project.Repository = req.Repository
	}
	if req.Demo != nil {
		project.Demo = req.Demo
	}
	if req.Details != nil {
		project.Details = DetailsJSON{Details: req.Details}
	}
	if req.EstimatedCompletion != nil {
		project.EstimatedCompletion = req.EstimatedCompletion
	}

	if err := s.repo.UpdateProject(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Finalize locks a project for investor outreach. Finalization is one-way.
func (s *Service) Finalize(ctx context.Context, userID, projectID uuid.UUID) (*Project, error) {
	project, err := s.Get(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	if project.IsFinalized {
		return project, nil
	}

	project.IsFinalized = true
	if err := s.repo.UpdateProject(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("Project finalized", zap.String("projectId", projectID.String()))
	return project, nil
}

// Delete removes an owned project and its MVP document
func (s *Service) Delete(ctx context.Context, userID, projectID uuid.UUID) error {
	if _, err := s.Get(ctx, userID, projectID); err != nil {
		return err
	}
	return s.repo.DeleteProject(ctx, projectID)
}

// SaveMVP creates or replaces the MVP document of an owned project
func (s *Service) SaveMVP(ctx context.Context, userID, projectID uuid.UUID, req *UpsertMVPRequest) (*MVPDocument, error) {
	if _, err := s.Get(ctx, userID, projectID); err != nil {
		return nil, err
	}

	version := req.Version
	if version == "" {
		version = "1.0"
	}

	now := time.Now()
	doc := &MVPDocument{
		ID:           uuid.New(),
		ProjectID:    projectID,
		Title:        req.Title,
		Content:      req.Content,
		Overview:     req.Overview,
		Features:     req.Features,
		TechStack:    req.TechStack,
		Architecture: req.Architecture,
		Timeline:     req.Timeline,
		Resources:    req.Resources,
		Version:      version,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.UpsertMVPDocument(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// GetMVP returns the MVP document of an owned project
func (s *Service) GetMVP(ctx context.Context, userID, projectID uuid.UUID) (*MVPDocument, error) {
	if _, err := s.Get(ctx, userID, projectID); err != nil {
		return nil, err
	}

	doc, err := s.repo.GetMVPDocument(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrMVPNotFound
	}
	return doc, nil
}

func clampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
