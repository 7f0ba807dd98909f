package projects

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateProject(ctx context.Context, project *Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockRepository) GetProject(ctx context.Context, id uuid.UUID) (*Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Project), args.Error(1)
}

func (m *MockRepository) ListProjectsByUser(ctx context.Context, userID uuid.UUID) ([]*Project, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Project), args.Error(1)
}

func (m *MockRepository) UpdateProject(ctx context.Context, project *Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockRepository) DeleteProject(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) UpsertMVPDocument(ctx context.Context, doc *MVPDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockRepository) GetMVPDocument(ctx context.Context, projectID uuid.UUID) (*MVPDocument, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MVPDocument), args.Error(1)
}

func newTestService() (*Service, *MockRepository) {
	repo := new(MockRepository)
	return NewService(repo, zap.NewNop()), repo
}

func TestCreateStartsInPlanning(t *testing.T) {
	service, repo := newTestService()
	userID := uuid.New()

	repo.On("CreateProject", mock.Anything, mock.MatchedBy(func(p *Project) bool {
		return p.Status == StatusPlanning && p.Progress == 0 && p.UserID == userID && !p.IsFinalized
	})).Return(nil)

	project, err := service.Create(context.Background(), userID, &CreateProjectRequest{
		Title:       "AI Code Review Tool",
		Description: "Automated review assistant",
		Technology:  TechnologySnapshot{ID: uuid.New(), Title: "LangChain"},
	})

	assert.NoError(t, err)
	assert.Equal(t, StatusPlanning, project.Status)
	repo.AssertExpectations(t)
}

func TestUpdateClampsProgress(t *testing.T) {
	service, repo := newTestService()
	userID := uuid.New()
	project := &Project{ID: uuid.New(), UserID: userID, Status: StatusDevelopment}

	repo.On("GetProject", mock.Anything, project.ID).Return(project, nil)
	repo.On("UpdateProject", mock.Anything, mock.Anything).Return(nil)

	over := 150
	updated, err := service.Update(context.Background(), userID, project.ID, &UpdateProjectRequest{Progress: &over})
	assert.NoError(t, err)
	assert.Equal(t, 100, updated.Progress)

	under := -10
	updated, err = service.Update(context.Background(), userID, project.ID, &UpdateProjectRequest{Progress: &under})
	assert.NoError(t, err)
	assert.Equal(t, 0, updated.Progress)
}

func TestUpdateRejectsNonOwner(t *testing.T) {
	service, repo := newTestService()
	project := &Project{ID: uuid.New(), UserID: uuid.New()}

	repo.On("GetProject", mock.Anything, project.ID).Return(project, nil)

	title := "Hijacked"
	_, err := service.Update(context.Background(), uuid.New(), project.ID, &UpdateProjectRequest{Title: &title})
	assert.ErrorIs(t, err, ErrNotProjectOwner)
}

func TestUpdateRejectsFinalizedProject(t *testing.T) {
	service, repo := newTestService()
	userID := uuid.New()
	project := &Project{ID: uuid.New(), UserID: userID, IsFinalized: true}

	repo.On("GetProject", mock.Anything, project.ID).Return(project, nil)

	title := "Renamed"
	_, err := service.Update(context.Background(), userID, project.ID, &UpdateProjectRequest{Title: &title})
	assert.ErrorIs(t, err, ErrProjectFinalized)
}

func TestFinalizeIsIdempotent(t *testing.T) {
	service, repo := newTestService()
	userID := uuid.New()
	project := &Project{ID: uuid.New(), UserID: userID}

	repo.On("GetProject", mock.Anything, project.ID).Return(project, nil)
	repo.On("UpdateProject", mock.Anything, mock.Anything).Return(nil).Once()

	first, err := service.Finalize(context.Background(), userID, project.ID)
	assert.NoError(t, err)
	assert.True(t, first.IsFinalized)

	// Second call does not write again
	second, err := service.Finalize(context.Background(), userID, project.ID)
	assert.NoError(t, err)
	assert.True(t, second.IsFinalized)
	repo.AssertExpectations(t)
}

func TestGetUnknownProject(t *testing.T) {
	service, repo := newTestService()
	id := uuid.New()

	repo.On("GetProject", mock.Anything, id).Return(nil, nil)

	_, err := service.Get(context.Background(), uuid.New(), id)
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestSaveMVPDefaultsVersion(t *testing.T) {
	service, repo := newTestService()
	userID := uuid.New()
	project := &Project{ID: uuid.New(), UserID: userID}

	repo.On("GetProject", mock.Anything, project.ID).Return(project, nil)
	repo.On("UpsertMVPDocument", mock.Anything, mock.MatchedBy(func(d *MVPDocument) bool {
		return d.Version == "1.0" && d.ProjectID == project.ID
	})).Return(nil)

	doc, err := service.SaveMVP(context.Background(), userID, project.ID, &UpsertMVPRequest{Title: "MVP"})
	assert.NoError(t, err)
	assert.Equal(t, "1.0", doc.Version)
	repo.AssertExpectations(t)
}
