package connections

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"devlink/portal/portal-backend/internal/auth"
	"devlink/portal/portal-backend/internal/chat"
	"devlink/portal/portal-backend/internal/projects"
)

type fakeRepository struct {
	byID   map[uuid.UUID]*Connection
	unique map[[3]uuid.UUID]bool
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		byID:   make(map[uuid.UUID]*Connection),
		unique: make(map[[3]uuid.UUID]bool),
	}
}

func (f *fakeRepository) Create(_ context.Context, conn *Connection) error {
	key := [3]uuid.UUID{conn.ProjectID, conn.InvestorID, conn.RequesterID}
	if f.unique[key] {
		return ErrDuplicateConnection
	}
	f.unique[key] = true
	stored := *conn
	f.byID[conn.ID] = &stored
	return nil
}

func (f *fakeRepository) Get(_ context.Context, id uuid.UUID) (*Connection, error) {
	conn, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	copied := *conn
	return &copied, nil
}

func (f *fakeRepository) ListForInvestor(_ context.Context, investorID uuid.UUID, filters *ListFilters) ([]*Connection, error) {
	var out []*Connection
	for _, conn := range f.byID {
		if conn.InvestorID != investorID {
			continue
		}
		if filters != nil && filters.Status != nil && conn.Status != *filters.Status {
			continue
		}
		out = append(out, conn)
	}
	return out, nil
}

func (f *fakeRepository) ListForRequester(_ context.Context, requesterID uuid.UUID, _ *ListFilters) ([]*Connection, error) {
	var out []*Connection
	for _, conn := range f.byID {
		if conn.RequesterID == requesterID {
			out = append(out, conn)
		}
	}
	return out, nil
}

func (f *fakeRepository) Resolve(_ context.Context, id uuid.UUID, status Status, responseMessage *string, respondedAt time.Time) (bool, error) {
	conn, ok := f.byID[id]
	if !ok || conn.Status != StatusPending {
		return false, nil
	}
	conn.Status = status
	conn.ResponseMessage = responseMessage
	conn.RespondedAt = &respondedAt
	return true, nil
}

func (f *fakeRepository) StatsForInvestor(_ context.Context, investorID uuid.UUID) (*DashboardStats, error) {
	stats := &DashboardStats{}
	for _, conn := range f.byID {
		if conn.InvestorID != investorID {
			continue
		}
		stats.Total++
		switch conn.Status {
		case StatusPending:
			stats.Pending++
		case StatusAccepted:
			stats.Accepted++
		case StatusRejected:
			stats.Rejected++
		}
	}
	return stats, nil
}

type fakeUsers struct {
	users map[uuid.UUID]*auth.User
}

func (f *fakeUsers) GetUser(_ context.Context, id uuid.UUID) (*auth.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return user, nil
}

type fakeProjects struct {
	projects map[uuid.UUID]*projects.Project
}

func (f *fakeProjects) Get(_ context.Context, userID, projectID uuid.UUID) (*projects.Project, error) {
	project, ok := f.projects[projectID]
	if !ok {
		return nil, projects.ErrProjectNotFound
	}
	if project.UserID != userID {
		return nil, projects.ErrNotProjectOwner
	}
	return project, nil
}

type fakeBootstrapper struct {
	calls []*chat.BootstrapParams
}

func (f *fakeBootstrapper) Bootstrap(_ context.Context, params *chat.BootstrapParams) (*chat.Conversation, error) {
	f.calls = append(f.calls, params)
	return &chat.Conversation{ID: uuid.New(), ProjectID: params.ProjectID}, nil
}

// flakyBootstrapper fails a set number of times before delegating
type flakyBootstrapper struct {
	fakeBootstrapper
	failures int
}

func (f *flakyBootstrapper) Bootstrap(ctx context.Context, params *chat.BootstrapParams) (*chat.Conversation, error) {
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("chat store unavailable")
	}
	return f.fakeBootstrapper.Bootstrap(ctx, params)
}

type recordingNotifier struct {
	events map[uuid.UUID][]string
}

func (n *recordingNotifier) Notify(userID uuid.UUID, event string, _ interface{}) {
	n.events[userID] = append(n.events[userID], event)
}

type fixture struct {
	service      *Service
	repo         *fakeRepository
	bootstrapper *fakeBootstrapper
	notifier     *recordingNotifier
	developer    *auth.User
	investor     *auth.User
	project      *projects.Project
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	developer := &auth.User{ID: uuid.New(), Name: "Alex Rivera", Role: auth.RoleDeveloper}
	investor := &auth.User{ID: uuid.New(), Name: "Sarah Chen", Role: auth.RoleInvestor}

	project := &projects.Project{
		ID:          uuid.New(),
		UserID:      developer.ID,
		Title:       "DevMatch",
		Description: "Connects developers with investors",
		Technology:  projects.TechnologySnapshot{Title: "Supabase"},
		Status:      projects.StatusDevelopment,
		Progress:    60,
		TechStack:   []string{"Go", "PostgreSQL"},
		IsFinalized: true,
	}

	repo := newFakeRepository()
	bootstrapper := &fakeBootstrapper{}
	notifier := &recordingNotifier{events: make(map[uuid.UUID][]string)}
	service := NewService(
		repo,
		&fakeUsers{users: map[uuid.UUID]*auth.User{developer.ID: developer, investor.ID: investor}},
		&fakeProjects{projects: map[uuid.UUID]*projects.Project{project.ID: project}},
		bootstrapper,
		notifier,
		zap.NewNop(),
	)

	return &fixture{
		service:      service,
		repo:         repo,
		bootstrapper: bootstrapper,
		notifier:     notifier,
		developer:    developer,
		investor:     investor,
		project:      project,
	}
}

func (fx *fixture) createRequest(t *testing.T) *Connection {
	t.Helper()
	conn, err := fx.service.Create(context.Background(), fx.developer.ID, &CreateConnectionRequest{
		ProjectID:  fx.project.ID,
		InvestorID: fx.investor.ID,
		Message:    "We'd love your feedback on our beta.",
	})
	require.NoError(t, err)
	return conn
}

func TestCreateSnapshotsProject(t *testing.T) {
	fx := newFixture(t)

	conn := fx.createRequest(t)
	assert.Equal(t, StatusPending, conn.Status)
	assert.Equal(t, "DevMatch", conn.ProjectData.Title)
	assert.Equal(t, 60, conn.ProjectData.Progress)
	assert.Equal(t, "Supabase", conn.ProjectData.Technology)
	assert.Equal(t, "Alex Rivera", conn.RequesterName)
}

func TestSnapshotImmuneToLaterEdits(t *testing.T) {
	fx := newFixture(t)
	conn := fx.createRequest(t)

	// The project moves on after the request is sent
	fx.project.Title = "DevMatch 2.0"
	fx.project.Progress = 95
	fx.project.TechStack = append(fx.project.TechStack, "Redis")

	stored, err := fx.repo.Get(context.Background(), conn.ID)
	require.NoError(t, err)
	assert.Equal(t, "DevMatch", stored.ProjectData.Title)
	assert.Equal(t, 60, stored.ProjectData.Progress)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, stored.ProjectData.TechStack)
}

func TestCreateValidations(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.service.Create(context.Background(), fx.developer.ID, &CreateConnectionRequest{
		ProjectID: fx.project.ID, InvestorID: fx.investor.ID, Message: "   ",
	})
	assert.ErrorIs(t, err, ErrEmptyMessage)

	fx.project.IsFinalized = false
	_, err = fx.service.Create(context.Background(), fx.developer.ID, &CreateConnectionRequest{
		ProjectID: fx.project.ID, InvestorID: fx.investor.ID, Message: "hello",
	})
	assert.ErrorIs(t, err, ErrProjectNotFinalized)
	fx.project.IsFinalized = true

	// Targeting another developer is rejected
	_, err = fx.service.Create(context.Background(), fx.developer.ID, &CreateConnectionRequest{
		ProjectID: fx.project.ID, InvestorID: fx.developer.ID, Message: "hello",
	})
	assert.ErrorIs(t, err, ErrNotInvestor)

	// Only the owner can pitch the project
	_, err = fx.service.Create(context.Background(), fx.investor.ID, &CreateConnectionRequest{
		ProjectID: fx.project.ID, InvestorID: fx.investor.ID, Message: "hello",
	})
	assert.ErrorIs(t, err, projects.ErrNotProjectOwner)
}

func TestCreateRejectsDuplicates(t *testing.T) {
	fx := newFixture(t)
	fx.createRequest(t)

	_, err := fx.service.Create(context.Background(), fx.developer.ID, &CreateConnectionRequest{
		ProjectID:  fx.project.ID,
		InvestorID: fx.investor.ID,
		Message:    "following up again",
	})
	assert.ErrorIs(t, err, ErrDuplicateConnection)
}

func TestRespondAcceptOpensConversation(t *testing.T) {
	fx := newFixture(t)
	conn := fx.createRequest(t)

	note := "Impressive traction, let's talk."
	resolved, err := fx.service.Respond(context.Background(), fx.investor.ID, conn.ID, &RespondRequest{
		Accept: true, Message: &note,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, resolved.Status)
	assert.NotNil(t, resolved.RespondedAt)

	require.Len(t, fx.bootstrapper.calls, 1)
	call := fx.bootstrapper.calls[0]
	assert.Equal(t, fx.developer.ID, call.DeveloperID)
	assert.Equal(t, fx.investor.ID, call.InvestorID)
	assert.Equal(t, conn.ProjectID, call.ProjectID)
	assert.Equal(t, "DevMatch", call.ProjectTitle)
}

func TestRespondRejectSkipsConversation(t *testing.T) {
	fx := newFixture(t)
	conn := fx.createRequest(t)

	resolved, err := fx.service.Respond(context.Background(), fx.investor.ID, conn.ID, &RespondRequest{Accept: false})
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, resolved.Status)
	assert.Empty(t, fx.bootstrapper.calls)
}

func TestRespondOnlyTargetInvestor(t *testing.T) {
	fx := newFixture(t)
	conn := fx.createRequest(t)

	_, err := fx.service.Respond(context.Background(), fx.developer.ID, conn.ID, &RespondRequest{Accept: true})
	assert.ErrorIs(t, err, ErrNotTarget)

	_, err = fx.service.Respond(context.Background(), uuid.New(), conn.ID, &RespondRequest{Accept: true})
	assert.ErrorIs(t, err, ErrNotTarget)
}

func TestAcceptRetryHealsMissingConversation(t *testing.T) {
	fx := newFixture(t)
	flaky := &flakyBootstrapper{failures: 1}
	fx.service.chats = flaky

	conn := fx.createRequest(t)

	// The accept lands but the conversation bootstrap fails
	_, err := fx.service.Respond(context.Background(), fx.investor.ID, conn.ID, &RespondRequest{Accept: true})
	require.Error(t, err)

	stored, err := fx.repo.Get(context.Background(), conn.ID)
	require.NoError(t, err)
	require.Equal(t, StatusAccepted, stored.Status)
	assert.Empty(t, flaky.calls)

	// A repeat accept cannot flip the status, but it must re-run the
	// idempotent bootstrap so the conversation finally opens
	_, err = fx.service.Respond(context.Background(), fx.investor.ID, conn.ID, &RespondRequest{Accept: true})
	assert.ErrorIs(t, err, ErrAlreadyResolved)
	require.Len(t, flaky.calls, 1)
	assert.Equal(t, conn.ProjectID, flaky.calls[0].ProjectID)
}

func TestResolvedRequestsStayResolved(t *testing.T) {
	fx := newFixture(t)
	conn := fx.createRequest(t)

	_, err := fx.service.Respond(context.Background(), fx.investor.ID, conn.ID, &RespondRequest{Accept: false})
	require.NoError(t, err)

	// A rejected request cannot be flipped to accepted, and vice versa
	_, err = fx.service.Respond(context.Background(), fx.investor.ID, conn.ID, &RespondRequest{Accept: true})
	assert.ErrorIs(t, err, ErrAlreadyResolved)

	stored, err := fx.repo.Get(context.Background(), conn.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, stored.Status)
}

func TestLifecycleNotifications(t *testing.T) {
	fx := newFixture(t)
	conn := fx.createRequest(t)

	assert.Contains(t, fx.notifier.events[fx.investor.ID], EventRequestReceived)

	_, err := fx.service.Respond(context.Background(), fx.investor.ID, conn.ID, &RespondRequest{Accept: true})
	require.NoError(t, err)
	assert.Contains(t, fx.notifier.events[fx.developer.ID], EventRequestAccepted)
}

func TestStats(t *testing.T) {
	fx := newFixture(t)
	conn := fx.createRequest(t)

	stats, err := fx.service.Stats(context.Background(), fx.investor.ID)
	require.NoError(t, err)
	assert.Equal(t, &DashboardStats{Total: 1, Pending: 1}, stats)

	_, err = fx.service.Respond(context.Background(), fx.investor.ID, conn.ID, &RespondRequest{Accept: true})
	require.NoError(t, err)

	stats, err = fx.service.Stats(context.Background(), fx.investor.ID)
	require.NoError(t, err)
	assert.Equal(t, &DashboardStats{Total: 1, Accepted: 1}, stats)
}
