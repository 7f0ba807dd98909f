package connections

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"devlink/portal/portal-backend/internal/auth"
	"devlink/portal/portal-backend/internal/chat"
	"devlink/portal/portal-backend/internal/projects"
)

// Service errors
var (
	ErrConnectionNotFound  = errors.New("connection not found")
	ErrDuplicateConnection = errors.New("connection request already sent")
	ErrNotInvestor         = errors.New("target user is not an investor")
	ErrNotTarget           = errors.New("not the request's target investor")
	ErrAlreadyResolved     = errors.New("connection request already resolved")
	ErrEmptyMessage        = errors.New("request message is empty")
	ErrProjectNotFinalized = errors.New("project must be finalized before outreach")
)

// UserDirectory resolves users for role checks and display names
type UserDirectory interface {
	GetUser(ctx context.Context, id uuid.UUID) (*auth.User, error)
}

// ProjectDirectory resolves projects owned by the caller
type ProjectDirectory interface {
	Get(ctx context.Context, userID, projectID uuid.UUID) (*projects.Project, error)
}

// ConversationBootstrapper opens the chat thread for an accepted request
type ConversationBootstrapper interface {
	Bootstrap(ctx context.Context, params *chat.BootstrapParams) (*chat.Conversation, error)
}

// Notifier pushes lifecycle events to the affected user. Nil disables push.
type Notifier interface {
	Notify(userID uuid.UUID, event string, payload interface{})
}

// Events emitted through the notifier
const (
	EventRequestReceived = "connection.received"
	EventRequestAccepted = "connection.accepted"
	EventRequestRejected = "connection.rejected"
)

// Service manages the connection request lifecycle. Requests flow one way,
// from a project owner to an investor, and resolve exactly once.
type Service struct {
	repo     Repository
	users    UserDirectory
	projects ProjectDirectory
	chats    ConversationBootstrapper
	notifier Notifier
	logger   *zap.Logger
}

// NewService creates the connection service
func NewService(repo Repository, users UserDirectory, projectDir ProjectDirectory, chats ConversationBootstrapper, notifier Notifier, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		projects: projectDir,
		chats:    chats,
		notifier: notifier,
		logger:   logger,
	}
}

// Create sends a request from the caller, who must own the finalized
// project, to the target investor. The project is snapshotted into the
// request as it stands right now.
func (s *Service) Create(ctx context.Context, requesterID uuid.UUID, req *CreateConnectionRequest) (*Connection, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrEmptyMessage
	}

	project, err := s.projects.Get(ctx, requesterID, req.ProjectID)
	if err != nil {
		return nil, err
	}
	if !project.IsFinalized {
		return nil, ErrProjectNotFinalized
	}

	investor, err := s.users.GetUser(ctx, req.InvestorID)
	if err != nil {
		return nil, err
	}
	if investor.Role != auth.RoleInvestor {
		return nil, ErrNotInvestor
	}

	requester, err := s.users.GetUser(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	conn := &Connection{
		ID:            uuid.New(),
		ProjectID:     project.ID,
		RequesterID:   requesterID,
		RequesterName: requester.Name,
		InvestorID:    investor.ID,
		Status:        StatusPending,
		Message:       req.Message,
		ProjectData:   snapshotProject(project),
		CreatedAt:     time.Now(),
	}
	if err := s.repo.Create(ctx, conn); err != nil {
		return nil, err
	}

	s.logger.Info("Connection request sent",
		zap.String("connectionId", conn.ID.String()),
		zap.String("projectId", project.ID.String()),
		zap.String("investorId", investor.ID.String()))

	if s.notifier != nil {
		s.notifier.Notify(investor.ID, EventRequestReceived, conn)
	}

	return conn, nil
}

// Respond resolves a pending request. Only the target investor may respond,
// and a resolved request never changes again. Accepting opens the chat
// conversation; the bootstrap is idempotent, so a retry after a partial
// failure converges on one thread.
func (s *Service) Respond(ctx context.Context, investorID, connectionID uuid.UUID, req *RespondRequest) (*Connection, error) {
	conn, err := s.repo.Get(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return nil, ErrConnectionNotFound
	}
	if conn.InvestorID != investorID {
		return nil, ErrNotTarget
	}
	if conn.Status != StatusPending {
		// An accept whose conversation bootstrap failed leaves the request
		// resolved with no thread. The bootstrap is idempotent, so re-running
		// it on a repeat response heals that case before reporting the
		// conflict.
		if conn.Status == StatusAccepted {
			if err := s.openConversation(ctx, conn); err != nil {
				return nil, err
			}
		}
		return nil, ErrAlreadyResolved
	}

	status := StatusRejected
	if req.Accept {
		status = StatusAccepted
	}

	now := time.Now()
	resolved, err := s.repo.Resolve(ctx, connectionID, status, req.Message, now)
	if err != nil {
		return nil, err
	}
	if !resolved {
		// Lost the race to a concurrent response
		return nil, ErrAlreadyResolved
	}

	conn.Status = status
	conn.ResponseMessage = req.Message
	conn.RespondedAt = &now

	if status == StatusAccepted {
		if err := s.openConversation(ctx, conn); err != nil {
			return nil, err
		}
	}

	s.logger.Info("Connection request resolved",
		zap.String("connectionId", connectionID.String()),
		zap.String("status", string(status)))

	if s.notifier != nil {
		event := EventRequestRejected
		if status == StatusAccepted {
			event = EventRequestAccepted
		}
		s.notifier.Notify(conn.RequesterID, event, conn)
	}

	return conn, nil
}

func (s *Service) openConversation(ctx context.Context, conn *Connection) error {
	investor, err := s.users.GetUser(ctx, conn.InvestorID)
	if err != nil {
		return err
	}
	developer, err := s.users.GetUser(ctx, conn.RequesterID)
	if err != nil {
		return err
	}

	_, err = s.chats.Bootstrap(ctx, &chat.BootstrapParams{
		DeveloperID:  conn.RequesterID,
		InvestorID:   conn.InvestorID,
		ProjectID:    conn.ProjectID,
		ProjectTitle: conn.ProjectData.Title,
		Details: chat.ParticipantDetails{
			developer.ID.String(): {Name: developer.Name, Role: string(developer.Role)},
			investor.ID.String():  {Name: investor.Name, Role: string(investor.Role)},
		},
	})
	return err
}

// Inbox lists requests targeting the investor
func (s *Service) Inbox(ctx context.Context, investorID uuid.UUID, filters *ListFilters) ([]*Connection, error) {
	return s.repo.ListForInvestor(ctx, investorID, filters)
}

// Outbox lists requests the developer has sent
func (s *Service) Outbox(ctx context.Context, requesterID uuid.UUID, filters *ListFilters) ([]*Connection, error) {
	return s.repo.ListForRequester(ctx, requesterID, filters)
}

// Stats summarizes the investor's inbox for the dashboard
func (s *Service) Stats(ctx context.Context, investorID uuid.UUID) (*DashboardStats, error) {
	return s.repo.StatsForInvestor(ctx, investorID)
}

func snapshotProject(p *projects.Project) ProjectSnapshot {
	snap := ProjectSnapshot{
		Title:       p.Title,
		Description: p.Description,
		Technology:  p.Technology.Title,
		Status:      string(p.Status),
		Progress:    p.Progress,
		TechStack:   append([]string(nil), p.TechStack...),
	}
	if p.Repository != nil {
		snap.Repository = *p.Repository
	}
	if p.Demo != nil {
		snap.Demo = *p.Demo
	}
	return snap
}
