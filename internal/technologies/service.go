package technologies

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Service errors
var (
	ErrTechnologyNotFound = errors.New("technology not found")
	ErrInvalidComplexity  = errors.New("invalid complexity")
)

// Service exposes the technology discovery feed
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates the technology service
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List returns feed entries, most popular first
func (s *Service) List(ctx context.Context, filters *ListFilters) ([]*Technology, error) {
	return s.repo.List(ctx, filters)
}

// Get returns one technology
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Technology, error) {
	tech, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if tech == nil {
		return nil, ErrTechnologyNotFound
	}
	return tech, nil
}

// Submit adds a user-submitted technology to the feed. Submissions start
// unranked and pick up a trending flag only through the refresh job.
func (s *Service) Submit(ctx context.Context, req *SubmitRequest) (*Technology, error) {
	complexity := req.Complexity
	switch complexity {
	case "":
		complexity = ComplexityBeginner
	case ComplexityBeginner, ComplexityIntermediate, ComplexityAdvanced:
	default:
		return nil, ErrInvalidComplexity
	}

	now := time.Now()
	tech := &Technology{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Tags:        pq.StringArray(req.Tags),
		Complexity:  complexity,
		Website:     req.Website,
		Source:      "community",
		PublishedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, tech); err != nil {
		return nil, err
	}

	s.logger.Info("Technology submitted",
		zap.String("technologyId", tech.ID.String()),
		zap.String("title", tech.Title))
	return tech, nil
}

// SeedIfEmpty inserts the sample feed when the table has no rows. New
// deployments get a usable discovery page without an external data source.
func (s *Service) SeedIfEmpty(ctx context.Context) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, tech := range sampleTechnologies() {
		if err := s.repo.Create(ctx, tech); err != nil {
			return err
		}
	}

	s.logger.Info("Seeded technology feed", zap.Int("count", len(sampleTechnologies())))
	return nil
}

func sampleTechnologies() []*Technology {
	now := time.Now()
	entries := []struct {
		title       string
		description string
		category    string
		tags        []string
		complexity  Complexity
		popularity  int
		website     string
	}{
		{
			"LangChain", "Framework for building applications powered by large language models, with chains, agents and retrieval built in.",
			"AI/ML", []string{"LLM", "Python", "Agents"}, ComplexityIntermediate, 95, "https://langchain.com",
		},
		{
			"Supabase", "Open source Firebase alternative with Postgres, auth, storage and realtime subscriptions.",
			"Backend", []string{"Postgres", "Auth", "Realtime"}, ComplexityBeginner, 92, "https://supabase.com",
		},
		{
			"Bun", "Fast all-in-one JavaScript runtime with a bundler, test runner and package manager.",
			"Runtime", []string{"JavaScript", "TypeScript"}, ComplexityBeginner, 88, "https://bun.sh",
		},
		{
			"Tauri", "Build smaller, faster desktop applications with a web frontend and a Rust core.",
			"Desktop", []string{"Rust", "WebView"}, ComplexityAdvanced, 84, "https://tauri.app",
		},
		{
			"Qdrant", "Vector similarity search engine for neural search applications and RAG pipelines.",
			"AI/ML", []string{"Vector DB", "Search", "RAG"}, ComplexityIntermediate, 81, "https://qdrant.tech",
		},
		{
			"HTMX", "Access modern browser features directly from HTML attributes, without writing JavaScript.",
			"Frontend", []string{"HTML", "Hypermedia"}, ComplexityBeginner, 78, "https://htmx.org",
		},
		{
			"Temporal", "Durable execution platform for writing failure-proof workflows as ordinary code.",
			"Backend", []string{"Workflows", "Distributed Systems"}, ComplexityAdvanced, 74, "https://temporal.io",
		},
		{
			"Astro", "Web framework for content-driven sites that ships zero JavaScript by default.",
			"Frontend", []string{"SSG", "Islands"}, ComplexityBeginner, 71, "https://astro.build",
		},
	}

	techs := make([]*Technology, 0, len(entries))
	for i, e := range entries {
		techs = append(techs, &Technology{
			ID:          uuid.New(),
			Title:       e.title,
			Description: e.description,
			Category:    e.category,
			Tags:        e.tags,
			Complexity:  e.complexity,
			Popularity:  e.popularity,
			Website:     e.website,
			Source:      "curated",
			PublishedAt: now.AddDate(0, 0, -i),
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	return techs
}
