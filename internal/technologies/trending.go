package technologies

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// trendingTopN is how many feed entries carry the trending badge
const trendingTopN = 5

// TrendingRefresher recomputes the trending flags on a cron schedule
type TrendingRefresher struct {
	cron    *cron.Cron
	repo    Repository
	logger  *zap.Logger
	spec    string
	mu      sync.Mutex
	running bool
}

// NewTrendingRefresher creates a refresher with a six-field cron spec
// (seconds included), e.g. "0 0 * * * *" for hourly.
func NewTrendingRefresher(repo Repository, spec string, logger *zap.Logger) *TrendingRefresher {
	return &TrendingRefresher{
		cron:   cron.New(cron.WithSeconds()),
		repo:   repo,
		logger: logger,
		spec:   spec,
	}
}

// Start schedules the refresh job and runs it once immediately
func (t *TrendingRefresher) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return fmt.Errorf("trending refresher already running")
	}
	t.running = true
	t.mu.Unlock()

	if _, err := t.cron.AddFunc(t.spec, func() {
		t.refresh(context.Background())
	}); err != nil {
		return fmt.Errorf("failed to schedule trending refresh: %w", err)
	}

	t.logger.Info("Starting trending refresher", zap.String("spec", t.spec))
	t.cron.Start()

	// Initial pass so a fresh deployment has badges before the first tick
	go t.refresh(ctx)

	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (t *TrendingRefresher) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return
	}
	t.running = false

	t.logger.Info("Stopping trending refresher")
	<-t.cron.Stop().Done()
}

func (t *TrendingRefresher) refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	changed, err := t.repo.RefreshTrending(ctx, trendingTopN)
	if err != nil {
		t.logger.Error("Trending refresh failed", zap.Error(err))
		return
	}
	t.logger.Debug("Trending refresh complete", zap.Int64("rowsChanged", changed))
}
