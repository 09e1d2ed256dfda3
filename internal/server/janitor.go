package server

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/verte-zerg/cangtype/internal/dictionary"
)

// Janitor periodically removes stale dictionary rows from persistent storage.
type Janitor struct {
	scheduler *gocron.Scheduler
	cache     *dictionary.Cache
	log       *zap.Logger
}

// NewJanitor schedules Prune every interval. A nil cache yields a janitor with no jobs.
func NewJanitor(cache *dictionary.Cache, interval time.Duration, log *zap.Logger) (*Janitor, error) {
	if log == nil {
		log = zap.NewNop()
	}
	j := &Janitor{
		scheduler: gocron.NewScheduler(time.UTC),
		cache:     cache,
		log:       log,
	}
	if cache == nil {
		return j, nil
	}
	j.scheduler.SingletonModeAll()
	if _, err := j.scheduler.Every(interval).Do(j.prune); err != nil {
		return nil, err
	}
	return j, nil
}

// Start runs the scheduler in the background.
func (j *Janitor) Start() {
	j.scheduler.StartAsync()
}

// Stop halts the scheduler.
func (j *Janitor) Stop() {
	j.scheduler.Stop()
}

func (j *Janitor) prune() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	n, err := j.cache.Prune(ctx)
	if err != nil {
		j.log.Warn("dictionary prune failed", zap.Error(err))
		return
	}
	if n > 0 {
		j.log.Info("pruned dictionary cache", zap.Int64("rows", n))
	}
}
