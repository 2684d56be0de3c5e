package scheduler

import (
	"time"

	"github.com/ikkim/tene-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Evictor drops in-memory carts that have been idle longer than ttl
type Evictor interface {
	EvictIdle(ttl time.Duration) int
}

// SnapshotPurger deletes stored carts last written before cutoff
type SnapshotPurger interface {
	DeleteOlderThan(cutoff time.Time) (int64, error)
}

// CartEvictionScheduler periodically frees idle carts. Evicted carts are
// rehydrated from storage on the next request.
type CartEvictionScheduler struct {
	cron      *cron.Cron
	spec      string
	evictor   Evictor
	idleTTL   time.Duration
	purger    SnapshotPurger
	retention time.Duration
	now       func() time.Time
}

// NewCartEvictionScheduler runs on spec ("@every 5m", "*/10 * * * *").
// purger may be nil; snapshots are then left to the storage backend.
func NewCartEvictionScheduler(spec string, evictor Evictor, idleTTL time.Duration, purger SnapshotPurger, retention time.Duration) *CartEvictionScheduler {
	return &CartEvictionScheduler{
		cron:      cron.New(),
		spec:      spec,
		evictor:   evictor,
		idleTTL:   idleTTL,
		purger:    purger,
		retention: retention,
		now:       time.Now,
	}
}

// Start registers the job and starts the cron loop
func (s *CartEvictionScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.RunOnce)
	if err != nil {
		logger.Error("Failed to add cron job for cart eviction", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Cart eviction scheduler started", map[string]interface{}{
		"spec":     s.spec,
		"idle_ttl": s.idleTTL.String(),
	})
	return nil
}

// RunOnce evicts idle carts and purges expired snapshots
func (s *CartEvictionScheduler) RunOnce() {
	evicted := s.evictor.EvictIdle(s.idleTTL)
	if evicted > 0 {
		logger.Info("Evicted idle carts", map[string]interface{}{
			"count": evicted,
		})
	}

	if s.purger == nil || s.retention <= 0 {
		return
	}
	purged, err := s.purger.DeleteOlderThan(s.now().Add(-s.retention))
	if err != nil {
		logger.Error("Failed to purge expired cart snapshots", err)
		return
	}
	if purged > 0 {
		logger.Info("Purged expired cart snapshots", map[string]interface{}{
			"count": purged,
		})
	}
}

// Stop waits for a running job to finish
func (s *CartEvictionScheduler) Stop() {
	logger.Info("Stopping cart eviction scheduler...", nil)
	<-s.cron.Stop().Done()
	logger.Info("Cart eviction scheduler stopped", nil)
}
