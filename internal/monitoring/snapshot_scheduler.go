package monitoring

import (
	"fmt"
	"time"

	"github.com/notedeck/notedeck-be/internal/models"
	"github.com/notedeck/notedeck-be/internal/services"
	"github.com/notedeck/notedeck-be/internal/storage"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// SnapshotScheduler takes periodic snapshots of every namespace present under
// the userFiles root, driven by a standard cron expression.
type SnapshotScheduler struct {
	snapshotSvc services.SnapshotServiceProvider
	store       *storage.UserFileStore
	eventSvc    services.EventServiceProvider
	schedule    cron.Schedule
	nextRun     time.Time
	ticker      *time.Ticker
	done        chan bool
}

// NewSnapshotScheduler creates a scheduler from a cron expression. An empty
// expression disables scheduling and returns a nil scheduler.
func NewSnapshotScheduler(snapshotSvc services.SnapshotServiceProvider, store *storage.UserFileStore, eventSvc services.EventServiceProvider, cronExpr string) (*SnapshotScheduler, error) {
	if cronExpr == "" {
		return nil, nil
	}
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot cron expression %q: %w", cronExpr, err)
	}
	return &SnapshotScheduler{
		snapshotSvc: snapshotSvc,
		store:       store,
		eventSvc:    eventSvc,
		schedule:    schedule,
		nextRun:     schedule.Next(time.Now()),
		done:        make(chan bool),
	}, nil
}

// Run starts the scheduler's ticking loop.
func (s *SnapshotScheduler) Run() {
	log.Info().Time("next_run", s.nextRun).Msg("Starting snapshot scheduler...")
	s.ticker = time.NewTicker(1 * time.Minute)
	defer s.ticker.Stop()

	for {
		select {
		case <-s.done:
			log.Info().Msg("Stopping snapshot scheduler.")
			return
		case <-s.ticker.C:
			now := time.Now()
			if now.After(s.nextRun) {
				go s.snapshotAllNamespaces() // Run in a goroutine to not block the scheduler
				s.nextRun = s.schedule.Next(now)
			}
		}
	}
}

// Stop halts the scheduler.
func (s *SnapshotScheduler) Stop() {
	s.done <- true
}

// snapshotAllNamespaces archives each namespace directory found on disk.
func (s *SnapshotScheduler) snapshotAllNamespaces() {
	namespaces, err := s.store.Namespaces()
	if err != nil {
		log.Error().Err(err).Msg("Scheduler: Failed to enumerate namespaces")
		return
	}

	name := "Scheduled snapshot " + time.Now().Format("2006-01-02 15:04")
	for _, nsDir := range namespaces {
		ns := models.NamespaceFromDir(nsDir)
		if _, err := s.snapshotSvc.CreateSnapshot(ns, name); err != nil {
			log.Error().Err(err).Str("namespace", nsDir).Msg("Scheduler: Snapshot failed")
			msg := fmt.Sprintf("Scheduled snapshot of namespace '%s' failed: %v", nsDir, err)
			s.eventSvc.CreateEvent("snapshot.schedule.fail", "error", msg, &nsDir)
		}
	}
}
