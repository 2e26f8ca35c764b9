package workers

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Resyncer rolls stored state forward to the current day and reports how
// many records changed.
type Resyncer interface {
	Resync(ctx context.Context) (int, error)
}

type ResyncScheduler struct {
	scheduler *gocron.Scheduler
	interval  time.Duration
	targets   map[string]Resyncer
	ctx       context.Context
}

func NewResyncScheduler(loc *time.Location, interval time.Duration, targets map[string]Resyncer) *ResyncScheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &ResyncScheduler{
		scheduler: gocron.NewScheduler(loc),
		interval:  interval,
		targets:   targets,
		ctx:       context.Background(),
	}
}

// Start runs one pass right away and then every interval, until Stop or ctx
// is cancelled.
func (s *ResyncScheduler) Start(ctx context.Context) error {
	s.ctx = ctx
	if _, err := s.scheduler.Every(s.interval).Do(s.RunOnce); err != nil {
		return err
	}
	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	log.Printf("[RESYNC] Scheduler started (every %s)", s.interval)
	return nil
}

func (s *ResyncScheduler) Stop() {
	if s.scheduler.IsRunning() {
		s.scheduler.Stop()
		log.Println("[RESYNC] Scheduler stopped")
	}
}

func (s *ResyncScheduler) RunOnce() {
	for name, target := range s.targets {
		if s.ctx.Err() != nil {
			return
		}
		changed, err := target.Resync(s.ctx)
		if err != nil {
			log.Printf("[RESYNC] %s failed: %v", name, err)
			continue
		}
		if changed > 0 {
			log.Printf("[RESYNC] %s: %d records rolled forward", name, changed)
		}
	}
}
