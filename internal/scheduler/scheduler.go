package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Refresher re-resolves stored forecasts for trips inside the horizon.
type Refresher interface {
	RefreshForecasts(ctx context.Context, horizonDays int) (int, error)
}

// Scheduler periodically refreshes the forecasts of upcoming trips.
type Scheduler struct {
	scheduler   *gocron.Scheduler
	refresher   Refresher
	interval    time.Duration
	horizonDays int
	timeout     time.Duration
}

// New creates a new Scheduler.
func New(refresher Refresher, interval time.Duration, horizonDays int) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler:   s,
		refresher:   refresher,
		interval:    interval,
		horizonDays: horizonDays,
		timeout:     2 * time.Minute,
	}
}

// Start schedules the refresh job and starts the underlying scheduler. The
// first run happens immediately.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		log.Println("scheduler: refresh interval disabled; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 1
	}

	_, err := s.scheduler.Every(minutes).Minutes().SingletonMode().Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) run() {
	log.Println("scheduler: running forecast refresh job")

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	n, err := s.refresher.RefreshForecasts(ctx, s.horizonDays)
	if err != nil {
		log.Printf("scheduler: forecast refresh failed after %d trips: %v", n, err)
		return
	}
	log.Printf("scheduler: refreshed forecasts for %d trips", n)
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
