package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/meteobridge/swissweather/internal/weather"
)

// cycleTimeout bounds one update cycle's outbound fetches.
const cycleTimeout = 60 * time.Second

// Scheduler periodically runs the weather and pollen update cycles. Fetches
// run inside the scheduler's own goroutines, off any latency-sensitive path.
type Scheduler struct {
	scheduler      *gocron.Scheduler
	service        *weather.Service
	interval       time.Duration
	pollenInterval time.Duration
	pollenEnabled  bool
}

// New creates a Scheduler. The pollen job is only scheduled when
// pollenEnabled is set.
func New(service *weather.Service, interval, pollenInterval time.Duration, pollenEnabled bool) *Scheduler {
	return &Scheduler{
		scheduler:      gocron.NewScheduler(time.UTC),
		service:        service,
		interval:       interval,
		pollenInterval: pollenInterval,
		pollenEnabled:  pollenEnabled,
	}
}

// Start schedules the periodic jobs and starts the underlying scheduler.
// The first run of each job fires immediately.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 10
	}

	_, err := s.scheduler.Every(minutes).Minutes().StartImmediately().Do(func() {
		log.Println("scheduler: running weather update cycle")

		ctx, cancel := context.WithTimeout(context.Background(), cycleTimeout)
		defer cancel()

		if err := s.service.UpdateWeather(ctx); err != nil {
			log.Printf("scheduler: weather update failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	if s.pollenEnabled {
		pollenMinutes := int(s.pollenInterval.Minutes())
		if pollenMinutes <= 0 {
			pollenMinutes = 60
		}

		_, err := s.scheduler.Every(pollenMinutes).Minutes().StartImmediately().Do(func() {
			log.Println("scheduler: running pollen update cycle")

			ctx, cancel := context.WithTimeout(context.Background(), cycleTimeout)
			defer cancel()

			if err := s.service.UpdatePollen(ctx); err != nil {
				log.Printf("scheduler: pollen update failed: %v", err)
			}
		})
		if err != nil {
			return err
		}
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
