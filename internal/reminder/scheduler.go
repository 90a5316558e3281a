// Package reminder implements the medication reminder scheduler: a
// fixed-interval clock check that fires one notification per medication per
// calendar day and resets the fired flags at midnight.
package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/just-rehan/vitality-companion/internal/tracker"
	"go.uber.org/zap"
)

// Notifier receives a reminder when a medication's scheduled time arrives
type Notifier interface {
	Notify(med tracker.Medication)
}

// NotifierFunc adapts a function to the Notifier interface
type NotifierFunc func(med tracker.Medication)

func (f NotifierFunc) Notify(med tracker.Medication) { f(med) }

// Scheduler polls the wall clock and compares it to each medication's
// scheduled HH:MM. The interval must stay at or below a minute; with a
// longer interval a scheduled minute could pass between ticks and the
// reminder would be silently skipped. If the process is asleep at the
// scheduled minute the reminder is missed for the day: there is no
// catch-up, and the midnight reset likewise only happens if a tick lands
// while the process is alive at 00:00.
type Scheduler struct {
	tracker  *tracker.Tracker
	notifier Notifier
	logger   *zap.Logger
	interval time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// New creates a scheduler with the default 15-second check interval
func New(tr *tracker.Tracker, notifier Notifier, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		tracker:  tr,
		notifier: notifier,
		logger:   logger,
		interval: 15 * time.Second,
		stopCh:   make(chan struct{}),
	}
}

// WithInterval sets the check interval
func (s *Scheduler) WithInterval(interval time.Duration) *Scheduler {
	s.interval = interval
	return s
}

// Start starts the scheduler loop
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("scheduler already running")
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	s.logger.Info("Starting reminder scheduler", zap.Duration("interval", s.interval))

	s.wg.Add(1)
	go s.run(ctx)

	return nil
}

// Stop stops the scheduler and waits for the loop to exit
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("Reminder scheduler stopped")
}

// IsRunning returns true if the scheduler loop is active
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.Tick(time.Now())
		}
	}
}

// Tick runs one clock check at the given instant. It is the whole unit of
// scheduler behavior, exported so tests can drive simulated time.
func (s *Scheduler) Tick(now time.Time) {
	current := now.Format("15:04")

	for _, med := range s.tracker.Medications() {
		if med.Time != current || med.ReminderSent {
			continue
		}

		sent := true
		if _, err := s.tracker.UpdateMedication(med.ID, tracker.MedicationPatch{ReminderSent: &sent}); err != nil {
			s.logger.Error("Failed to mark reminder sent",
				zap.String("medication_id", med.ID),
				zap.Error(err),
			)
			continue
		}

		s.logger.Info("Medication reminder fired",
			zap.String("medication_id", med.ID),
			zap.String("name", med.Name),
			zap.String("time", med.Time),
		)
		if s.notifier != nil {
			s.notifier.Notify(med)
		}
	}

	if current == "00:00" {
		if err := s.tracker.ResetAllReminders(); err != nil {
			s.logger.Error("Failed to reset reminder flags", zap.Error(err))
		}
	}
}
