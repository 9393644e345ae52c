// Package scheduler runs the background loop that fires due reminders.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"digitalbrain/internal/notify"
	"digitalbrain/internal/storage"
)

// DefaultPollInterval is how often the store is checked for due
// reminders when no interval is configured.
const DefaultPollInterval = 30 * time.Second

// Scheduler periodically fires due reminders. A reminder is marked
// sent even when delivery fails, so each fires at most once.
type Scheduler struct {
	reminders *storage.ReminderRepo
	entries   *storage.EntryRepo
	notifier  notify.Notifier
	interval  time.Duration
	now       func() time.Time
	logger    *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
	mu     sync.Mutex
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithInterval sets the poll interval.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithClock sets the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// New creates a Scheduler over the given repos and notifier.
func New(reminders *storage.ReminderRepo, entries *storage.EntryRepo, notifier notify.Notifier, opts ...Option) *Scheduler {
	s := &Scheduler{
		reminders: reminders,
		entries:   entries,
		notifier:  notifier,
		interval:  DefaultPollInterval,
		now:       time.Now,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the poll loop. It returns immediately; call Stop to
// shut the loop down. Starting twice is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.CheckDue(ctx)
			}
		}
	}()
	s.logger.Info("reminder scheduler started", "interval", s.interval)
}

// Stop cancels the poll loop and waits for it to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.logger.Info("reminder scheduler stopped")
}

// CheckDue fires every due unsent reminder once. Each reminder is
// marked sent regardless of delivery success, then its linked entry,
// if any, is removed.
func (s *Scheduler) CheckDue(ctx context.Context) {
	due, err := s.reminders.ListDue(ctx, s.now())
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list due reminders", "error", err)
		return
	}

	for _, rem := range due {
		if err := s.notifier.Send(ctx, rem.Message, rem.FireAt); err != nil {
			s.logger.WarnContext(ctx, "reminder delivery failed", "reminder_id", rem.ID, "error", err)
		}

		if err := s.reminders.MarkSent(ctx, rem.ID); err != nil {
			s.logger.ErrorContext(ctx, "failed to mark reminder sent", "reminder_id", rem.ID, "error", err)
			continue
		}

		if rem.EntryID != "" {
			if err := s.entries.Delete(ctx, rem.EntryID); err != nil {
				s.logger.WarnContext(ctx, "failed to delete reminded entry", "entry_id", rem.EntryID, "error", err)
			}
		}

		s.logger.InfoContext(ctx, "reminder fired", "reminder_id", rem.ID, "message", rem.Message)
	}
}
