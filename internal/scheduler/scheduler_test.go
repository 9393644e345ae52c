package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"digitalbrain/internal/storage"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []string
	fail bool
}

func (f *fakeNotifier) Send(ctx context.Context, message string, fireAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, message)
	if f.fail {
		return errors.New("smtp down")
	}
	return nil
}

func (f *fakeNotifier) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func newTestRepos(t *testing.T) (*storage.ReminderRepo, *storage.EntryRepo) {
	t.Helper()
	db, err := storage.New(t.TempDir() + "/test.db")
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := storage.Migrate(db); err != nil {
		t.Fatalf("storage.Migrate() error = %v", err)
	}
	return storage.NewReminderRepo(db), storage.NewEntryRepo(db)
}

func TestCheckDue_FiresOnce(t *testing.T) {
	reminders, entries := newTestRepos(t)
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	past := &storage.Reminder{Message: "llamar al dentista", FireAt: now.Add(-time.Minute)}
	future := &storage.Reminder{Message: "regar las plantas", FireAt: now.Add(time.Hour)}
	for _, rem := range []*storage.Reminder{past, future} {
		if err := reminders.Insert(ctx, rem); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	notifier := &fakeNotifier{}
	s := New(reminders, entries, notifier, WithClock(func() time.Time { return now }))

	s.CheckDue(ctx)
	s.CheckDue(ctx) // second poll must not re-fire

	got := notifier.messages()
	if len(got) != 1 || got[0] != "llamar al dentista" {
		t.Fatalf("sent = %v, want only the past reminder, once", got)
	}

	rem, err := reminders.GetByID(ctx, past.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if !rem.Sent {
		t.Error("fired reminder not marked sent")
	}
}

func TestCheckDue_MarksSentOnDeliveryFailure(t *testing.T) {
	reminders, entries := newTestRepos(t)
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	rem := &storage.Reminder{Message: "pagar alquiler", FireAt: now.Add(-time.Minute)}
	if err := reminders.Insert(ctx, rem); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	notifier := &fakeNotifier{fail: true}
	s := New(reminders, entries, notifier, WithClock(func() time.Time { return now }))

	s.CheckDue(ctx)
	s.CheckDue(ctx)

	if got := notifier.messages(); len(got) != 1 {
		t.Fatalf("delivery attempts = %d, want 1", len(got))
	}
	stored, _ := reminders.GetByID(ctx, rem.ID)
	if !stored.Sent {
		t.Error("failed delivery left reminder unsent")
	}
}

func TestCheckDue_DeletesLinkedEntry(t *testing.T) {
	reminders, entries := newTestRepos(t)
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	entry := &storage.Entry{Content: "cita dentista", Origin: "manual", Type: "note"}
	if err := entries.Insert(ctx, entry); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	rem := &storage.Reminder{Message: "cita dentista", FireAt: now.Add(-time.Minute), EntryID: entry.ID}
	if err := reminders.Insert(ctx, rem); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	s := New(reminders, entries, &fakeNotifier{}, WithClock(func() time.Time { return now }))
	s.CheckDue(ctx)

	if _, err := entries.GetByID(ctx, entry.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("linked entry still present after reminder fired")
	}
}

func TestStartStop(t *testing.T) {
	reminders, entries := newTestRepos(t)
	s := New(reminders, entries, &fakeNotifier{}, WithInterval(10*time.Millisecond))

	s.Start(context.Background())
	s.Start(context.Background()) // idempotent
	time.Sleep(30 * time.Millisecond)
	s.Stop()
	s.Stop() // idempotent
}
