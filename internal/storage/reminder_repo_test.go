package storage

import (
	"context"
	"testing"
	"time"
)

func TestReminderRepo_InsertAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewReminderRepo(db)

	fireAt := time.Date(2024, 1, 2, 18, 0, 0, 0, time.UTC)
	rem := &Reminder{Message: "sacar la basura", FireAt: fireAt, EntryID: "entry-1"}
	if err := repo.Insert(context.Background(), rem); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if rem.ID == "" {
		t.Error("Insert() should generate a UUID")
	}

	got, err := repo.GetByID(context.Background(), rem.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Message != "sacar la basura" || got.EntryID != "entry-1" || got.Sent {
		t.Errorf("GetByID() = %+v", got)
	}
	if !got.FireAt.Equal(fireAt) {
		t.Errorf("GetByID() FireAt = %v, want %v", got.FireAt, fireAt)
	}
}

func TestReminderRepo_NoLinkedEntry(t *testing.T) {
	db := newTestDB(t)
	repo := NewReminderRepo(db)

	rem := &Reminder{Message: "sin entrada", FireAt: time.Now().UTC()}
	if err := repo.Insert(context.Background(), rem); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	got, err := repo.GetByID(context.Background(), rem.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.EntryID != "" {
		t.Errorf("GetByID() EntryID = %q, want empty", got.EntryID)
	}
}

func TestReminderRepo_ListDue(t *testing.T) {
	db := newTestDB(t)
	repo := NewReminderRepo(db)

	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	past := &Reminder{Message: "vencido", FireAt: now.Add(-time.Hour)}
	exact := &Reminder{Message: "justo ahora", FireAt: now}
	future := &Reminder{Message: "futuro", FireAt: now.Add(time.Hour)}
	sent := &Reminder{Message: "ya enviado", FireAt: now.Add(-2 * time.Hour), Sent: true}
	for _, rem := range []*Reminder{past, exact, future, sent} {
		if err := repo.Insert(context.Background(), rem); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	due, err := repo.ListDue(context.Background(), now)
	if err != nil {
		t.Fatalf("ListDue() error = %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("ListDue() count = %d, want 2", len(due))
	}
	for _, rem := range due {
		if rem.Message == "futuro" || rem.Message == "ya enviado" {
			t.Errorf("ListDue() returned %q", rem.Message)
		}
	}
}

func TestReminderRepo_MarkSent(t *testing.T) {
	db := newTestDB(t)
	repo := NewReminderRepo(db)

	rem := &Reminder{Message: "una vez", FireAt: time.Now().UTC().Add(-time.Minute)}
	if err := repo.Insert(context.Background(), rem); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	if err := repo.MarkSent(context.Background(), rem.ID); err != nil {
		t.Fatalf("MarkSent() error = %v", err)
	}

	due, err := repo.ListDue(context.Background(), time.Now().UTC())
	if err != nil {
		t.Fatalf("ListDue() error = %v", err)
	}
	if len(due) != 0 {
		t.Errorf("ListDue() after MarkSent count = %d, want 0", len(due))
	}

	if err := repo.MarkSent(context.Background(), "missing"); err != ErrNotFound {
		t.Errorf("MarkSent() on missing error = %v, want ErrNotFound", err)
	}
}

func TestReminderRepo_ListFiltered(t *testing.T) {
	db := newTestDB(t)
	repo := NewReminderRepo(db)

	unsent := &Reminder{Message: "pendiente", FireAt: time.Now().UTC()}
	done := &Reminder{Message: "hecho", FireAt: time.Now().UTC(), Sent: true}
	for _, rem := range []*Reminder{unsent, done} {
		if err := repo.Insert(context.Background(), rem); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	all, err := repo.List(context.Background(), nil)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("List(nil) count = %d, want 2", len(all))
	}

	f := false
	pending, err := repo.List(context.Background(), &f)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(pending) != 1 || pending[0].Message != "pendiente" {
		t.Errorf("List(sent=false) = %+v", pending)
	}
}

func TestReminderRepo_Delete_Idempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewReminderRepo(db)

	rem := &Reminder{Message: "borrar", FireAt: time.Now().UTC()}
	if err := repo.Insert(context.Background(), rem); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	if err := repo.Delete(context.Background(), rem.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := repo.Delete(context.Background(), rem.ID); err != nil {
		t.Fatalf("Delete() second call error = %v", err)
	}
}

func TestSummaryRepo_Upsert(t *testing.T) {
	db := newTestDB(t)
	repo := NewSummaryRepo(db)

	if err := repo.Upsert(context.Background(), "viajes", "", "primer resumen"); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := repo.Upsert(context.Background(), "viajes", "", "resumen actualizado"); err != nil {
		t.Fatalf("Upsert() second error = %v", err)
	}
	if err := repo.Upsert(context.Background(), "viajes", "playa", "resumen de playa"); err != nil {
		t.Fatalf("Upsert() subgroup error = %v", err)
	}

	got, err := repo.Get(context.Background(), "viajes", "")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Summary != "resumen actualizado" {
		t.Errorf("Get() summary = %q, want updated text", got.Summary)
	}

	all, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("List() count = %d, want 2", len(all))
	}
}
