package storage

import (
	"context"
	"database/sql"
	"testing"
	"time"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	tmpDir := t.TempDir()
	db, err := New(tmpDir + "/test.db")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return db
}

func TestEntryRepo_Insert(t *testing.T) {
	db := newTestDB(t)
	repo := NewEntryRepo(db)

	entry := &Entry{Content: "comprar leche", Origin: "manual", Type: "note"}
	if err := repo.Insert(context.Background(), entry); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	if entry.ID == "" {
		t.Error("Insert() should generate a UUID")
	}
	if entry.Status != StatusPending {
		t.Errorf("Insert() status = %q, want %q", entry.Status, StatusPending)
	}
	if entry.CreatedAt.IsZero() {
		t.Error("Insert() should set CreatedAt")
	}

	got, err := repo.GetByID(context.Background(), entry.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Content != "comprar leche" || got.Origin != "manual" {
		t.Errorf("GetByID() = %+v, want inserted fields back", got)
	}
}

func TestEntryRepo_Insert_DuplicateContent(t *testing.T) {
	db := newTestDB(t)
	repo := NewEntryRepo(db)

	first := &Entry{Content: "misma nota"}
	if err := repo.Insert(context.Background(), first); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	second := &Entry{Content: "misma nota"}
	err := repo.Insert(context.Background(), second)
	if err != ErrDuplicateContent {
		t.Fatalf("Insert() error = %v, want ErrDuplicateContent", err)
	}

	existing, err := repo.GetByContent(context.Background(), "misma nota")
	if err != nil {
		t.Fatalf("GetByContent() error = %v", err)
	}
	if existing.ID != first.ID {
		t.Errorf("GetByContent() ID = %q, want %q", existing.ID, first.ID)
	}
}

func TestEntryRepo_GetByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewEntryRepo(db)

	_, err := repo.GetByID(context.Background(), "missing")
	if err != ErrNotFound {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestEntryRepo_ListByStatusAndTags(t *testing.T) {
	db := newTestDB(t)
	repo := NewEntryRepo(db)

	entries := []*Entry{
		{Content: "idea uno", Status: StatusProcessed, Tags: "compras"},
		{Content: "idea dos", Status: StatusProcessed, Tags: "compras,super"},
		{Content: "idea tres", Status: StatusPending, Tags: "compras"},
		{Content: "idea cuatro", Status: StatusProcessed, Tags: "viajes"},
	}
	for _, e := range entries {
		if err := repo.Insert(context.Background(), e); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	tests := []struct {
		name   string
		status string
		tags   string
		want   int
	}{
		{name: "processed group only", status: StatusProcessed, tags: "compras", want: 1},
		{name: "processed with subgroup", status: StatusProcessed, tags: "compras,super", want: 1},
		{name: "pending", status: StatusPending, tags: "compras", want: 1},
		{name: "no match", status: StatusProcessed, tags: "salud", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.ListByStatusAndTags(context.Background(), tt.status, tt.tags)
			if err != nil {
				t.Fatalf("ListByStatusAndTags() error = %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("ListByStatusAndTags() count = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestEntryRepo_Update(t *testing.T) {
	db := newTestDB(t)
	repo := NewEntryRepo(db)

	entry := &Entry{Content: "nota original"}
	if err := repo.Insert(context.Background(), entry); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	now := time.Now().UTC()
	entry.Status = StatusProcessed
	entry.Summary = "resumen"
	entry.Tags = "ideas"
	entry.Destination = "/exports/ideas/nota.md"
	entry.ProcessedAt = &now

	if err := repo.Update(context.Background(), entry); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := repo.GetByID(context.Background(), entry.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != StatusProcessed || got.Summary != "resumen" || got.Destination != "/exports/ideas/nota.md" {
		t.Errorf("Update() persisted = %+v", got)
	}
	if got.ProcessedAt == nil {
		t.Error("Update() should persist ProcessedAt")
	}
}

func TestEntryRepo_Update_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewEntryRepo(db)

	err := repo.Update(context.Background(), &Entry{ID: "missing", Content: "x"})
	if err != ErrNotFound {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestEntryRepo_Delete_Idempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewEntryRepo(db)

	entry := &Entry{Content: "para borrar"}
	if err := repo.Insert(context.Background(), entry); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	if err := repo.Delete(context.Background(), entry.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	// Deleting again must be a no-op, not an error.
	if err := repo.Delete(context.Background(), entry.ID); err != nil {
		t.Fatalf("Delete() second call error = %v", err)
	}

	if _, err := repo.GetByID(context.Background(), entry.ID); err != ErrNotFound {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}
}

func TestEntryRepo_SearchLike(t *testing.T) {
	db := newTestDB(t)
	repo := NewEntryRepo(db)

	entries := []*Entry{
		{Content: "comprar leche y pan", Tags: "compras"},
		{Content: "reservar hotel", Summary: "hotel en Roma", Tags: "viajes"},
		{Content: "llamar al dentista", Tags: "salud"},
	}
	for _, e := range entries {
		if err := repo.Insert(context.Background(), e); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{name: "by content", query: "leche", want: 1},
		{name: "by summary", query: "Roma", want: 1},
		{name: "by tags", query: "salud", want: 1},
		{name: "no hits", query: "zzz", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.SearchLike(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("SearchLike() error = %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("SearchLike(%q) count = %d, want %d", tt.query, len(got), tt.want)
			}
		})
	}
}

func TestSplitTags(t *testing.T) {
	tests := []struct {
		name         string
		tags         string
		wantGroup    string
		wantSubgroup string
	}{
		{name: "group only", tags: "compras", wantGroup: "compras"},
		{name: "group and subgroup", tags: "compras,super", wantGroup: "compras", wantSubgroup: "super"},
		{name: "spaced segments", tags: "compras, super", wantGroup: "compras", wantSubgroup: "super"},
		{name: "empty", tags: "", wantGroup: "", wantSubgroup: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			group, subgroup := SplitTags(tt.tags)
			if group != tt.wantGroup || subgroup != tt.wantSubgroup {
				t.Errorf("SplitTags(%q) = (%q, %q), want (%q, %q)",
					tt.tags, group, subgroup, tt.wantGroup, tt.wantSubgroup)
			}
		})
	}
}

func TestJoinTags_RoundTrip(t *testing.T) {
	group, subgroup := SplitTags(JoinTags("compras", "super"))
	if group != "compras" || subgroup != "super" {
		t.Errorf("round trip = (%q, %q)", group, subgroup)
	}
}
