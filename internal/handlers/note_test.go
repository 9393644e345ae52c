package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"digitalbrain/internal/ai"
	"digitalbrain/internal/export"
	"digitalbrain/internal/handlers"
	"digitalbrain/internal/service"
	"digitalbrain/internal/service/mocks"
	"digitalbrain/internal/storage"

	"go.uber.org/mock/gomock"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestService(t *testing.T, ctrl *gomock.Controller) (*service.NoteService, *mocks.MockAIClient, *storage.EntryRepo) {
	t.Helper()

	db, err := storage.New(t.TempDir() + "/test.db")
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := storage.Migrate(db); err != nil {
		t.Fatalf("storage.Migrate() error = %v", err)
	}

	entries := storage.NewEntryRepo(db)
	aiMock := mocks.NewMockAIClient(ctrl)
	svc := service.NewNoteService(service.Deps{
		Entries:   entries,
		Reminders: storage.NewReminderRepo(db),
		Summaries: storage.NewSummaryRepo(db),
		AI:        aiMock,
		Exporter:  export.NewMarkdownExporter(t.TempDir()),
	})
	return svc, aiMock, entries
}

func TestNoteHandler_Submit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, aiMock, _ := newTestService(t, ctrl)
	handler := handlers.NewNoteHandler(svc)

	aiMock.EXPECT().
		Classify(gomock.Any(), "apunta comprar leche", gomock.Any(), "es").
		Return([]ai.Result{{MakesSense: true, Action: "add", Group: "compras", Idea: "comprar leche"}}, nil)

	body, _ := json.Marshal(handlers.NoteRequest{Text: "apunta comprar leche", Lang: "es"})
	req := httptest.NewRequest(http.MethodPost, "/api/note", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Submit(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp handlers.NoteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Action != "add" {
		t.Fatalf("results = %+v", resp.Results)
	}
	if resp.Results[0].Entry == nil || resp.Results[0].Entry.Tags != "compras" {
		t.Errorf("entry = %+v", resp.Results[0].Entry)
	}
}

func TestNoteHandler_Submit_InvalidBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, _, _ := newTestService(t, ctrl)
	handler := handlers.NewNoteHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/note", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	handler.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestNoteHandler_Submit_EmptyText(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, _, _ := newTestService(t, ctrl)
	handler := handlers.NewNoteHandler(svc)

	body, _ := json.Marshal(handlers.NoteRequest{Text: "  "})
	req := httptest.NewRequest(http.MethodPost, "/api/note", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestNoteHandler_BatchSave(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, _, entries := newTestService(t, ctrl)
	handler := handlers.NewNoteHandler(svc)

	payload := `{"origin":"import","items":[{"idea":"comprar leche","group":"compras"},{"idea":"comprar huevos","group":"compras"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/batch-save", bytes.NewReader([]byte(payload)))
	rec := httptest.NewRecorder()
	handler.BatchSave(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp handlers.BatchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.Saved != 2 {
		t.Errorf("saved = %d, want 2", resp.Saved)
	}

	stored, _ := entries.ListByStatus(context.Background(), storage.StatusProcessed)
	if len(stored) != 2 {
		t.Errorf("store holds %d entries", len(stored))
	}
}

func TestInboxHandler_Lifecycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, _, _ := newTestService(t, ctrl)
	handler := handlers.NewInboxHandler(svc)

	r := chi.NewRouter()
	r.Post("/api/inbox", handler.Create)
	r.Get("/api/inbox", handler.List)
	r.Get("/api/inbox/{id}", handler.Get)
	r.Delete("/api/inbox/{id}", handler.Discard)

	body := []byte(`{"content":"una nota pendiente","origin":"manual"}`)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/inbox", bytes.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var created handlers.EntryOut
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("invalid create response: %v", err)
	}

	// Duplicate content conflicts.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/inbox", bytes.NewReader(body)))
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate create status = %d, want 409", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/inbox", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var listed []handlers.EntryOut
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("invalid list response: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("inbox holds %d entries, want 1", len(listed))
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/inbox/"+created.ID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("discard status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/inbox", nil))
	listed = nil
	_ = json.Unmarshal(rec.Body.Bytes(), &listed)
	if len(listed) != 0 {
		t.Errorf("discarded entry still listed")
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/inbox/unknown-id", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("get unknown status = %d, want 404", rec.Code)
	}
}
