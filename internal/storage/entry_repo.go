package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateContent is returned when an insert violates the
	// uniqueness constraint on entry content. Callers recover by
	// re-querying the pre-existing row.
	ErrDuplicateContent = errors.New("entry content already exists")
)

const entryColumns = "id, content, origin, type, summary, tags, status, source_url, destination, created_at, processed_at"

// EntryRepo provides persistence for entries.
type EntryRepo struct {
	db *sql.DB
}

// NewEntryRepo creates a new EntryRepo.
func NewEntryRepo(db *sql.DB) *EntryRepo {
	return &EntryRepo{db: db}
}

// Insert stores a new entry. A missing ID, status or created-at is
// filled in. Returns ErrDuplicateContent when the content is already
// stored.
func (r *EntryRepo) Insert(ctx context.Context, e *Entry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Status == "" {
		e.Status = StatusPending
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	var processedAt any
	if e.ProcessedAt != nil {
		processedAt = *e.ProcessedAt
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO entries (`+entryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Content, e.Origin, e.Type, e.Summary, e.Tags, e.Status, e.SourceURL, e.Destination, e.CreatedAt, processedAt,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return ErrDuplicateContent
		}
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

// GetByID returns the entry with the given ID, or ErrNotFound.
func (r *EntryRepo) GetByID(ctx context.Context, id string) (*Entry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE id = ?`, id)
	return scanEntry(row)
}

// GetByContent returns the entry with exactly the given content, or
// ErrNotFound. Used to recover from uniqueness conflicts.
func (r *EntryRepo) GetByContent(ctx context.Context, content string) (*Entry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE content = ?`, content)
	return scanEntry(row)
}

// ListByStatus returns all entries with the given status in creation order.
func (r *EntryRepo) ListByStatus(ctx context.Context, status string) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE status = ? ORDER BY created_at, id`, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return scanEntries(rows)
}

// ListByStatusAndTags returns entries with the given status and exact
// tag path string, in creation order.
func (r *EntryRepo) ListByStatusAndTags(ctx context.Context, status, tags string) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE status = ? AND tags = ? ORDER BY created_at, id`, status, tags)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries by tags: %w", err)
	}
	return scanEntries(rows)
}

// SearchLike returns entries whose content, tags or summary contain the
// given text.
func (r *EntryRepo) SearchLike(ctx context.Context, q string) ([]Entry, error) {
	pattern := "%" + q + "%"
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM entries
		 WHERE content LIKE ? OR tags LIKE ? OR summary LIKE ?
		 ORDER BY created_at, id`, pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search entries: %w", err)
	}
	return scanEntries(rows)
}

// Update persists all mutable fields of the entry.
func (r *EntryRepo) Update(ctx context.Context, e *Entry) error {
	var processedAt any
	if e.ProcessedAt != nil {
		processedAt = *e.ProcessedAt
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE entries SET content = ?, origin = ?, type = ?, summary = ?, tags = ?, status = ?,
		 source_url = ?, destination = ?, processed_at = ? WHERE id = ?`,
		e.Content, e.Origin, e.Type, e.Summary, e.Tags, e.Status, e.SourceURL, e.Destination, processedAt, e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an entry. Deleting an absent entry is a no-op:
// deletions must stay idempotent under racing removal paths.
func (r *EntryRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var e Entry
	var processedAt sql.NullTime
	err := row.Scan(&e.ID, &e.Content, &e.Origin, &e.Type, &e.Summary, &e.Tags,
		&e.Status, &e.SourceURL, &e.Destination, &e.CreatedAt, &processedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan entry: %w", err)
	}
	if processedAt.Valid {
		t := processedAt.Time
		e.ProcessedAt = &t
	}
	return &e, nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	defer func() {
		_ = rows.Close()
	}()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}
	return entries, nil
}
