package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const reminderColumns = "id, message, fire_at, sent, entry_id, created_at"

// ReminderRepo provides persistence for reminders.
type ReminderRepo struct {
	db *sql.DB
}

// NewReminderRepo creates a new ReminderRepo.
func NewReminderRepo(db *sql.DB) *ReminderRepo {
	return &ReminderRepo{db: db}
}

// Insert stores a new reminder, filling in a missing ID and created-at.
func (r *ReminderRepo) Insert(ctx context.Context, rem *Reminder) error {
	if rem.ID == "" {
		rem.ID = uuid.New().String()
	}
	if rem.CreatedAt.IsZero() {
		rem.CreatedAt = time.Now().UTC()
	}

	var entryID any
	if rem.EntryID != "" {
		entryID = rem.EntryID
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reminders (`+reminderColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		rem.ID, rem.Message, rem.FireAt, rem.Sent, entryID, rem.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert reminder: %w", err)
	}
	return nil
}

// GetByID returns the reminder with the given ID, or ErrNotFound.
func (r *ReminderRepo) GetByID(ctx context.Context, id string) (*Reminder, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+reminderColumns+` FROM reminders WHERE id = ?`, id)
	return scanReminder(row)
}

// List returns reminders ordered by fire time. A non-nil sent filters
// by delivery state.
func (r *ReminderRepo) List(ctx context.Context, sent *bool) ([]Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders`
	args := []any{}
	if sent != nil {
		query += ` WHERE sent = ?`
		args = append(args, *sent)
	}
	query += ` ORDER BY fire_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	return scanReminders(rows)
}

// ListDue returns unsent reminders whose fire time is at or before now.
// The due check happens in Go so stored timestamp formats never affect
// the comparison.
func (r *ReminderRepo) ListDue(ctx context.Context, now time.Time) ([]Reminder, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reminderColumns+` FROM reminders WHERE sent = 0 ORDER BY fire_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list due reminders: %w", err)
	}
	unsent, err := scanReminders(rows)
	if err != nil {
		return nil, err
	}

	var due []Reminder
	for _, rem := range unsent {
		if !rem.FireAt.After(now) {
			due = append(due, rem)
		}
	}
	return due, nil
}

// MarkSent flips a reminder to sent. Sent is monotonic: there is no way
// back to unsent, which keeps firing idempotent.
func (r *ReminderRepo) MarkSent(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE reminders SET sent = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a reminder. Deleting an absent reminder is a no-op.
func (r *ReminderRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	return nil
}

func scanReminder(row rowScanner) (*Reminder, error) {
	var rem Reminder
	var entryID sql.NullString
	err := row.Scan(&rem.ID, &rem.Message, &rem.FireAt, &rem.Sent, &entryID, &rem.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan reminder: %w", err)
	}
	rem.EntryID = entryID.String
	return &rem, nil
}

func scanReminders(rows *sql.Rows) ([]Reminder, error) {
	defer func() {
		_ = rows.Close()
	}()

	var reminders []Reminder
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, *rem)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reminders: %w", err)
	}
	return reminders, nil
}
