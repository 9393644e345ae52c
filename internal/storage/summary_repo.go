package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SummaryRepo provides persistence for generated group summaries.
type SummaryRepo struct {
	db *sql.DB
}

// NewSummaryRepo creates a new SummaryRepo.
func NewSummaryRepo(db *sql.DB) *SummaryRepo {
	return &SummaryRepo{db: db}
}

// Upsert stores the latest summary for a (group, subgroup) pair,
// replacing a previous one if present.
func (r *SummaryRepo) Upsert(ctx context.Context, group, subgroup, summary string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO group_summaries (group_name, subgroup_name, summary, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (group_name, subgroup_name) DO UPDATE SET
		 summary = excluded.summary, updated_at = excluded.updated_at`,
		group, subgroup, summary, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert group summary: %w", err)
	}
	return nil
}

// Get returns the summary for a (group, subgroup) pair, or ErrNotFound.
func (r *SummaryRepo) Get(ctx context.Context, group, subgroup string) (*GroupSummary, error) {
	var s GroupSummary
	err := r.db.QueryRowContext(ctx,
		`SELECT id, group_name, subgroup_name, summary, updated_at
		 FROM group_summaries WHERE group_name = ? AND subgroup_name = ?`,
		group, subgroup,
	).Scan(&s.ID, &s.Group, &s.Subgroup, &s.Summary, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query group summary: %w", err)
	}
	return &s, nil
}

// List returns all group summaries ordered by group and subgroup.
func (r *SummaryRepo) List(ctx context.Context) ([]GroupSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, group_name, subgroup_name, summary, updated_at
		 FROM group_summaries ORDER BY group_name, subgroup_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list group summaries: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var summaries []GroupSummary
	for rows.Next() {
		var s GroupSummary
		if err := rows.Scan(&s.ID, &s.Group, &s.Subgroup, &s.Summary, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group summaries: %w", err)
	}
	return summaries, nil
}
