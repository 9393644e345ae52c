package storage

import "time"

// Entry statuses. An entry is pending until its markdown export
// succeeds, processed afterwards, and discarded on soft removal.
const (
	StatusPending   = "pending"
	StatusProcessed = "processed"
	StatusDiscarded = "discarded"
)

// Entry is a stored note.
type Entry struct {
	ID          string // UUID
	Content     string // Original or cleaned text, unique across entries
	Origin      string // Free-form source label ("manual", "audio", ...)
	Type        string // Derived content classification: note/task/link
	Summary     string // Cleaned idea text, may be empty
	Tags        string // Tag path: "group" or "group,subgroup"
	Status      string
	SourceURL   string // Optional URL extracted from the note or AI-provided
	Destination string // Export location once processed
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// Reminder is a scheduled notification. EntryID is a weak reference:
// the linked entry may already be gone when the reminder fires.
type Reminder struct {
	ID        string // UUID
	Message   string
	FireAt    time.Time
	Sent      bool
	EntryID   string // Empty when the reminder has no linked entry
	CreatedAt time.Time
}

// GroupSummary holds the latest generated narrative summary for a
// (group, subgroup) pair. Subgroup is empty for group-level summaries.
type GroupSummary struct {
	ID        int64
	Group     string
	Subgroup  string
	Summary   string
	UpdatedAt time.Time
}
