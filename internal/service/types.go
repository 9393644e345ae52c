package service

import (
	"context"
	"time"

	"digitalbrain/internal/ai"
	"digitalbrain/internal/storage"
)

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_deps.go -package=mocks digitalbrain/internal/service AIClient,Exporter,Indexer

// AIClient is the classification/summarization provider as the engine
// consumes it.
type AIClient interface {
	// Classify returns the provider's judgments about a note, or
	// ai.ErrUnavailable when the provider cannot be reached.
	Classify(ctx context.Context, text string, taxonomy []ai.Group, lang string) ([]ai.Result, error)
	// Summarize generates a narrative summary over a group's ideas.
	Summarize(ctx context.Context, group, subgroup string, ideas []string) (string, error)
}

// Exporter persists a processed entry outside the store and returns
// its destination.
type Exporter interface {
	Export(ctx context.Context, entry *storage.Entry) (string, error)
}

// Indexer is the optional semantic search index over processed
// entries. All calls are best-effort from the engine's point of view.
type Indexer interface {
	IndexEntry(ctx context.Context, entry *storage.Entry) error
	RemoveEntries(ctx context.Context, ids []string) error
	Query(ctx context.Context, query string, k int) ([]string, error)
}

// Outcome actions mirror the classifier's action tags, plus "ignored"
// for results that make no sense.
const (
	ActionAdd     = "add"
	ActionDelete  = "delete"
	ActionRemind  = "remind"
	ActionIgnored = "ignored"
)

// Outcome is the result of reconciling one classification result into
// the store. A note submission returns one outcome per result, in
// order, plus at most one synthesized reminder outcome.
type Outcome struct {
	Action       string
	Entry        *storage.Entry // Present for add outcomes and the first deleted entry
	Group        string
	Subgroup     string
	Idea         string
	AISkipped    bool // True when the provider was down and the note was stored raw
	DeletedCount int
	RemindAt     *time.Time
}

// BatchItem is a pre-classified idea saved without going through the
// provider, used by document imports.
type BatchItem struct {
	Idea     string
	Group    string
	Subgroup string
}

// EntryUpdate carries the mutable entry fields of a partial update.
// Nil fields are left untouched.
type EntryUpdate struct {
	Content *string
	Summary *string
	Tags    *string
	Status  *string
}
