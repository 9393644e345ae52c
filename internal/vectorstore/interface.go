// Package vectorstore abstracts the vector database used by the
// optional semantic search index over processed entries.
package vectorstore

import "context"

// Point is a vector with its entry metadata.
type Point struct {
	ID   string // Entry UUID, reused as the point ID
	Vec  []float32
	Meta map[string]any
}

// SearchResult is one hit from a similarity search.
type SearchResult struct {
	PointID string
	Score   float32
	Meta    map[string]any
}

// VectorStore defines the operations the search index needs.
type VectorStore interface {
	// EnsureCollection creates the collection if missing and validates
	// its vector size otherwise.
	EnsureCollection(ctx context.Context, collection string, vectorSize int) error
	// Upsert inserts or updates points in the collection.
	Upsert(ctx context.Context, collection string, points []Point) error
	// Search performs a similarity search with optional group/subgroup filters.
	Search(ctx context.Context, collection string, query []float32, k int, filters map[string]any) ([]SearchResult, error)
	// Delete removes points by their IDs.
	Delete(ctx context.Context, collection string, ids []string) error
}
