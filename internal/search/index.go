// Package search maintains the optional semantic index over processed
// entries. Indexing is best-effort: the note pipeline never fails
// because the index is behind.
package search

import (
	"context"
	"fmt"

	"digitalbrain/internal/storage"
	"digitalbrain/internal/vectorstore"
)

// Embedder generates embedding vectors for texts.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// SemanticIndex indexes entries into a vector store and answers
// similarity queries with entry IDs.
type SemanticIndex struct {
	embedder   Embedder
	store      vectorstore.VectorStore
	collection string
}

// NewSemanticIndex creates a semantic index over the given collection.
func NewSemanticIndex(embedder Embedder, store vectorstore.VectorStore, collection string) *SemanticIndex {
	return &SemanticIndex{
		embedder:   embedder,
		store:      store,
		collection: collection,
	}
}

// IndexEntry embeds an entry's idea text and upserts it as a point.
// The point carries the tag path so searches can filter by taxonomy.
func (s *SemanticIndex) IndexEntry(ctx context.Context, entry *storage.Entry) error {
	text := entry.Summary
	if text == "" {
		text = entry.Content
	}

	vecs, err := s.embedder.EmbedTexts(ctx, []string{text})
	if err != nil {
		return fmt.Errorf("embed entry: %w", err)
	}

	group, subgroup := storage.SplitTags(entry.Tags)
	point := vectorstore.Point{
		ID:  entry.ID,
		Vec: vecs[0],
		Meta: map[string]any{
			"group":    group,
			"subgroup": subgroup,
			"text":     text,
		},
	}
	return s.store.Upsert(ctx, s.collection, []vectorstore.Point{point})
}

// RemoveEntries drops the points for the given entry IDs.
func (s *SemanticIndex) RemoveEntries(ctx context.Context, ids []string) error {
	return s.store.Delete(ctx, s.collection, ids)
}

// Query embeds the query text and returns the IDs of the closest
// entries, best match first.
func (s *SemanticIndex) Query(ctx context.Context, query string, k int) ([]string, error) {
	vecs, err := s.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := s.store.Search(ctx, s.collection, vecs[0], k, nil)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(results))
	for _, r := range results {
		if r.PointID != "" {
			ids = append(ids, r.PointID)
		}
	}
	return ids, nil
}
