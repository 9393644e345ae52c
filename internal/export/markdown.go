// Package export writes processed entries to markdown files laid out
// by group and subgroup under an export root.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"digitalbrain/internal/storage"
)

// Exporter persists an entry outside the database and returns its
// destination path.
type Exporter interface {
	Export(ctx context.Context, entry *storage.Entry) (string, error)
}

// MarkdownExporter writes entries as markdown files under Root, one
// directory level per tag path segment.
type MarkdownExporter struct {
	Root string
}

// NewMarkdownExporter creates an exporter rooted at the given directory.
func NewMarkdownExporter(root string) *MarkdownExporter {
	return &MarkdownExporter{Root: root}
}

// Export writes the entry to Root/group[/subgroup]/<slug>-<id>.md and
// returns the written path. Entries without a tag path land in an
// "inbox" directory.
func (e *MarkdownExporter) Export(ctx context.Context, entry *storage.Entry) (string, error) {
	group, subgroup := storage.SplitTags(entry.Tags)
	if group == "" {
		group = "inbox"
	}

	dir := filepath.Join(e.Root, slugify(group))
	if subgroup != "" {
		dir = filepath.Join(dir, slugify(subgroup))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	title := entry.Summary
	if title == "" {
		title = entry.Content
	}

	// The ID suffix keeps filenames unique for near-identical titles.
	name := slugify(title)
	if len(entry.ID) >= 8 {
		name = name + "-" + entry.ID[:8]
	}
	path := filepath.Join(dir, name+".md")

	var sb strings.Builder
	sb.WriteString("# " + title + "\n\n")
	if entry.Summary != "" && entry.Summary != entry.Content {
		sb.WriteString(entry.Content + "\n\n")
	}
	if entry.SourceURL != "" {
		sb.WriteString("Fuente: " + entry.SourceURL + "\n\n")
	}
	sb.WriteString(fmt.Sprintf("- tipo: %s\n- origen: %s\n- creado: %s\n",
		entry.Type, entry.Origin, entry.CreatedAt.Format("2006-01-02 15:04")))

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}
	return path, nil
}

// slugify reduces a string to a filesystem-safe lowercase name.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var sb strings.Builder
	lastDash := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastDash = false
		case !lastDash:
			sb.WriteRune('-')
			lastDash = true
		}
		if sb.Len() >= 60 {
			break
		}
	}
	out := strings.Trim(sb.String(), "-")
	if out == "" {
		out = "nota"
	}
	return out
}
