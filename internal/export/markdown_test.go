package export

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"digitalbrain/internal/storage"
)

func TestMarkdownExporter_Export(t *testing.T) {
	root := t.TempDir()
	exporter := NewMarkdownExporter(root)

	entry := &storage.Entry{
		ID:        "abcdef12-3456-7890-abcd-ef1234567890",
		Content:   "recuerda reservar el hotel en Roma",
		Summary:   "reservar hotel en Roma",
		Tags:      "viajes,italia",
		Type:      "note",
		Origin:    "manual",
		SourceURL: "https://example.com/hotel",
		CreatedAt: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
	}

	path, err := exporter.Export(context.Background(), entry)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	wantDir := filepath.Join(root, "viajes", "italia")
	if filepath.Dir(path) != wantDir {
		t.Errorf("Export() dir = %q, want %q", filepath.Dir(path), wantDir)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	content := string(data)
	for _, want := range []string{"# reservar hotel en Roma", "recuerda reservar el hotel", "https://example.com/hotel"} {
		if !strings.Contains(content, want) {
			t.Errorf("exported file missing %q:\n%s", want, content)
		}
	}
}

func TestMarkdownExporter_NoTags(t *testing.T) {
	root := t.TempDir()
	exporter := NewMarkdownExporter(root)

	entry := &storage.Entry{
		ID:        "12345678-0000-0000-0000-000000000000",
		Content:   "nota suelta",
		CreatedAt: time.Now(),
	}

	path, err := exporter.Export(context.Background(), entry)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if filepath.Dir(path) != filepath.Join(root, "inbox") {
		t.Errorf("Export() dir = %q, want inbox", filepath.Dir(path))
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Comprar Leche", "comprar-leche"},
		{"  reunión: a las 9!  ", "reuni-n-a-las-9"},
		{"", "nota"},
		{"---", "nota"},
	}
	for _, tt := range tests {
		if got := slugify(tt.in); got != tt.want {
			t.Errorf("slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
