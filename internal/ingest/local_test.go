package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLocalDirSourceReadsJSONFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.json", `{"title": "书二"}`)
	writeFile(t, dir, "a.json", `{"title": "书一"}`)
	writeFile(t, dir, "notes.txt", "not a document")

	src := NewLocalDirSource(dir)
	books, err := src.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll() error: %v", err)
	}

	if len(books) != 2 {
		t.Fatalf("got %d documents, want 2", len(books))
	}
	// sorted by file name for a stable batch order
	if books[0].Name != "a.json" || books[1].Name != "b.json" {
		t.Errorf("order = [%s, %s], want [a.json, b.json]", books[0].Name, books[1].Name)
	}
	if got := books[0].Data["title"]; got != "书一" {
		t.Errorf("a.json title = %v, want 书一", got)
	}
}

func TestLocalDirSourceMalformedFileKeptWithNilData(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.json", `{"title": truncated`)
	writeFile(t, dir, "good.json", `{"title": "ok"}`)

	src := NewLocalDirSource(dir)
	books, err := src.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll() error: %v", err)
	}

	if len(books) != 2 {
		t.Fatalf("got %d documents, want 2", len(books))
	}
	if books[0].Name != "bad.json" || books[0].Data != nil {
		t.Errorf("malformed file should surface with nil Data, got %+v", books[0])
	}
	if books[1].Data == nil {
		t.Errorf("good.json should decode")
	}
}

func TestLocalDirSourceArrayDocumentKeptWithNilData(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "list.json", `["not", "an", "object"]`)

	src := NewLocalDirSource(dir)
	books, err := src.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll() error: %v", err)
	}
	if len(books) != 1 || books[0].Data != nil {
		t.Errorf("non-object document should surface with nil Data, got %+v", books)
	}
}

func TestLocalDirSourceMissingDir(t *testing.T) {
	src := NewLocalDirSource(filepath.Join(t.TempDir(), "absent"))
	if _, err := src.FetchAll(context.Background()); err == nil {
		t.Fatal("FetchAll() on missing dir should fail")
	}
}
