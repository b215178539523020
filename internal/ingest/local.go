package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LocalDirSource reads every *.json file in a directory. Files that do
// not decode to a JSON object are returned with a nil Data so the
// runner can report them instead of silently skipping.
type LocalDirSource struct {
	Dir string
}

func NewLocalDirSource(dir string) *LocalDirSource {
	return &LocalDirSource{Dir: dir}
}

func (s *LocalDirSource) Name() string { return "local:" + s.Dir }

func (s *LocalDirSource) FetchAll(ctx context.Context) ([]RawBook, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("local source: read dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	books := make([]RawBook, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(filepath.Join(s.Dir, name))
		if err != nil {
			return nil, fmt.Errorf("local source: read %s: %w", name, err)
		}
		var obj map[string]any
		if err := json.Unmarshal(data, &obj); err != nil {
			// malformed file: let the runner record the failure
			books = append(books, RawBook{Name: name, Data: nil})
			continue
		}
		books = append(books, RawBook{Name: name, Data: obj})
	}
	return books, nil
}
