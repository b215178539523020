package ingest

import "context"

// RawBook is one unparsed document as delivered by a source. Data is
// the decoded JSON value; normalization decides what to make of it.
type RawBook struct {
	Name string
	Data map[string]any
}

// Source is implemented by each raw-document provider (local
// directories, HTTP mirrors). Each source fetches its own format and
// hands back decoded JSON objects.
type Source interface {
	Name() string
	FetchAll(ctx context.Context) ([]RawBook, error)
}
