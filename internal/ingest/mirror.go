package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// MirrorSource pulls raw documents from an HTTP mirror that exposes a
// listing plus per-document endpoints:
//
//	GET {BaseURL}/raw           -> ["sevenswords.json", ...]
//	GET {BaseURL}/raw/{name}    -> the raw document
type MirrorSource struct {
	BaseURL string
	Client  *http.Client
}

func NewMirrorSource(baseURL string) *MirrorSource {
	return &MirrorSource{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *MirrorSource) Name() string { return "mirror:" + s.BaseURL }

func (s *MirrorSource) FetchAll(ctx context.Context) ([]RawBook, error) {
	names, err := s.listNames(ctx)
	if err != nil {
		return nil, err
	}

	books := make([]RawBook, 0, len(names))
	for _, name := range names {
		obj, err := s.fetchOne(ctx, name)
		if err != nil {
			return nil, err
		}
		books = append(books, RawBook{Name: name, Data: obj})
	}
	return books, nil
}

func (s *MirrorSource) listNames(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"/raw", nil)
	if err != nil {
		return nil, fmt.Errorf("mirror: build list request: %w", err)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mirror: list request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("mirror: list status %d: %s", resp.StatusCode, string(body))
	}

	var names []string
	if err := json.NewDecoder(resp.Body).Decode(&names); err != nil {
		return nil, fmt.Errorf("mirror: decode listing: %w", err)
	}
	return names, nil
}

func (s *MirrorSource) fetchOne(ctx context.Context, name string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"/raw/"+name, nil)
	if err != nil {
		return nil, fmt.Errorf("mirror: build request for %s: %w", name, err)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mirror: fetch %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mirror: fetch %s: status %d", name, resp.StatusCode)
	}

	var obj map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&obj); err != nil {
		// non-object documents are reported, not fatal
		return nil, nil
	}
	return obj, nil
}
