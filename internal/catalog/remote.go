package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"novelhub/pkg/models"
)

// RemoteSource fetches catalog metadata from a hosted catalog JSON
// endpoint (see cmd/catalog-server).
type RemoteSource struct {
	BaseURL string
	Client  *http.Client
}

func NewRemoteSource(baseURL string) *RemoteSource {
	return &RemoteSource{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// FetchAll downloads the full catalog.
//
// Expected response format:
//
//	GET {BaseURL}/catalog
//	[
//	  {
//	    "work_number": "042",
//	    "title_chinese": "白发魔女传",
//	    "title_english": "The Bride with White Hair",
//	    "author": "梁羽生",
//	    "author_english": "Liang Yusheng"
//	  },
//	  ...
//	]
func (s *RemoteSource) FetchAll(ctx context.Context) ([]models.CatalogEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"/catalog", nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: build request: %w", err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("catalog: status %d: %s", resp.StatusCode, string(body))
	}

	var raw []models.CatalogEntry
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("catalog: decode json: %w", err)
	}

	out := make([]models.CatalogEntry, 0, len(raw))
	for _, e := range raw {
		if e.WorkNumber == "" || e.TitleChinese == "" {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
