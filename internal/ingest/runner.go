package ingest

import (
	"context"
	"log"
	"sync"

	"novelhub/internal/books"
	"novelhub/internal/catalog"
	"novelhub/internal/normalize"
	"novelhub/internal/translate"
)

// Result records the outcome of one document.
type Result struct {
	Source   string `json:"source"`
	Name     string `json:"name"`
	BookID   string `json:"book_id,omitempty"`
	Passed   bool   `json:"passed"`
	Errors   int    `json:"errors"`
	Warnings int    `json:"warnings"`
	Err      string `json:"err,omitempty"`
}

// Summary aggregates a full run.
type Summary struct {
	Total   int      `json:"total"`
	Passed  int      `json:"passed"`
	Failed  int      `json:"failed"`
	Errored int      `json:"errored"`
	Results []Result `json:"results"`
}

// Runner drives the batch pipeline: fetch raw documents from every
// source, normalize each one on a worker, enrich from the catalog,
// and persist book plus pass/fail state.
type Runner struct {
	Sources    []Source
	Normalizer *normalize.Normalizer
	Books      *books.Repo
	Catalog    *catalog.Repo     // optional
	Translator *translate.Client // optional, fills missing English titles
	Workers    int
	Logger     *log.Logger
}

func NewRunner(sources []Source, repo *books.Repo, cat *catalog.Repo, workers int) *Runner {
	if workers <= 0 {
		workers = 4
	}
	return &Runner{
		Sources:    sources,
		Normalizer: normalize.NewNormalizer(nil),
		Books:      repo,
		Catalog:    cat,
		Workers:    workers,
		Logger:     log.Default(),
	}
}

// Run processes every document from every source. One broken source or
// document never stops the batch; failures land in the summary.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	jobs := make(chan job)
	results := make(chan Result)

	var wg sync.WaitGroup
	for i := 0; i < r.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results <- r.process(ctx, j)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, src := range r.Sources {
			r.Logger.Printf("[ingest] fetching from %s", src.Name())
			raws, err := src.FetchAll(ctx)
			if err != nil {
				r.Logger.Printf("[ingest] source %s error: %v", src.Name(), err)
				// keep going: one broken source should not kill the batch
				continue
			}
			for _, raw := range raws {
				select {
				case jobs <- job{source: src.Name(), raw: raw}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	summary := &Summary{}
	for res := range results {
		summary.Total++
		switch {
		case res.Err != "":
			summary.Errored++
		case res.Passed:
			summary.Passed++
		default:
			summary.Failed++
		}
		summary.Results = append(summary.Results, res)
	}
	return summary, ctx.Err()
}

type job struct {
	source string
	raw    RawBook
}

func (r *Runner) process(ctx context.Context, j job) Result {
	res := Result{Source: j.source, Name: j.raw.Name}

	if j.raw.Data == nil {
		res.Err = "document is not a JSON object"
		return res
	}

	book, report, err := r.Normalizer.Normalize(j.raw.Data)
	if err != nil {
		res.Err = err.Error()
		return res
	}

	if r.Catalog != nil {
		if err := r.Catalog.Enrich(ctx, book); err != nil {
			r.Logger.Printf("[ingest] catalog enrich %s: %v", j.raw.Name, err)
		}
	}
	if r.Translator != nil && r.Translator.Enabled() && book.Meta.TitleEnglish == "" && book.Meta.Title != "" {
		if title, err := r.Translator.Translate(ctx, book.Meta.Title, book.Meta.Language, "en"); err != nil {
			r.Logger.Printf("[ingest] translate title %s: %v", j.raw.Name, err)
		} else {
			book.Meta.TitleEnglish = title
		}
	}
	if book.Meta.OriginalFile == "" {
		book.Meta.OriginalFile = j.raw.Name
	}

	id := books.IDFor(book)
	if err := r.Books.Upsert(ctx, id, book, report.Passed); err != nil {
		res.Err = "save: " + err.Error()
		return res
	}

	res.BookID = id
	res.Passed = report.Passed
	res.Errors = len(report.Errors())
	res.Warnings = len(report.Warnings())
	r.Logger.Printf("[ingest] %s -> %s passed=%t errors=%d warnings=%d",
		j.raw.Name, id, res.Passed, res.Errors, res.Warnings)
	return res
}
