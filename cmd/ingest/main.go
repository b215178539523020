package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"novelhub/internal/books"
	"novelhub/internal/catalog"
	"novelhub/internal/ingest"
	"novelhub/internal/translate"
	"novelhub/pkg/database"
	"novelhub/pkg/utils"
)

func main() {
	var (
		dir        = flag.String("dir", "data/raw", "directory of raw *.json documents")
		mirror     = flag.String("mirror", "", "base URL of a raw-document mirror (optional)")
		catalogURL = flag.String("catalog", "", "base URL of a catalog server to refresh the catalog from (optional)")
		workers    = flag.Int("workers", 4, "number of normalization workers")
		timeout    = flag.Duration("timeout", 10*time.Minute, "overall run timeout")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	catalogRepo := catalog.NewRepo(db)
	if *catalogURL != "" {
		entries, err := catalog.NewRemoteSource(*catalogURL).FetchAll(ctx)
		if err != nil {
			log.Fatalf("fetch catalog failed: %v", err)
		}
		if err := catalogRepo.SaveAll(ctx, entries); err != nil {
			log.Fatalf("save catalog failed: %v", err)
		}
		log.Printf("[ingest] refreshed %d catalog entries from %s", len(entries), *catalogURL)
	}

	var sources []ingest.Source
	if *dir != "" {
		sources = append(sources, ingest.NewLocalDirSource(*dir))
	}
	if *mirror != "" {
		sources = append(sources, ingest.NewMirrorSource(*mirror))
	}
	if len(sources) == 0 {
		log.Fatal("no sources configured: pass -dir and/or -mirror")
	}

	runner := ingest.NewRunner(sources, books.NewRepo(db), catalogRepo, *workers)
	if mt := translate.NewClient(utils.LoadTranslateConfig()); mt.Enabled() {
		runner.Translator = mt
	}

	summary, err := runner.Run(ctx)
	if err != nil {
		log.Fatalf("ingest failed: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(summary)

	log.Printf("ingest done: %d total, %d passed, %d failed, %d errored",
		summary.Total, summary.Passed, summary.Failed, summary.Errored)
	if summary.Errored > 0 {
		os.Exit(1)
	}
}
