package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"novelhub/internal/catalog"
	"novelhub/pkg/database"
)

// Dumps the catalog table to a JSON file that cmd/catalog-server can
// host for other instances.
func main() {
	var outPath = flag.String("out", "data/catalog.json", "output JSON path")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	entries, err := catalog.NewRepo(db).List(ctx)
	if err != nil {
		log.Fatalf("list catalog failed: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		log.Fatalf("mkdir failed: %v", err)
	}

	b, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		log.Fatalf("marshal failed: %v", err)
	}

	if err := os.WriteFile(*outPath, b, 0o644); err != nil {
		log.Fatalf("write failed: %v", err)
	}

	log.Printf("exported %d catalog entries to %s", len(entries), *outPath)
}
