package main

import (
	"context"
	"encoding/csv"
	"flag"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"novelhub/internal/catalog"
	"novelhub/pkg/database"
	"novelhub/pkg/models"
)

// Imports the work catalog (translations of titles and author names)
// from a CSV with columns:
//
//	work_number,title_chinese,title_english,author,author_english
func main() {
	var in = flag.String("catalog", "data/catalog.csv", "input CSV path for the work catalog")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	entries, err := readCatalogCSV(*in)
	if err != nil {
		log.Fatalf("read catalog csv failed: %v", err)
	}

	if err := catalog.NewRepo(db).SaveAll(ctx, entries); err != nil {
		log.Fatalf("import catalog failed: %v", err)
	}

	log.Printf("imported %d catalog entries from %s", len(entries), *in)
}

func readCatalogCSV(path string) ([]models.CatalogEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	var out []models.CatalogEntry
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 0 {
			continue
		}

		e := models.CatalogEntry{
			WorkNumber:    valueAt(header, row, "work_number"),
			TitleChinese:  valueAt(header, row, "title_chinese"),
			TitleEnglish:  valueAt(header, row, "title_english"),
			Author:        valueAt(header, row, "author"),
			AuthorEnglish: valueAt(header, row, "author_english"),
		}
		if e.WorkNumber == "" || e.TitleChinese == "" {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func readHeader(r *csv.Reader) (map[string]int, error) {
	row, err := r.Read()
	if err != nil {
		return nil, err
	}
	header := make(map[string]int, len(row))
	for idx, name := range row {
		header[strings.TrimSpace(strings.ToLower(name))] = idx
	}
	return header, nil
}

func valueAt(header map[string]int, row []string, key string) string {
	idx, ok := header[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
