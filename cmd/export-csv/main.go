package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"novelhub/pkg/database"
)

func main() {
	var (
		booksOut = flag.String("books", "data/books.csv", "output CSV path for book summaries")
		queueOut = flag.String("queue", "data/review_queue.csv", "output CSV path for the review queue")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	if err := exportBooks(ctx, db, *booksOut); err != nil {
		log.Fatalf("export books failed: %v", err)
	}
	if err := exportQueue(ctx, db, *queueOut); err != nil {
		log.Fatalf("export review queue failed: %v", err)
	}

	log.Printf("exported books to %s and review queue to %s", *booksOut, *queueOut)
}

func exportBooks(ctx context.Context, db *sql.DB, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"id", "title", "title_english", "author", "language",
		"work_number", "chapter_count", "passed", "schema_version", "updated_at",
	}); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
        SELECT id, title, title_english, author, language, work_number,
               chapter_count, passed, schema_version, updated_at
        FROM books
        ORDER BY title
    `)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id            string
			title         string
			titleEnglish  sql.NullString
			author        sql.NullString
			language      string
			workNumber    sql.NullString
			chapterCount  int
			passed        int
			schemaVersion string
			updatedAt     time.Time
		)

		if err := rows.Scan(&id, &title, &titleEnglish, &author, &language,
			&workNumber, &chapterCount, &passed, &schemaVersion, &updatedAt); err != nil {
			return err
		}

		if err := w.Write([]string{
			id,
			title,
			titleEnglish.String,
			author.String,
			language,
			workNumber.String,
			strconv.Itoa(chapterCount),
			strconv.Itoa(passed),
			schemaVersion,
			updatedAt.Format(time.RFC3339),
		}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

func exportQueue(ctx context.Context, db *sql.DB, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"user_id", "book_id", "current_chapter", "status", "updated_at"}); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
        SELECT user_id, book_id, current_chapter, status, updated_at
        FROM review_queue
        ORDER BY updated_at DESC
    `)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			userID         string
			bookID         string
			currentChapter int
			status         string
			updatedAt      time.Time
		)

		if err := rows.Scan(&userID, &bookID, &currentChapter, &status, &updatedAt); err != nil {
			return err
		}

		if err := w.Write([]string{
			userID,
			bookID,
			strconv.Itoa(currentChapter),
			status,
			updatedAt.Format(time.RFC3339),
		}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}
