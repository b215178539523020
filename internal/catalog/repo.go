package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"novelhub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// Get looks up catalog metadata by work number. nil means unknown work.
func (r *Repo) Get(ctx context.Context, workNumber string) (*models.CatalogEntry, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT work_number, title_chinese, title_english, author, author_english
		FROM catalog
		WHERE work_number = ?
	`, workNumber)

	var (
		e             models.CatalogEntry
		titleEnglish  sql.NullString
		author        sql.NullString
		authorEnglish sql.NullString
	)
	if err := row.Scan(&e.WorkNumber, &e.TitleChinese, &titleEnglish, &author, &authorEnglish); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan catalog entry: %w", err)
	}
	e.TitleEnglish = titleEnglish.String
	e.Author = author.String
	e.AuthorEnglish = authorEnglish.String
	return &e, nil
}

// List returns all catalog entries ordered by work number.
func (r *Repo) List(ctx context.Context) ([]models.CatalogEntry, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT work_number, title_chinese, title_english, author, author_english
		FROM catalog
		ORDER BY work_number ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	defer rows.Close()

	var out []models.CatalogEntry
	for rows.Next() {
		var (
			e             models.CatalogEntry
			titleEnglish  sql.NullString
			author        sql.NullString
			authorEnglish sql.NullString
		)
		if err := rows.Scan(&e.WorkNumber, &e.TitleChinese, &titleEnglish, &author, &authorEnglish); err != nil {
			return nil, fmt.Errorf("scan catalog entry: %w", err)
		}
		e.TitleEnglish = titleEnglish.String
		e.Author = author.String
		e.AuthorEnglish = authorEnglish.String
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// SaveAll upserts catalog entries in one transaction.
func (r *Repo) SaveAll(ctx context.Context, entries []models.CatalogEntry) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO catalog (work_number, title_chinese, title_english, author, author_english)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(work_number) DO UPDATE SET
		  title_chinese = excluded.title_chinese,
		  title_english = excluded.title_english,
		  author = excluded.author,
		  author_english = excluded.author_english
	`)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx,
			e.WorkNumber, e.TitleChinese, e.TitleEnglish, e.Author, e.AuthorEnglish,
		); err != nil {
			return fmt.Errorf("exec upsert for %s: %w", e.WorkNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
