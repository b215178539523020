package books

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"novelhub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

type ListQuery struct {
	Q      string // keyword search in title/author
	Passed *bool  // filter on validation outcome
	Limit  int
	Offset int
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// Upsert stores the canonical document plus its summary row. The
// summary is derived here so listing never unmarshals documents.
func (r *Repo) Upsert(ctx context.Context, id string, book *models.Book, passed bool) error {
	doc, err := json.Marshal(book)
	if err != nil {
		return fmt.Errorf("marshal book %s: %w", id, err)
	}

	author := book.Meta.Author
	if book.Meta.AuthorEnglish != "" {
		author = book.Meta.AuthorEnglish
	}

	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO books (id, title, title_english, author, language, source, work_number,
		                   chapter_count, passed, schema_version, document, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
		  title = excluded.title,
		  title_english = excluded.title_english,
		  author = excluded.author,
		  language = excluded.language,
		  source = excluded.source,
		  work_number = excluded.work_number,
		  chapter_count = excluded.chapter_count,
		  passed = excluded.passed,
		  schema_version = excluded.schema_version,
		  document = excluded.document,
		  updated_at = CURRENT_TIMESTAMP
	`, id, book.Meta.Title, book.Meta.TitleEnglish, author, book.Meta.Language,
		book.Meta.Source, book.Meta.WorkNumber,
		len(book.AllChapters()), boolToInt(passed), book.Meta.SchemaVersion, string(doc))
	if err != nil {
		return fmt.Errorf("upsert book %s: %w", id, err)
	}
	return nil
}

// GetDocument loads the full canonical document. nil means not found.
func (r *Repo) GetDocument(ctx context.Context, id string) (*models.Book, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT document FROM books WHERE id = ?`, id)

	var doc string
	if err := row.Scan(&doc); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan book document: %w", err)
	}

	var book models.Book
	if err := json.Unmarshal([]byte(doc), &book); err != nil {
		return nil, fmt.Errorf("unmarshal book %s: %w", id, err)
	}
	return &book, nil
}

// GetSummary loads the listing row only. nil means not found.
func (r *Repo) GetSummary(ctx context.Context, id string) (*models.BookSummary, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, title, title_english, author, language, source, work_number,
		       chapter_count, passed, schema_version, updated_at
		FROM books
		WHERE id = ?
	`, id)

	s, err := scanSummary(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan book summary: %w", err)
	}
	return s, nil
}

func (r *Repo) Count(ctx context.Context, q ListQuery) (int, error) {
	sqlStr, args := buildListSQL(q, true)
	row := r.DB.QueryRowContext(ctx, sqlStr, args...)
	var total int
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("count scan: %w", err)
	}
	return total, nil
}

func (r *Repo) List(ctx context.Context, q ListQuery) ([]models.BookSummary, error) {
	sqlStr, args := buildListSQL(q, false)

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	out := make([]models.BookSummary, 0, q.Limit)
	for rows.Next() {
		s, err := scanSummary(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete book: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func scanSummary(scan func(dest ...any) error) (*models.BookSummary, error) {
	var (
		s            models.BookSummary
		titleEnglish sql.NullString
		author       sql.NullString
		source       sql.NullString
		workNumber   sql.NullString
		passed       int
	)
	if err := scan(
		&s.ID, &s.Title, &titleEnglish, &author, &s.Language, &source, &workNumber,
		&s.ChapterCount, &passed, &s.SchemaVersion, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	s.TitleEnglish = titleEnglish.String
	s.Author = author.String
	s.Source = source.String
	s.WorkNumber = workNumber.String
	s.Passed = passed != 0
	return &s, nil
}

// buildListSQL builds either COUNT(*) or SELECT list.
func buildListSQL(q ListQuery, countOnly bool) (string, []any) {
	baseSelect := `
		SELECT id, title, title_english, author, language, source, work_number,
		       chapter_count, passed, schema_version, updated_at
		FROM books
	`
	if countOnly {
		baseSelect = `SELECT COUNT(*) FROM books`
	}

	var where []string
	var args []any

	if strings.TrimSpace(q.Q) != "" {
		where = append(where, "(LOWER(title) LIKE ? OR LOWER(title_english) LIKE ? OR LOWER(author) LIKE ?)")
		kw := "%" + strings.ToLower(strings.TrimSpace(q.Q)) + "%"
		args = append(args, kw, kw, kw)
	}

	if q.Passed != nil {
		where = append(where, "passed = ?")
		args = append(args, boolToInt(*q.Passed))
	}

	sqlStr := baseSelect
	if len(where) > 0 {
		sqlStr += " WHERE " + strings.Join(where, " AND ")
	}

	if !countOnly {
		sqlStr += " ORDER BY title ASC"
		sqlStr += " LIMIT ? OFFSET ?"
		limit := q.Limit
		if limit <= 0 || limit > 100 {
			limit = 20
		}
		offset := q.Offset
		if offset < 0 {
			offset = 0
		}
		args = append(args, limit, offset)
	}

	return sqlStr, args
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
