package catalog

import (
	"context"

	"novelhub/pkg/models"
)

// Enrich fills English title/author translations into book metadata
// from the catalog, keyed by work number. Fields already present on the
// book win; catalog values only fill gaps. An unknown work is not an
// error.
func (r *Repo) Enrich(ctx context.Context, book *models.Book) error {
	if book.Meta.WorkNumber == "" {
		return nil
	}
	entry, err := r.Get(ctx, book.Meta.WorkNumber)
	if err != nil || entry == nil {
		return err
	}

	if book.Meta.TitleEnglish == "" {
		book.Meta.TitleEnglish = entry.TitleEnglish
	}
	if book.Meta.TitleChinese == "" {
		book.Meta.TitleChinese = entry.TitleChinese
	}
	if book.Meta.Author == "" {
		book.Meta.Author = entry.Author
	}
	if book.Meta.AuthorEnglish == "" {
		book.Meta.AuthorEnglish = entry.AuthorEnglish
	}
	return nil
}
