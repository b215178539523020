package books

import (
	"strings"
	"unicode"

	"github.com/google/uuid"

	"novelhub/pkg/models"
)

// IDFor derives a stable store ID for a canonical book: the work
// number when the source carries one, else a slug of the title. A
// random ID is the last resort for books with no usable metadata.
func IDFor(book *models.Book) string {
	if wn := strings.TrimSpace(book.Meta.WorkNumber); wn != "" {
		return "work-" + Slug(wn)
	}
	if s := Slug(book.Meta.Title); s != "" {
		return s
	}
	return uuid.NewString()
}

// Slug converts a title to a canonical key: lowercase, hyphen-joined
// letter/digit runs. CJK characters count as letters, so Chinese
// titles slug to themselves.
func Slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(s))

	prevSep := true
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			prevSep = false
			continue
		}
		// treat everything else as a separator
		if !prevSep {
			b.WriteRune('-')
			prevSep = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
