// Package edit applies in-place mutations to an already-canonical book:
// chapter metadata updates, body reordering, and save stamping. Each
// successful mutation appends exactly one edit history entry. The
// package assumes exclusive access to the book for the duration of one
// operation; callers parallelize across books, never within one.
package edit

import (
	"fmt"
	"strings"

	"novelhub/pkg/models"
)

// NotFoundError reports an edit that targets a nonexistent chapter.
// This is a caller bug and fails fast instead of corrupting state.
type NotFoundError struct {
	ChapterID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("chapter %q not found", e.ChapterID)
}

// RangeError reports a reorder position outside [0, len(chapters)).
type RangeError struct {
	Position int
	Length   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("position %d out of range [0, %d)", e.Position, e.Length)
}

// ChapterFields carries the editable chapter metadata. Nil fields are
// left untouched.
type ChapterFields struct {
	Title       *string             `json:"title,omitempty"`
	SpecialType *models.SpecialType `json:"special_type,omitempty"`
}

// UpdateChapterMeta edits one chapter's metadata and records the
// before/after values in the edit history. IDs never change.
func UpdateChapterMeta(b *models.Book, chapterID string, fields ChapterFields) (*models.Chapter, error) {
	ch := b.FindChapter(chapterID)
	if ch == nil {
		return nil, &NotFoundError{ChapterID: chapterID}
	}

	details := map[string]any{"chapter_id": chapterID}
	changed := false

	if fields.Title != nil {
		title := strings.TrimSpace(*fields.Title)
		if title != ch.Title {
			details["title_before"] = ch.Title
			details["title_after"] = title
			ch.Title = title
			changed = true
		}
	}
	if fields.SpecialType != nil && fields.SpecialType.IsValid() && *fields.SpecialType != ch.SpecialType {
		details["special_type_before"] = string(ch.SpecialType)
		details["special_type_after"] = string(*fields.SpecialType)
		ch.SpecialType = *fields.SpecialType
		changed = true
	}

	if changed {
		b.AppendHistory("update_chapter_metadata", details)
	}
	return ch, nil
}

// ReorderChapter moves a body chapter to a new zero-based position and
// reassigns body ordinals to keep them contiguous. Only body chapters
// participate in reordering; front and back matter keep source order.
func ReorderChapter(b *models.Book, chapterID string, newPosition int) error {
	chapters := b.Structure.Body.Chapters

	oldPosition := -1
	for i, ch := range chapters {
		if ch.ID == chapterID {
			oldPosition = i
			break
		}
	}
	if oldPosition == -1 {
		return &NotFoundError{ChapterID: chapterID}
	}
	if newPosition < 0 || newPosition >= len(chapters) {
		return &RangeError{Position: newPosition, Length: len(chapters)}
	}

	moved := chapters[oldPosition]
	chapters = append(chapters[:oldPosition], chapters[oldPosition+1:]...)
	chapters = append(chapters[:newPosition], append([]*models.Chapter{moved}, chapters[newPosition:]...)...)
	b.Structure.Body.Chapters = chapters

	for i, ch := range chapters {
		ch.Ordinal = i + 1
	}

	b.AppendHistory("reorder_chapter", map[string]any{
		"chapter_id":   chapterID,
		"old_position": oldPosition,
		"new_position": newPosition,
	})
	return nil
}

// Save stamps a commit message into the edit history. Persistence is
// the caller's job; the engine does no I/O.
func Save(b *models.Book, commitMessage string) {
	details := map[string]any{}
	if msg := strings.TrimSpace(commitMessage); msg != "" {
		details["message"] = msg
	}
	b.AppendHistory("save", details)
}
