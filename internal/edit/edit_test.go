package edit

import (
	"testing"

	"novelhub/pkg/models"
)

func bookWithBody(ids ...string) *models.Book {
	b := &models.Book{
		Meta: models.BookMeta{Title: "书", Language: "zh", SchemaVersion: models.SchemaVersion},
	}
	for i, id := range ids {
		b.Structure.Body.Chapters = append(b.Structure.Body.Chapters, &models.Chapter{
			ID:          id,
			Title:       "第" + id + "章",
			Ordinal:     i + 1,
			SectionType: models.SectionBody,
			SpecialType: models.SpecialMainChapter,
		})
	}
	return b
}

func bodyIDs(b *models.Book) []string {
	var out []string
	for _, ch := range b.Structure.Body.Chapters {
		out = append(out, ch.ID)
	}
	return out
}

func TestReorderChapter(t *testing.T) {
	b := bookWithBody("A", "B", "C", "D")

	if err := ReorderChapter(b, "B", 2); err != nil {
		t.Fatalf("reorder failed: %v", err)
	}

	want := []string{"A", "C", "B", "D"}
	got := bodyIDs(b)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}

	// Ordinals must stay contiguous after the move.
	for i, ch := range b.Structure.Body.Chapters {
		if ch.Ordinal != i+1 {
			t.Errorf("chapter %q ordinal = %d, want %d", ch.ID, ch.Ordinal, i+1)
		}
	}

	if len(b.EditHistory) != 1 {
		t.Fatalf("history entries = %d, want 1", len(b.EditHistory))
	}
	if b.EditHistory[0].Action != "reorder_chapter" {
		t.Errorf("action = %q", b.EditHistory[0].Action)
	}
}

func TestReorderChapterOutOfRange(t *testing.T) {
	b := bookWithBody("A", "B", "C", "D")

	for _, pos := range []int{4, -1, 100} {
		err := ReorderChapter(b, "B", pos)
		if err == nil {
			t.Fatalf("position %d should be rejected", pos)
		}
		if _, ok := err.(*RangeError); !ok {
			t.Errorf("position %d: error type = %T, want *RangeError", pos, err)
		}
	}

	if len(b.EditHistory) != 0 {
		t.Errorf("rejected reorders must not append history, got %d entries", len(b.EditHistory))
	}
}

func TestReorderChapterNotFound(t *testing.T) {
	b := bookWithBody("A", "B")

	err := ReorderChapter(b, "nope", 0)
	if err == nil {
		t.Fatal("unknown chapter should be rejected")
	}
	if _, ok := err.(*NotFoundError); !ok {
		t.Errorf("error type = %T, want *NotFoundError", err)
	}
}

func TestUpdateChapterMeta(t *testing.T) {
	b := bookWithBody("A")

	title := "新标题"
	special := models.SpecialPrologue
	ch, err := UpdateChapterMeta(b, "A", ChapterFields{Title: &title, SpecialType: &special})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if ch.Title != "新标题" {
		t.Errorf("title = %q", ch.Title)
	}
	if ch.SpecialType != models.SpecialPrologue {
		t.Errorf("special type = %q", ch.SpecialType)
	}
	if ch.ID != "A" {
		t.Error("edit must never change the chapter ID")
	}

	if len(b.EditHistory) != 1 {
		t.Fatalf("history entries = %d, want 1", len(b.EditHistory))
	}
	details := b.EditHistory[0].Details
	if details["title_after"] != "新标题" {
		t.Errorf("history missing title_after: %+v", details)
	}
}

func TestUpdateChapterMetaNoChangeNoHistory(t *testing.T) {
	b := bookWithBody("A")
	same := b.Structure.Body.Chapters[0].Title

	if _, err := UpdateChapterMeta(b, "A", ChapterFields{Title: &same}); err != nil {
		t.Fatal(err)
	}
	if len(b.EditHistory) != 0 {
		t.Errorf("no-op update should not append history, got %d entries", len(b.EditHistory))
	}
}

func TestUpdateChapterMetaNotFound(t *testing.T) {
	b := bookWithBody("A")

	title := "x"
	_, err := UpdateChapterMeta(b, "missing", ChapterFields{Title: &title})
	if err == nil {
		t.Fatal("unknown chapter should be rejected")
	}
	if _, ok := err.(*NotFoundError); !ok {
		t.Errorf("error type = %T, want *NotFoundError", err)
	}
}

func TestSaveStampsHistory(t *testing.T) {
	b := bookWithBody("A")

	Save(b, "reviewed chapters 1-3")
	if len(b.EditHistory) != 1 {
		t.Fatalf("history entries = %d, want 1", len(b.EditHistory))
	}
	entry := b.EditHistory[0]
	if entry.Action != "save" {
		t.Errorf("action = %q", entry.Action)
	}
	if entry.Details["message"] != "reviewed chapters 1-3" {
		t.Errorf("details = %+v", entry.Details)
	}
	if entry.Timestamp.IsZero() {
		t.Error("timestamp not stamped")
	}
}

func TestHistoryIsAppendOnly(t *testing.T) {
	b := bookWithBody("A", "B")

	_ = ReorderChapter(b, "A", 1)
	title := "改"
	_, _ = UpdateChapterMeta(b, "A", ChapterFields{Title: &title})
	Save(b, "")

	if len(b.EditHistory) != 3 {
		t.Fatalf("history entries = %d, want 3", len(b.EditHistory))
	}
	for i := 1; i < len(b.EditHistory); i++ {
		if b.EditHistory[i].Timestamp.Before(b.EditHistory[i-1].Timestamp) {
			t.Error("history timestamps out of order")
		}
	}
}
