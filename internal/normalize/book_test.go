package normalize

import (
	"encoding/json"
	"testing"

	"novelhub/pkg/models"
)

func rawWuxiaBook() map[string]any {
	return map[string]any{
		"title": "七剑下天山",
		"chapters": []any{
			map[string]any{"title": "序", "content": "写在前面的话。"},
			map[string]any{"title": "第一章", "content": "剑光如雪。"},
			map[string]any{"title": "后记", "content": "成书始末。"},
		},
	}
}

func TestNormalizeConcreteScenario(t *testing.T) {
	n := NewNormalizer(&Classifier{
		FrontWindow:  1,
		FrontMarkers: DefaultClassifier().FrontMarkers,
		BackMarkers:  DefaultClassifier().BackMarkers,
	})

	book, report, err := n.Normalize(rawWuxiaBook())
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if !report.Passed {
		t.Errorf("report failed: %+v", report.Findings)
	}

	front := book.Structure.FrontMatter.Chapters
	body := book.Structure.Body.Chapters
	back := book.Structure.BackMatter.Chapters

	if len(front) != 1 || front[0].SpecialType != models.SpecialPreface {
		t.Errorf("front matter wrong: %+v", front)
	}
	if len(body) != 1 || body[0].SpecialType != models.SpecialMainChapter || body[0].Ordinal != 1 {
		t.Errorf("body wrong: %+v", body)
	}
	if len(back) != 1 || back[0].SpecialType != models.SpecialAfterword {
		t.Errorf("back matter wrong: %+v", back)
	}
	if book.Meta.Title != "七剑下天山" {
		t.Errorf("title = %q", book.Meta.Title)
	}
	if book.Meta.Language != "zh" {
		t.Errorf("language default = %q, want zh", book.Meta.Language)
	}
	if book.Meta.SchemaVersion != models.SchemaVersion {
		t.Errorf("schema version = %q", book.Meta.SchemaVersion)
	}
}

func TestNormalizeDiscoversNestedChapterPaths(t *testing.T) {
	n := NewNormalizer(nil)

	layouts := []map[string]any{
		{"title": "书", "chapters": []any{map[string]any{"title": "第一章", "content": "x"}}},
		{"title": "书", "body": map[string]any{"chapters": []any{map[string]any{"title": "第一章", "content": "x"}}}},
		{"title": "书", "structure": map[string]any{"chapters": []any{map[string]any{"title": "第一章", "content": "x"}}}},
		{"title": "书", "structure": map[string]any{"body": map[string]any{"chapters": []any{map[string]any{"title": "第一章", "content": "x"}}}}},
	}

	for i, raw := range layouts {
		book, _, err := n.Normalize(raw)
		if err != nil {
			t.Fatalf("layout %d: %v", i, err)
		}
		if len(book.Structure.Body.Chapters) != 1 {
			t.Errorf("layout %d: found %d body chapters, want 1", i, len(book.Structure.Body.Chapters))
		}
	}
}

func TestNormalizeNoChapterList(t *testing.T) {
	n := NewNormalizer(nil)

	book, report, err := n.Normalize(map[string]any{"title": "空书"})
	if err != nil {
		t.Fatalf("missing chapter list must not return an error, got %v", err)
	}
	if report.Passed {
		t.Error("report should fail when no chapter list is found")
	}
	if len(book.Structure.Body.Chapters) != 0 {
		t.Errorf("body should be empty, got %d chapters", len(book.Structure.Body.Chapters))
	}

	found := false
	for _, f := range report.Findings {
		if f.Code == models.FindingNoChapters {
			found = true
		}
	}
	if !found {
		t.Error("report should contain a no_chapters finding")
	}
}

func TestNormalizeBytesNotAnObject(t *testing.T) {
	n := NewNormalizer(nil)

	_, _, err := n.NormalizeBytes([]byte(`["not", "an", "object"]`))
	if err == nil {
		t.Fatal("expected InputValidationError for array input")
	}
	if _, ok := err.(*InputValidationError); !ok {
		t.Errorf("error type = %T, want *InputValidationError", err)
	}
}

func TestNormalizeOrdinalsContiguous(t *testing.T) {
	n := NewNormalizer(nil)

	chapters := make([]any, 0, 30)
	for i := 0; i < 30; i++ {
		chapters = append(chapters, map[string]any{
			"title":   "第章",
			"content": "text",
		})
	}
	book, _, err := n.Normalize(map[string]any{"title": "长书", "chapters": chapters})
	if err != nil {
		t.Fatal(err)
	}

	for i, ch := range book.Structure.Body.Chapters {
		if ch.Ordinal != i+1 {
			t.Errorf("chapter %d ordinal = %d, want %d", i, ch.Ordinal, i+1)
		}
	}
}

func TestNormalizeChapterIDsUniqueAndStable(t *testing.T) {
	n := NewNormalizer(nil)

	raw := map[string]any{
		"title": "书",
		"chapters": []any{
			map[string]any{"id": "chapter-0002", "title": "甲", "content": "x"},
			map[string]any{"title": "乙", "content": "x"},
			map[string]any{"title": "丙", "content": "x"},
		},
	}

	book, _, err := n.Normalize(raw)
	if err != nil {
		t.Fatal(err)
	}

	ids := make(map[string]bool)
	for _, ch := range book.AllChapters() {
		if ids[ch.ID] {
			t.Errorf("duplicate chapter ID %q", ch.ID)
		}
		ids[ch.ID] = true
	}
	if !ids["chapter-0002"] {
		t.Error("raw-supplied chapter ID was not preserved")
	}

	// Same input, same output.
	again, _, err := NewNormalizer(nil).Normalize(raw)
	if err != nil {
		t.Fatal(err)
	}
	for i, ch := range book.AllChapters() {
		if again.AllChapters()[i].ID != ch.ID {
			t.Errorf("IDs not stable across re-runs: %q vs %q", again.AllChapters()[i].ID, ch.ID)
		}
	}
}

func TestNormalizeIdempotentOnCanonicalOutput(t *testing.T) {
	n := NewNormalizer(&Classifier{
		FrontWindow:  1,
		FrontMarkers: DefaultClassifier().FrontMarkers,
		BackMarkers:  DefaultClassifier().BackMarkers,
	})

	first, _, err := n.Normalize(rawWuxiaBook())
	if err != nil {
		t.Fatal(err)
	}

	// Round-trip through the output schema, then normalize again.
	data, err := json.Marshal(first)
	if err != nil {
		t.Fatal(err)
	}
	second, report, err := n.NormalizeBytes(data)
	if err != nil {
		t.Fatal(err)
	}
	if !report.Passed {
		t.Errorf("re-normalized canonical book failed validation: %+v", report.Findings)
	}

	a := first.AllChapters()
	b := second.AllChapters()
	if len(a) != len(b) {
		t.Fatalf("chapter count changed: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Errorf("chapter %d ID changed: %q vs %q", i, a[i].ID, b[i].ID)
		}
		if a[i].SectionType != b[i].SectionType || a[i].SpecialType != b[i].SpecialType {
			t.Errorf("chapter %d classification changed", i)
		}
		if len(a[i].ContentBlocks) != len(b[i].ContentBlocks) {
			t.Errorf("chapter %d block count changed", i)
			continue
		}
		for j := range a[i].ContentBlocks {
			if a[i].ContentBlocks[j].ID != b[i].ContentBlocks[j].ID {
				t.Errorf("chapter %d block %d ID changed", i, j)
			}
		}
	}
}

func TestNormalizeMetadataFallbackChain(t *testing.T) {
	n := NewNormalizer(nil)

	raw := map[string]any{
		"title_chinese": "白发魔女传",
		"author":        "梁羽生",
		"meta": map[string]any{
			"title_english": "The Bride with White Hair",
			"work_number":   "042",
		},
		"chapters": []any{map[string]any{"title": "第一章", "content": "x"}},
	}

	book, _, err := n.Normalize(raw)
	if err != nil {
		t.Fatal(err)
	}
	if book.Meta.Title != "白发魔女传" {
		t.Errorf("title = %q, want fallback to title_chinese", book.Meta.Title)
	}
	if book.Meta.TitleChinese != "白发魔女传" {
		t.Errorf("title_chinese = %q", book.Meta.TitleChinese)
	}
	if book.Meta.TitleEnglish != "The Bride with White Hair" {
		t.Errorf("title_english = %q, meta object should be preferred", book.Meta.TitleEnglish)
	}
	if book.Meta.Author != "梁羽生" {
		t.Errorf("author = %q", book.Meta.Author)
	}
	if book.Meta.WorkNumber != "042" {
		t.Errorf("work_number = %q", book.Meta.WorkNumber)
	}
}

func TestNormalizeStrictMode(t *testing.T) {
	n := NewNormalizer(nil)
	n.Strict = true

	raw := map[string]any{
		"chapters": []any{
			map[string]any{"id": "dup", "title": "甲", "content": "x"},
			map[string]any{"id": "dup", "title": "乙", "content": "x"},
		},
	}

	book, report, err := n.Normalize(raw)
	if err == nil {
		t.Fatal("strict mode should return an error for invariant violations")
	}
	if _, ok := err.(*BusinessRuleViolationError); !ok {
		t.Errorf("error type = %T, want *BusinessRuleViolationError", err)
	}
	if book == nil || report == nil {
		t.Error("book and report should still be returned in strict mode")
	}
}
