package validate

import (
	"testing"

	"novelhub/pkg/models"
)

func validBook() *models.Book {
	return &models.Book{
		Meta: models.BookMeta{
			Title:         "七剑下天山",
			Language:      "zh",
			SchemaVersion: models.SchemaVersion,
		},
		Structure: models.BookStructure{
			Body: models.Matter{Chapters: []*models.Chapter{
				{
					ID:          "chapter-0001",
					Title:       "第一章",
					Ordinal:     1,
					SectionType: models.SectionBody,
					SpecialType: models.SpecialMainChapter,
					ContentBlocks: []*models.ContentBlock{
						{ID: "block-0001", Type: models.BlockParagraph, Content: "剑光如雪。"},
					},
				},
				{
					ID:          "chapter-0002",
					Title:       "第二章",
					Ordinal:     2,
					SectionType: models.SectionBody,
					SpecialType: models.SpecialMainChapter,
					ContentBlocks: []*models.ContentBlock{
						{ID: "block-0001", Type: models.BlockParagraph, Content: "风雪山神庙。"},
					},
				},
			}},
		},
	}
}

func TestValidateValidBook(t *testing.T) {
	report := Validate(validBook())
	if !report.Passed {
		t.Errorf("valid book failed: %+v", report.Findings)
	}
	if len(report.Findings) != 0 {
		t.Errorf("valid book has findings: %+v", report.Findings)
	}
}

func TestValidateCollectsAllFindingsInOnePass(t *testing.T) {
	b := validBook()
	// Duplicate chapter ID AND an empty-content chapter: both must
	// surface in a single run.
	b.Structure.Body.Chapters[1].ID = "chapter-0001"
	b.Structure.Body.Chapters = append(b.Structure.Body.Chapters, &models.Chapter{
		ID:            "chapter-0003",
		Title:         "占位",
		Ordinal:       3,
		SectionType:   models.SectionBody,
		SpecialType:   models.SpecialMainChapter,
		ContentBlocks: []*models.ContentBlock{},
	})

	report := Validate(b)
	if report.Passed {
		t.Error("report should fail")
	}

	var dup, empty bool
	for _, f := range report.Findings {
		switch f.Code {
		case models.FindingDuplicateChapterID:
			dup = true
		case models.FindingEmptyChapter:
			empty = true
		}
	}
	if !dup {
		t.Error("missing duplicate_chapter_id finding")
	}
	if !empty {
		t.Error("missing empty_chapter finding")
	}
}

func TestValidateOrdinalGap(t *testing.T) {
	b := validBook()
	b.Structure.Body.Chapters[1].Ordinal = 5

	report := Validate(b)
	if report.Passed {
		t.Error("ordinal gap should fail the report")
	}

	found := false
	for _, f := range report.Findings {
		if f.Code == models.FindingOrdinalGap && f.EntityID == "chapter-0002" {
			found = true
		}
	}
	if !found {
		t.Errorf("missing ordinal_gap finding for chapter-0002: %+v", report.Findings)
	}
}

func TestValidateDuplicateBlockIDsWithinChapter(t *testing.T) {
	b := validBook()
	ch := b.Structure.Body.Chapters[0]
	ch.ContentBlocks = append(ch.ContentBlocks, &models.ContentBlock{
		ID: "block-0001", Type: models.BlockParagraph, Content: "again",
	})

	report := Validate(b)
	if report.Passed {
		t.Error("duplicate block ID should fail the report")
	}
}

func TestValidateBlockIDsScopedPerChapter(t *testing.T) {
	// Both chapters in validBook use block-0001; uniqueness is only
	// required within a chapter.
	report := Validate(validBook())
	for _, f := range report.Findings {
		if f.Code == models.FindingDuplicateBlockID {
			t.Errorf("block IDs wrongly treated as book-global: %+v", f)
		}
	}
}

func TestValidateEmptyContentIsWarning(t *testing.T) {
	b := validBook()
	b.Structure.Body.Chapters[0].ContentBlocks = []*models.ContentBlock{}

	report := Validate(b)
	if !report.Passed {
		t.Error("empty chapter is a warning and must not fail the report")
	}
	if len(report.Warnings()) == 0 {
		t.Error("expected an empty_chapter warning")
	}
}

func TestValidateMissingMetadata(t *testing.T) {
	b := validBook()
	b.Meta.Title = ""
	b.Meta.Language = "  "

	report := Validate(b)
	if report.Passed {
		t.Error("missing metadata should fail the report")
	}
	if got := len(report.Errors()); got != 2 {
		t.Errorf("got %d errors, want 2 (title and language)", got)
	}
}
