package normalize

import "novelhub/pkg/models"

// normalizeChapter maps one raw chapter record into a canonical
// Chapter. The caller supplies the record's position in the source list
// and the total count for positional classification; ordinals are
// assigned later, once all chapters are partitioned.
func (n *Normalizer) normalizeChapter(raw map[string]any, index, total int, alloc *allocator) *models.Chapter {
	id := stringField(raw, "id")
	if id == "" {
		id = alloc.ChapterID()
	}

	title := firstString(raw, "title", "chapter_title", "name")

	section, special := n.classifier.Classify(title, index, total)

	// Canonical input already carries its classification; honor it so
	// re-normalizing a canonical document is structurally a no-op.
	if s := models.SectionType(stringField(raw, "section_type")); s.IsValid() {
		section = s
	}
	if s := models.SpecialType(stringField(raw, "special_type")); s.IsValid() {
		special = s
	}

	return &models.Chapter{
		ID:            id,
		Title:         title,
		ContentBlocks: segmentChapterContent(raw),
		SectionType:   section,
		SpecialType:   special,
	}
}
