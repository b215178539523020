package normalize

import (
	"encoding/json"

	"novelhub/internal/validate"
	"novelhub/pkg/models"
)

// Normalizer turns heterogeneous raw book JSON into a canonical Book.
// It holds no per-document state; one Normalizer may be shared across
// goroutines as long as each call gets its own raw document.
type Normalizer struct {
	classifier *Classifier

	// Strict makes Normalize return a BusinessRuleViolationError when
	// the produced document has error-severity findings. Batch tooling
	// leaves this off and inspects the report instead.
	Strict bool
}

// NewNormalizer creates a Normalizer. A nil classifier selects the
// default marker set.
func NewNormalizer(classifier *Classifier) *Normalizer {
	if classifier == nil {
		classifier = DefaultClassifier()
	}
	return &Normalizer{classifier: classifier}
}

// chapterLookups locates the chapter list inside a raw document. Each
// strategy is a pure lookup; the first one returning a non-empty list
// wins. Raw sources nest chapters under several conventions, and a
// canonical document round-trips through the first strategy.
var chapterLookups = []func(map[string]any) []any{
	func(m map[string]any) []any {
		structure := childMap(m, "structure")
		if structure == nil {
			return nil
		}
		var out []any
		for _, slot := range []string{"front_matter", "body", "back_matter"} {
			out = append(out, listAt(structure, slot+".chapters")...)
		}
		return out
	},
	func(m map[string]any) []any { return listAt(m, "structure.chapters") },
	func(m map[string]any) []any { return listAt(m, "body.chapters") },
	func(m map[string]any) []any { return listAt(m, "chapters") },
}

// NormalizeBytes parses raw JSON and normalizes it. Input that is not
// a JSON object at all is the one condition that returns an
// InputValidationError instead of a report.
func (n *Normalizer) NormalizeBytes(data []byte) (*models.Book, *models.ValidationReport, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, &InputValidationError{Reason: "document is not a JSON object"}
	}
	return n.Normalize(raw)
}

// Normalize produces a canonical Book plus its validation report.
// Data-quality problems (no chapter list, empty content, missing
// metadata) degrade to report findings so batch runs can continue past
// individually broken books.
func (n *Normalizer) Normalize(raw map[string]any) (*models.Book, *models.ValidationReport, error) {
	if raw == nil {
		return nil, nil, &InputValidationError{Reason: "document is not a JSON object"}
	}

	book := &models.Book{
		Meta:        n.extractMeta(raw),
		EditHistory: []models.EditHistoryEntry{},
	}
	book.Structure.FrontMatter.Chapters = []*models.Chapter{}
	book.Structure.Body.Chapters = []*models.Chapter{}
	book.Structure.BackMatter.Chapters = []*models.Chapter{}

	report := models.NewValidationReport()

	rawChapters := discoverChapters(raw)
	if rawChapters == nil {
		report.AddError(models.FindingNoChapters,
			"no chapter list found under any known path", "")
		report.Merge(validate.Validate(book))
		return book, report, nil
	}

	// Reserve raw-supplied IDs up front so a generated ID can never
	// collide with a raw ID appearing later in the list.
	records := make([]map[string]any, 0, len(rawChapters))
	alloc := newAllocator()
	for _, item := range rawChapters {
		rec, ok := item.(map[string]any)
		if !ok {
			report.AddWarning(models.FindingDataQuality,
				"skipped non-object chapter record", "")
			continue
		}
		alloc.Reserve(stringField(rec, "id"))
		records = append(records, rec)
	}

	total := len(records)
	for i, rec := range records {
		ch := n.normalizeChapter(rec, i, total, alloc)
		switch ch.SectionType {
		case models.SectionFrontMatter:
			book.Structure.FrontMatter.Chapters = append(book.Structure.FrontMatter.Chapters, ch)
		case models.SectionBackMatter:
			book.Structure.BackMatter.Chapters = append(book.Structure.BackMatter.Chapters, ch)
		default:
			book.Structure.Body.Chapters = append(book.Structure.Body.Chapters, ch)
		}
	}

	// Ordinals are sequential within the body only; front and back
	// matter chapters carry none.
	for i, ch := range book.Structure.Body.Chapters {
		ch.Ordinal = i + 1
	}

	report.Merge(validate.Validate(book))

	if n.Strict && !report.Passed {
		return book, report, &BusinessRuleViolationError{Findings: len(report.Errors())}
	}
	return book, report, nil
}

// discoverChapters tries each lookup strategy in sequence. nil means no
// strategy matched; an empty non-nil result means an explicitly empty
// chapter list was found.
func discoverChapters(raw map[string]any) []any {
	for _, lookup := range chapterLookups {
		if list := lookup(raw); list != nil {
			return list
		}
	}
	return nil
}
