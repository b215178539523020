package models

import "time"

// SchemaVersion identifies the canonical book shape produced by the
// normalizer. Stored in meta so stale documents can be detected later.
const SchemaVersion = "2.0"

// SectionType is the coarse placement of a chapter within the book.
type SectionType string

const (
	SectionFrontMatter SectionType = "front_matter"
	SectionBody        SectionType = "body"
	SectionBackMatter  SectionType = "back_matter"
)

var validSectionTypes = map[SectionType]bool{
	SectionFrontMatter: true,
	SectionBody:        true,
	SectionBackMatter:  true,
}

// IsValid returns true if the section type is one of the known values.
func (s SectionType) IsValid() bool {
	return validSectionTypes[s]
}

// SpecialType is the semantic role of a chapter within its section.
type SpecialType string

const (
	SpecialPreface      SpecialType = "preface"
	SpecialIntroduction SpecialType = "introduction"
	SpecialPrologue     SpecialType = "prologue"
	SpecialMainChapter  SpecialType = "main_chapter"
	SpecialEpilogue     SpecialType = "epilogue"
	SpecialAfterword    SpecialType = "afterword"
	SpecialAppendix     SpecialType = "appendix"
	SpecialAuthorNote   SpecialType = "author_note"
)

var validSpecialTypes = map[SpecialType]bool{
	SpecialPreface:      true,
	SpecialIntroduction: true,
	SpecialPrologue:     true,
	SpecialMainChapter:  true,
	SpecialEpilogue:     true,
	SpecialAfterword:    true,
	SpecialAppendix:     true,
	SpecialAuthorNote:   true,
}

// IsValid returns true if the special type is one of the known values.
func (s SpecialType) IsValid() bool {
	return validSpecialTypes[s]
}

// Well-known content block types. The tag set is open: source texts
// carry uncatalogued block kinds, so unknown values are preserved as-is.
const (
	BlockParagraph = "paragraph"
	BlockHeading   = "heading"
	BlockQuote     = "quote"
)

// Book is the canonical, normalized form of one novel. All raw source
// layouts are mapped into this structure first; the API, the store and
// the export tooling only ever see this representation.
type Book struct {
	Meta        BookMeta           `json:"meta"`
	Structure   BookStructure      `json:"structure"`
	EditHistory []EditHistoryEntry `json:"edit_history"`
}

// BookMeta holds bibliographic metadata. Title and Language are always
// present on a canonical book; the rest depends on the source.
type BookMeta struct {
	Title         string `json:"title"`
	Language      string `json:"language"`
	SchemaVersion string `json:"schema_version"`
	Source        string `json:"source,omitempty"`
	OriginalFile  string `json:"original_file,omitempty"`
	WorkNumber    string `json:"work_number,omitempty"`
	TitleChinese  string `json:"title_chinese,omitempty"`
	TitleEnglish  string `json:"title_english,omitempty"`
	Author        string `json:"author,omitempty"`
	AuthorEnglish string `json:"author_english,omitempty"`
	Volume        string `json:"volume,omitempty"`
}

// BookStructure splits chapters into the three reading sections.
// Body chapter order is the canonical reading order.
type BookStructure struct {
	FrontMatter Matter `json:"front_matter"`
	Body        Matter `json:"body"`
	BackMatter  Matter `json:"back_matter"`
}

// Matter is one structure slot holding an ordered chapter list.
type Matter struct {
	Chapters []*Chapter `json:"chapters"`
}

// Chapter is one normalized chapter. Ordinal is 1-based and only
// assigned to body chapters.
type Chapter struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Ordinal       int             `json:"ordinal,omitempty"`
	ContentBlocks []*ContentBlock `json:"content_blocks"`
	SectionType   SectionType     `json:"section_type"`
	SpecialType   SpecialType     `json:"special_type"`
}

// ContentBlock is the smallest discrete unit of chapter content.
// EpubID is assigned at export time by external tooling, never here.
type ContentBlock struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Content string `json:"content"`
	EpubID  string `json:"epub_id,omitempty"`
}

// EditHistoryEntry records one mutation applied to a canonical book.
// Entries are append-only and never rewritten.
type EditHistoryEntry struct {
	Timestamp time.Time      `json:"timestamp"`
	Action    string         `json:"action"`
	Details   map[string]any `json:"details,omitempty"`
}

// AllChapters returns front matter, body and back matter chapters in
// reading order.
func (b *Book) AllChapters() []*Chapter {
	out := make([]*Chapter, 0,
		len(b.Structure.FrontMatter.Chapters)+
			len(b.Structure.Body.Chapters)+
			len(b.Structure.BackMatter.Chapters))
	out = append(out, b.Structure.FrontMatter.Chapters...)
	out = append(out, b.Structure.Body.Chapters...)
	out = append(out, b.Structure.BackMatter.Chapters...)
	return out
}

// FindChapter looks a chapter up by ID across all sections.
func (b *Book) FindChapter(id string) *Chapter {
	for _, ch := range b.AllChapters() {
		if ch.ID == id {
			return ch
		}
	}
	return nil
}

// AppendHistory adds one edit history entry stamped with the current
// UTC time.
func (b *Book) AppendHistory(action string, details map[string]any) {
	b.EditHistory = append(b.EditHistory, EditHistoryEntry{
		Timestamp: time.Now().UTC(),
		Action:    action,
		Details:   details,
	})
}
