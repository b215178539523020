package normalize

import "novelhub/pkg/models"

// defaultLanguage is assumed when a raw source carries no language tag;
// the corpus is Chinese-language fiction.
const defaultLanguage = "zh"

// metaFields is the ordered key-preference list per logical metadata
// field: explicit English fields first, then Chinese, then generic.
// Each chain is evaluated once against raw["meta"] and then the top
// level, first non-empty value winning.
var metaFields = map[string][]string{
	"title":          {"title", "title_chinese", "title_cn", "book_title", "name"},
	"language":       {"language", "lang"},
	"source":         {"source"},
	"original_file":  {"original_file", "file", "filename"},
	"work_number":    {"work_number", "work_no", "directory"},
	"title_chinese":  {"title_chinese", "title_cn"},
	"title_english":  {"title_english", "title_en", "english_title"},
	"author":         {"author", "author_chinese", "writer"},
	"author_english": {"author_english", "author_en"},
	"volume":         {"volume", "volume_title"},
}

// extractMeta resolves bibliographic metadata with per-field fallback
// chains, preferring a nested meta object over top-level keys.
func (n *Normalizer) extractMeta(raw map[string]any) models.BookMeta {
	lookup := func(field string) string {
		keys := metaFields[field]
		if meta := childMap(raw, "meta"); meta != nil {
			if v := firstString(meta, keys...); v != "" {
				return v
			}
		}
		return firstString(raw, keys...)
	}

	m := models.BookMeta{
		Title:         lookup("title"),
		Language:      lookup("language"),
		SchemaVersion: models.SchemaVersion,
		Source:        lookup("source"),
		OriginalFile:  lookup("original_file"),
		WorkNumber:    lookup("work_number"),
		TitleChinese:  lookup("title_chinese"),
		TitleEnglish:  lookup("title_english"),
		Author:        lookup("author"),
		AuthorEnglish: lookup("author_english"),
		Volume:        lookup("volume"),
	}

	if m.Language == "" {
		m.Language = defaultLanguage
	}
	if m.TitleChinese == "" && containsHan(m.Title) {
		m.TitleChinese = m.Title
	}
	return m
}

// containsHan reports whether s has at least one CJK ideograph.
func containsHan(s string) bool {
	for _, r := range s {
		if r >= 0x4E00 && r <= 0x9FFF {
			return true
		}
	}
	return false
}
