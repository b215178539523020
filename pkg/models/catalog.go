package models

// CatalogEntry maps a source work directory to catalog metadata,
// including English translations of the title and author when known.
type CatalogEntry struct {
	WorkNumber    string `json:"work_number"`
	TitleChinese  string `json:"title_chinese"`
	TitleEnglish  string `json:"title_english,omitempty"`
	Author        string `json:"author,omitempty"`
	AuthorEnglish string `json:"author_english,omitempty"`
}
