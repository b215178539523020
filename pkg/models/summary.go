package models

import "time"

// BookSummary is the listing row stored alongside the canonical
// document in the books table. The full document is kept as JSON text;
// these columns exist so search and listing never have to unmarshal it.
type BookSummary struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	TitleEnglish  string    `json:"title_english,omitempty"`
	Author        string    `json:"author,omitempty"`
	Language      string    `json:"language"`
	Source        string    `json:"source,omitempty"`
	WorkNumber    string    `json:"work_number,omitempty"`
	ChapterCount  int       `json:"chapter_count"`
	Passed        bool      `json:"passed"`
	SchemaVersion string    `json:"schema_version"`
	UpdatedAt     time.Time `json:"updated_at"`
}
