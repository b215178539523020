package models

import "time"

// ProgressHistory is one append-only record of review progress through
// a book's body chapters.
type ProgressHistory struct {
	UserID  string    `json:"user_id"`
	BookID  string    `json:"book_id"`
	Chapter int       `json:"chapter"`
	At      time.Time `json:"at"`
}
