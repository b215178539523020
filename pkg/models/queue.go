package models

import "time"

// QueueItem is one book on a reviewer's work queue.
type QueueItem struct {
	UserID         string    `json:"user_id"`
	BookID         string    `json:"book_id"`
	CurrentChapter int       `json:"current_chapter"`
	Status         string    `json:"status"`
	UpdatedAt      time.Time `json:"updated_at"`
}
