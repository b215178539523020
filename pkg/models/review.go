package models

import "time"

// Review is one reviewer verdict on a normalized book.
type Review struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	BookID    string    `json:"book_id"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
