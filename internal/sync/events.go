package sync

import "time"

// BookEvent is broadcast to TCP and WebSocket listeners whenever a
// canonical book changes in the store.
type BookEvent struct {
	Type   string    `json:"type"` // "book.update" or "book.delete"
	BookID string    `json:"book_id"`
	UserID string    `json:"user_id,omitempty"`
	At     time.Time `json:"at"`
}

// QueueEvent mirrors reviewer queue changes.
type QueueEvent struct {
	Type           string    `json:"type"` // "queue.update" or "queue.delete"
	UserID         string    `json:"user_id"`
	BookID         string    `json:"book_id"`
	CurrentChapter int       `json:"current_chapter,omitempty"`
	Status         string    `json:"status,omitempty"`
	At             time.Time `json:"at"`
}
