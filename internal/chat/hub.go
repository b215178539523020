package chat

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const defaultHistorySize = 50

// Message is one event in a book's review discussion.
type Message struct {
	Type   string    `json:"type"`
	BookID string    `json:"book_id"`
	User   string    `json:"user"`
	Text   string    `json:"text,omitempty"`
	At     time.Time `json:"at"`
}

// discussion is the live state of one book's room.
type discussion struct {
	connections map[*websocket.Conn]string
	history     []Message
}

// Hub keeps one discussion per book. Rooms come and go with their
// connections; history is bounded in memory only.
type Hub struct {
	mu          sync.Mutex
	books       map[string]*discussion
	historySize int
}

func NewHub(historySize int) *Hub {
	if historySize <= 0 {
		historySize = defaultHistorySize
	}
	return &Hub{
		books:       make(map[string]*discussion),
		historySize: historySize,
	}
}

func (h *Hub) Join(bookID string, ws *websocket.Conn, user string) []Message {
	var history []Message
	h.mu.Lock()
	d := h.discussionLocked(bookID)
	d.connections[ws] = user
	history = append(history, d.history...)
	h.mu.Unlock()

	h.Broadcast(Message{
		Type:   "user_join",
		BookID: bookID,
		User:   user,
		At:     time.Now().UTC(),
	})

	return history
}

func (h *Hub) Leave(bookID string, ws *websocket.Conn) {
	var user string
	h.mu.Lock()
	if d, ok := h.books[bookID]; ok {
		if u, exists := d.connections[ws]; exists {
			user = u
		}
		delete(d.connections, ws)
	}
	h.mu.Unlock()

	_ = ws.Close()

	if user != "" {
		h.Broadcast(Message{
			Type:   "user_leave",
			BookID: bookID,
			User:   user,
			At:     time.Now().UTC(),
		})
	}
}

func (h *Hub) Broadcast(msg Message) {
	if msg.At.IsZero() {
		msg.At = time.Now().UTC()
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	d, ok := h.books[msg.BookID]
	if !ok {
		return
	}

	if msg.Type == "message" {
		d.history = append(d.history, msg)
		if len(d.history) > h.historySize {
			d.history = d.history[len(d.history)-h.historySize:]
		}
	}

	for ws := range d.connections {
		if err := ws.WriteMessage(websocket.TextMessage, payload); err != nil {
			_ = ws.Close()
			delete(d.connections, ws)
		}
	}
}

func (h *Hub) History(bookID string) []Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	if d, ok := h.books[bookID]; ok {
		return append([]Message(nil), d.history...)
	}
	return nil
}

func (h *Hub) User(bookID string, ws *websocket.Conn) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if d, ok := h.books[bookID]; ok {
		return d.connections[ws]
	}
	return ""
}

func (h *Hub) discussionLocked(bookID string) *discussion {
	d, ok := h.books[bookID]
	if !ok {
		d = &discussion{connections: make(map[*websocket.Conn]string)}
		h.books[bookID] = d
	}
	return d
}
