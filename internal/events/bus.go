// Package events fans board mutations out to live subscribers over
// server-sent events.
package events

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event types published by the handlers.
const (
	BoardUpdated  = "board.updated"
	BoardDeleted  = "board.deleted"
	ColumnCreated = "column.created"
	ColumnUpdated = "column.updated"
	ColumnDeleted = "column.deleted"
	ColumnMoved   = "column.moved"
	CardCreated   = "card.created"
	CardUpdated   = "card.updated"
	CardDeleted   = "card.deleted"
	CardMoved     = "card.moved"
	ShareGranted  = "share.granted"
	ShareRevoked  = "share.revoked"
)

type Event struct {
	Type    string    `json:"type"`
	Entity  string    `json:"entity,omitempty"`
	BoardID uuid.UUID `json:"boardId"`
	ActorID uuid.UUID `json:"actorId"`
	Payload any       `json:"payload,omitempty"`
}

type subscriber struct {
	userID uuid.UUID
	ch     chan []byte
}

type Bus struct {
	mu        sync.RWMutex
	subs      map[uuid.UUID]map[*subscriber]struct{}
	heartbeat time.Duration
}

func NewBus() *Bus {
	return &Bus{
		subs:      make(map[uuid.UUID]map[*subscriber]struct{}),
		heartbeat: 25 * time.Second,
	}
}

// Subscribe registers userID for events on boardID. The returned channel is
// closed by cancel or when the subscriber is disconnected by the bus.
func (b *Bus) Subscribe(boardID, userID uuid.UUID) (<-chan []byte, func()) {
	sub := &subscriber{userID: userID, ch: make(chan []byte, 16)}

	b.mu.Lock()
	if b.subs[boardID] == nil {
		b.subs[boardID] = make(map[*subscriber]struct{})
	}
	b.subs[boardID][sub] = struct{}{}
	b.mu.Unlock()

	return sub.ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.remove(boardID, sub)
	}
}

// remove must be called with mu held.
func (b *Bus) remove(boardID uuid.UUID, sub *subscriber) {
	subs, ok := b.subs[boardID]
	if !ok {
		return
	}
	if _, ok := subs[sub]; !ok {
		return
	}
	delete(subs, sub)
	close(sub.ch)
	if len(subs) == 0 {
		delete(b.subs, boardID)
	}
}

// Publish delivers ev to every subscriber of its board. Slow subscribers
// drop the event rather than block the publisher.
func (b *Bus) Publish(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		slog.Error("marshal event", "type", ev.Type, "error", err)
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.subs[ev.BoardID] {
		select {
		case sub.ch <- data:
		default:
		}
	}
}

// Disconnect closes every stream of userID on boardID. Used when access is revoked.
func (b *Bus) Disconnect(boardID, userID uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs[boardID] {
		if sub.userID == userID {
			b.remove(boardID, sub)
		}
	}
}

// CloseBoard closes every stream on boardID. Used after the board is deleted.
func (b *Bus) CloseBoard(boardID uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs[boardID] {
		b.remove(boardID, sub)
	}
}

// Subscribers returns the number of open streams on boardID.
func (b *Bus) Subscribers(boardID uuid.UUID) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[boardID])
}

// ServeSSE streams events for boardID until the client goes away or the bus
// disconnects it.
func (b *Bus) ServeSSE(w http.ResponseWriter, r *http.Request, boardID, userID uuid.UUID) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "stream unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	ch, cancel := b.Subscribe(boardID, userID)
	defer cancel()

	_, _ = w.Write([]byte(": connected\n\n"))
	flusher.Flush()

	ticker := time.NewTicker(b.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			_, _ = w.Write([]byte(": ping\n\n"))
			flusher.Flush()
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write([]byte("data: "))
			_, _ = w.Write(msg)
			_, _ = w.Write([]byte("\n\n"))
			flusher.Flush()
		}
	}
}
