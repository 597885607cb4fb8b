package generator

import (
	"sync"
	"time"
)

// EventStatus marks a stage transition.
type EventStatus string

const (
	StageStarted   EventStatus = "started"
	StageCompleted EventStatus = "completed"
	StageDegraded  EventStatus = "degraded"
	StageFailed    EventStatus = "failed"
	RunFinished    EventStatus = "finished"
)

// Event is one progress update emitted while a pipeline runs.
type Event struct {
	Stage   string      `json:"stage"`
	Status  EventStatus `json:"status"`
	PostID  uint        `json:"post_id,omitempty"`
	Message string      `json:"message,omitempty"`
	At      time.Time   `json:"at"`
}

// ProgressHub fans pipeline events out to subscribers. Slow subscribers drop
// events rather than block the pipeline.
type ProgressHub struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

func NewProgressHub() *ProgressHub {
	return &ProgressHub{subs: make(map[chan Event]struct{})}
}

// Subscribe returns a buffered channel receiving future events.
func (h *ProgressHub) Subscribe() chan Event {
	ch := make(chan Event, 32)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs[ch] = struct{}{}
	return ch
}

// Unsubscribe removes and closes a subscriber channel.
func (h *ProgressHub) Unsubscribe(ch chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
}

// Publish delivers the event to every subscriber that has buffer room.
func (h *ProgressHub) Publish(event Event) {
	if h == nil {
		return
	}
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
