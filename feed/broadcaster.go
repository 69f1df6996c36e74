// Package feed implements a Server-Sent Events broadcaster announcing newly
// created posts to connected clients.
package feed

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
)

// Event is a single SSE message: an event name and a JSON-encoded payload.
type Event struct {
	Name string
	Data string
}

// Broadcaster manages subscriber channels and fans events out to them.
// Slow subscribers are skipped rather than blocking publication.
type Broadcaster struct {
	mu      sync.RWMutex
	clients map[string]chan Event
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{clients: make(map[string]chan Event)}
}

// Subscribe registers a new client and returns its id and event channel.
func (b *Broadcaster) Subscribe() (string, <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.New().String()
	ch := make(chan Event, 32)
	b.clients[id] = ch
	return id, ch
}

// Unsubscribe deregisters a client and closes its channel.
func (b *Broadcaster) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.clients[id]; ok {
		delete(b.clients, id)
		close(ch)
	}
}

// Subscribers returns the number of connected clients.
func (b *Broadcaster) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// Publish encodes payload as JSON and sends the event to every subscriber.
// Subscribers whose buffers are full miss the event.
func (b *Broadcaster) Publish(event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("feed: dropping %s event: %v", event, err)
		return
	}
	e := Event{Name: event, Data: string(data)}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.clients {
		select {
		case ch <- e:
		default:
		}
	}
}

// HandleStream is the SSE endpoint. It subscribes the caller and streams
// events until the client disconnects.
func (b *Broadcaster) HandleStream() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		id, events := b.Subscribe()
		defer b.Unsubscribe(id)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		flusher.Flush()

		for {
			select {
			case <-r.Context().Done():
				return
			case e, open := <-events:
				if !open {
					return
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Name, e.Data)
				flusher.Flush()
			}
		}
	}
}
