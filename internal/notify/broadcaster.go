// Package notify fans committed event mutations out to live subscribers.
package notify

import (
	"log/slog"
	"sync"

	"github.com/Hazem7575/alamiya-sub000/internal/application"
)

// Message is one change delivered to subscribers.
type Message struct {
	Action string       `json:"action"`
	Event  EventPayload `json:"event"`
}

// EventPayload is the wire form of an event inside a change message.
type EventPayload struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	EventDate     string   `json:"event_date"`
	EventTime     string   `json:"event_time"`
	Status        string   `json:"status"`
	CityID        string   `json:"city_id"`
	CityName      string   `json:"city_name"`
	ObserverCodes []string `json:"observers,omitempty"`
	SngCodes      []string `json:"sngs,omitempty"`
	GenCodes      []string `json:"generators,omitempty"`
}

func payloadFor(event application.Event) EventPayload {
	return EventPayload{
		ID:            event.ID,
		Title:         event.Title,
		Description:   event.Description,
		EventDate:     event.EventDate,
		EventTime:     event.EventTime,
		Status:        event.Status,
		CityID:        event.CityID,
		CityName:      event.CityName,
		ObserverCodes: event.ObserverCodes,
		SngCodes:      event.SngCodes,
		GenCodes:      event.GenCodes,
	}
}

// Broadcaster delivers change messages to subscribers without ever blocking
// the mutation path. Subscribers that cannot keep up lose messages rather
// than slow the producer.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[chan Message]struct{}
	bufferSize  int
	logger      *slog.Logger
}

// NewBroadcaster returns an empty broadcaster. bufferSize bounds how many
// undelivered messages each subscriber may queue.
func NewBroadcaster(bufferSize int, logger *slog.Logger) *Broadcaster {
	if bufferSize <= 0 {
		bufferSize = 16
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster{
		subscribers: make(map[chan Message]struct{}),
		bufferSize:  bufferSize,
		logger:      logger,
	}
}

// Subscribe registers a new listener. The caller must invoke the returned
// cancel function when done.
func (b *Broadcaster) Subscribe() (<-chan Message, func()) {
	ch := make(chan Message, b.bufferSize)

	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subscribers, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Broadcast delivers one change to every subscriber. Full subscriber queues
// drop the message.
func (b *Broadcaster) Broadcast(action application.ChangeAction, event application.Event) {
	if b == nil {
		return
	}
	msg := Message{Action: string(action), Event: payloadFor(event)}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subscribers {
		select {
		case ch <- msg:
		default:
			b.logger.Warn("dropping change message for slow subscriber",
				"action", msg.Action, "event_id", msg.Event.ID)
		}
	}
}

// SubscriberCount reports how many listeners are registered.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
