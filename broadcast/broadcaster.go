// Package broadcast fans newly stored messages out to live subscribers.
//
// It provides best-effort in-process delivery with no durability or
// retries: a subscriber registered before Publish receives the message
// at most once, a subscriber registered after receives nothing for it.
// Each subscriber observes messages in publish order.
package broadcast

import (
	"chat-hub/domain"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Subscriber is one live listener. Its channel is owned by the
// broadcaster: it is closed on Unsubscribe and must not be closed by
// the consumer.
type Subscriber struct {
	id     uuid.UUID
	events chan domain.Message
}

// Events is the stream of messages published while subscribed.
func (s *Subscriber) Events() <-chan domain.Message {
	return s.events
}

// Broadcaster holds the transient set of subscribers. It keeps no
// persistent state and is safe for concurrent use.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[uuid.UUID]*Subscriber
	bufferSize  int
	log         *slog.Logger
}

func NewBroadcaster(log *slog.Logger, bufferSize int) *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[uuid.UUID]*Subscriber),
		bufferSize:  bufferSize,
		log:         log,
	}
}

// Subscribe registers a new listener and returns it. The listener
// receives every message published from this point on.
func (b *Broadcaster) Subscribe() *Subscriber {
	sub := &Subscriber{
		id:     uuid.New(),
		events: make(chan domain.Message, b.bufferSize),
	}

	b.mu.Lock()
	b.subscribers[sub.id] = sub
	count := len(b.subscribers)
	b.mu.Unlock()

	b.log.Debug("subscriber registered", "subscriber_id", sub.id, "total", count)
	return sub
}

// Unsubscribe removes a listener and closes its channel. Unknown or
// already removed subscribers are ignored, so double unsubscribe is safe.
func (b *Broadcaster) Unsubscribe(sub *Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subscribers[sub.id]; !ok {
		return
	}
	delete(b.subscribers, sub.id)
	close(sub.events)
	b.log.Debug("subscriber removed", "subscriber_id", sub.id, "total", len(b.subscribers))
}

// Publish delivers the message to every subscriber registered at the
// moment of the call. Delivery is non-blocking: a subscriber whose
// buffer is full simply misses the message, with no redelivery.
func (b *Broadcaster) Publish(message domain.Message) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subscribers {
		select {
		case sub.events <- message:
		default:
			b.log.Warn("message dropped, subscriber buffer full",
				"subscriber_id", sub.id, "message_id", message.ID)
		}
	}
}

// Len reports the current number of subscribers.
func (b *Broadcaster) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
