package broadcast

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/smartdetector/iot-alerting/internal/pkg/infrastructure/logging"
)

// Event is anything that can be pushed to subscribers as a json document.
type Event interface {
	EventType() string
}

//go:generate moq -rm -out subscriber_mock.go . Subscriber

// Subscriber is one live connection. Send must not block for long, a slow
// subscriber should drop or buffer messages on its own.
type Subscriber interface {
	ID() string
	Send(msg []byte) error
}

// Mirror receives a copy of every event, e.g. a server sent events stream.
type Mirror interface {
	Publish(event string, data any) error
}

type Broadcaster interface {
	Broadcast(ctx context.Context, e Event)
}

// Hub keeps the in-memory set of live subscribers. It is process scoped and
// is not shared between instances.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]Subscriber
	mirrors     []Mirror
}

func NewHub(mirrors ...Mirror) *Hub {
	return &Hub{
		subscribers: make(map[string]Subscriber),
		mirrors:     mirrors,
	}
}

func (h *Hub) Subscribe(s Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.subscribers[s.ID()] = s
}

// Unsubscribe removes s. Removing an unknown subscriber is a no-op.
func (h *Hub) Unsubscribe(s Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.subscribers, s.ID())
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subscribers)
}

func (h *Hub) snapshot() []Subscriber {
	h.mu.RLock()
	defer h.mu.RUnlock()

	subscribers := make([]Subscriber, 0, len(h.subscribers))
	for _, s := range h.subscribers {
		subscribers = append(subscribers, s)
	}

	return subscribers
}

// Broadcast sends e to every subscriber registered when the call started.
// A failed send is logged and never retried.
func (h *Hub) Broadcast(ctx context.Context, e Event) {
	logger := logging.GetFromContext(ctx)

	b, err := json.Marshal(e)
	if err != nil {
		logger.Error().Err(err).Str("event", e.EventType()).Msg("failed to marshal event")
		return
	}

	for _, s := range h.snapshot() {
		if err := s.Send(b); err != nil {
			logger.Debug().Err(err).Str("subscriber", s.ID()).Str("event", e.EventType()).Msg("failed to send event to subscriber")
		}
	}

	for _, m := range h.mirrors {
		if err := m.Publish(e.EventType(), e); err != nil {
			logger.Error().Err(err).Str("event", e.EventType()).Msg("failed to mirror event")
		}
	}
}
