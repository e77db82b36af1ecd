package events

import (
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultCapacity bounds the global feed and each stream of an InMemoryEventStore.
const DefaultCapacity = 500

// InMemoryEventStore keeps the most recent events in process memory, in a
// ring for the global feed and a trimmed slice per stream.
// Handlers run synchronously after the append, outside the store lock.
type InMemoryEventStore struct {
	mu       sync.RWMutex
	ring     []change
	next     int // absolute position of the next append
	streams  map[string][]change
	versions map[string]int
	handlers map[string][]EventHandler
	capacity int
	logger   *zap.Logger
}

// NewInMemoryEventStore creates a store retaining DefaultCapacity events.
func NewInMemoryEventStore(logger *zap.Logger) *InMemoryEventStore {
	return NewInMemoryEventStoreWithCapacity(DefaultCapacity, logger)
}

// NewInMemoryEventStoreWithCapacity keeps at most capacity events in the global feed.
func NewInMemoryEventStoreWithCapacity(capacity int, logger *zap.Logger) *InMemoryEventStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &InMemoryEventStore{
		ring:     make([]change, 0, capacity),
		streams:  make(map[string][]change),
		versions: make(map[string]int),
		handlers: make(map[string][]EventHandler),
		capacity: capacity,
		logger:   logger,
	}
}

// AppendEvent records event under streamID with the stream's next version.
func (s *InMemoryEventStore) AppendEvent(streamID string, event Event) error {
	s.mu.Lock()

	s.versions[streamID]++
	c := change{
		kind:    event.Type(),
		stream:  streamID,
		data:    event.Data(),
		at:      event.Timestamp(),
		version: s.versions[streamID],
	}
	if c.at.IsZero() {
		c.at = time.Now()
	}

	if len(s.ring) < s.capacity {
		s.ring = append(s.ring, c)
	} else {
		s.ring[s.next%s.capacity] = c
	}
	s.next++

	history := append(s.streams[streamID], c)
	if len(history) > s.capacity {
		history = slices.Clone(history[len(history)-s.capacity:])
	}
	s.streams[streamID] = history
	handlers := slices.Clone(s.handlers[c.kind])

	s.mu.Unlock()

	s.notify(handlers, c)
	return nil
}

// ReadEvents returns the retained events of one stream from fromVersion on.
func (s *InMemoryEventStore) ReadEvents(streamID string, fromVersion int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.streams[streamID]
	if len(history) == 0 {
		return []Event{}, nil
	}
	first := history[0].version
	if fromVersion < first {
		fromVersion = first
	}
	idx := fromVersion - first
	if idx >= len(history) {
		return []Event{}, nil
	}

	out := make([]Event, 0, len(history)-idx)
	for _, c := range history[idx:] {
		out = append(out, c)
	}
	return out, nil
}

// ReadAllEvents returns retained events from the given absolute position.
// Positions older than the retained window start at the oldest kept event.
func (s *InMemoryEventStore) ReadAllEvents(fromPosition int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	first := s.next - len(s.ring)
	if fromPosition < first {
		fromPosition = first
	}
	out := make([]Event, 0, max(0, s.next-fromPosition))
	for p := fromPosition; p < s.next; p++ {
		out = append(out, s.ring[p%s.capacity])
	}
	return out, nil
}

// Recent returns up to n events, newest first. n <= 0 returns everything retained.
func (s *InMemoryEventStore) Recent(n int) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 || n > len(s.ring) {
		n = len(s.ring)
	}
	out := make([]Event, 0, n)
	for p := s.next - 1; len(out) < n; p-- {
		out = append(out, s.ring[p%s.capacity])
	}
	return out
}

// Subscribe registers handler for each of eventTypes.
func (s *InMemoryEventStore) Subscribe(eventTypes []string, handler EventHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, eventType := range eventTypes {
		s.handlers[eventType] = append(s.handlers[eventType], handler)
	}
	return nil
}

// Unsubscribe removes handler from every event type.
func (s *InMemoryEventStore) Unsubscribe(handler EventHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for eventType, handlers := range s.handlers {
		s.handlers[eventType] = slices.DeleteFunc(slices.Clone(handlers), func(h EventHandler) bool {
			return h == handler
		})
	}
	return nil
}

func (s *InMemoryEventStore) notify(handlers []EventHandler, event Event) {
	for _, handler := range handlers {
		if !handler.CanHandle(event.Type()) {
			continue
		}
		if err := handler.Handle(event); err != nil {
			s.logger.Warn("event handler failed",
				zap.String("event", event.Type()),
				zap.String("stream", event.StreamID()),
				zap.Error(err),
			)
		}
	}
}
