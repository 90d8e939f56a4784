package events

import (
	"context"
	"sync"
)

// InMemoryStore keeps emitted events in memory. It favors clarity over
// performance and backs unit tests and single-node deployments.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// List returns events of the given type, or all events for the empty type.
func (s *InMemoryStore) List(_ context.Context, eventType Type) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if eventType == "" {
		return append([]Event{}, s.events...), nil
	}
	var out []Event
	for _, e := range s.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out, nil
}
