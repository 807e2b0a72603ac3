package sinks

import (
	"context"
	"sync"

	"emberwood/server/logging"
)

// Memory retains every written event. Intended for tests.
type Memory struct {
	mu     sync.Mutex
	events []logging.Event
}

// NewMemory constructs an empty in-memory sink.
func NewMemory() *Memory {
	return &Memory{}
}

func (s *Memory) Write(event logging.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *Memory) Close(context.Context) error {
	return nil
}

// Events copies the recorded events.
func (s *Memory) Events() []logging.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]logging.Event(nil), s.events...)
}

// EventsOfType copies the recorded events matching the given type.
func (s *Memory) EventsOfType(eventType logging.EventType) []logging.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	matched := make([]logging.Event, 0)
	for _, event := range s.events {
		if event.Type == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}
