package mocks

import (
	"context"
	"sync"
)

// MockTransactor runs fn directly. Calls are serialized, which stands in for
// the row locks a real transaction would hold.
type MockTransactor struct {
	mu sync.Mutex

	Calls int
	Err   error
}

func NewMockTransactor() *MockTransactor {
	return &MockTransactor{}
}

func (m *MockTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++
	if m.Err != nil {
		return m.Err
	}
	return fn(ctx)
}

// MockPublisher records published events
type MockPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
	Err    error
}

// PublishedEvent records parameters passed to Publish
type PublishedEvent struct {
	Key   string
	Event any
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, key string, event any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Events = append(m.Events, PublishedEvent{Key: key, Event: event})
	return m.Err
}

// Published returns a copy of the recorded events
func (m *MockPublisher) Published() []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PublishedEvent(nil), m.Events...)
}
