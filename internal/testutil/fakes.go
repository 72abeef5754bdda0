package testutil

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"filemarket/internal/events"

	"github.com/stretchr/testify/require"
)

var _ events.Bus = (*RecordingBus)(nil)

type Published struct {
	Subject string
	Data    []byte
	MsgID   string
}

// RecordingBus keeps every published message in memory.
type RecordingBus struct {
	mu       sync.Mutex
	messages []Published
}

func (b *RecordingBus) Publish(subject string, data []byte, msgId string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, Published{Subject: subject, Data: data, MsgID: msgId})
	return nil
}

func (b *RecordingBus) Subscribe(subject string, group string, handler events.Handler) (events.Subscription, error) {
	return events.Subscription{Unsubscribe: func() error { return nil }}, nil
}

func (b *RecordingBus) Drain() error { return nil }

// Subjects returns the subjects in publish order.
func (b *RecordingBus) Subjects() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	subjects := make([]string, len(b.messages))
	for i, m := range b.messages {
		subjects[i] = m.Subject
	}
	return subjects
}

// Decode unmarshals the i-th message into v.
func (b *RecordingBus) Decode(t *testing.T, i int, v any) {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	require.Less(t, i, len(b.messages))
	require.NoError(t, json.Unmarshal(b.messages[i].Data, v))
}

// NewEventHandler wires an EventHandler to a fresh RecordingBus with default subjects.
func NewEventHandler() (*events.EventHandler, *RecordingBus) {
	bus := &RecordingBus{}
	cfg := &events.EventConfig{
		IndexListing:     "listing.index",
		ApprovalQueued:   "approval.queued",
		ApprovalAccepted: "approval.accepted",
		ApprovalRejected: "approval.rejected",
	}
	return events.NewEventHandler(bus, cfg, NewTestLogger()), bus
}

// MemoryCache mirrors cache.Typed without Redis.
type MemoryCache[T any] struct {
	mu          sync.Mutex
	values      map[string]T
	Invalidated []string
}

func NewMemoryCache[T any]() *MemoryCache[T] {
	return &MemoryCache[T]{values: map[string]T{}}
}

func (c *MemoryCache[T]) Get(ctx context.Context, id string) (*T, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[id]
	if !ok {
		return nil, false, nil
	}
	return &v, true, nil
}

func (c *MemoryCache[T]) Set(ctx context.Context, id string, value T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[id] = value
	return nil
}

func (c *MemoryCache[T]) Invalidate(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, id)
	c.Invalidated = append(c.Invalidated, id)
	return nil
}
