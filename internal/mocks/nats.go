package mocks

import (
	"sync"

	"github.com/Billy-Davies-2/auction-draft-values/internal/logger"
	"github.com/Billy-Davies-2/auction-draft-values/internal/pubsub"
)

// MockNATSPubSub is an in-memory stand-in for NATS JetStream that keeps the
// published events so they can be replayed or inspected
type MockNATSPubSub struct {
	*pubsub.PubSub

	mu          sync.RWMutex
	messages    []pubsub.Event
	maxMessages int
}

// NewMockNATSPubSub creates a mock NATS pub/sub retaining the last 1000 events
func NewMockNATSPubSub() *MockNATSPubSub {
	logger.Info("Using MOCK NATS/JetStream (in-memory pub/sub) for local development")

	return &MockNATSPubSub{
		PubSub:      pubsub.New(),
		maxMessages: 1000,
	}
}

// Publish stores the event and delivers it to local subscribers
func (m *MockNATSPubSub) Publish(event pubsub.Event) {
	m.mu.Lock()
	m.messages = append(m.messages, event)
	if len(m.messages) > m.maxMessages {
		m.messages = m.messages[len(m.messages)-m.maxMessages:]
	}
	m.mu.Unlock()

	m.PubSub.Publish(event)
}

// SubscribeJetStream simulates a durable subscription by running handler
// for every event published from now on
func (m *MockNATSPubSub) SubscribeJetStream(consumerName string, handler func(pubsub.Event)) error {
	ch := m.Subscribe()
	go func() {
		for event := range ch {
			handler(event)
		}
		logger.Debug("Mock NATS: Durable subscription closed", "consumer_name", consumerName)
	}()
	return nil
}

// ReplayMessages sends up to the last count stored events to ch without blocking
func (m *MockNATSPubSub) ReplayMessages(ch chan pubsub.Event, count int) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	start := len(m.messages) - count
	if start < 0 {
		start = 0
	}
	for _, event := range m.messages[start:] {
		select {
		case ch <- event:
		default:
			logger.Warn("Mock NATS: Channel full during replay, skipping event")
		}
	}
}

// Messages returns a copy of the stored events, oldest first
func (m *MockNATSPubSub) Messages() []pubsub.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]pubsub.Event, len(m.messages))
	copy(out, m.messages)
	return out
}

// Types returns the stored event types, oldest first
func (m *MockNATSPubSub) Types() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.messages))
	for i, e := range m.messages {
		out[i] = e.Type
	}
	return out
}

// Clear forgets the stored events
func (m *MockNATSPubSub) Clear() {
	m.mu.Lock()
	m.messages = nil
	m.mu.Unlock()
}

// GetMessageCount returns the number of stored messages
func (m *MockNATSPubSub) GetMessageCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.messages)
}
