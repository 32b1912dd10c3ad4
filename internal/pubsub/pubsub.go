// Package pubsub fans draft and valuation events out to SSE and gRPC
// streams, optionally through NATS JetStream so several replicas share them.
package pubsub

import (
	"github.com/Billy-Davies-2/auction-draft-values/internal/logger"
)

// Publisher is anything events can be sent to
type Publisher interface {
	Publish(Event)
}

// Upstream is an interface for upstream publishers (e.g., NATS)
type Upstream interface {
	Publish(Event)
	Subscribe() chan Event
	Unsubscribe(chan Event)
}

// PubSub implements a simple publish-subscribe system
type PubSub struct {
	fanout
	upstream Upstream // Optional upstream publisher (e.g., NATS)
}

// LocalBuffer is the channel capacity of an in-process subscriber
const LocalBuffer = 10

// New creates a new PubSub instance
func New() *PubSub {
	return &PubSub{fanout: newFanout("local", LocalBuffer)}
}

// NewWithUpstream creates a PubSub that bridges to an upstream publisher (e.g., NATS)
// When Publish is called, events are sent to the upstream, which broadcasts to all instances.
// Events from the upstream are forwarded to local subscribers.
func NewWithUpstream(upstream Upstream) *PubSub {
	ps := &PubSub{
		fanout:   newFanout("local", LocalBuffer),
		upstream: upstream,
	}

	ch := upstream.Subscribe()
	go func() {
		for event := range ch {
			ps.broadcast(event)
		}
		logger.Debug("PubSub: Upstream channel closed")
	}()

	return ps
}

// Publish sends an event to all subscribers
// If an upstream is configured, the event is published to the upstream,
// which will broadcast it back to all instances (including this one)
func (ps *PubSub) Publish(event Event) {
	if ps.upstream != nil {
		ps.upstream.Publish(event)
		return
	}
	ps.broadcast(event)
}

// Close drops every local subscriber
func (ps *PubSub) Close() {
	ps.closeAll()
}
