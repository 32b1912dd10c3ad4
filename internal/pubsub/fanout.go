package pubsub

import (
	"sync"

	"github.com/Billy-Davies-2/auction-draft-values/internal/logger"
)

// fanout delivers events to in-process subscriber channels without blocking
// the publisher. A full channel loses the event.
type fanout struct {
	mu          sync.RWMutex
	name        string
	buffer      int
	subscribers []chan Event
}

func newFanout(name string, buffer int) fanout {
	return fanout{name: name, buffer: buffer}
}

// Subscribe adds a new subscriber and returns a channel for receiving events
func (f *fanout) Subscribe() chan Event {
	ch := make(chan Event, f.buffer)

	f.mu.Lock()
	f.subscribers = append(f.subscribers, ch)
	n := len(f.subscribers)
	f.mu.Unlock()

	logger.Debug("PubSub: subscriber added", "bus", f.name, "total_subscribers", n)
	return ch
}

// Unsubscribe removes and closes a subscriber; unknown channels are ignored
func (f *fanout) Unsubscribe(ch chan Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, sub := range f.subscribers {
		if sub == ch {
			f.subscribers = append(f.subscribers[:i], f.subscribers[i+1:]...)
			close(ch)
			return
		}
	}
}

// SubscriberCount returns the number of active local subscribers
func (f *fanout) SubscriberCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subscribers)
}

func (f *fanout) broadcast(event Event) {
	// Sends never block, so holding the read lock keeps Unsubscribe from
	// closing a channel mid-send.
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, ch := range f.subscribers {
		select {
		case ch <- event:
		default:
			logger.Warn("PubSub: skipping slow subscriber", "bus", f.name, "event_type", event.Type)
		}
	}
}

func (f *fanout) closeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, ch := range f.subscribers {
		close(ch)
	}
	f.subscribers = nil
}
