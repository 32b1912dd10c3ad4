package pubsub

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Billy-Davies-2/auction-draft-values/internal/logger"
)

const (
	// DefaultSubject is the NATS subject draft events are published on
	DefaultSubject = "valuation.events"
	// DefaultStreamName is the JetStream stream holding draft events
	DefaultStreamName = "VALUATION_EVENTS"
	// StreamBuffer is the channel capacity of a NATS-backed subscriber
	StreamBuffer = 100
)

// NATSPubSub implements pub/sub using NATS JetStream. Every replica
// publishes to the stream and relays what it reads back to its own
// subscribers, so an event reaches each local subscriber exactly once.
type NATSPubSub struct {
	fanout
	nc      *nats.Conn
	js      nats.JetStreamContext
	sub     *nats.Subscription
	subject string
}

// NewNATSPubSub creates a new NATS JetStream pub/sub
func NewNATSPubSub(natsURL, subject string) (*NATSPubSub, error) {
	if subject == "" {
		subject = DefaultSubject
	}
	nc, err := nats.Connect(natsURL,
		nats.Name("auction-draft-values"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	ps, err := newJetStreamPubSub(nc, &nats.StreamConfig{
		Name:     DefaultStreamName,
		Subjects: []string{subject},
		Storage:  nats.FileStorage,
		MaxAge:   7 * 24 * time.Hour,
	})
	if err != nil {
		nc.Close()
		return nil, err
	}
	return ps, nil
}

func newJetStreamPubSub(nc *nats.Conn, cfg *nats.StreamConfig) (*NATSPubSub, error) {
	js, err := nc.JetStream()
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}
	if err := ensureStream(js, cfg); err != nil {
		return nil, err
	}

	ps := &NATSPubSub{
		fanout:  newFanout("nats", StreamBuffer),
		nc:      nc,
		js:      js,
		subject: cfg.Subjects[0],
	}

	ps.sub, err = js.Subscribe(ps.subject, ps.relay, nats.ManualAck(), nats.DeliverNew())
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", ps.subject, err)
	}
	logger.Debug("Subscribed to JetStream", "stream", cfg.Name, "subject", ps.subject)
	return ps, nil
}

func ensureStream(js nats.JetStreamContext, cfg *nats.StreamConfig) error {
	_, err := js.StreamInfo(cfg.Name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) {
		return fmt.Errorf("failed to look up stream %s: %w", cfg.Name, err)
	}
	if _, err := js.AddStream(cfg); err != nil {
		return fmt.Errorf("failed to create stream %s: %w", cfg.Name, err)
	}
	logger.Info("JetStream stream created", "stream", cfg.Name, "subjects", cfg.Subjects)
	return nil
}

func (p *NATSPubSub) relay(msg *nats.Msg) {
	event, err := decodeEvent(msg.Data)
	if err != nil {
		logger.Error("Failed to unmarshal event from JetStream", "error", err)
		msg.Term()
		return
	}
	p.broadcast(event)
	msg.Ack()
}

func decodeEvent(data []byte) (Event, error) {
	var event Event
	err := json.Unmarshal(data, &event)
	return event, err
}

// Publish publishes an event to NATS JetStream
func (p *NATSPubSub) Publish(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal event", "error", err, "event_type", event.Type)
		return
	}

	if _, err := p.js.Publish(p.subject, data); err != nil {
		logger.Error("Failed to publish to NATS", "error", err, "subject", p.subject, "event_type", event.Type)
		return
	}
	logger.Debug("Published event", "event_type", event.Type, "subject", p.subject)
}

// SubscribeJetStream creates a durable JetStream subscription
// This allows multiple instances to process events
func (p *NATSPubSub) SubscribeJetStream(consumerName string, handler func(Event)) error {
	_, err := p.js.Subscribe(p.subject, func(msg *nats.Msg) {
		event, err := decodeEvent(msg.Data)
		if err != nil {
			logger.Error("Failed to unmarshal event", "error", err, "consumer", consumerName)
			msg.Nak()
			return
		}

		handler(event)
		msg.Ack()
	}, nats.Durable(consumerName), nats.ManualAck())

	return err
}

// Connected reports whether the NATS connection is currently up
func (p *NATSPubSub) Connected() bool {
	return p.nc != nil && p.nc.IsConnected()
}

// Close closes the NATS connection
func (p *NATSPubSub) Close() {
	if p.sub != nil {
		if err := p.sub.Unsubscribe(); err != nil {
			logger.Debug("JetStream unsubscribe failed", "error", err)
		}
	}
	if p.nc != nil {
		p.nc.Close()
	}
	p.closeAll()
}
