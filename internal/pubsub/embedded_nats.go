package pubsub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"

	"github.com/Billy-Davies-2/auction-draft-values/internal/logger"
)

// EmbeddedNATSPubSub runs a JetStream-enabled NATS server in-process, so
// development exercises the same code path as production NATS
type EmbeddedNATSPubSub struct {
	*NATSPubSub
	server *server.Server
}

// EmbeddedNATSOptions configures the embedded NATS server
type EmbeddedNATSOptions struct {
	Port       int    // Port to listen on (0 = random available port)
	Subject    string // Subject to publish/subscribe to
	StreamName string // JetStream stream name
	StoreDir   string // Directory for JetStream storage (empty = in-memory)
	MaxAge     time.Duration
}

// DefaultEmbeddedNATSOptions returns sensible defaults for development
func DefaultEmbeddedNATSOptions() EmbeddedNATSOptions {
	return EmbeddedNATSOptions{
		Port:       -1,
		Subject:    DefaultSubject,
		StreamName: DefaultStreamName,
		MaxAge:     time.Hour,
	}
}

// withDefaults fills unset options. Port 0 becomes -1 so the server picks
// a free port instead of 4222.
func (o EmbeddedNATSOptions) withDefaults() EmbeddedNATSOptions {
	defaults := DefaultEmbeddedNATSOptions()
	if o.Subject == "" {
		o.Subject = defaults.Subject
	}
	if o.StreamName == "" {
		o.StreamName = defaults.StreamName
	}
	if o.MaxAge <= 0 {
		o.MaxAge = defaults.MaxAge
	}
	if o.Port == 0 {
		o.Port = -1
	}
	return o
}

// streamConfig describes the stream backing the embedded bus
func (o EmbeddedNATSOptions) streamConfig() *nats.StreamConfig {
	storage := nats.MemoryStorage
	if o.StoreDir != "" {
		storage = nats.FileStorage
	}
	return &nats.StreamConfig{
		Name:     o.StreamName,
		Subjects: []string{o.Subject},
		Storage:  storage,
		MaxAge:   o.MaxAge,
	}
}

// NewEmbeddedNATSPubSub starts a JetStream server on localhost and connects a bus to it
func NewEmbeddedNATSPubSub(opts EmbeddedNATSOptions) (*EmbeddedNATSPubSub, error) {
	opts = opts.withDefaults()

	ns, err := server.NewServer(&server.Options{
		Host:      "127.0.0.1",
		Port:      opts.Port,
		JetStream: true,
		NoSigs:    true,
		StoreDir:  opts.StoreDir,
	})
	if err != nil {
		return nil, fmt.Errorf("creating embedded NATS server: %w", err)
	}
	ns.SetLogger(natsLogger{log: logger.With("nats-server")}, false, false)

	go ns.Start()

	if !ns.ReadyForConnections(10 * time.Second) {
		ns.Shutdown()
		return nil, errors.New("embedded NATS server not ready after 10s")
	}
	logger.Info("Embedded NATS server started", "url", ns.ClientURL())

	nc, err := nats.Connect(ns.ClientURL(), nats.Name("auction-draft-values-embedded"))
	if err != nil {
		ns.Shutdown()
		return nil, fmt.Errorf("connecting to embedded NATS: %w", err)
	}

	ps, err := newJetStreamPubSub(nc, opts.streamConfig())
	if err != nil {
		nc.Close()
		ns.Shutdown()
		return nil, err
	}

	return &EmbeddedNATSPubSub{NATSPubSub: ps, server: ns}, nil
}

// Close shuts down the embedded NATS server
func (p *EmbeddedNATSPubSub) Close() {
	p.NATSPubSub.Close()
	if p.server != nil {
		p.server.Shutdown()
		p.server.WaitForShutdown()
	}
	logger.Info("Embedded NATS server shut down")
}

// GetServerURL returns the client URL of the embedded server
func (p *EmbeddedNATSPubSub) GetServerURL() string {
	return p.server.ClientURL()
}

// natsLogger routes NATS server output into the component logger
type natsLogger struct {
	log *slog.Logger
}

func (l natsLogger) logf(level slog.Level, format string, v []interface{}) {
	l.log.Log(context.Background(), level, fmt.Sprintf(format, v...))
}

func (l natsLogger) Noticef(format string, v ...interface{}) { l.logf(slog.LevelDebug, format, v) }
func (l natsLogger) Warnf(format string, v ...interface{})   { l.logf(slog.LevelWarn, format, v) }
func (l natsLogger) Fatalf(format string, v ...interface{})  { l.logf(slog.LevelError, format, v) }
func (l natsLogger) Errorf(format string, v ...interface{})  { l.logf(slog.LevelError, format, v) }
func (l natsLogger) Debugf(format string, v ...interface{})  { l.logf(slog.LevelDebug, format, v) }
func (l natsLogger) Tracef(format string, v ...interface{})  { l.logf(slog.LevelDebug-4, format, v) }
