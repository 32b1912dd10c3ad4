package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"

	"github.com/Billy-Davies-2/auction-draft-values/internal/cache"
	"github.com/Billy-Davies-2/auction-draft-values/internal/clickhouse"
	"github.com/Billy-Davies-2/auction-draft-values/internal/config"
	"github.com/Billy-Davies-2/auction-draft-values/internal/dal"
	grpcserver "github.com/Billy-Davies-2/auction-draft-values/internal/grpc"
	"github.com/Billy-Davies-2/auction-draft-values/internal/handlers"
	"github.com/Billy-Davies-2/auction-draft-values/internal/logger"
	"github.com/Billy-Davies-2/auction-draft-values/internal/mocks"
	"github.com/Billy-Davies-2/auction-draft-values/internal/pubsub"
	"github.com/Billy-Davies-2/auction-draft-values/internal/room"
)

func main() {
	// Initialize logger first
	logger.Init()

	cfg := config.Load()
	logger.Info("Starting auction draft values service", "environment", cfg.Environment)

	league, err := config.LoadLeagueFile(cfg.LeagueConfig)
	if err != nil {
		logger.Error("Failed to load league config", "error", err, "path", cfg.LeagueConfig)
		log.Fatalf("Failed to load league config: %v", err)
	}

	dataStore := openStore(cfg)
	if c, ok := dataStore.(io.Closer); ok {
		defer c.Close()
	}

	bus, upstream := openEvents(cfg)
	defer upstream.Close()
	defer bus.Close()

	valueCache, redisClient := openCache(cfg, league)
	if redisClient != nil {
		defer redisClient.Close()
	}

	source, chClient := openSource(cfg)
	if chClient != nil {
		defer chClient.Close()
	}

	rm := room.New(dataStore, valueCache, bus)
	if err := applyLeague(rm, cfg, league, source); err != nil {
		logger.Error("Failed to prepare draft room", "error", err)
		log.Fatalf("Failed to prepare draft room: %v", err)
	}

	// Start gRPC server in a goroutine
	grpcServer := grpc.NewServer()
	grpcserver.RegisterValuationServiceServer(grpcServer, grpcserver.NewServer(rm, bus))
	go func() {
		lis, err := net.Listen("tcp", "0.0.0.0:"+cfg.GRPCPort)
		if err != nil {
			logger.Error("Failed to listen for gRPC", "error", err, "port", cfg.GRPCPort)
			log.Fatalf("Failed to listen for gRPC: %v", err)
		}

		logger.Info("gRPC server starting", "address", "0.0.0.0:"+cfg.GRPCPort)
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("Failed to serve gRPC", "error", err)
		}
	}()

	api := handlers.NewAPIHandlers(rm, bus, source)
	if natsConn, ok := upstream.(interface{ Connected() bool }); ok {
		api.WithCheck("nats", func(context.Context) error {
			if !natsConn.Connected() {
				return errors.New("not connected")
			}
			return nil
		})
	}
	if chClient != nil {
		api.WithCheck("clickhouse", chClient.Ping)
	}
	if redisClient != nil {
		api.WithCheck("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	addr := "0.0.0.0:" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Router(cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Server starting", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown failed", "error", err)
	}
	grpcServer.GracefulStop()
}

// openStore selects the data store from DB_DRIVER
func openStore(cfg *config.Config) dal.DraftDAL {
	switch cfg.DBDriver {
	case "memory":
		logger.Info("Using in-memory data store")
		return dal.NewMemoryDAL()
	case "sqlite":
		store, err := dal.NewSQLiteDAL(cfg.SQLiteFile)
		if err != nil {
			logger.Error("Failed to initialize SQLite", "error", err)
			log.Fatalf("Failed to initialize SQLite: %v", err)
		}
		logger.Info("Connected to SQLite database", "file", cfg.SQLiteFile)
		return store
	case "postgres":
		if cfg.DatabaseURL == "" {
			if cfg.IsDevelopment() {
				// Stand in for Postgres locally with the same SQL schema on SQLite
				store, err := mocks.NewMockPostgresDAL(cfg.SQLiteFile)
				if err != nil {
					logger.Error("Failed to initialize mock Postgres", "error", err)
					log.Fatalf("Failed to initialize mock Postgres: %v", err)
				}
				logger.Info("Using mock Postgres for local development", "file", cfg.SQLiteFile)
				return store
			}
			logger.Error("DATABASE_URL environment variable is required for postgres driver")
			log.Fatal("DATABASE_URL environment variable is required for postgres driver")
		}
		store, err := dal.NewPostgresDAL(cfg.DatabaseURL)
		if err != nil {
			logger.Error("Failed to initialize Postgres", "error", err)
			log.Fatalf("Failed to initialize Postgres: %v", err)
		}
		logger.Info("Connected to Postgres database")
		return store
	default:
		logger.Error("Unknown DB_DRIVER", "driver", cfg.DBDriver)
		log.Fatalf("Unknown DB_DRIVER: %s (valid: memory, sqlite, postgres)", cfg.DBDriver)
	}
	return nil
}

type closingUpstream interface {
	pubsub.Upstream
	SubscribeJetStream(consumerName string, handler func(pubsub.Event)) error
	Close()
}

// openEvents connects the event bus: embedded NATS in development, real
// NATS JetStream otherwise. Local subscribers hang off the returned PubSub.
func openEvents(cfg *config.Config) (*pubsub.PubSub, closingUpstream) {
	var upstream closingUpstream
	if cfg.IsDevelopment() {
		logger.Info("Starting embedded NATS server for local development")
		opts := pubsub.DefaultEmbeddedNATSOptions()
		opts.Subject = cfg.NATSSubject
		embedded, err := pubsub.NewEmbeddedNATSPubSub(opts)
		if err != nil {
			logger.Error("Failed to initialize embedded NATS", "error", err)
			log.Fatalf("Failed to initialize embedded NATS: %v", err)
		}
		logger.Info("Embedded NATS server ready", "url", embedded.GetServerURL())
		upstream = embedded
	} else {
		logger.Info("Using real NATS JetStream for production")
		natsPubSub, err := pubsub.NewNATSPubSub(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			logger.Error("Failed to initialize NATS", "error", err)
			log.Fatalf("Failed to initialize NATS: %v", err)
		}
		logger.Info("Connected to NATS", "url", cfg.NATSURL)
		upstream = natsPubSub
	}

	// Durable consumer so every confirmed result lands in the logs even
	// when no client is listening
	audit := logger.With("draft-audit")
	if err := upstream.SubscribeJetStream("draft-audit", func(e pubsub.Event) {
		switch e.Type {
		case pubsub.EventPickRecorded, pubsub.EventPickCorrected, pubsub.EventPickUndone,
			pubsub.EventPickDeleted, pubsub.EventDraftReset:
			audit.Info("Draft event", "type", e.Type, "payload", e.Payload)
		}
	}); err != nil {
		logger.Warn("Failed to start draft audit consumer", "error", err)
	}

	return pubsub.NewWithUpstream(upstream), upstream
}

// openCache uses Redis when REDIS_URL is set so replicas share valuations
func openCache(cfg *config.Config, league *config.LeagueFile) (cache.ValueCache, *redis.Client) {
	if cfg.RedisURL == "" {
		logger.Info("Using in-process valuation cache", "entries", league.Cache.MemoryEntries)
		return cache.NewMemoryCache(league.Cache.MemoryEntries), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error("Failed to initialize Redis", "error", err)
		log.Fatalf("Failed to initialize Redis: %v", err)
	}
	ttl, err := league.CacheTTL()
	if err != nil {
		log.Fatalf("Invalid cache ttl: %v", err)
	}
	logger.Info("Connected to Redis", "ttl", ttl)
	return cache.NewRedisCache(client).WithTTL(ttl), client
}

// openSource picks where projection imports come from
func openSource(cfg *config.Config) (room.ProjectionSource, *clickhouse.Client) {
	if cfg.IsDevelopment() {
		logger.Info("Using mock ClickHouse for local development (no ClickHouse server required)")
		return mocks.NewMockProjectionSource(), nil
	}

	ch := cfg.ClickHouse
	client, err := clickhouse.NewClient(ch.Addr, ch.Database, ch.User, ch.Password, ch.ProjectionSet)
	if err != nil {
		logger.Error("Failed to initialize ClickHouse", "error", err, "address", ch.Addr)
		log.Fatalf("Failed to initialize ClickHouse: %v", err)
	}
	logger.Info("Connected to ClickHouse", "address", ch.Addr, "database", ch.Database, "projection_set", ch.ProjectionSet)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	sets, err := client.ProjectionSets(ctx)
	if err != nil {
		logger.Warn("Failed to list projection sets", "error", err)
	} else if !slices.Contains(sets, ch.ProjectionSet) {
		logger.Warn("Projection set not found in warehouse", "projection_set", ch.ProjectionSet, "available", sets)
	}
	return client, client
}

// applyLeague stores the configured league settings when a file was given,
// and in development seeds an empty room with mock projections.
func applyLeague(rm *room.Room, cfg *config.Config, league *config.LeagueFile, source room.ProjectionSource) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if cfg.LeagueConfig != "" {
		settings, err := league.DraftSettings()
		if err != nil {
			return err
		}
		if err := rm.UpdateSettings(ctx, settings); err != nil {
			return err
		}
		logger.Info("Applied league config", "path", cfg.LeagueConfig)
	}

	if !cfg.IsDevelopment() {
		return nil
	}
	state, err := rm.State(ctx)
	if err != nil {
		return err
	}
	if len(state.Projections) > 0 {
		return nil
	}
	n, err := rm.ImportProjections(ctx, source)
	if err != nil {
		return err
	}
	logger.Info("Seeded mock projections", "players", n)
	return nil
}
