package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/csquest/api/internal/battle"
	"github.com/csquest/api/internal/catalog"
	"github.com/csquest/api/internal/config"
	"github.com/csquest/api/internal/database"
	"github.com/csquest/api/internal/game"
	"github.com/csquest/api/internal/handler/health"
	presencehandler "github.com/csquest/api/internal/handler/presence"
	"github.com/csquest/api/internal/migrations"
	"github.com/csquest/api/internal/presence"
	"github.com/csquest/api/internal/server"
	"github.com/csquest/api/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- Catalog ---
	cat, err := loadCatalog(cfg.CatalogDir)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	logger.Info("catalog loaded",
		"questions", len(cat.Questions), "items", len(cat.Items), "quests", len(cat.Quests))

	// --- Save backend ---
	checks := map[string]health.Checker{}
	var blobs store.Blobs
	switch cfg.Backend {
	case config.BackendSQLite:
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating database directory: %w", err)
			}
		}
		db, err := database.Open(ctx, cfg.DBPath)
		if err != nil {
			return fmt.Errorf("connecting to sqlite: %w", err)
		}
		defer db.Close()

		n, err := migrations.Run(ctx, db)
		if err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		logger.Info("connected to sqlite", "path", cfg.DBPath, "migrations_applied", n)
		checks["sqlite"] = dbChecker{db}
		blobs = store.NewSQLiteBlobs(db)

	case config.BackendRedis:
		rdb, err := openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rdb.Close()
		logger.Info("connected to redis")
		checks["redis"] = redisChecker{rdb}
		blobs = store.NewRedisBlobs(rdb)

	case config.BackendMemory:
		logger.Warn("using in-memory saves; progress is lost on restart")
		blobs = store.NewMemoryBlobs()
	}

	// --- Game ---
	broker := server.NewBroker()
	games := game.New(store.New(blobs, logger), cat, logger, game.Options{
		Publisher: broker,
		Pacing: battle.Pacing{
			Counter: cfg.Battle.CounterDelay,
			Miss:    cfg.Battle.MissDelay,
			Outcome: cfg.Battle.OutcomeDelay,
		},
		Difficulty: cfg.Battle.Difficulty,
	})
	defer games.Close()

	if cfg.SeedDemo {
		if err := server.SeedDemo(ctx, logger, games); err != nil {
			return fmt.Errorf("seeding demo player: %w", err)
		}
	}

	// --- HTTP Server ---
	hub := presence.NewHub(logger)
	srv := server.New(cfg.HTTPAddr, logger, func(r chi.Router) {
		r.Mount("/healthz", health.NewHandler(logger, checks).Routes())
		r.Mount("/ws", presencehandler.NewHandler(logger, hub).Routes())
		server.AddRoutes(r, logger, games, broker, cfg.SPADir)
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr, "backend", cfg.Backend)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

func loadCatalog(dir string) (*catalog.Catalog, error) {
	if dir == "" {
		return catalog.Default()
	}
	return catalog.Load(os.DirFS(dir))
}

func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return rdb, nil
}

// dbChecker adapts *sql.DB to health.Checker.
type dbChecker struct{ db *sql.DB }

func (d dbChecker) Check(ctx context.Context) error { return d.db.PingContext(ctx) }

// redisChecker adapts *redis.Client to health.Checker.
type redisChecker struct{ client *redis.Client }

func (r redisChecker) Check(ctx context.Context) error { return r.client.Ping(ctx).Err() }
