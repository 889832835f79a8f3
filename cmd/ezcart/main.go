package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/ezcart/internal/catalog"
	"github.com/nikolayk812/ezcart/internal/config"
	"github.com/nikolayk812/ezcart/internal/kv"
	"github.com/nikolayk812/ezcart/internal/logger"
	"github.com/nikolayk812/ezcart/internal/port"
	"github.com/nikolayk812/ezcart/internal/repository"
	"github.com/redis/go-redis/v9"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		slog.Error("ezcart failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("ezcart", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to config file")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: ezcart [-config file] <command> [args]\n\n%s", usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("fs.Parse: %w", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	log := logger.New(logger.Options{
		Service: "ezcart",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
	})

	store, closeStore, err := openKV(ctx, cfg)
	if err != nil {
		return fmt.Errorf("openKV: %w", err)
	}
	defer closeStore()

	log.DebugContext(ctx, "store opened", "backend", cfg.Backend, "owner_id", cfg.Owner)

	repo := repository.NewCart(store, repository.WithLogger(log))

	if _, err := repo.Reconcile(ctx, cfg.Owner); err != nil {
		return fmt.Errorf("repo.Reconcile: %w", err)
	}

	cli := &commands{
		repo:    repo,
		catalog: catalog.Default(),
		ownerID: cfg.Owner,
		out:     out,
	}

	return cli.dispatch(ctx, fs.Args())
}

func openKV(ctx context.Context, cfg config.Config) (port.KV, func(), error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("pgxpool.New: %w", err)
		}

		store := kv.NewPostgres(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("store.EnsureSchema: %w", err)
		}

		return store, pool.Close, nil

	case config.BackendRedis:
		client := redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{cfg.RedisAddr},
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("client.Ping: %w", err)
		}

		return kv.NewRedis(client, cfg.RedisPrefix), func() { _ = client.Close() }, nil

	default:
		return kv.NewMemory(), func() {}, nil
	}
}
