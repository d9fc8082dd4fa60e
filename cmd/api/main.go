package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"backend-ecocommute/internal/config"
	"backend-ecocommute/internal/db"
	"backend-ecocommute/internal/logging"
	"backend-ecocommute/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const serviceName = "ecocommute-api"

var mainDepsProvider = defaultDeps
var mainRunner = realMain

func main() {
	mainRunner(mainDepsProvider())
}

type mainDeps struct {
	loadConfig      func() config.Config
	connectPostgres func(config.Config) (*pgxpool.Pool, error)
	connectRedis    func(config.Config) *redis.Client
	openSQLite      func(config.Config) (*sql.DB, error)
	notify          func(chan<- os.Signal, ...os.Signal)
	run             func(context.Context, config.Config, server.Deps, <-chan os.Signal, ListenFunc) error
}

func defaultDeps() mainDeps {
	return mainDeps{
		loadConfig:      config.Load,
		connectPostgres: db.ConnectPostgres,
		connectRedis:    db.ConnectRedis,
		openSQLite:      db.OpenSQLite,
		notify:          signal.Notify,
		run:             Run,
	}
}

func realMain(deps mainDeps) {
	cfg := deps.loadConfig()
	logger := logging.New(serviceName, cfg.LogLevel)

	pg, err := deps.connectPostgres(cfg)
	if err != nil {
		logger.Warn("postgres connection failed", "error", err)
	}

	rdb := deps.connectRedis(cfg)

	var lite *sql.DB
	if cfg.KVBackend == "" || cfg.KVBackend == "sqlite" {
		lite, err = deps.openSQLite(cfg)
		if err != nil {
			logger.Warn("sqlite open failed", "path", cfg.KVSQLitePath, "error", err)
		}
	}

	signals := make(chan os.Signal, 1)
	deps.notify(signals, syscall.SIGINT, syscall.SIGTERM)

	conns := server.Deps{Postgres: pg, Redis: rdb, SQLite: lite, Logger: logger}
	if err := deps.run(context.Background(), cfg, conns, signals, nil); err != nil {
		logger.Error("server exited with error", "error", err)
	}
}

type ListenFunc func(app *fiber.App, addr string) error

var defaultListen ListenFunc = func(app *fiber.App, addr string) error {
	return app.Listen(addr)
}

var shutdownFn = func(app *fiber.App, ctx context.Context) error {
	return app.ShutdownWithContext(ctx)
}

// Run starts the HTTP server and waits for termination signals.
func Run(ctx context.Context, cfg config.Config, conns server.Deps, signals <-chan os.Signal, listen ListenFunc) error {
	srv := server.NewServer(ctx, cfg, conns)
	defer closeConns(srv, conns)

	if listen == nil {
		listen = defaultListen
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- listen(srv.App, cfg.ServerPort)
	}()

	select {
	case <-signals:
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return shutdownFn(srv.App, shutdownCtx)
}

func closeConns(srv *server.Server, conns server.Deps) {
	srv.Close()
	if conns.Postgres != nil {
		conns.Postgres.Close()
	}
	if conns.Redis != nil {
		_ = conns.Redis.Close()
	}
	if conns.SQLite != nil {
		_ = conns.SQLite.Close()
	}
}
