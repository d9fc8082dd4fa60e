package server

import (
	"context"
	"database/sql"
	"log/slog"
	"math/rand"
	"time"

	"backend-ecocommute/internal/commute"
	"backend-ecocommute/internal/config"
	"backend-ecocommute/internal/insights"
	"backend-ecocommute/internal/kv"
	"backend-ecocommute/internal/logging"
	"backend-ecocommute/internal/network"
	"backend-ecocommute/internal/report"
	"backend-ecocommute/internal/route"
	"backend-ecocommute/internal/stream"
	"backend-ecocommute/internal/tracking"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Deps are the external connections the server may use. Any of them may be nil.
type Deps struct {
	Postgres *pgxpool.Pool
	Redis    *redis.Client
	SQLite   *sql.DB
	Logger   *slog.Logger
}

type Server struct {
	App       *fiber.App
	Cfg       config.Config
	Logger    *slog.Logger
	Location  *time.Location
	KVBackend string
	Store     *commute.Store
	Stream    *stream.Hub
	Network   *network.Monitor
	Tracker   *tracking.Tracker
	Planner   *route.Planner
	Reports   report.Sink
}

func NewServer(ctx context.Context, cfg config.Config, deps Deps) *Server {
	log := deps.Logger
	if log == nil {
		log = logging.Discard()
	}

	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:      app,
		Cfg:      cfg,
		Logger:   log,
		Location: loadLocation(cfg.Timezone, log),
		Stream:   stream.NewHub(ctx, deps.Redis, log),
		Network:  network.NewMonitor(log),
	}

	s.KVBackend = cfg.KVBackend
	store, err := kv.Open(ctx, cfg.KVBackend, backends(deps))
	if err != nil {
		log.Warn("kv backend unavailable, falling back to memory", "backend", cfg.KVBackend, "error", err)
		store = kv.NewMemory()
		s.KVBackend = "memory"
	}
	s.Store = commute.Open(ctx, store, log)
	s.Reports = reportSink(ctx, deps.Postgres, log)
	s.Tracker = tracking.NewTracker(s.Store, s.Network, s.Stream, log)

	center := commute.Coordinate{Lat: cfg.RouteCenterLat, Lng: cfg.RouteCenterLng}
	if center == (commute.Coordinate{}) {
		center = route.DefaultCenter
	}
	gen := route.NewMockGenerator(rand.New(rand.NewSource(time.Now().UnixNano())), time.Duration(cfg.RouteLatencyMS)*time.Millisecond, center)
	s.Planner = route.NewPlanner(gen, log)

	registerRoutes(s)
	return s
}

// Close releases background resources owned by the server.
func (s *Server) Close() {
	s.Stream.Close()
}

func backends(deps Deps) kv.Backends {
	b := kv.Backends{SQLite: deps.SQLite, Redis: deps.Redis}
	if deps.Postgres != nil {
		b.Postgres = deps.Postgres
	}
	return b
}

func reportSink(ctx context.Context, pg *pgxpool.Pool, log *slog.Logger) report.Sink {
	if pg == nil {
		return report.NopSink{}
	}
	archive := report.NewArchive(pg, log)
	if err := archive.Init(ctx); err != nil {
		log.Warn("report archive unavailable", "error", err)
		return report.NopSink{}
	}
	return archive
}

func loadLocation(name string, log *slog.Logger) *time.Location {
	if name == "" || name == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn("unknown timezone, using local time", "timezone", name, "error", err)
		return time.Local
	}
	return loc
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "kv_backend": s.KVBackend})
	})

	commute.RegisterRoutes(s.App.Group("/commutes"), s.Store)
	commute.RegisterPreferenceRoutes(s.App.Group("/preferences"), s.Store)
	insights.RegisterRoutes(s.App.Group("/insights"), s.Store, s.Location)
	route.RegisterRoutes(s.App.Group("/routes"), s.Planner, s.Store, s.Tracker.CurrentLocation)
	tracking.RegisterRoutes(s.App.Group("/tracking"), s.Tracker)
	network.RegisterRoutes(s.App.Group("/network"), s.Network)
	report.RegisterRoutes(s.App.Group("/reports"), s.Store, s.Reports, s.Location)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
