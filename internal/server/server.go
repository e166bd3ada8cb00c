// Package server exposes the warehouse over an HTTP API: connection
// management, schema setup, data generation, a free-text SQL runner and
// the analytics dashboard.
package server

import (
	"context"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"finwarehouse/internal/config"
	"finwarehouse/internal/logging"
	"finwarehouse/internal/warehouse"
	"finwarehouse/pkg/version"
)

// Server holds the fiber app and the current warehouse connection. The
// connection is established through the API and may be swapped at any
// time, so access goes through the mutex.
type Server struct {
	app *fiber.App
	cfg *config.Config

	mu sync.Mutex
	db warehouse.DB
}

// New builds the server and registers all routes. No warehouse connection
// is opened yet; clients connect through POST /api/warehouse/connect, or
// the caller seeds one with SetDB.
func New(cfg *config.Config) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(cors.New())
	app.Use(recover.New())

	s := &Server{app: app, cfg: cfg}

	api := app.Group("/api")
	api.Get("/", s.handleInfo)
	api.Post("/warehouse/connect", s.handleConnect)
	api.Get("/warehouse/status", s.handleStatus)
	api.Post("/warehouse/setup", s.handleSetup)
	api.Post("/data/generate", s.handleGenerate)
	api.Post("/query/execute", s.handleQuery)
	api.Get("/analytics/dashboard", s.handleDashboard)
	api.Get("/examples/queries", s.handleExamples)

	return s
}

// SetDB installs an already-open warehouse connection, closing any
// previous one.
func (s *Server) SetDB(db warehouse.DB) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		s.db.Close()
	}
	s.db = db
}

// DB returns the current warehouse connection, or nil when disconnected.
func (s *Server) DB() warehouse.DB {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db
}

// Listen serves the API on addr and blocks until Shutdown.
func (s *Server) Listen(addr string) error {
	logging.Info().Str("addr", addr).Str("version", version.Version).Msg("Starting API server")
	return s.app.Listen(addr)
}

// Shutdown stops the server and closes the warehouse connection.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.app.ShutdownWithContext(ctx)

	s.mu.Lock()
	if s.db != nil {
		s.db.Close()
		s.db = nil
	}
	s.mu.Unlock()

	return err
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) handleInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": "finwarehouse",
		"version": version.Version,
	})
}
