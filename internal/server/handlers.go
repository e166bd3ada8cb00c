package server

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"finwarehouse/internal/config"
	"finwarehouse/internal/datagen"
	"finwarehouse/internal/logging"
	"finwarehouse/internal/warehouse"
)

// ConnectRequest carries warehouse connection parameters. For postgres
// only the DSN is needed; snowflake takes the account-style fields.
type ConnectRequest struct {
	Driver    string `json:"driver"`
	DSN       string `json:"dsn"`
	Account   string `json:"account"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Database  string `json:"database"`
	Schema    string `json:"schema"`
	Warehouse string `json:"warehouse"`
	Role      string `json:"role"`
}

func (s *Server) handleConnect(c *fiber.Ctx) error {
	var req ConnectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	cfg := s.cfg.Warehouse
	if req.Driver != "" {
		cfg = config.WarehouseConfig{
			Driver:    req.Driver,
			DSN:       req.DSN,
			Account:   req.Account,
			Username:  req.Username,
			Password:  req.Password,
			Database:  req.Database,
			Schema:    req.Schema,
			Warehouse: req.Warehouse,
			Role:      req.Role,
		}
	}

	check := &config.Config{Warehouse: cfg}
	if err := check.Validate(); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	db, err := warehouse.Open(c.Context(), cfg)
	if err != nil {
		logging.Error().Err(err).Str("driver", cfg.Driver).Msg("Warehouse connection failed")
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}

	s.SetDB(db)
	logging.Info().Str("driver", db.Driver()).Str("database", db.Database()).Msg("Warehouse connected")

	return c.JSON(fiber.Map{
		"connected": true,
		"driver":    db.Driver(),
		"database":  db.Database(),
	})
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	db := s.DB()
	if db == nil {
		return c.JSON(fiber.Map{"connected": false})
	}
	if err := db.Ping(c.Context()); err != nil {
		return c.JSON(fiber.Map{"connected": false, "error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"connected": true,
		"driver":    db.Driver(),
		"database":  db.Database(),
	})
}

// SetupRequest controls schema creation.
type SetupRequest struct {
	DropExisting bool `json:"drop_existing"`
}

func (s *Server) handleSetup(c *fiber.Ctx) error {
	db := s.DB()
	if db == nil {
		return errNotConnected(c)
	}

	var req SetupRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
	}

	if req.DropExisting {
		if err := warehouse.DropSchema(c.Context(), db); err != nil {
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}
	if err := warehouse.CreateSchema(c.Context(), db); err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"message": "Schema created",
		"tables":  warehouse.Tables,
	})
}

// GenerateRequest overrides the configured generation defaults. Zero
// counts fall back to the server config.
type GenerateRequest struct {
	Customers    int     `json:"customers"`
	Merchants    int     `json:"merchants"`
	Transactions int     `json:"transactions"`
	Seed         *uint64 `json:"seed"`
	WindowDays   int     `json:"window_days"`
}

func (s *Server) handleGenerate(c *fiber.Ctx) error {
	db := s.DB()
	if db == nil {
		return errNotConnected(c)
	}

	var req GenerateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
	}

	gc := s.cfg.Generate
	if req.Customers > 0 {
		gc.Customers = req.Customers
	}
	if req.Merchants > 0 {
		gc.Merchants = req.Merchants
	}
	if req.Transactions > 0 {
		gc.Transactions = req.Transactions
	}
	if req.WindowDays > 0 {
		gc.WindowDays = req.WindowDays
	}

	now := time.Now().UTC()
	spec := datagen.Spec{
		Customers:              gc.Customers,
		Merchants:              gc.Merchants,
		Transactions:           gc.Transactions,
		AccountsPerCustomerMin: gc.AccountsMin,
		AccountsPerCustomerMax: gc.AccountsMax,
		WindowStart:            now.AddDate(0, 0, -gc.WindowDays),
		WindowEnd:              now,
	}

	gen := datagen.NewGenerator()
	if req.Seed != nil {
		gen = datagen.NewGeneratorWithSeed(*req.Seed)
	}

	ds, err := gen.Dataset(spec)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	counts, err := warehouse.NewLoader(db).Load(c.Context(), ds)
	if err != nil {
		logging.Error().Err(err).Msg("Data load failed")
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"message": "Sample data generated",
		"counts":  counts,
	})
}

// QueryRequest is a free-text SQL statement with an optional row cap.
type QueryRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

func (s *Server) handleQuery(c *fiber.Ctx) error {
	db := s.DB()
	if db == nil {
		return errNotConnected(c)
	}

	var req QueryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Limit <= 0 {
		req.Limit = warehouse.DefaultQueryLimit
	}

	result, err := warehouse.RunQuery(c.Context(), db, req.Query, req.Limit)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"columns":   result.Columns,
		"data":      result.Rows,
		"row_count": len(result.Rows),
	})
}

func (s *Server) handleDashboard(c *fiber.Ctx) error {
	db := s.DB()
	if db == nil {
		return errNotConnected(c)
	}

	dash, err := warehouse.LoadDashboard(c.Context(), db)
	if err != nil {
		logging.Error().Err(err).Msg("Dashboard queries failed")
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(dash)
}

func (s *Server) handleExamples(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"queries": warehouse.ExampleQueries()})
}

func errNotConnected(c *fiber.Ctx) error {
	return c.Status(http.StatusConflict).JSON(fiber.Map{"error": "Not connected to a warehouse"})
}
