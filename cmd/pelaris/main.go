package main

import (
	stdlog "log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/ziqrishahab/PelarisAPI-sub001/internal/auth"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/config"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/domain"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/events"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/http/handlers"
	applog "github.com/ziqrishahab/PelarisAPI-sub001/internal/log"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/store"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/store/memstore"
	"github.com/ziqrishahab/PelarisAPI-sub001/internal/store/sqlstore"
)

func main() {
	cfg := config.Load()
	applog.Init(cfg.LogLevel)
	defer applog.Sync()

	// Empty DB_DSN runs everything in memory with demo data, handy for
	// local development and smoke tests.
	var st store.Store
	if cfg.DBDSN == "" {
		st = memstore.NewSeeded()
		stdlog.Printf("[store] in-memory store with demo seed")
	} else {
		s, err := sqlstore.Open(cfg.DBDSN)
		if err != nil {
			stdlog.Fatal(err)
		}
		if err := s.Seed(); err != nil {
			stdlog.Fatal(err)
		}
		st = s
	}
	defer st.Close()

	var pub events.Publisher = events.NewLogPublisher(applog.L())
	if cfg.KafkaBrokers != "" {
		pub = events.NewKafkaPublisher(strings.Split(cfg.KafkaBrokers, ","), cfg.KafkaTopic)
		stdlog.Printf("[events] kafka publisher topic=%s", cfg.KafkaTopic)
	}
	defer pub.Close()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
			}
			applog.Error(c, "server_error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))

	deps := handlers.NewDeps(st, cfg, pub)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })

	// Login throttled separately from the global limiter.
	app.Post("/api/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
	}), deps.AuthHandler.Login)

	api := app.Group("/api", auth.Middleware(cfg.JWTSecret))

	api.Get("/stock", deps.StockHandler.List)
	api.Get("/stock/item", deps.StockHandler.Get)
	api.Get("/stock/adjustments", deps.StockHandler.History)
	api.Post("/stock/adjust", auth.RequireRole(domain.RoleAdmin, domain.RoleManager), deps.StockHandler.Adjust)

	api.Post("/transactions", deps.SaleHandler.Create)
	api.Get("/transactions/:id", deps.SaleHandler.Get)
	api.Post("/transactions/:id/cancel", auth.RequireRole(domain.RoleAdmin, domain.RoleManager), deps.SaleHandler.Cancel)

	api.Post("/transfers", deps.TransferHandler.Request)
	api.Get("/transfers/:id", deps.TransferHandler.Get)
	api.Post("/transfers/:id/approve", auth.RequireRole(domain.RoleAdmin, domain.RoleManager), deps.TransferHandler.Approve)
	api.Post("/transfers/:id/reject", auth.RequireRole(domain.RoleAdmin, domain.RoleManager), deps.TransferHandler.Reject)

	api.Post("/returns", deps.ReturnHandler.Request)
	api.Get("/returns/:id", deps.ReturnHandler.Get)
	api.Post("/returns/:id/approve", auth.RequireRole(domain.RoleAdmin, domain.RoleManager), deps.ReturnHandler.Approve)
	api.Post("/returns/:id/reject", auth.RequireRole(domain.RoleAdmin, domain.RoleManager), deps.ReturnHandler.Reject)

	stdlog.Fatal(app.Listen(":" + cfg.Port))
}
