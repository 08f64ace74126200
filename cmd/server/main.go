package main

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"

	"taxdesk/internal/config"
	"taxdesk/internal/gst"
	"taxdesk/internal/handler"
	"taxdesk/internal/irp"
	"taxdesk/internal/port"
	"taxdesk/internal/repository/memory"
	"taxdesk/internal/repository/postgres"
	"taxdesk/internal/router"
	"taxdesk/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize store
	var repo port.EInvoiceRepository
	var db *sqlx.DB
	switch cfg.DB.Driver {
	case "memory":
		repo = memory.NewEInvoiceRepo()
		log.Printf("main: using in-memory store")
	default:
		db, err = postgres.NewDB(&cfg.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		repo = postgres.NewEInvoiceRepo(db)
	}

	rounding := cfg.EInvoice.RoundingStrategy()

	// Initialize portal simulator and lifecycle
	registrar := irp.NewSimulator(nil)
	lifecycle := gst.NewLifecycle(registrar, nil)

	// Initialize services
	converter := service.NewConverter(cfg.Supplier.Party(), rounding)
	einvoiceSvc := service.NewEInvoiceService(repo, lifecycle, converter, rounding)

	// Initialize handlers
	einvoiceH := handler.NewEInvoiceHandler(einvoiceSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(einvoiceH, healthH, cfg.CORS.AllowedOrigins)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
