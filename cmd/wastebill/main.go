package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"

	"github.com/neomorfeo/wastebill/internal/adapter/fsm"
	handler "github.com/neomorfeo/wastebill/internal/adapter/http"
	"github.com/neomorfeo/wastebill/internal/adapter/otel"
	"github.com/neomorfeo/wastebill/internal/adapter/river"
	"github.com/neomorfeo/wastebill/internal/adapter/sqlite"
	"github.com/neomorfeo/wastebill/internal/app"
	"github.com/neomorfeo/wastebill/internal/config"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// --- Observability ---
	providers, err := otel.Setup(ctx, otel.ConfigFromEnv())
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()

	// --- Storage ---
	db, err := otel.OpenDB(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}

	store, err := sqlite.NewFromDB(db)
	if err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	defer store.Close()

	sessions := store.Sessions()
	if cfg.BootstrapAdminToken != "" {
		if err := sessions.EnsureAdminSession(ctx, "bootstrap-admin", cfg.BootstrapAdminName, cfg.BootstrapAdminToken); err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
	}

	// --- Async jobs ---
	riverClient, err := river.Setup(ctx, db)
	if err != nil {
		return fmt.Errorf("river: %w", err)
	}
	if err := riverClient.Start(ctx); err != nil {
		return fmt.Errorf("starting river: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := riverClient.Stop(stopCtx); err != nil {
			log.Printf("river stop: %v", err)
		}
	}()

	// --- Application ---
	publisher := otel.NewTracingPublisher(river.NewPublisher(riverClient))
	billing := app.NewBillingService(
		otel.NewTracingItemRepository(store.BillingItems()),
		otel.NewTracingSummaryRepository(store.BillingSummaries()),
		publisher,
	)
	invoices := app.NewInvoiceService(
		otel.NewTracingInvoiceRepository(store.TenantInvoices()),
		fsm.New(),
		publisher,
	)

	// --- HTTP ---
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(otelchi.Middleware("wastebill", otelchi.WithChiRoutes(router)))

	api := humachi.New(router, huma.DefaultConfig("wastebill", "0.1.0"))
	handler.Register(api, billing, invoices, sessions)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown.
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("wastebill listening on :%d", cfg.Port)
		log.Printf("API docs: http://localhost:%d/docs", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-done:
	}

	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Println("stopped")
	return nil
}
