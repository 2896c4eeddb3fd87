package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"plzform/internal"
	"plzform/internal/directory"
	"plzform/internal/handler"
	"plzform/internal/middleware"
	"plzform/internal/router"
	"plzform/internal/session"
	"plzform/internal/widget"
)

func run() error {
	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Directory client for locality/postal-code lookups
	dirClient := directory.NewHTTPClient(directory.HTTPConfig{
		BaseURL: cfg.Dir.BaseURL,
		Timeout: cfg.Dir.Timeout,
		Logger:  logger,
	})

	// One live widget per browser session
	sessions := session.NewStore(session.Config{
		TTL:    cfg.Widget.SessionTTL,
		Logger: logger,
		Factory: func() *widget.Validator {
			return widget.New(widget.Config{
				Client: dirClient,
				Delay:  cfg.Widget.DebounceDelay,
				Logger: logger,
			})
		},
	})
	defer sessions.Close()

	// Load templates with renderer
	logger.Info("Loading templates...", "dir", cfg.Widget.TemplatesDir)
	renderer, err := handler.NewRenderer(cfg.Widget.TemplatesDir, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize renderer: %w", err)
	}

	widgetHandler := handler.NewWidgetHandler(sessions, renderer, logger)

	metrics := middleware.NewMetrics("plzform")

	r := router.New(
		middleware.RequestID,
		middleware.WithRequestLogger(logger),
		middleware.Recover,
		metrics.Middleware,
		middleware.SecurityHeaders,
		middleware.MaxBodySize,
	)

	// Static files
	r.Static("/static/", cfg.Widget.StaticDir)

	// Metrics endpoint (protect via firewall in production)
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		metrics.Handler().ServeHTTP(w, req)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Widget routes
	r.Get("/", widgetHandler.FormPage)
	r.Get("/widget/state", widgetHandler.State)
	r.Post("/widget/locality", widgetHandler.Locality)
	r.Post("/widget/postal-code", widgetHandler.PostalCode)
	r.Post("/widget/select", widgetHandler.Select)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting address form server", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
