package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/omlabs/zapbridge/internal/config"
	"github.com/omlabs/zapbridge/internal/database"
	"github.com/omlabs/zapbridge/internal/handler"
	"github.com/omlabs/zapbridge/internal/logger"
	"github.com/omlabs/zapbridge/internal/repository"
	"github.com/omlabs/zapbridge/internal/taskhistory"
	"github.com/omlabs/zapbridge/internal/webhook"
)

func main() {
	app := &cli.App{
		Name:  "zapbridge",
		Usage: "Store-to-Zapier webhook bridge with task history",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:     "database-url",
				Aliases:  []string{"d"},
				Value:    config.DefaultDatabaseURL,
				Usage:    "PostgreSQL database URL",
				EnvVars:  []string{"DATABASE_URL"},
				Required: true,
			},
		},
		Before: func(c *cli.Context) error {
			logger.Setup(logger.ParseLevel(c.String("log-level")))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the web server and delivery worker",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Value:   config.DefaultPort,
						Usage:   "HTTP server port",
						EnvVars: []string{"PORT"},
					},
					&cli.StringFlag{
						Name:    "api-token",
						Usage:   "Bearer token required on /api/v1 (empty disables auth)",
						EnvVars: []string{"API_TOKEN"},
					},
				},
				Action: runServe,
			},
			{
				Name:  "cleanup-history",
				Usage: "Delete old task history records and expired transients",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "days",
						Value: config.DefaultRetentionDays,
						Usage: "Delete task history older than this many days",
					},
				},
				Action: runCleanupHistory,
			},
		},
		Action: runServe,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func runServe(c *cli.Context) error {
	ctx := c.Context

	port := c.String("port")
	if port == "" {
		port = config.DefaultPort
	}
	databaseURL := c.String("database-url")

	db, err := database.New(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db.Pool()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	h := handler.New(db.Pool(), c.String("api-token"))

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	worker := newDeliveryWorker(db)

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	workerCtx, stopWorker := context.WithCancel(ctx)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Run(workerCtx)
	}()

	go func() {
		slog.Info("starting server", "server_addr", "http://localhost:"+port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		stopWorker()
		<-workerDone
		return fmt.Errorf("server error: %w", err)
	case <-done:
		slog.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		stopWorker()
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	stopWorker()
	<-workerDone

	slog.Info("server stopped")
	return nil
}

// newDeliveryWorker wires the delivery pipeline: payload building, HTTP
// delivery and the task history listener observing outcomes.
func newDeliveryWorker(db *database.DB) *webhook.Worker {
	pool := db.Pool()

	taskRepo := repository.NewTaskRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	orderNoteRepo := repository.NewOrderNoteRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	subscriptionNoteRepo := repository.NewSubscriptionNoteRepository(pool)
	webhookRepo := repository.NewWebhookRepository(pool)
	jobRepo := repository.NewDeliveryJobRepository(pool)
	transientRepo := repository.NewTransientRepository(pool)

	registry := taskhistory.NewRegistry(taskRepo, orderNoteRepo, subscriptionNoteRepo, productRepo)
	listener := taskhistory.NewTriggerListener(registry, webhookRepo, jobRepo, transientRepo)

	payloads := webhook.NewPayloadBuilder(orderRepo, orderNoteRepo, productRepo, subscriptionNoteRepo)
	deliverer := webhook.NewDeliverer(payloads)

	return webhook.NewWorker(jobRepo, webhookRepo, deliverer, listener)
}

func runCleanupHistory(c *cli.Context) error {
	ctx := c.Context
	databaseURL := c.String("database-url")

	db, err := database.New(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db.Pool()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	days := c.Int("days")
	if days <= 0 {
		days = config.DefaultRetentionDays
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	taskRepo := repository.NewTaskRepository(db.Pool())
	removed, err := taskRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to delete old task history: %w", err)
	}

	transientRepo := repository.NewTransientRepository(db.Pool())
	purged, err := transientRepo.PurgeExpired(ctx)
	if err != nil {
		return fmt.Errorf("failed to purge expired transients: %w", err)
	}

	slog.Info("history cleanup finished",
		"tasks_removed", removed,
		"transients_purged", purged,
		"cutoff", cutoff,
	)
	return nil
}
