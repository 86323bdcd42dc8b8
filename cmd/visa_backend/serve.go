package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dkovalev/visa-backend/internal/config"
	"github.com/dkovalev/visa-backend/internal/db"
	"github.com/dkovalev/visa-backend/internal/fxrate"
	"github.com/dkovalev/visa-backend/internal/outbox"
	"github.com/dkovalev/visa-backend/internal/queue"
	"github.com/dkovalev/visa-backend/internal/server"
	"github.com/dkovalev/visa-backend/internal/storage"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start the HTTP server, the outbox relay and the job queue connection.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	jobQueue, err := queue.New(cfg.RedisURL, queue.DefaultName)
	if err != nil {
		return fmt.Errorf("failed to connect to queue: %w", err)
	}
	defer jobQueue.Close()

	store, err := storage.New(storage.Config{
		Endpoint:        cfg.S3Endpoint,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		Bucket:          cfg.S3Bucket,
		Region:          cfg.S3Region,
		UseSSL:          cfg.S3UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create storage client: %w", err)
	}

	// The relay drains the dispatch outbox into the queue in the background;
	// it stops with the same signal context as the server.
	relay := outbox.New(database, jobQueue)
	go relay.Run(ctx)

	srv := server.New(server.Config{
		Port:           servePort,
		InternalAPIKey: cfg.InternalAPIKey,
		TemplateKey:    cfg.TemplateKey,
	}, database, fxrate.New(), store)

	return srv.Start(ctx)
}
