// Command main is the entry point for the VibeConnect backend server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/rali22212/VibeConnect/internal/config"
	"github.com/rali22212/VibeConnect/internal/middleware"
	"github.com/rali22212/VibeConnect/internal/observability"
	"github.com/rali22212/VibeConnect/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	middleware.InitMiddleware(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Distributed tracing (optional)
	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:  "vibeconnect-api",
		Environment:  cfg.Env,
		Enabled:      cfg.TracingEnabled,
		Exporter:     cfg.TracingExporter,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SamplerRatio: cfg.TracingSampler,
	})
	if err != nil {
		log.Printf("Tracing init failed, continuing without tracing: %v", err)
	} else {
		defer func() {
			sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer scancel()
			_ = shutdownTracing(sctx)
		}()
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	if err := srv.StartRealtime(ctx); err != nil {
		log.Printf("Realtime wiring failed, continuing without live feed: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:   "VibeConnect API",
		BodyLimit: 4 * 1024 * 1024, // 4MB limit
	})

	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		sctx, scancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer scancel()

		if err := app.ShutdownWithContext(sctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
		if err := srv.Shutdown(sctx); err != nil {
			log.Printf("Server resource shutdown error: %v", err)
		}
	}()

	log.Printf("Server starting on port %s...", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
