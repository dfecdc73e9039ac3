package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"

	"github.com/docmark/docmark/config"
	"github.com/docmark/docmark/pkg/conversion"
	"github.com/docmark/docmark/pkg/images"
	"github.com/docmark/docmark/pkg/otel"
	"github.com/docmark/docmark/pkg/pdf"
	"github.com/docmark/docmark/pkg/status"
	"github.com/docmark/docmark/server/api"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var version = "dev"

func main() {
	godotenv.Load()

	ctx := context.Background()

	if err := otel.Setup(ctx, "docmark", version); err != nil {
		slog.Error("otel setup failed", "error", err)
	}

	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to config file")
	flag.Parse()

	cfg, err := config.Parse(*configPath)

	if err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	hub := status.NewHub()

	pipeline, err := images.New(cfg.ImageDir, cfg.ImagePrefix)

	if err != nil {
		slog.Error("image directory unavailable", "error", err)
		os.Exit(1)
	}

	service := conversion.New(conversion.Config{
		Converter: cfg.Converter,
		Validator: &pdf.Validator{MaxSize: cfg.MaxFileSize},
		Images:    pipeline,
		Hub:       hub,

		Timeout:       cfg.ConvertTimeout,
		MaxConcurrent: cfg.MaxConcurrent,
		Limit:         cfg.Limiter,
	})

	handler, err := api.New(cfg, service, hub)

	if err != nil {
		slog.Error("handler setup failed", "error", err)
		os.Exit(1)
	}

	r := chi.NewRouter()

	origins := cfg.CORSOrigins

	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	handler.Attach(r)

	slog.Info("starting server", "address", cfg.Address)

	if err := http.ListenAndServe(cfg.Address, otelhttp.NewHandler(r, "server")); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
