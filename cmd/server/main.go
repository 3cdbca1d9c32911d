package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/arthousehq/photofolio/pkg/photofolio"
	"github.com/arthousehq/photofolio/pkg/photofolio/api"
	"github.com/arthousehq/photofolio/pkg/photofolio/auth"
	"github.com/arthousehq/photofolio/pkg/photofolio/config"
)

// serverEnv holds process-level options separate from service configuration.
type serverEnv struct {
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
	LogFormat       string        `env:"LOG_FORMAT" env-default:"text"` // text, json
}

func main() {
	// Load .env if available; ignore error if the file does not exist
	_ = godotenv.Load()

	var env serverEnv
	if err := cleanenv.ReadEnv(&env); err != nil {
		slog.Error("failed to read server environment", "error", err)
		os.Exit(1)
	}
	setupLogger(env.LogFormat)

	serverConfig, err := config.Load(config.WithEnv())
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	blobs, err := serverConfig.BuildBlobStore()
	if err != nil {
		slog.Error("failed to build blob store", "error", err)
		os.Exit(1)
	}

	svc, err := serverConfig.BuildService(blobs)
	if err != nil {
		slog.Error("failed to build service", "error", err)
		os.Exit(1)
	}

	notifier, err := serverConfig.BuildNotifier()
	if err != nil {
		slog.Error("failed to build notifier", "error", err)
		os.Exit(1)
	}

	admin, err := serverConfig.BuildAdmin()
	if err != nil {
		slog.Error("failed to build admin credential", "error", err)
		os.Exit(1)
	}
	if admin == nil {
		slog.Warn("no admin credential configured, mutating routes are unauthenticated")
	}

	httpServer := &http.Server{
		Addr:         ":" + serverConfig.Port,
		Handler:      routes(serverConfig, svc, blobs, notifier, admin),
		ReadTimeout:  env.ReadTimeout,
		WriteTimeout: env.WriteTimeout,
	}

	go func() {
		slog.Info("photofolio server starting",
			"port", serverConfig.Port,
			"environment", serverConfig.Environment,
			"metadata", serverConfig.MetadataType,
			"storage", serverConfig.StorageType)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), env.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exiting")
}

func setupLogger(format string) {
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(handler))
}

func routes(cfg *config.ServerConfig, svc photofolio.Service, blobs photofolio.BlobStore, notifier photofolio.Notifier, admin *auth.Admin) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	if cfg.Environment == "development" {
		r.Use(api.CORS)
	}

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		render.JSON(w, req, map[string]string{"status": "ok"})
	})

	r.Mount("/api/images", api.NewImagesHandler(svc, admin, cfg.MaxUploadBytes).Routes())
	r.Mount("/api/contact", api.NewContactHandler(notifier).Routes())
	r.Mount("/api/login", api.NewAuthHandler(admin).Routes())
	r.Mount("/files", api.NewFilesHandler(blobs).Routes())

	return r
}
