package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/ManuelReschke/LocalBiz/internal/pkg/cache"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/database"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/env"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/logger"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/metrics/counter"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/router"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/storage"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/viewmodel"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := NewApplication()
	log := logger.Named("app")
	defer func() {
		_ = cache.Close()
		_ = logger.Sync()
	}()

	// profile view counters are buffered in redis
	var flushed <-chan struct{}
	if cache.Enabled() {
		interval := time.Duration(env.GetEnvInt("VIEW_FLUSH_SECONDS", 60)) * time.Second
		flushed = counter.Start(ctx, database.GetDB(), interval)
	}

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Warn("graceful shutdown failed", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000"))
	if err := app.Listen(addr); err != nil {
		log.Error("server stopped", zap.Error(err))
	}

	// flush the last buffered views before the cache connection closes
	stop()
	if flushed != nil {
		<-flushed
	}
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	logger.Setup(env.GetEnv("APP_ENV", "prod"), env.GetEnv("LOG_LEVEL", ""))
	log := logger.Named("app")

	ctx, cancel := context.WithTimeout(context.Background(), storage.DefaultTimeout)
	defer cancel()

	database.SetupDatabase()
	cache.SetupCache(ctx)
	store, err := storage.Setup(ctx)
	if err != nil {
		log.Fatal("photo storage unavailable", zap.Error(err))
	}

	// Define possible base paths
	basePaths := []string{
		"./",        // Current directory
		"../../",    // From cmd/localbiz to project root
		"../../../", // Fallback
	}

	basePath := ""
	for _, path := range basePaths {
		if _, err := os.Stat(path + "views"); !os.IsNotExist(err) {
			basePath = path
			break
		}
	}
	if basePath == "" {
		log.Fatal("could not find project root directory")
	}

	app := fiber.New(fiber.Config{
		Views:     viewmodel.NewEngine(basePath+"views", store.URL),
		BodyLimit: 12 * 1024 * 1024, // photo uploads plus form overhead
	})

	// ignore and cache favicon
	app.Use(favicon.New(favicon.Config{
		File:         basePath + "public/assets/icons/favicon.ico",
		URL:          "/favicon.ico",
		CacheControl: "public, max-age=604800",
	}))

	// recovery and logging
	app.Use(recover.New(), fiberlogger.New())

	// fiber metrics
	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: map[string]string{
			env.GetEnv("METRICS_USER", "admin"): env.GetEnv("METRICS_PASSWORD", "admin"),
		},
	}), monitor.New())

	// static files
	app.Static("/", basePath+"public/assets", fiber.Static{
		CacheDuration: 15 * time.Second,
		Compress:      true,
	})

	// local photo storage is served by the app itself
	if local, ok := store.(*storage.LocalStore); ok && strings.HasPrefix(local.BaseURL, "/") {
		app.Static(local.BaseURL, local.Root, fiber.Static{
			CacheDuration: 10 * time.Second,
			MaxAge:        604800, // 7 days
		})
	}

	// SWAGGER / OPENAPI
	app.Use(swagger.New(swagger.Config{
		BasePath: "/docs/api/",
		FilePath: basePath + "public/docs/v1/openapi.yml",
		Path:     "v1",
	}))

	// ROUTER
	router.InstallRouter(app, database.GetDB(), store)

	return app
}
