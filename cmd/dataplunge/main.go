package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/dataplunge/dataplunge/app/repository"
	"github.com/dataplunge/dataplunge/internal/pkg/backend"
	"github.com/dataplunge/dataplunge/internal/pkg/cache"
	"github.com/dataplunge/dataplunge/internal/pkg/database"
	"github.com/dataplunge/dataplunge/internal/pkg/env"
	"github.com/dataplunge/dataplunge/internal/pkg/insights"
	"github.com/dataplunge/dataplunge/internal/pkg/metrics"
	"github.com/dataplunge/dataplunge/internal/pkg/oauth"
	"github.com/dataplunge/dataplunge/internal/pkg/router"
	"github.com/dataplunge/dataplunge/internal/pkg/session"
	"github.com/dataplunge/dataplunge/views"
)

func main() {
	app := NewApplication()

	go func() {
		err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
		if err != nil {
			log.Fatal(err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	setupStores()

	if err := backend.SetupClient(); err != nil {
		panic(err)
	}

	// Define possible base paths
	basePaths := []string{
		"./",        // Current directory
		"../../",    // From cmd/dataplunge to project root
		"../../../", // Fallback
	}

	// Find the correct base path
	basePath := ""
	for _, path := range basePaths {
		if _, err := os.Stat(path + "public"); !os.IsNotExist(err) {
			basePath = path
			break
		}
	}

	if basePath == "" {
		panic("Could not find project root directory")
	}

	// init fiber app
	app := fiber.New(fiber.Config{
		Views:   views.NewEngine(),
		AppName: "Data Plunge",
	})

	// ignore and cache favicon
	app.Use(favicon.New(favicon.Config{
		File:         basePath + "public/assets/icons/favicon.ico",
		URL:          "/favicon.ico",
		CacheControl: "public, max-age=604800",
	}))

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	metricsAuth := basicauth.New(basicauth.Config{
		Users: map[string]string{
			env.GetEnv("METRICS_USER", "admin"): env.GetEnv("METRICS_PASSWORD", "test"),
		},
	})
	app.Get("/metrics", metricsAuth, monitor.New())
	app.Get("/metrics/prometheus", metricsAuth, adaptor.HTTPHandler(metrics.Handler()))

	// static files
	app.Static("/assets", basePath+"public/assets", fiber.Static{
		CacheDuration: 15 * time.Second,
		Compress:      true,
	})

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: "/docs/api/",
		FilePath: basePath + "public/docs/v1/openapi.yml",
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	// ROUTER
	router.InstallRouter(app)

	return app
}

// setupStores connects Redis and MySQL. Either one missing degrades to
// in-memory stores so the dashboard stays usable in development.
func setupStores() {
	cache.SetupCache()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := cache.Ping(ctx); err == nil {
		session.NewSessionStore()
		oauth.Setup()
		insights.SetupService(cache.NewRedisStore(cache.GetClient()), insights.DefaultTTL)
	} else {
		fiberlog.Warnf("[Main] redis unavailable, using in-memory sessions and cache: %v", err)
		session.NewMemorySessionStore()
		oauth.SetupMemory()
		insights.SetupService(cache.NewMemoryStore(), insights.DefaultTTL)
	}

	if err := database.SetupDatabase(); err != nil {
		fiberlog.Warnf("[Main] database unavailable, onboarding preferences are kept in memory: %v", err)
	}
	repository.InitializeFactory(database.GetDB())
}
