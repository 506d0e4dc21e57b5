package main

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/kezar0001-cpu/buildstatefm-app-sub004/config"
	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/api/middleware"
	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/api/v1/handlers"
	v1 "github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/api/v1/routes"
	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/api/v1/services"
	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/db"
	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/db/repos"
	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/events"
	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/logger"
	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/notify"
)

func main() {
	// .env is optional; env vars may come from the environment directly
	_ = godotenv.Load()

	logger.InitializeAndConfigure()

	dbPort, err := strconv.Atoi(config.GetEnv("DB_PORT", "5432"))
	if err != nil {
		logger.Fatalf("invalid DB_PORT: %v", err)
	}
	database, err := db.New(db.Options{
		Host:     config.GetEnv("DB_HOST", db.DefaultHost),
		User:     config.GetEnv("DB_USER", db.DefaultUser),
		Password: config.GetEnv("DB_PASSWORD", db.DefaultPassword),
		DBName:   config.GetEnv("DB_NAME", db.DefaultDBName),
		Port:     dbPort,
	})
	if err != nil {
		logger.Fatalf("failed to connect to database: %v", err)
	}

	ctx := context.Background()

	// Side effects run off the request path; handler failures never
	// surface to API callers.
	bus := events.NewBus()
	notify.NewLogNotifier().Register(bus)
	if addr := config.GetEnv("REDIS_ADDR", ""); addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		events.NewDashboardCache(rdb).Register(bus)
	} else {
		logger.Warn("REDIS_ADDR not set, dashboard cache invalidation disabled")
	}
	bus.Start(ctx)

	jobRepo := repos.NewJobRepository(database)
	propertyRepo := repos.NewPropertyRepository(database)
	jobService := services.NewJobService(jobRepo, propertyRepo, bus)
	jobHandler := handlers.NewJobHandler(jobService)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})
	app.Use(middleware.Logger())

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	// API v1 routes
	v1.Register(app, jobHandler)

	port := config.GetEnv("PORT", "8080")
	logger.Infof("🚀 Server listening on :%s", port)
	logger.Fatalf("%v", app.Listen(":"+port))
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(handlers.Response{
		Slug:  handlers.ErrorSlug,
		Error: err.Error(),
	})
}
