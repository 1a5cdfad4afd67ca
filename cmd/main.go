package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agency-cms/internal/di"
	"agency-cms/internal/shared/httpx"
	"agency-cms/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const (
	initTimeout     = 30 * time.Second
	shutdownTimeout = 30 * time.Second
	healthTimeout   = 5 * time.Second
)

func main() {
	envFile := pflag.String("env-file", ".env", "dotenv file to load before reading the environment")
	seedOnly := pflag.Bool("seed-only", false, "create indexes, seed the admin from ADMIN_EMAIL/ADMIN_PASSWORD and exit")
	pflag.Parse()

	if err := godotenv.Load(*envFile); err != nil {
		logger.Warnf("Could not load %s: %v", *envFile, err)
	}

	serverCfg, err := di.LoadServerConfig()
	if err != nil {
		logger.Fatalf("Failed to load server configuration: %v", err)
	}

	log := logger.New(serverCfg.LogLevel, serverCfg.LogFormat, serverCfg.Environment)
	logger.SetDefault(log)

	if err := run(serverCfg, log, *seedOnly); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

func run(serverCfg *di.ServerConfig, log logger.Logger, seedOnly bool) error {
	log.Infof("🚀 Starting Agency CMS (%s)", serverCfg.AppEnv)

	container := di.NewContainer(serverCfg, log)
	defer func() {
		if err := container.Close(); err != nil {
			log.Errorf("Failed to close container: %v", err)
		}
	}()

	initCtx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()
	if err := container.InitializeInfrastructure(initCtx); err != nil {
		return err
	}
	if err := container.InitializeAdmin(initCtx); err != nil {
		return err
	}
	if err := container.InitializeModules(initCtx); err != nil {
		return err
	}
	if seedOnly {
		log.Info("Seeding complete")
		return nil
	}

	app := newApp(container, serverCfg, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listenErr := make(chan error, 1)
	go func() {
		log.Infof("🌟 Listening on %s", serverCfg.Addr())
		listenErr <- app.Listen(serverCfg.Addr())
	}()

	select {
	case err := <-listenErr:
		return err
	case <-ctx.Done():
	}

	log.Info("🛑 Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	log.Info("✅ HTTP server stopped")
	return nil
}

func newApp(container *di.Container, serverCfg *di.ServerConfig, log logger.Logger) *fiber.App {
	fiberCfg := fiber.Config{
		AppName:      "Agency CMS API",
		BodyLimit:    serverCfg.BodyLimitMB * 1024 * 1024,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: httpx.ErrorHandler(serverCfg.DevMode()),
	}
	serverCfg.ApplyProxy(&fiberCfg)
	app := fiber.New(fiberCfg)

	app.Use(
		recover.New(),
		requestid.New(),
		httpx.RequestContext(),
		cors.New(cors.Config{
			AllowOrigins: serverCfg.Origins(),
			AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
			AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		}),
		httpx.RequestLogger(log),
		container.Metrics.Middleware(),
	)

	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
		defer cancel()

		report, err := container.HealthCheck(ctx)
		if err != nil {
			log.Errorf("❌ Health check failed: %v", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":   "UNHEALTHY",
				"services": report,
			})
		}
		return c.JSON(fiber.Map{
			"status":    "HEALTHY",
			"timestamp": time.Now().UTC(),
			"services":  report,
		})
	})
	app.Get("/metrics", container.Metrics.Handler())

	container.RegisterRoutes(app)
	return app
}
