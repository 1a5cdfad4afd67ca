package di

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"agency-cms/internal/admin"
	adminconfig "agency-cms/internal/admin/config"
	"agency-cms/internal/chatbot"
	chatbotconfig "agency-cms/internal/chatbot/config"
	"agency-cms/internal/content"
	contentusecase "agency-cms/internal/content/usecase"
	"agency-cms/internal/mail"
	"agency-cms/internal/media"
	"agency-cms/internal/notify"
	"agency-cms/internal/shared/cache"
	"agency-cms/internal/shared/database"
	"agency-cms/internal/shared/eventbus"
	"agency-cms/internal/shared/logger"
	"agency-cms/internal/shared/metrics"
	"agency-cms/internal/shared/schema"
	"agency-cms/internal/submission"
	submissionconfig "agency-cms/internal/submission/config"
	submissionusecase "agency-cms/internal/submission/usecase"

	"github.com/gofiber/fiber/v2"
)

// Container owns the shared infrastructure and the feature modules, and shuts them down in reverse order
type Container struct {
	mu sync.RWMutex

	Config *ServerConfig
	Logger logger.Logger

	// Infrastructure
	Database *database.Manager
	Cache    cache.Cache
	CacheTTL time.Duration
	Bus      *eventbus.EventBus
	Metrics  *metrics.Metrics
	Mailer   mail.Mailer
	Composer *mail.Composer
	Media    *media.Service

	// Module instances
	AdminModule      *admin.AdminModule
	ContentModule    *content.ContentModule
	SubmissionModule *submission.SubmissionModule
	ChatbotModule    *chatbot.ChatbotModule
	NotifyModule     *notify.NotifyModule

	mediaHandler *media.Handler
}

// NewContainer creates an empty container
func NewContainer(cfg *ServerConfig, log logger.Logger) *Container {
	return &Container{Config: cfg, Logger: log}
}

// InitializeInfrastructure connects to MongoDB and builds the cache, bus, metrics, mailer and media service
func (c *Container) InitializeInfrastructure(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	dbCfg, err := database.LoadConfig()
	if err != nil {
		return fmt.Errorf("database config: %w", err)
	}
	c.Database, err = database.Connect(ctx, dbCfg, c.Logger)
	if err != nil {
		return err
	}

	cacheCfg, err := cache.LoadConfig()
	if err != nil {
		return fmt.Errorf("cache config: %w", err)
	}
	c.Cache = cache.New(ctx, cacheCfg, c.Logger)
	c.CacheTTL = cacheCfg.TTL

	c.Bus = eventbus.NewEventBus(c.Logger)
	c.Metrics = metrics.New()

	mailCfg, err := mail.LoadConfig()
	if err != nil {
		return fmt.Errorf("mail config: %w", err)
	}
	c.Mailer = mail.New(mailCfg, c.Logger)
	c.Composer = mail.NewComposer(mailCfg)

	mediaCfg, err := media.LoadConfig()
	if err != nil {
		return fmt.Errorf("media config: %w", err)
	}
	if err := mediaCfg.Validate(); err != nil {
		return fmt.Errorf("media config: %w", err)
	}
	c.Media, err = media.New(ctx, mediaCfg, c.Logger)
	if err != nil {
		return err
	}
	if !c.Media.Configured() {
		c.Logger.Warn("MEDIA_PROVIDER not set, uploads disabled")
	}
	return nil
}

// InitializeAdmin builds the admin module, creates its indexes and seeds the env admin
func (c *Container) InitializeAdmin(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Database == nil {
		return errors.New("database must be initialized before the admin module")
	}

	cfg, err := adminconfig.LoadConfig()
	if err != nil {
		return fmt.Errorf("admin config: %w", err)
	}
	c.AdminModule, err = admin.NewAdminModule(c.Database.Database(), cfg, c.Bus, c.Logger, c.Config.DevMode())
	if err != nil {
		return fmt.Errorf("failed to create admin module: %w", err)
	}
	return c.AdminModule.Init(ctx)
}

// InitializeModules builds the content, submission, chatbot and notification modules
func (c *Container) InitializeModules(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.AdminModule == nil {
		return errors.New("admin module must be initialized before the site modules")
	}

	db := c.Database.Database()
	dev := c.Config.DevMode()
	c.ContentModule = content.NewContentModule(db, contentusecase.Deps{
		Cache:    c.Cache,
		CacheTTL: c.CacheTTL,
		Bus:      c.Bus,
		Logger:   c.Logger,
	}, c.Media, dev)
	if err := c.ContentModule.Init(ctx); err != nil {
		return fmt.Errorf("content indexes: %w", err)
	}

	subCfg, err := submissionconfig.LoadConfig()
	if err != nil {
		return fmt.Errorf("submission config: %w", err)
	}
	c.SubmissionModule = submission.NewSubmissionModule(db, subCfg, submissionusecase.Deps{
		Mailer:   c.Mailer,
		Composer: c.Composer,
		Bus:      c.Bus,
		Metrics:  c.Metrics,
		Logger:   c.Logger,
		Counter:  c.ContentModule.Counts,
	}, c.Media, dev)
	if err := c.SubmissionModule.Init(ctx); err != nil {
		return fmt.Errorf("submission indexes: %w", err)
	}

	botCfg, err := chatbotconfig.LoadConfig()
	if err != nil {
		return fmt.Errorf("chatbot config: %w", err)
	}
	c.ChatbotModule = chatbot.NewChatbotModule(botCfg, c.ContentModule, c.Metrics, c.Logger, dev)

	c.NotifyModule = notify.NewNotifyModule(c.Bus, c.Logger)
	c.mediaHandler = media.NewHandler(c.Media, dev)
	return nil
}

// RegisterRoutes mounts every module under /api
func (c *Container) RegisterRoutes(app *fiber.App) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	api := app.Group("/api")
	schema.RegisterRoutes(api)

	adminAPI := api.Group("/admin")
	c.AdminModule.RegisterRoutes(adminAPI)
	requireAdmin := c.AdminModule.RequireAdmin()

	c.NotifyModule.RegisterRoutes(adminAPI, requireAdmin)
	c.mediaHandler.RegisterRoutes(adminAPI, requireAdmin)
	c.SubmissionModule.RegisterRoutes(api, adminAPI, requireAdmin)
	c.ContentModule.RegisterRoutes(api, adminAPI, requireAdmin)
	c.ChatbotModule.RegisterRoutes(api)
}

// HealthCheck pings MongoDB and the cache and reports which optional integrations are configured
func (c *Container) HealthCheck(ctx context.Context) (fiber.Map, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	report := fiber.Map{
		"database": "ok",
		"cache":    "ok",
		"mail":     c.Mailer != nil && c.Mailer.Configured(),
		"media":    c.Media != nil && c.Media.Configured(),
		"chatbot":  c.ChatbotModule != nil && c.ChatbotModule.Usecase.Status().Configured,
	}

	var failed error
	if c.Database != nil {
		if err := c.Database.Ping(ctx); err != nil {
			report["database"] = "unavailable"
			failed = fmt.Errorf("MongoDB health check failed: %w", err)
		}
	}
	if c.Cache != nil {
		if err := c.Cache.Ping(ctx); err != nil {
			report["cache"] = "unavailable"
			if failed == nil {
				failed = fmt.Errorf("cache health check failed: %w", err)
			}
		}
	}
	return report, failed
}

// Cleanup stops the modules in reverse order of initialization, then the infrastructure
func (c *Container) Cleanup(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	stoppers := []interface{ Stop() error }{}
	if c.NotifyModule != nil {
		stoppers = append(stoppers, c.NotifyModule)
	}
	if c.ChatbotModule != nil {
		stoppers = append(stoppers, c.ChatbotModule)
	}
	if c.SubmissionModule != nil {
		stoppers = append(stoppers, c.SubmissionModule)
	}
	if c.ContentModule != nil {
		stoppers = append(stoppers, c.ContentModule)
	}
	if c.AdminModule != nil {
		stoppers = append(stoppers, c.AdminModule)
	}
	for _, s := range stoppers {
		if err := s.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Bus != nil {
		c.Bus.Wait()
	}

	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("cache: %w", err))
		}
	}
	if c.Database != nil {
		if err := c.Database.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("database: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Close shuts everything down with a 30 second budget
func (c *Container) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.Cleanup(ctx); err != nil {
		c.Logger.Warnf("cleanup errors occurred: %v", err)
		return err
	}
	c.Logger.Info("Container resources closed")
	return nil
}
