package admin

import (
	"context"

	adminhttp "agency-cms/internal/admin/adapter/http"
	"agency-cms/internal/admin/adapter/persistence/mongodb"
	"agency-cms/internal/admin/adapter/security"
	"agency-cms/internal/admin/config"
	"agency-cms/internal/admin/domain/repository"
	"agency-cms/internal/admin/usecase"
	"agency-cms/internal/shared/eventbus"
	"agency-cms/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

// AdminModule wires admin identity: repository, tokens, use cases and routes
type AdminModule struct {
	repository repository.AdminRepository
	tokenSvc   repository.TokenService
	usecase    usecase.AdminUsecaseInterface
	handler    *adminhttp.AdminHTTPHandler
	middleware *adminhttp.AuthMiddleware
	config     *config.Config
}

// NewAdminModule creates a new admin module instance
func NewAdminModule(db *mongo.Database, cfg *config.Config, bus eventbus.EventBusInterface, log logger.Logger, devMode bool) (*AdminModule, error) {
	repo := mongodb.NewMongoAdminRepository(db)

	tokenSvc, err := security.NewJWTokenService(cfg)
	if err != nil {
		return nil, err
	}

	uc := usecase.NewAdminUsecase(repo, tokenSvc, cfg, bus, log)
	return &AdminModule{
		repository: repo,
		tokenSvc:   tokenSvc,
		usecase:    uc,
		handler:    adminhttp.NewAdminHTTPHandler(uc, devMode),
		middleware: adminhttp.NewAuthMiddleware(uc),
		config:     cfg,
	}, nil
}

// Init creates indexes and seeds the env admin
func (am *AdminModule) Init(ctx context.Context) error {
	if err := am.repository.EnsureIndexes(ctx); err != nil {
		return err
	}
	return am.usecase.Seed(ctx)
}

// RegisterRoutes registers the identity routes on the /api/admin router
func (am *AdminModule) RegisterRoutes(router fiber.Router) {
	am.handler.SetupRoutes(router, am.middleware)
}

// RequireAdmin returns the middleware other modules put in front of admin routes
func (am *AdminModule) RequireAdmin() fiber.Handler {
	return am.middleware.RequireAdmin()
}

// GetUsecase returns the admin usecase for external access
func (am *AdminModule) GetUsecase() usecase.AdminUsecaseInterface {
	return am.usecase
}

// Stop performs cleanup when the module is shut down
func (am *AdminModule) Stop() error {
	return nil
}
