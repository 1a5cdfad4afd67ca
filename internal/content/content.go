package content

import (
	"context"

	contenthttp "agency-cms/internal/content/adapter/http"
	"agency-cms/internal/content/domain/model"
	"agency-cms/internal/content/usecase"
	"agency-cms/internal/shared/database"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

type routeRegistrar interface {
	RegisterPublicRoutes(router fiber.Router)
	RegisterAdminRoutes(router fiber.Router, requireAdmin fiber.Handler)
}

// ContentModule wires the site content kinds: stores, use cases and routes
type ContentModule struct {
	Services  *usecase.Usecase[model.Service]
	Team      *usecase.Usecase[model.TeamMember]
	Portfolio *usecase.Usecase[model.PortfolioItem]
	Blog      *usecase.Usecase[model.BlogPost]
	Jobs      *usecase.Usecase[model.JobPosting]
	Pages     *usecase.PagesUsecase

	handlers []routeRegistrar
}

// NewContentModule creates a new content module instance
func NewContentModule(db *mongo.Database, deps usecase.Deps, files contenthttp.FileAttacher, devMode bool) *ContentModule {
	m := &ContentModule{
		Services:  usecase.New[model.Service](model.Services, database.NewStore[model.Service](db, model.Services.Collection), deps),
		Team:      usecase.New[model.TeamMember](model.Team, database.NewStore[model.TeamMember](db, model.Team.Collection), deps),
		Portfolio: usecase.New[model.PortfolioItem](model.Portfolio, database.NewStore[model.PortfolioItem](db, model.Portfolio.Collection), deps),
		Blog:      usecase.NewBlogUsecase(database.NewStore[model.BlogPost](db, model.Blog.Collection), deps),
		Jobs:      usecase.NewJobsUsecase(database.NewStore[model.JobPosting](db, model.Jobs.Collection), deps),
		Pages:     usecase.NewPagesUsecase(database.NewStore[model.PageSection](db, model.PageSections.Collection), deps),
	}

	m.handlers = []routeRegistrar{
		contenthttp.NewContentHTTPHandler(m.Services, files, devMode),
		contenthttp.NewContentHTTPHandler(m.Team, files, devMode),
		contenthttp.NewContentHTTPHandler(m.Portfolio, files, devMode),
		contenthttp.NewContentHTTPHandler(m.Blog, files, devMode),
		contenthttp.NewContentHTTPHandler(m.Jobs, files, devMode),
		contenthttp.NewPagesHTTPHandler(m.Pages, devMode),
	}
	return m
}

// Init creates the slug and (page, key) indexes
func (m *ContentModule) Init(ctx context.Context) error {
	for _, ensure := range []func(context.Context) error{
		m.Services.EnsureIndexes,
		m.Team.EnsureIndexes,
		m.Portfolio.EnsureIndexes,
		m.Blog.EnsureIndexes,
		m.Jobs.EnsureIndexes,
		m.Pages.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			return err
		}
	}
	return nil
}

// RegisterRoutes mounts public routes on api and management routes on admin
func (m *ContentModule) RegisterRoutes(api, admin fiber.Router, requireAdmin fiber.Handler) {
	for _, h := range m.handlers {
		h.RegisterPublicRoutes(api)
		h.RegisterAdminRoutes(admin, requireAdmin)
	}
}

// Counts returns the number of records per kind for the dashboard
func (m *ContentModule) Counts(ctx context.Context) (map[string]int64, error) {
	counters := map[string]func(context.Context) (int64, error){
		model.Services.Name:     m.Services.Count,
		model.Team.Name:         m.Team.Count,
		model.Portfolio.Name:    m.Portfolio.Count,
		model.Blog.Name:         m.Blog.Count,
		model.Jobs.Name:         m.Jobs.Count,
		model.PageSections.Name: m.Pages.Count,
	}
	out := make(map[string]int64, len(counters))
	for name, count := range counters {
		n, err := count(ctx)
		if err != nil {
			return nil, err
		}
		out[name] = n
	}
	return out, nil
}

// Stop performs cleanup when the module is shut down
func (m *ContentModule) Stop() error {
	return nil
}
