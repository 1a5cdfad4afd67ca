package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"agency-cms/internal/content/domain/model"
	"agency-cms/internal/content/domain/repository"
	"agency-cms/internal/shared/cache"
	"agency-cms/internal/shared/database"
	apperrors "agency-cms/internal/shared/errors"
	"agency-cms/internal/shared/eventbus"
	"agency-cms/internal/shared/logger"
	"agency-cms/internal/shared/schema"

	"go.mongodb.org/mongo-driver/bson"
)

// PagesUsecase manages (page, key) addressed sections with upsert semantics
type PagesUsecase struct {
	repo   repository.Repository[model.PageSection]
	schema *schema.Schema
	cache  cache.Cache
	ttl    time.Duration
	bus    eventbus.EventBusInterface
	log    logger.Logger
}

// NewPagesUsecase creates the page sections usecase
func NewPagesUsecase(repo repository.Repository[model.PageSection], deps Deps) *PagesUsecase {
	s, _ := schema.Get(schema.PageSection)
	if deps.Logger == nil {
		deps.Logger = logger.NewNop()
	}
	if deps.Cache == nil {
		deps.Cache = cache.NewMemoryCache(deps.CacheTTL)
	}
	if deps.Bus == nil {
		deps.Bus = eventbus.NewEventBus(deps.Logger)
	}
	return &PagesUsecase{
		repo:   repo,
		schema: s,
		cache:  deps.Cache,
		ttl:    deps.CacheTTL,
		bus:    deps.Bus,
		log:    deps.Logger.WithComponent("content.pages"),
	}
}

// EnsureIndexes creates the unique (page, key) index
func (u *PagesUsecase) EnsureIndexes(ctx context.Context) error {
	return u.repo.EnsureIndexes(ctx, model.PageSections.Indexes...)
}

// GetPage returns every section of page; a page with no sections is empty, not missing
func (u *PagesUsecase) GetPage(ctx context.Context, page string) (*model.Page, error) {
	page = normalizeAddress(page)
	key := cachePrefix(model.PageSections) + "public:" + page

	var cached model.Page
	if err := cache.GetJSON(ctx, u.cache, key, &cached); err == nil {
		return &cached, nil
	}

	items, err := u.repo.Find(ctx, bson.M{"page": page}, database.FindOptions{Sort: model.PageSections.Sort})
	if err != nil {
		return nil, u.storageError("list", err)
	}

	out := &model.Page{Page: page, Sections: make(map[string]interface{}, len(items)), Items: items}
	for _, item := range items {
		out.Sections[item.Key] = item.Data
	}
	if err := cache.SetJSON(ctx, u.cache, key, out, u.ttl); err != nil {
		u.log.Warnf("cache write %s failed: %v", key, err)
	}
	return out, nil
}

// List returns all sections, optionally of one page
func (u *PagesUsecase) List(ctx context.Context, page string) ([]model.PageSection, error) {
	filter := bson.M{}
	if page != "" {
		filter["page"] = normalizeAddress(page)
	}
	items, err := u.repo.Find(ctx, filter, database.FindOptions{Sort: model.PageSections.Sort})
	if err != nil {
		return nil, u.storageError("list", err)
	}
	return items, nil
}

// Count returns the number of stored sections
func (u *PagesUsecase) Count(ctx context.Context) (int64, error) {
	n, err := u.repo.Count(ctx, bson.M{})
	if err != nil {
		return 0, u.storageError("count", err)
	}
	return n, nil
}

// Upsert validates input and writes the section at its (page, key)
func (u *PagesUsecase) Upsert(ctx context.Context, input map[string]interface{}) (*model.PageSection, error) {
	clean, verrs := u.schema.Validate(input, false)
	if verrs != nil {
		return nil, verrs.ToAppError()
	}
	page := normalizeAddress(clean["page"].(string))
	key := normalizeAddress(clean["key"].(string))
	if page == "" || key == "" {
		return nil, apperrors.NewValidationError("page and key are required")
	}

	section, err := u.repo.Upsert(ctx,
		bson.M{"page": page, "key": key},
		bson.M{"page": page, "key": key, "data": clean["data"]},
	)
	if err != nil {
		return nil, u.storageError("save", err)
	}
	u.changed(ctx, section.IDHex(), ActionUpdated)
	return section, nil
}

// UpsertAt writes data at the given address, overriding any page/key in input
func (u *PagesUsecase) UpsertAt(ctx context.Context, page, key string, input map[string]interface{}) (*model.PageSection, error) {
	merged := make(map[string]interface{}, len(input)+2)
	for k, v := range input {
		merged[k] = v
	}
	if _, ok := merged["data"]; !ok {
		data := make(map[string]interface{}, len(input))
		for k, v := range input {
			if k != "page" && k != "key" {
				data[k] = v
			}
		}
		merged["data"] = data
	}
	merged["page"] = page
	merged["key"] = key
	return u.Upsert(ctx, merged)
}

// Delete removes the section at (page, key)
func (u *PagesUsecase) Delete(ctx context.Context, page, key string) error {
	err := u.repo.DeleteOne(ctx, bson.M{"page": normalizeAddress(page), "key": normalizeAddress(key)})
	if err != nil {
		return u.storageError("delete", err)
	}
	u.changed(ctx, "", ActionDeleted)
	return nil
}

// DeleteByID removes a section by its id
func (u *PagesUsecase) DeleteByID(ctx context.Context, id string) error {
	if err := u.repo.Delete(ctx, id); err != nil {
		return u.storageError("delete", err)
	}
	u.changed(ctx, id, ActionDeleted)
	return nil
}

func (u *PagesUsecase) changed(ctx context.Context, id, action string) {
	if err := u.cache.DeleteByPrefix(ctx, cachePrefix(model.PageSections)); err != nil {
		u.log.Warnf("cache invalidation for pages failed: %v", err)
	}
	u.bus.PublishAndForget(context.WithoutCancel(ctx), eventbus.NewEvent(
		eventbus.EventTypeContentChanged,
		eventbus.ContentChanged{Kind: model.PageSections.Name, ID: id, Action: action},
		"content",
	))
}

func (u *PagesUsecase) storageError(op string, err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return apperrors.NewNotFoundError(model.PageSections.Label)
	}
	if errors.Is(err, database.ErrDuplicate) {
		return apperrors.NewConflictError("Page section already exists").WithCause(model.ErrSectionTaken)
	}
	u.log.Errorf("❌ pages %s failed: %v", op, err)
	return apperrors.NewInfrastructureError(fmt.Sprintf("Failed to %s page section", op)).WithCause(err)
}

func normalizeAddress(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
