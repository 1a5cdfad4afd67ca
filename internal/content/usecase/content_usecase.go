package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
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
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Content actions published with EventTypeContentChanged
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

const maxPublicLimit = 100

var ErrNothingToUpdate = apperrors.NewValidationError("No fields to update")

// Deps are the collaborators shared by every content usecase
type Deps struct {
	Cache    cache.Cache
	CacheTTL time.Duration
	Bus      eventbus.EventBusInterface
	Logger   logger.Logger
}

// PrepareFunc adjusts validated fields before they are written. id is empty on create.
type PrepareFunc func(ctx context.Context, id string, fields bson.M) error

// Usecase implements list/get/create/update/delete for one content kind
type Usecase[T any] struct {
	kind    model.Kind
	repo    repository.Repository[T]
	schema  *schema.Schema
	cache   cache.Cache
	ttl     time.Duration
	bus     eventbus.EventBusInterface
	log     logger.Logger
	prepare PrepareFunc
	now     func() time.Time
}

// New creates the usecase for kind
func New[T any](kind model.Kind, repo repository.Repository[T], deps Deps) *Usecase[T] {
	s, ok := schema.Get(kind.Schema)
	if !ok {
		panic(fmt.Sprintf("content: no schema registered for %s", kind.Schema))
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNop()
	}
	if deps.Cache == nil {
		deps.Cache = cache.NewMemoryCache(deps.CacheTTL)
	}
	if deps.Bus == nil {
		deps.Bus = eventbus.NewEventBus(deps.Logger)
	}
	return &Usecase[T]{
		kind:   kind,
		repo:   repo,
		schema: s,
		cache:  deps.Cache,
		ttl:    deps.CacheTTL,
		bus:    deps.Bus,
		log:    deps.Logger.WithComponent("content." + kind.Name),
		now:    time.Now,
	}
}

// Kind returns the kind this usecase serves
func (u *Usecase[T]) Kind() model.Kind { return u.kind }

// Schema returns the validation schema for the kind
func (u *Usecase[T]) Schema() *schema.Schema { return u.schema }

// EnsureIndexes creates the kind's indexes
func (u *Usecase[T]) EnsureIndexes(ctx context.Context) error {
	return u.repo.EnsureIndexes(ctx, u.kind.Indexes...)
}

// ListPublic returns what visitors may see, served from the cache when warm
func (u *Usecase[T]) ListPublic(ctx context.Context, query map[string]string) ([]T, error) {
	filter, limit := u.publicQuery(query)
	key := u.cacheKey("public", query)

	var cached []T
	if err := cache.GetJSON(ctx, u.cache, key, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		u.log.Warnf("cache read %s failed: %v", key, err)
	}

	items, err := u.repo.Find(ctx, filter, database.FindOptions{Sort: u.kind.Sort, Limit: limit})
	if err != nil {
		return nil, u.storageError("list", err)
	}
	if err := cache.SetJSON(ctx, u.cache, key, items, u.ttl); err != nil {
		u.log.Warnf("cache write %s failed: %v", key, err)
	}
	return items, nil
}

// Recent returns up to limit public records straight from the store
func (u *Usecase[T]) Recent(ctx context.Context, limit int64) ([]T, error) {
	items, err := u.repo.Find(ctx, u.publicFilter(), database.FindOptions{Sort: u.kind.Sort, Limit: limit})
	if err != nil {
		return nil, u.storageError("list", err)
	}
	return items, nil
}

// GetPublic finds a visible record by id, or by slug for kinds that have one
func (u *Usecase[T]) GetPublic(ctx context.Context, ref string) (*T, error) {
	var match bson.M
	oid, err := primitive.ObjectIDFromHex(ref)
	switch {
	case err == nil && u.kind.HasSlug:
		match = bson.M{"$or": bson.A{bson.M{"_id": oid}, bson.M{"slug": ref}}}
	case err == nil:
		match = bson.M{"_id": oid}
	case u.kind.HasSlug:
		match = bson.M{"slug": ref}
	default:
		return nil, u.notFound()
	}

	filter := u.publicFilter()
	for k, v := range match {
		filter[k] = v
	}

	item, err := u.repo.FindOne(ctx, filter)
	if err != nil {
		return nil, u.storageError("get", err)
	}
	return item, nil
}

// List returns every record for the admin panel
func (u *Usecase[T]) List(ctx context.Context) ([]T, error) {
	items, err := u.repo.Find(ctx, bson.M{}, database.FindOptions{Sort: u.kind.Sort})
	if err != nil {
		return nil, u.storageError("list", err)
	}
	return items, nil
}

// Get returns one record by id
func (u *Usecase[T]) Get(ctx context.Context, id string) (*T, error) {
	item, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, u.storageError("get", err)
	}
	return item, nil
}

// Count returns the number of stored records
func (u *Usecase[T]) Count(ctx context.Context) (int64, error) {
	n, err := u.repo.Count(ctx, bson.M{})
	if err != nil {
		return 0, u.storageError("count", err)
	}
	return n, nil
}

// Create validates input and stores a new record
func (u *Usecase[T]) Create(ctx context.Context, input map[string]interface{}) (*T, error) {
	clean, verrs := u.schema.Validate(input, false)
	if verrs != nil {
		return nil, verrs.ToAppError()
	}
	fields := bson.M(clean)
	if u.prepare != nil {
		if err := u.prepare(ctx, "", fields); err != nil {
			return nil, err
		}
	}

	item, err := u.repo.Insert(ctx, fields)
	if err != nil {
		return nil, u.storageError("create", err)
	}
	u.changed(ctx, idOf(item), ActionCreated)
	return item, nil
}

// Update applies only the provided fields
func (u *Usecase[T]) Update(ctx context.Context, id string, input map[string]interface{}) (*T, error) {
	clean, verrs := u.schema.Validate(input, true)
	if verrs != nil {
		return nil, verrs.ToAppError()
	}
	if len(clean) == 0 {
		return nil, ErrNothingToUpdate
	}
	fields := bson.M(clean)
	if u.prepare != nil {
		if err := u.prepare(ctx, id, fields); err != nil {
			return nil, err
		}
	}

	item, err := u.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, u.storageError("update", err)
	}
	u.changed(ctx, id, ActionUpdated)
	return item, nil
}

// Delete removes a record; unknown ids are a not-found error
func (u *Usecase[T]) Delete(ctx context.Context, id string) error {
	if err := u.repo.Delete(ctx, id); err != nil {
		return u.storageError("delete", err)
	}
	u.changed(ctx, id, ActionDeleted)
	return nil
}

func (u *Usecase[T]) publicFilter() bson.M {
	filter := bson.M{}
	for k, v := range u.kind.PublicFilter {
		filter[k] = v
	}
	return filter
}

func (u *Usecase[T]) publicQuery(query map[string]string) (bson.M, int64) {
	filter := u.publicFilter()
	for param, field := range u.kind.Filters {
		v, ok := query[param]
		if !ok || v == "" {
			continue
		}
		if b, err := strconv.ParseBool(v); err == nil && field == "featured" {
			filter[field] = b
			continue
		}
		filter[field] = v
	}

	var limit int64
	if raw, ok := query["limit"]; ok {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxPublicLimit {
		limit = maxPublicLimit
	}
	return filter, limit
}

// cacheKey only includes the query parameters that change the result
func (u *Usecase[T]) cacheKey(scope string, query map[string]string) string {
	values := url.Values{}
	for param := range u.kind.Filters {
		if v := query[param]; v != "" {
			values.Set(param, v)
		}
	}
	if v := query["limit"]; v != "" {
		values.Set("limit", v)
	}
	return fmt.Sprintf("%s%s:%s", cachePrefix(u.kind), scope, values.Encode())
}

func cachePrefix(kind model.Kind) string {
	return "content:" + kind.Name + ":"
}

// changed drops the kind's cached lists and announces the mutation
func (u *Usecase[T]) changed(ctx context.Context, id, action string) {
	if err := u.cache.DeleteByPrefix(ctx, cachePrefix(u.kind)); err != nil {
		u.log.Warnf("cache invalidation for %s failed: %v", u.kind.Name, err)
	}
	u.bus.PublishAndForget(context.WithoutCancel(ctx), eventbus.NewEvent(
		eventbus.EventTypeContentChanged,
		eventbus.ContentChanged{Kind: u.kind.Name, ID: id, Action: action},
		"content",
	))
}

func (u *Usecase[T]) notFound() error {
	return apperrors.NewNotFoundError(u.kind.Label)
}

func (u *Usecase[T]) storageError(op string, err error) error {
	switch {
	case errors.Is(err, database.ErrNotFound):
		return u.notFound()
	case errors.Is(err, database.ErrDuplicate):
		return apperrors.NewConflictError(fmt.Sprintf("%s already exists", u.kind.Label)).WithCause(err)
	}
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}
	u.log.Errorf("❌ %s %s failed: %v", u.kind.Name, op, err)
	return apperrors.NewInfrastructureError(fmt.Sprintf("Failed to %s %s", op, u.kind.Label)).WithCause(err)
}

func idOf(item interface{}) string {
	if v, ok := item.(interface{ IDHex() string }); ok {
		return v.IDHex()
	}
	return ""
}
