package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"agency-cms/internal/content/domain/model"
	"agency-cms/internal/content/usecase"
	"agency-cms/internal/shared/cache"
	"agency-cms/internal/shared/database/dbtest"
	apperrors "agency-cms/internal/shared/errors"
	"agency-cms/internal/shared/eventbus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ContentUsecaseTestSuite struct {
	suite.Suite
	ctx   context.Context
	repo  *dbtest.MemoryRepository[model.Service]
	cache *cache.MemoryCache
	bus   *eventbus.EventBus
	uc    *usecase.Usecase[model.Service]
}

func (s *ContentUsecaseTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = dbtest.NewMemoryRepository[model.Service]()
	s.cache = cache.NewMemoryCache(time.Minute)
	s.bus = eventbus.NewEventBus(nil)
	s.uc = usecase.New[model.Service](model.Services, s.repo, usecase.Deps{
		Cache:    s.cache,
		CacheTTL: time.Minute,
		Bus:      s.bus,
	})
}

func (s *ContentUsecaseTestSuite) TestCRUDRoundTrip() {
	created, err := s.uc.Create(s.ctx, map[string]interface{}{
		"title":    "Web Design",
		"features": "Responsive, Accessible",
		"order":    "2",
	})
	s.Require().NoError(err)
	s.Equal("Web Design", created.Title)
	s.Equal([]string{"Responsive", "Accessible"}, created.Features)
	s.Equal(2, created.Order)
	s.True(created.IsActive)
	id := created.ID.Hex()

	list, err := s.uc.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(id, list[0].ID.Hex())

	updated, err := s.uc.Update(s.ctx, id, map[string]interface{}{"title": "Web & UX Design"})
	s.Require().NoError(err)
	s.Equal("Web & UX Design", updated.Title)
	s.Equal(2, updated.Order, "fields not provided are left alone")

	s.Require().NoError(s.uc.Delete(s.ctx, id))
	list, err = s.uc.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(list)

	err = s.uc.Delete(s.ctx, id)
	s.True(apperrors.IsNotFound(err))
	s.Equal(404, apperrors.HTTPStatus(err))
}

func (s *ContentUsecaseTestSuite) TestValidation() {
	_, err := s.uc.Create(s.ctx, map[string]interface{}{"description": "no title"})
	s.True(apperrors.IsValidation(err))

	created, err := s.uc.Create(s.ctx, map[string]interface{}{"title": "SEO"})
	s.Require().NoError(err)

	_, err = s.uc.Update(s.ctx, created.ID.Hex(), map[string]interface{}{"unknown": "x"})
	s.ErrorIs(err, usecase.ErrNothingToUpdate)

	_, err = s.uc.Update(s.ctx, created.ID.Hex(), map[string]interface{}{"order": "first"})
	s.True(apperrors.IsValidation(err))

	_, err = s.uc.Update(s.ctx, "not-an-id", map[string]interface{}{"title": "x"})
	s.True(apperrors.IsNotFound(err))
}

func (s *ContentUsecaseTestSuite) TestListPublicHidesInactiveAndCaches() {
	_, err := s.uc.Create(s.ctx, map[string]interface{}{"title": "Visible", "order": 1})
	s.Require().NoError(err)
	_, err = s.uc.Create(s.ctx, map[string]interface{}{"title": "Hidden", "is_active": false})
	s.Require().NoError(err)

	items, err := s.uc.ListPublic(s.ctx, nil)
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.Equal("Visible", items[0].Title)

	s.repo.Err = errors.New("store offline")
	items, err = s.uc.ListPublic(s.ctx, nil)
	s.Require().NoError(err, "served from cache")
	s.Len(items, 1)

	s.repo.Err = nil
	_, err = s.uc.Create(s.ctx, map[string]interface{}{"title": "Another"})
	s.Require().NoError(err)

	items, err = s.uc.ListPublic(s.ctx, nil)
	s.Require().NoError(err)
	s.Len(items, 2, "mutation invalidates the cached list")
}

func (s *ContentUsecaseTestSuite) TestStorageFailureIsInternal() {
	s.repo.Err = errors.New("connection reset")
	_, err := s.uc.List(s.ctx)
	s.Require().Error(err)
	s.Equal(500, apperrors.HTTPStatus(err))
}

func (s *ContentUsecaseTestSuite) TestMutationsPublishEvents() {
	got := make(chan eventbus.ContentChanged, 4)
	s.bus.Subscribe(eventbus.EventTypeContentChanged, func(ctx context.Context, e eventbus.Event) error {
		got <- e.Data().(eventbus.ContentChanged)
		return nil
	})

	created, err := s.uc.Create(s.ctx, map[string]interface{}{"title": "Branding"})
	s.Require().NoError(err)

	select {
	case evt := <-got:
		s.Equal("services", evt.Kind)
		s.Equal(usecase.ActionCreated, evt.Action)
		s.Equal(created.ID.Hex(), evt.ID)
	case <-time.After(2 * time.Second):
		s.Fail("no content.changed event")
	}
}

func TestContentUsecaseTestSuite(t *testing.T) {
	suite.Run(t, new(ContentUsecaseTestSuite))
}

func TestPortfolioPublicFilters(t *testing.T) {
	ctx := context.Background()
	uc := usecase.New[model.PortfolioItem](model.Portfolio, dbtest.NewMemoryRepository[model.PortfolioItem](), usecase.Deps{})

	for _, in := range []map[string]interface{}{
		{"title": "Shop", "category": "ecommerce", "featured": true},
		{"title": "Blog", "category": "content"},
		{"title": "Store", "category": "ecommerce"},
	} {
		_, err := uc.Create(ctx, in)
		require.NoError(t, err)
	}

	items, err := uc.ListPublic(ctx, map[string]string{"category": "ecommerce"})
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "Shop", items[0].Title, "featured first")

	items, err = uc.ListPublic(ctx, map[string]string{"featured": "true"})
	require.NoError(t, err)
	assert.Len(t, items, 1)

	items, err = uc.ListPublic(ctx, map[string]string{"limit": "1", "ignored": "x"})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
