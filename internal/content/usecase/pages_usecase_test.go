package usecase_test

import (
	"context"
	"testing"

	"agency-cms/internal/content/domain/model"
	"agency-cms/internal/content/usecase"
	"agency-cms/internal/shared/database/dbtest"
	apperrors "agency-cms/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPages_UpsertIsKeyedByPageAndKey(t *testing.T) {
	ctx := context.Background()
	repo := dbtest.NewMemoryRepository[model.PageSection]([]string{"page", "key"})
	uc := usecase.NewPagesUsecase(repo, usecase.Deps{})

	first, err := uc.UpsertAt(ctx, "Home", "hero", map[string]interface{}{
		"data": map[string]interface{}{"title": "Welcome"},
	})
	require.NoError(t, err)
	assert.Equal(t, "home", first.Page)

	second, err := uc.UpsertAt(ctx, "home", "hero", map[string]interface{}{"title": "Welcome back", "cta": "Contact us"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Welcome back", second.Data["title"])
	assert.Len(t, repo.Docs(), 1)

	_, err = uc.Upsert(ctx, map[string]interface{}{"page": "home", "key": "stats", "data": `{"clients": 40}`})
	require.NoError(t, err)

	page, err := uc.GetPage(ctx, "home")
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Contains(t, page.Sections, "hero")
	assert.Contains(t, page.Sections, "stats")

	require.NoError(t, uc.Delete(ctx, "home", "stats"))
	page, err = uc.GetPage(ctx, "home")
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	err = uc.Delete(ctx, "home", "stats")
	assert.True(t, apperrors.IsNotFound(err))

	empty, err := uc.GetPage(ctx, "about")
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
}

func TestPages_Validation(t *testing.T) {
	uc := usecase.NewPagesUsecase(dbtest.NewMemoryRepository[model.PageSection](), usecase.Deps{})

	_, err := uc.Upsert(context.Background(), map[string]interface{}{"page": "home", "data": map[string]interface{}{"a": 1}})
	assert.True(t, apperrors.IsValidation(err))

	_, err = uc.UpsertAt(context.Background(), "home", "hero", map[string]interface{}{"data": "not json"})
	assert.True(t, apperrors.IsValidation(err))
}
