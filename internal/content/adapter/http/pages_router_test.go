package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	contenthttp "agency-cms/internal/content/adapter/http"
	"agency-cms/internal/content/domain/model"
	"agency-cms/internal/content/usecase"
	"agency-cms/internal/shared/database/dbtest"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPagesRouter(t *testing.T) {
	uc := usecase.NewPagesUsecase(dbtest.NewMemoryRepository[model.PageSection]([]string{"page", "key"}), usecase.Deps{})
	app := fiber.New()
	api := app.Group("/api")
	h := contenthttp.NewPagesHTTPHandler(uc, false)
	h.RegisterPublicRoutes(api)
	h.RegisterAdminRoutes(api.Group("/admin"), allow)

	call := func(method, path string, body interface{}) (int, map[string]interface{}) {
		var reader io.Reader
		if body != nil {
			raw, _ := json.Marshal(body)
			reader = bytes.NewReader(raw)
		}
		req := httptest.NewRequest(method, path, reader)
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		var out map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return resp.StatusCode, out
	}

	status, _ := call("PUT", "/api/admin/pages/home/hero", map[string]interface{}{"data": map[string]interface{}{"title": "Hi"}})
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = call("PUT", "/api/admin/pages/home/hero", map[string]interface{}{"data": map[string]interface{}{"title": "Hello"}})
	assert.Equal(t, fiber.StatusOK, status)

	status, body := call("GET", "/api/pages/home", nil)
	require.Equal(t, fiber.StatusOK, status)
	page := body["data"].(map[string]interface{})
	sections := page["sections"].(map[string]interface{})
	assert.Equal(t, "Hello", sections["hero"].(map[string]interface{})["title"])
	assert.Len(t, page["items"], 1)

	status, _ = call("DELETE", "/api/admin/pages/home/hero", nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, body = call("DELETE", "/api/admin/pages/home/hero", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, false, body["success"])
}
