package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	contenthttp "agency-cms/internal/content/adapter/http"
	"agency-cms/internal/content/domain/model"
	"agency-cms/internal/content/usecase"
	"agency-cms/internal/shared/database/dbtest"
	"agency-cms/internal/shared/schema"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type fakeAttacher struct {
	calls int
}

func (f *fakeAttacher) AttachFormFiles(c *fiber.Ctx, sch *schema.Schema, folder string, input map[string]interface{}) error {
	if fh, err := c.FormFile("image"); err == nil {
		f.calls++
		input["image"] = "https://cdn.test/" + folder + "/" + fh.Filename
	}
	return nil
}

func allow(c *fiber.Ctx) error { return c.Next() }

func deny(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false})
}

type ContentRouterTestSuite struct {
	suite.Suite
	app   *fiber.App
	files *fakeAttacher
}

func (s *ContentRouterTestSuite) SetupTest() {
	s.files = &fakeAttacher{}
	services := usecase.New[model.Service](model.Services, dbtest.NewMemoryRepository[model.Service](), usecase.Deps{})
	blog := usecase.NewBlogUsecase(dbtest.NewMemoryRepository[model.BlogPost]([]string{"slug"}), usecase.Deps{})

	s.app = fiber.New()
	api := s.app.Group("/api")
	admin := api.Group("/admin")
	for _, h := range []interface {
		RegisterPublicRoutes(fiber.Router)
		RegisterAdminRoutes(fiber.Router, fiber.Handler)
	}{
		contenthttp.NewContentHTTPHandler(services, s.files, false),
		contenthttp.NewContentHTTPHandler(blog, s.files, false),
	} {
		h.RegisterPublicRoutes(api)
		h.RegisterAdminRoutes(admin, allow)
	}
}

func (s *ContentRouterTestSuite) do(method, path string, body interface{}) (int, map[string]interface{}) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return s.send(req)
}

func (s *ContentRouterTestSuite) send(req *http.Request) (int, map[string]interface{}) {
	resp, err := s.app.Test(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	var out map[string]interface{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		s.Require().NoError(json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func (s *ContentRouterTestSuite) TestServiceLifecycle() {
	status, body := s.do("POST", "/api/admin/services", map[string]interface{}{"title": "Consulting", "price": "$99"})
	s.Require().Equal(fiber.StatusCreated, status)
	s.Equal("ok", body["status"])
	s.Equal("Service created successfully", body["message"])
	data := body["data"].(map[string]interface{})
	id := data["_id"].(string)

	status, body = s.do("GET", "/api/services", nil)
	s.Equal(fiber.StatusOK, status)
	s.Equal(float64(1), body["count"])
	items := body["data"].([]interface{})
	s.Equal(id, items[0].(map[string]interface{})["_id"])

	status, body = s.do("PUT", "/api/admin/services/"+id, map[string]interface{}{"price": "$149"})
	s.Equal(fiber.StatusOK, status)
	data = body["data"].(map[string]interface{})
	s.Equal("$149", data["price"])
	s.Equal("Consulting", data["title"])

	status, _ = s.do("DELETE", "/api/admin/services/"+id, nil)
	s.Equal(fiber.StatusOK, status)

	status, body = s.do("DELETE", "/api/admin/services/"+id, nil)
	s.Equal(fiber.StatusNotFound, status)
	s.Equal(false, body["success"])

	_, body = s.do("GET", "/api/services", nil)
	s.Empty(body["data"])
}

func (s *ContentRouterTestSuite) TestValidationErrorListsFields() {
	status, body := s.do("POST", "/api/admin/services", map[string]interface{}{"order": "soon"})
	s.Equal(fiber.StatusBadRequest, status)
	s.Equal("error", body["status"])
	s.NotEmpty(body["errors"])
}

func (s *ContentRouterTestSuite) TestMultipartCreateWithImage() {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	s.Require().NoError(w.WriteField("title", "Launch post"))
	s.Require().NoError(w.WriteField("tags[]", "news"))
	s.Require().NoError(w.WriteField("tags[]", "company"))
	s.Require().NoError(w.WriteField("published", "true"))
	part, err := w.CreateFormFile("image", "cover.png")
	s.Require().NoError(err)
	_, _ = part.Write([]byte("png"))
	s.Require().NoError(w.Close())

	req := httptest.NewRequest("POST", "/api/admin/blog", buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	status, body := s.send(req)
	s.Require().Equal(fiber.StatusCreated, status, body)

	data := body["data"].(map[string]interface{})
	s.Equal("https://cdn.test/blog/cover.png", data["image"])
	s.Equal([]interface{}{"news", "company"}, data["tags"])
	s.Equal("launch-post", data["slug"])
	s.Equal(1, s.files.calls)

	status, body = s.do("GET", "/api/blog/launch-post", nil)
	s.Equal(fiber.StatusOK, status)
	s.Equal("Launch post", body["data"].(map[string]interface{})["title"])
}

func (s *ContentRouterTestSuite) TestDraftsAreNotPublic() {
	status, _ := s.do("POST", "/api/admin/blog", map[string]interface{}{"title": "Draft"})
	s.Require().Equal(fiber.StatusCreated, status)

	status, body := s.do("GET", "/api/blog/draft", nil)
	s.Equal(fiber.StatusNotFound, status)
	s.Equal("Blog post not found", body["message"])

	_, body = s.do("GET", "/api/blog", nil)
	s.Equal(float64(0), body["count"])

	_, body = s.do("GET", "/api/admin/blog", nil)
	s.Equal(float64(1), body["count"])
}

func TestContentRouterTestSuite(t *testing.T) {
	suite.Run(t, new(ContentRouterTestSuite))
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	services := usecase.New[model.Service](model.Services, dbtest.NewMemoryRepository[model.Service](), usecase.Deps{})
	app := fiber.New()
	api := app.Group("/api")
	h := contenthttp.NewContentHTTPHandler(services, nil, false)
	h.RegisterPublicRoutes(api)
	h.RegisterAdminRoutes(api.Group("/admin"), deny)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/admin/services", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/services", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
