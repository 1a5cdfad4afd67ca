package http

import (
	"agency-cms/internal/content/usecase"
	"agency-cms/internal/shared/httpx"
	"agency-cms/internal/shared/schema"

	"github.com/gofiber/fiber/v2"
)

// FileAttacher hosts uploaded form files and writes their URLs into the input map
type FileAttacher interface {
	AttachFormFiles(c *fiber.Ctx, sch *schema.Schema, folder string, input map[string]interface{}) error
}

// ContentHTTPHandler serves one content kind
type ContentHTTPHandler[T any] struct {
	usecase *usecase.Usecase[T]
	files   FileAttacher
	devMode bool
}

// NewContentHTTPHandler creates a handler for uc; files may be nil when uploads are disabled
func NewContentHTTPHandler[T any](uc *usecase.Usecase[T], files FileAttacher, devMode bool) *ContentHTTPHandler[T] {
	return &ContentHTTPHandler[T]{usecase: uc, files: files, devMode: devMode}
}

// RegisterPublicRoutes mounts the visitor routes under the kind's public path
func (h *ContentHTTPHandler[T]) RegisterPublicRoutes(router fiber.Router) {
	path := h.usecase.Kind().PublicPath
	if path == "" {
		return
	}
	router.Get(path, h.ListPublic)
	router.Get(path+"/:ref", h.GetPublic)
}

// RegisterAdminRoutes mounts the CRUD routes under /<kind> behind requireAdmin
func (h *ContentHTTPHandler[T]) RegisterAdminRoutes(router fiber.Router, requireAdmin fiber.Handler) {
	group := router.Group("/"+h.usecase.Kind().Name, requireAdmin)
	group.Get("/", h.List)
	group.Get("/:id", h.Get)
	group.Post("/", h.Create)
	group.Put("/:id", h.Update)
	group.Patch("/:id", h.Update)
	group.Delete("/:id", h.Delete)
}

// ListPublic returns the visible records of the kind
func (h *ContentHTTPHandler[T]) ListPublic(c *fiber.Ctx) error {
	items, err := h.usecase.ListPublic(c.UserContext(), c.Queries())
	if err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	return httpx.OK(c, fiber.StatusOK, fiber.Map{"data": items, "count": len(items)})
}

// GetPublic returns one visible record by id or slug
func (h *ContentHTTPHandler[T]) GetPublic(c *fiber.Ctx) error {
	item, err := h.usecase.GetPublic(c.UserContext(), c.Params("ref"))
	if err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	return httpx.Success(c, fiber.StatusOK, "", item)
}

// List returns every record for the admin panel
func (h *ContentHTTPHandler[T]) List(c *fiber.Ctx) error {
	items, err := h.usecase.List(c.UserContext())
	if err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	return httpx.OK(c, fiber.StatusOK, fiber.Map{"data": items, "count": len(items)})
}

// Get returns one record by id
func (h *ContentHTTPHandler[T]) Get(c *fiber.Ctx) error {
	item, err := h.usecase.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	return httpx.Success(c, fiber.StatusOK, "", item)
}

// Create stores a record from a JSON or multipart body
func (h *ContentHTTPHandler[T]) Create(c *fiber.Ctx) error {
	input, err := h.input(c)
	if err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	item, err := h.usecase.Create(c.UserContext(), input)
	if err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	return httpx.Success(c, fiber.StatusCreated, h.usecase.Kind().Label+" created successfully", item)
}

// Update applies the provided fields only
func (h *ContentHTTPHandler[T]) Update(c *fiber.Ctx) error {
	input, err := h.input(c)
	if err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	item, err := h.usecase.Update(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	return httpx.Success(c, fiber.StatusOK, h.usecase.Kind().Label+" updated successfully", item)
}

// Delete removes a record
func (h *ContentHTTPHandler[T]) Delete(c *fiber.Ctx) error {
	if err := h.usecase.Delete(c.UserContext(), c.Params("id")); err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	return httpx.Success(c, fiber.StatusOK, h.usecase.Kind().Label+" deleted successfully", nil)
}

// input merges form fields over the JSON body and uploads any attached files
func (h *ContentHTTPHandler[T]) input(c *fiber.Ctx) (map[string]interface{}, error) {
	input, err := httpx.BodyMap(c)
	if err != nil {
		return nil, err
	}
	if h.files != nil {
		if err := h.files.AttachFormFiles(c, h.usecase.Schema(), h.usecase.Kind().Name, input); err != nil {
			return nil, err
		}
	}
	return input, nil
}
