package http

import (
	"agency-cms/internal/content/usecase"
	"agency-cms/internal/shared/httpx"

	"github.com/gofiber/fiber/v2"
)

// PagesHTTPHandler serves page sections
type PagesHTTPHandler struct {
	usecase *usecase.PagesUsecase
	devMode bool
}

// NewPagesHTTPHandler creates the page sections handler
func NewPagesHTTPHandler(uc *usecase.PagesUsecase, devMode bool) *PagesHTTPHandler {
	return &PagesHTTPHandler{usecase: uc, devMode: devMode}
}

// RegisterPublicRoutes mounts GET /pages/:page
func (h *PagesHTTPHandler) RegisterPublicRoutes(router fiber.Router) {
	router.Get("/pages/:page", h.GetPage)
}

// RegisterAdminRoutes mounts the section management routes behind requireAdmin
func (h *PagesHTTPHandler) RegisterAdminRoutes(router fiber.Router, requireAdmin fiber.Handler) {
	group := router.Group("/pages", requireAdmin)
	group.Get("/", h.List)
	group.Post("/", h.Upsert)
	group.Get("/:page", h.AdminPage)
	group.Put("/:page/:key", h.UpsertAt)
	group.Delete("/:page/:key", h.Delete)
	group.Delete("/:id", h.DeleteByID)
}

// GetPage returns a page's sections keyed by section key
func (h *PagesHTTPHandler) GetPage(c *fiber.Ctx) error {
	page, err := h.usecase.GetPage(c.UserContext(), c.Params("page"))
	if err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	return httpx.Success(c, fiber.StatusOK, "", page)
}

// AdminPage returns the sections of one page without the cache
func (h *PagesHTTPHandler) AdminPage(c *fiber.Ctx) error {
	items, err := h.usecase.List(c.UserContext(), c.Params("page"))
	if err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	return httpx.OK(c, fiber.StatusOK, fiber.Map{"data": items, "count": len(items)})
}

// List returns all sections, filtered by ?page= when given
func (h *PagesHTTPHandler) List(c *fiber.Ctx) error {
	items, err := h.usecase.List(c.UserContext(), c.Query("page"))
	if err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	return httpx.OK(c, fiber.StatusOK, fiber.Map{"data": items, "count": len(items)})
}

// Upsert writes {page, key, data} from the body
func (h *PagesHTTPHandler) Upsert(c *fiber.Ctx) error {
	input, err := httpx.BodyMap(c)
	if err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	section, err := h.usecase.Upsert(c.UserContext(), input)
	if err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	return httpx.Success(c, fiber.StatusOK, "Page section saved successfully", section)
}

// UpsertAt writes the body at the (page, key) in the path. A body without a
// data field is stored whole as the section data.
func (h *PagesHTTPHandler) UpsertAt(c *fiber.Ctx) error {
	input, err := httpx.BodyMap(c)
	if err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	section, err := h.usecase.UpsertAt(c.UserContext(), c.Params("page"), c.Params("key"), input)
	if err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	return httpx.Success(c, fiber.StatusOK, "Page section saved successfully", section)
}

// Delete removes the section at (page, key)
func (h *PagesHTTPHandler) Delete(c *fiber.Ctx) error {
	if err := h.usecase.Delete(c.UserContext(), c.Params("page"), c.Params("key")); err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	return httpx.Success(c, fiber.StatusOK, "Page section deleted successfully", nil)
}

// DeleteByID removes a section by id
func (h *PagesHTTPHandler) DeleteByID(c *fiber.Ctx) error {
	if err := h.usecase.DeleteByID(c.UserContext(), c.Params("id")); err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	return httpx.Success(c, fiber.StatusOK, "Page section deleted successfully", nil)
}
