package media

import (
	"github.com/gofiber/fiber/v2"

	apperrors "agency-cms/internal/shared/errors"
	"agency-cms/internal/shared/httpx"
)

// Handler exposes the admin upload endpoint used by rich-text editors
type Handler struct {
	service *Service
	devMode bool
}

// NewHandler creates the upload handler
func NewHandler(service *Service, devMode bool) *Handler {
	return &Handler{service: service, devMode: devMode}
}

// RegisterRoutes mounts POST /uploads behind requireAdmin
func (h *Handler) RegisterRoutes(router fiber.Router, requireAdmin fiber.Handler) {
	router.Post("/uploads", requireAdmin, h.Upload)
}

// Upload hosts the "file" (or "image") form field
func (h *Handler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		fh, err = c.FormFile("image")
	}
	if err != nil {
		return httpx.Error(c, apperrors.NewValidationError("No file uploaded"), h.devMode)
	}

	folder := c.FormValue("folder", "uploads")
	up, err := h.service.UploadFormFile(c.UserContext(), fh, folder)
	if err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	return httpx.OK(c, fiber.StatusCreated, fiber.Map{
		"message": "File uploaded",
		"url":     up.URL,
		"data":    up,
	})
}
