package http

import (
	"time"

	"agency-cms/internal/admin/usecase"
	"agency-cms/internal/shared/httpx"
	"agency-cms/internal/shared/schema"

	"github.com/gofiber/fiber/v2"
)

// AdminHTTPHandler handles HTTP requests for admin identity
type AdminHTTPHandler struct {
	usecase usecase.AdminUsecaseInterface
	devMode bool
}

// NewAdminHTTPHandler creates a new admin HTTP handler
func NewAdminHTTPHandler(uc usecase.AdminUsecaseInterface, devMode bool) *AdminHTTPHandler {
	return &AdminHTTPHandler{usecase: uc, devMode: devMode}
}

// SetupRoutes mounts the identity routes on the /api/admin router
func (h *AdminHTTPHandler) SetupRoutes(router fiber.Router, middleware *AuthMiddleware) {
	router.Post("/login", middleware.LoginRateLimiter(10, time.Minute), h.Login)

	router.Get("/me", middleware.RequireAdmin(), h.Me)
	router.Get("/verify", middleware.RequireAdmin(), h.Verify)
	router.Put("/credentials", middleware.RequireAdmin(), h.UpdateCredentials)
	router.Put("/change-password", middleware.RequireAdmin(), h.ChangePassword)
}

// Login handles admin login
func (h *AdminHTTPHandler) Login(c *fiber.Ctx) error {
	var req usecase.LoginRequest
	if err := h.decode(c, schema.AdminLogin, &req); err != nil {
		return httpx.Error(c, err, h.devMode)
	}

	res, err := h.usecase.Login(c.UserContext(), req)
	if err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	return httpx.OK(c, fiber.StatusOK, fiber.Map{
		"message": "Login successful",
		"token":   res.Token,
		"admin":   res.Admin,
	})
}

// Me returns the signed-in admin
func (h *AdminHTTPHandler) Me(c *fiber.Ctx) error {
	claims, _ := ClaimsFromCtx(c)
	profile, err := h.usecase.Me(c.UserContext(), claims)
	if err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	return httpx.OK(c, fiber.StatusOK, fiber.Map{"admin": profile})
}

// Verify confirms the token is still valid
func (h *AdminHTTPHandler) Verify(c *fiber.Ctx) error {
	claims, _ := ClaimsFromCtx(c)
	var expiresAt interface{}
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return httpx.OK(c, fiber.StatusOK, fiber.Map{
		"valid":     true,
		"admin":     claims.Profile(),
		"expiresAt": expiresAt,
	})
}

// UpdateCredentials changes email, name or password of the signed-in admin
func (h *AdminHTTPHandler) UpdateCredentials(c *fiber.Ctx) error {
	var req usecase.UpdateCredentialsRequest
	if err := h.decode(c, schema.AdminCredentials, &req); err != nil {
		return httpx.Error(c, err, h.devMode)
	}

	claims, _ := ClaimsFromCtx(c)
	res, err := h.usecase.UpdateCredentials(c.UserContext(), claims, req)
	if err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	return httpx.OK(c, fiber.StatusOK, fiber.Map{
		"message": "Credentials updated",
		"token":   res.Token,
		"admin":   res.Admin,
	})
}

// ChangePassword replaces the password after checking the current one
func (h *AdminHTTPHandler) ChangePassword(c *fiber.Ctx) error {
	var req usecase.ChangePasswordRequest
	if err := h.decode(c, schema.AdminChangePassword, &req); err != nil {
		return httpx.Error(c, err, h.devMode)
	}

	claims, _ := ClaimsFromCtx(c)
	if err := h.usecase.ChangePassword(c.UserContext(), claims, req); err != nil {
		return httpx.Error(c, err, h.devMode)
	}
	return httpx.Success(c, fiber.StatusOK, "Password changed", nil)
}

func (h *AdminHTTPHandler) decode(c *fiber.Ctx, name string, dst interface{}) error {
	body, err := httpx.BodyMap(c)
	if err != nil {
		return err
	}
	s, _ := schema.Get(name)
	_, err = s.Decode(body, false, dst)
	return err
}
