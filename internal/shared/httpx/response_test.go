package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "agency-cms/internal/shared/errors"
	"agency-cms/internal/shared/logger"
	"agency-cms/internal/shared/utils"
)

func call(t *testing.T, dev bool, h fiber.Handler) (int, map[string]interface{}) {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(dev)})
	app.Get("/", h)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func TestSuccess(t *testing.T) {
	status, body := call(t, false, func(c *fiber.Ctx) error {
		return Success(c, fiber.StatusCreated, "Created", fiber.Map{"id": "1"})
	})
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Created", body["message"])
	assert.Equal(t, map[string]interface{}{"id": "1"}, body["data"])
}

func TestError_ValidationListsFields(t *testing.T) {
	status, body := call(t, false, func(c *fiber.Ctx) error {
		ve := apperrors.NewValidationErrors().Add("email", "email is invalid", "x")
		return Error(c, ve.ToAppError(), false)
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
	errs := body["errors"].([]interface{})
	require.Len(t, errs, 1)
	assert.Equal(t, "email", errs[0].(map[string]interface{})["field"])
}

func TestError_CauseOnlyInDev(t *testing.T) {
	h := func(dev bool) fiber.Handler {
		return func(c *fiber.Ctx) error {
			return Error(c, apperrors.NewInternalError("Server error").WithCause(errors.New("mongo timeout")), dev)
		}
	}

	_, prod := call(t, false, h(false))
	assert.NotContains(t, prod, "error")

	status, dev := call(t, true, h(true))
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "mongo timeout", dev["error"])
}

func TestErrorHandler_FiberError(t *testing.T) {
	status, body := call(t, false, func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, "too large")
	})
	assert.Equal(t, fiber.StatusRequestEntityTooLarge, status)
	assert.Equal(t, "too large", body["message"])
}

func TestError_PlainErrorIs500(t *testing.T) {
	status, body := call(t, false, func(c *fiber.Ctx) error {
		return errors.New("boom")
	})
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "Server error", body["message"])
}

func TestRateLimiter(t *testing.T) {
	app := fiber.New()
	app.Get("/", RateLimiter(2, time.Minute, "slow down"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)

	open := fiber.New()
	open.Get("/", RateLimiter(0, time.Minute, ""), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	resp, err = open.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestRateLimiter_IgnoresSpoofedForwardedFor(t *testing.T) {
	app := fiber.New()
	app.Post("/login", RateLimiter(3, time.Minute, "Too many login attempts"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	limited := 0
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest("POST", "/login", nil)
		req.Header.Set(fiber.HeaderXForwardedFor, fmt.Sprintf("198.51.100.%d", i+1))
		resp, err := app.Test(req)
		require.NoError(t, err)
		if resp.StatusCode == fiber.StatusTooManyRequests {
			limited++
		}
	}
	assert.Equal(t, 17, limited)
}

func TestRequestContext_CopiesRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(requestid.New(), RequestContext(), RequestLogger(logger.NewNop()))
	var seen string
	app.Get("/", func(c *fiber.Ctx) error {
		seen = utils.RequestID(c.UserContext())
		return c.SendStatus(fiber.StatusNoContent)
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(fiber.HeaderXRequestID, "req-123")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "req-123", seen)
}
