// Package httpx holds the JSON envelope every handler responds with.
package httpx

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	apperrors "agency-cms/internal/shared/errors"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// FieldError is one entry of the errors list in a validation response
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Success writes {status:"ok", success:true, message?, data?}
func Success(c *fiber.Ctx, status int, message string, data interface{}) error {
	body := fiber.Map{
		"status":  StatusOK,
		"success": true,
	}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	return c.Status(status).JSON(body)
}

// OK writes a success body with extra top-level fields merged in
func OK(c *fiber.Ctx, status int, fields fiber.Map) error {
	body := fiber.Map{
		"status":  StatusOK,
		"success": true,
	}
	for k, v := range fields {
		body[k] = v
	}
	return c.Status(status).JSON(body)
}

// Fail writes {status:"error", success:false, message} with the given status
func Fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":  StatusError,
		"success": false,
		"message": message,
	})
}

// Error maps err onto the error envelope. The cause text is only echoed when dev is true.
func Error(c *fiber.Ctx, err error, dev bool) error {
	status := apperrors.HTTPStatus(err)
	body := fiber.Map{
		"status":  StatusError,
		"success": false,
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		body["message"] = appErr.Message
		if fields := validationFields(appErr); len(fields) > 0 {
			body["errors"] = fields
		}
		if dev && appErr.Cause != nil {
			body["error"] = appErr.Cause.Error()
		}
	} else {
		body["message"] = defaultMessage(status)
		if dev {
			body["error"] = err.Error()
		}
	}

	return c.Status(status).JSON(body)
}

func validationFields(appErr *apperrors.AppError) []FieldError {
	out := make([]FieldError, 0, len(appErr.Fields))
	for _, ve := range appErr.Fields {
		out = append(out, FieldError{Field: ve.Field, Message: ve.Message})
	}
	return out
}

func defaultMessage(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "Not found"
	case fiber.StatusUnauthorized:
		return "Unauthorized"
	case fiber.StatusForbidden:
		return "Forbidden"
	case fiber.StatusBadRequest:
		return "Bad request"
	case fiber.StatusConflict:
		return "Conflict"
	default:
		return "Server error"
	}
}

// ErrorHandler is the fiber fallback for errors that escape a handler
func ErrorHandler(dev bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return Fail(c, fe.Code, fe.Message)
		}
		return Error(c, err, dev)
	}
}
