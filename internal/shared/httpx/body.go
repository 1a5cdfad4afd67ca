package httpx

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "agency-cms/internal/shared/errors"
)

// BodyMap reads the request body into a generic map. JSON bodies are decoded as-is;
// multipart and urlencoded form values are merged over them as strings.
func BodyMap(c *fiber.Ctx) (map[string]interface{}, error) {
	out := make(map[string]interface{})
	contentType := strings.ToLower(string(c.Request().Header.ContentType()))

	if strings.HasPrefix(contentType, fiber.MIMEApplicationJSON) {
		if len(c.Body()) > 0 {
			if err := json.Unmarshal(c.Body(), &out); err != nil {
				return nil, apperrors.NewValidationError("Malformed JSON body").WithCause(err)
			}
		}
		return out, nil
	}

	if strings.HasPrefix(contentType, fiber.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return nil, apperrors.NewValidationError("Malformed form body").WithCause(err)
		}
		for key, values := range form.Value {
			mergeFormValue(out, key, values)
		}
		return out, nil
	}

	if strings.HasPrefix(contentType, fiber.MIMEApplicationForm) {
		values := map[string][]string{}
		c.Request().PostArgs().VisitAll(func(k, v []byte) {
			values[string(k)] = append(values[string(k)], string(v))
		})
		for key, vs := range values {
			mergeFormValue(out, key, vs)
		}
	}
	return out, nil
}

// mergeFormValue keeps a single value as a string and repeated keys as a list.
// A key ending in [] is always treated as a list.
func mergeFormValue(out map[string]interface{}, key string, values []string) {
	if strings.HasSuffix(key, "[]") {
		key = strings.TrimSuffix(key, "[]")
		list := make([]interface{}, 0, len(values))
		for _, v := range values {
			list = append(list, v)
		}
		out[key] = list
		return
	}
	switch len(values) {
	case 0:
	case 1:
		out[key] = values[0]
	default:
		list := make([]interface{}, 0, len(values))
		for _, v := range values {
			list = append(list, v)
		}
		out[key] = list
	}
}
