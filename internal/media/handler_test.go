package media

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passThrough(c *fiber.Ctx) error { return c.Next() }

func multipartBody(t *testing.T, field, name, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+name+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestHandler_Upload(t *testing.T) {
	up := &recordingUploader{}
	app := fiber.New()
	NewHandler(testService(up, 0), false).RegisterRoutes(app, passThrough)

	body, ct := multipartBody(t, "file", "brief.pdf", "application/pdf", []byte("%PDF-1.4 test"))
	req := httptest.NewRequest("POST", "/uploads", body)
	req.Header.Set("Content-Type", ct)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "https://cdn.test/brief.pdf", out["url"])
	assert.Equal(t, "uploads", up.files[0].Folder)
}

func TestHandler_UploadWithoutFile(t *testing.T) {
	app := fiber.New()
	NewHandler(testService(&recordingUploader{}, 0), false).RegisterRoutes(app, passThrough)

	req := httptest.NewRequest("POST", "/uploads", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
