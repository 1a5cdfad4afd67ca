// Package media hosts uploaded images and documents on Cloudinary or S3.
package media

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "agency-cms/internal/shared/errors"
	"agency-cms/internal/shared/logger"
	"agency-cms/internal/shared/schema"
)

var (
	ErrNotConfigured   = apperrors.NewNotConfiguredError("File uploads are not configured")
	ErrFileTooLarge    = apperrors.NewValidationError("File is too large")
	ErrUnsupportedType = apperrors.NewValidationError("File type is not allowed")
	ErrEmptyFile       = apperrors.NewValidationError("File is empty")
)

var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var documentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// File is an upload waiting to be hosted
type File struct {
	Name        string
	ContentType string
	Data        []byte
	Folder      string
}

// IsImage reports whether the file is one of the accepted image types
func (f File) IsImage() bool {
	return imageTypes[f.ContentType]
}

// Uploaded describes a hosted file
type Uploaded struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
}

// Uploader is implemented by each hosting backend
type Uploader interface {
	Upload(ctx context.Context, file File) (*Uploaded, error)
	Configured() bool
}

// Service checks and prepares files before handing them to the uploader
type Service struct {
	uploader  Uploader
	processor *Processor
	maxSize   int64
	log       logger.Logger
}

// NewService creates a media service around uploader
func NewService(uploader Uploader, cfg *Config, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	if uploader == nil {
		uploader = NoopUploader{}
	}
	return &Service{
		uploader:  uploader,
		processor: NewProcessor(cfg.MaxWidth),
		maxSize:   cfg.MaxSize(),
		log:       log.WithComponent("media"),
	}
}

// New builds the service for the configured provider
func New(ctx context.Context, cfg *Config, log logger.Logger) (*Service, error) {
	var (
		up  Uploader
		err error
	)
	switch cfg.Provider {
	case ProviderCloudinary:
		up, err = NewCloudinaryUploader(cfg)
	case ProviderS3:
		up, err = NewS3Uploader(ctx, cfg)
	default:
		up = NoopUploader{}
	}
	if err != nil {
		return nil, fmt.Errorf("media provider %s: %w", cfg.Provider, err)
	}
	return NewService(up, cfg, log), nil
}

// Configured reports whether uploads can be hosted
func (s *Service) Configured() bool {
	return s.uploader.Configured()
}

// Upload validates, downscales images and hosts the file
func (s *Service) Upload(ctx context.Context, file File) (*Uploaded, error) {
	if !s.uploader.Configured() {
		return nil, ErrNotConfigured
	}
	if len(file.Data) == 0 {
		return nil, ErrEmptyFile
	}
	if int64(len(file.Data)) > s.maxSize {
		return nil, ErrFileTooLarge
	}

	file.ContentType = detectContentType(file)
	if !imageTypes[file.ContentType] && !documentTypes[file.ContentType] {
		s.log.Debugf("rejected upload %s with content type %s", file.Name, file.ContentType)
		return nil, ErrUnsupportedType
	}

	width, height := 0, 0
	if file.IsImage() {
		processed, w, h, err := s.processor.Prepare(file)
		if err != nil {
			s.log.Warnf("image processing failed for %s, uploading original: %v", file.Name, err)
		} else {
			file, width, height = processed, w, h
		}
	}

	up, err := s.uploader.Upload(ctx, file)
	if err != nil {
		s.log.Errorf("❌ upload of %s failed: %v", file.Name, err)
		return nil, apperrors.NewInfrastructureError("Failed to upload file").WithCause(err)
	}
	if up.Width == 0 {
		up.Width, up.Height = width, height
	}
	return up, nil
}

// UploadFormFile reads a multipart file and uploads it into folder
func (s *Service) UploadFormFile(ctx context.Context, fh *multipart.FileHeader, folder string) (*Uploaded, error) {
	if fh.Size > s.maxSize {
		return nil, ErrFileTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, apperrors.NewValidationError("Unreadable file").WithCause(err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, s.maxSize+1))
	if err != nil {
		return nil, apperrors.NewValidationError("Unreadable file").WithCause(err)
	}
	return s.Upload(ctx, File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
		Folder:      folder,
	})
}

func detectContentType(f File) string {
	ct := strings.ToLower(strings.TrimSpace(strings.Split(f.ContentType, ";")[0]))
	if ct == "" || ct == "application/octet-stream" {
		ct = strings.Split(http.DetectContentType(f.Data), ";")[0]
	}
	if ct == "application/octet-stream" || ct == "application/zip" {
		switch strings.ToLower(path.Ext(f.Name)) {
		case ".docx":
			return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
		case ".doc":
			return "application/msword"
		}
	}
	return ct
}

// NoopUploader is used when no provider is configured
type NoopUploader struct{}

func (NoopUploader) Upload(context.Context, File) (*Uploaded, error) { return nil, ErrNotConfigured }
func (NoopUploader) Configured() bool                                { return false }

// AttachFormFiles uploads the multipart files whose names match URL or string-list
// fields of sch and writes the hosted URLs into input
func (s *Service) AttachFormFiles(c *fiber.Ctx, sch *schema.Schema, folder string, input map[string]interface{}) error {
	if !strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		return nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return apperrors.NewValidationError("Malformed form body").WithCause(err)
	}

	for name, files := range form.File {
		field, ok := sch.Field(strings.TrimSuffix(name, "[]"))
		if !ok || len(files) == 0 {
			continue
		}

		switch field.Type {
		case schema.TypeURL:
			up, err := s.UploadFormFile(c.UserContext(), files[0], folder)
			if err != nil {
				return err
			}
			input[field.Name] = up.URL
		case schema.TypeStringList:
			urls := existingList(input[field.Name])
			for _, fh := range files {
				up, err := s.UploadFormFile(c.UserContext(), fh, folder)
				if err != nil {
					return err
				}
				urls = append(urls, up.URL)
			}
			input[field.Name] = urls
		}
	}
	return nil
}

func existingList(v interface{}) []interface{} {
	switch t := v.(type) {
	case []interface{}:
		return t
	case string:
		out := []interface{}{}
		for _, part := range strings.Split(t, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return []interface{}{}
}
