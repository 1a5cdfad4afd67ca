package media

import (
	"bytes"
	"context"
	"errors"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

type cloudinaryAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

// CloudinaryUploader hosts files on Cloudinary
type CloudinaryUploader struct {
	api    cloudinaryAPI
	folder string
}

// NewCloudinaryUploader creates an uploader from the Cloudinary credentials in cfg
func NewCloudinaryUploader(cfg *Config) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, err
	}
	return &CloudinaryUploader{api: &cld.Upload, folder: cfg.CloudinaryFolder}, nil
}

func (u *CloudinaryUploader) Configured() bool { return true }

// Upload sends the file; images go up as image resources, everything else as raw
func (u *CloudinaryUploader) Upload(ctx context.Context, file File) (*Uploaded, error) {
	resourceType := "raw"
	if file.IsImage() {
		resourceType = "image"
	}

	publicID := uuid.NewString()
	if !file.IsImage() {
		publicID += strings.ToLower(path.Ext(file.Name))
	}

	res, err := u.api.Upload(ctx, bytes.NewReader(file.Data), uploader.UploadParams{
		PublicID:     publicID,
		Folder:       joinFolder(u.folder, file.Folder),
		ResourceType: resourceType,
	})
	if err != nil {
		return nil, err
	}
	if res.Error.Message != "" {
		return nil, errors.New(res.Error.Message)
	}
	return &Uploaded{
		URL:         res.SecureURL,
		Key:         res.PublicID,
		ContentType: file.ContentType,
		Size:        len(file.Data),
		Width:       res.Width,
		Height:      res.Height,
	}, nil
}

func joinFolder(parts ...string) string {
	clean := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.Trim(p, "/"); p != "" {
			clean = append(clean, p)
		}
	}
	return strings.Join(clean, "/")
}
