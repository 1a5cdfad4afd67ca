package media

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var (
	loadDefaultAWSConfig  = awsconfig.LoadDefaultConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectPutter {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// S3Uploader hosts files in an S3 compatible bucket
type S3Uploader struct {
	client    objectPutter
	bucket    string
	region    string
	endpoint  string
	publicURL string
}

// NewS3Uploader creates an uploader for cfg.S3Bucket. Static keys are used when set,
// the default AWS credential chain otherwise.
func NewS3Uploader(ctx context.Context, cfg *Config) (*S3Uploader, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.S3Region)}
	if cfg.S3AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Uploader{
		client:    client,
		bucket:    cfg.S3Bucket,
		region:    cfg.S3Region,
		endpoint:  strings.TrimRight(cfg.S3Endpoint, "/"),
		publicURL: strings.TrimRight(cfg.S3PublicURL, "/"),
	}, nil
}

func (u *S3Uploader) Configured() bool { return true }

// Upload puts the object under <folder>/<uuid><ext> and returns its public URL
func (u *S3Uploader) Upload(ctx context.Context, file File) (*Uploaded, error) {
	key := objectKey(file)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(file.Data),
		ContentType:   aws.String(file.ContentType),
		ContentLength: aws.Int64(int64(len(file.Data))),
	})
	if err != nil {
		return nil, fmt.Errorf("put object %s: %w", key, err)
	}

	return &Uploaded{
		URL:         u.objectURL(key),
		Key:         key,
		ContentType: file.ContentType,
		Size:        len(file.Data),
	}, nil
}

func (u *S3Uploader) objectURL(key string) string {
	switch {
	case u.publicURL != "":
		return u.publicURL + "/" + key
	case u.endpoint != "":
		return u.endpoint + "/" + u.bucket + "/" + key
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key)
	}
}

func objectKey(file File) string {
	ext := strings.ToLower(path.Ext(file.Name))
	if ext == "" {
		ext = extensionFor(file.ContentType)
	}
	name := uuid.NewString() + ext
	if folder := joinFolder(file.Folder); folder != "" {
		return folder + "/" + name
	}
	return name
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "application/pdf":
		return ".pdf"
	}
	return ""
}
