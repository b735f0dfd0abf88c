package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/cenkalti/backoff/v4"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/feral-file/marketplace-api/internal/logger"
)

const uploadTimeout = 2 * time.Minute

// Config holds S3-compatible object storage configuration.
type Config struct {
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	PublicURLBase string
}

// S3Storage implements Storage against an S3-compatible endpoint.
type S3Storage struct {
	client *s3.Client
	cfg    Config
}

var _ Storage = (*S3Storage)(nil)

// NewS3Storage builds an S3 client for the configured endpoint.
func NewS3Storage(ctx context.Context, cfg Config) (*S3Storage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &S3Storage{client: client, cfg: cfg}, nil
}

// UploadImage uploads image bytes under key, retrying transient failures
// with exponential backoff, and returns the public URL.
func (s *S3Storage) UploadImage(ctx context.Context, data []byte, key string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty image payload")
	}

	contentType := mimetype.Detect(data)
	if !strings.HasPrefix(contentType.String(), "image/") {
		return "", fmt.Errorf("unsupported content type %s", contentType.String())
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = uploadTimeout

	operation := func() error {
		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:       aws.String(s.cfg.Bucket),
			Key:          aws.String(key),
			Body:         bytes.NewReader(data),
			ContentType:  aws.String(contentType.String()),
			CacheControl: aws.String("public, max-age=31536000"),
			ACL:          types.ObjectCannedACLPublicRead,
		})
		return err
	}

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	url := s.publicURL(key)
	logger.InfoCtx(ctx, "Uploaded image",
		zap.String("key", key),
		zap.String("content_type", contentType.String()),
		zap.Int("size", len(data)),
	)

	return url, nil
}

// UploadImageBase64 decodes a base64 payload and uploads it under key.
// A data-URI prefix ("data:image/png;base64,...") is tolerated.
func (s *S3Storage) UploadImageBase64(ctx context.Context, encoded string, key string) (string, error) {
	data, err := DecodeBase64Image(encoded)
	if err != nil {
		return "", err
	}
	return s.UploadImage(ctx, data, key)
}

func (s *S3Storage) publicURL(key string) string {
	base := strings.TrimSuffix(s.cfg.PublicURLBase, "/")
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", s.cfg.Bucket, s.cfg.Region)
	}
	return base + "/" + key
}

// DecodeBase64Image decodes a base64 image payload, stripping an optional
// data-URI prefix.
func DecodeBase64Image(encoded string) ([]byte, error) {
	payload := encoded
	if idx := strings.Index(payload, ";base64,"); idx >= 0 {
		payload = payload[idx+len(";base64,"):]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 image payload: %w", err)
	}
	return data, nil
}
