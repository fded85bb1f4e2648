// Package storage pushes finished export files to S3-compatible object
// storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/myfrido/analytics-backend/internal/infrastructure/config"
)

// S3Uploader uploads export files under a fixed bucket/prefix.
type S3Uploader struct {
	client *s3.Client
	bucket string
	prefix string
	log    *zap.Logger
}

// S3UploaderOption configures an S3Uploader.
type S3UploaderOption func(*S3Uploader)

// WithLogger sets a custom logger.
func WithLogger(log *zap.Logger) S3UploaderOption {
	return func(u *S3Uploader) {
		u.log = log
	}
}

// NewS3Uploader creates an uploader for the configured export bucket.
func NewS3Uploader(ctx context.Context, cfg config.ExportConfig, region string, opts ...S3UploaderOption) (*S3Uploader, error) {
	if cfg.S3Bucket == "" {
		return nil, errors.New("storage: export bucket is required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}

	u := &S3Uploader{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.S3Bucket,
		prefix: cfg.S3Prefix,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u, nil
}

// Upload puts one local file into the bucket and returns its object key.
func (u *S3Uploader) Upload(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("storage: open %s: %w", localPath, err)
	}
	defer f.Close()

	key := path.Join(u.prefix, filepath.Base(localPath))
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return "", fmt.Errorf("storage: put s3://%s/%s: %w", u.bucket, key, err)
	}

	u.log.Info("export uploaded", zap.String("bucket", u.bucket), zap.String("key", key))
	return key, nil
}
