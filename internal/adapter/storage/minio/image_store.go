package minio

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/app/config"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/platform/logger"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ImageStore persists product images in object storage and returns a
// publicly reachable URL per object.
type ImageStore interface {
	Upload(ctx context.Context, originalFileName string, data []byte) (string, error)
	Remove(ctx context.Context, fileURL string) error
}

type imageStore struct {
	client *minio.Client
	bucket string
	log    logger.Logger
}

func NewImageStore(ctx context.Context, cfg config.StorageConfig, log logger.Logger) (ImageStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", cfg.Endpoint, err)
	}

	if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
		exists, existsErr := client.BucketExists(ctx, cfg.Bucket)
		if existsErr != nil || !exists {
			return nil, fmt.Errorf("failed to make/verify bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &imageStore{
		client: client,
		bucket: cfg.Bucket,
		log:    log,
	}, nil
}

func (s *imageStore) Upload(ctx context.Context, originalFileName string, data []byte) (string, error) {
	ext := filepath.Ext(originalFileName)
	objectKey := fmt.Sprintf("products/%s%s", uuid.New().String(), ext)

	_, err := s.client.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: http.DetectContentType(data),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s to bucket %s: %w", objectKey, s.bucket, err)
	}

	fileURL := fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, objectKey)
	s.log.Infof("Uploaded image %s (%d bytes) to %s", originalFileName, len(data), fileURL)
	return fileURL, nil
}

func (s *imageStore) Remove(ctx context.Context, fileURL string) error {
	prefix := fmt.Sprintf("%s/%s/", s.client.EndpointURL().String(), s.bucket)
	objectKey := strings.TrimPrefix(fileURL, prefix)
	if objectKey == fileURL || objectKey == "" {
		return fmt.Errorf("URL %s does not belong to bucket %s", fileURL, s.bucket)
	}

	if err := s.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %s from bucket %s: %w", objectKey, s.bucket, err)
	}
	return nil
}
