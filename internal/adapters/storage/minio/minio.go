package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/tongard/graphsense-tagpack-tool/internal/config"
)

// Adapter archives raw tagpack documents in an S3 compatible bucket
type Adapter struct {
	client *minio.Client
	config config.ArchiveConfig
	logger *slog.Logger
}

// NewAdapter returns Adapter
func NewAdapter(ctx context.Context, cfg config.ArchiveConfig, logger *slog.Logger) (*Adapter, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &Adapter{client: client, config: cfg, logger: logger}, nil
}

// ArchivePack stores the raw document under the pack id
func (a *Adapter) ArchivePack(ctx context.Context, packID string, data []byte) error {
	opts := minio.PutObjectOptions{
		ContentType: "application/yaml",
	}

	_, err := a.client.PutObject(ctx, a.config.BucketName, objectKey(packID), bytes.NewReader(data), int64(len(data)), opts)
	if err != nil {
		return fmt.Errorf("failed to archive pack: %w", err)
	}

	a.logger.Info("pack archived",
		slog.String("packId", packID),
		slog.String("bucket", a.config.BucketName))

	return nil
}

// FetchPack retrieves the raw document of an ingested pack
func (a *Adapter) FetchPack(ctx context.Context, packID string) ([]byte, error) {
	object, err := a.client.GetObject(ctx, a.config.BucketName, objectKey(packID), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get pack: %w", err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, fmt.Errorf("failed to read pack: %w", err)
	}

	return data, nil
}

func objectKey(packID string) string {
	return packID + ".yaml"
}
