package adapters

import (
	"bytes"
	"context"
	"fmt"
	"github.com/Abdo12KM/children-storybook-generator/application/ports/outbound"
	"github.com/Abdo12KM/children-storybook-generator/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"io"
	"net/url"
	"sync"
	"time"
)

// MinioObjectClient is the subset of *minio.Client used by the media store.
type MinioObjectClient interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64,
		opts minio.PutObjectOptions) (minio.UploadInfo, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration,
		reqParams url.Values) (*url.URL, error)
}

type minioMediaStore struct {
	logger      outbound.LoggerPort
	client      MinioObjectClient
	minioConfig *config.MinioConfig

	bucketMu    sync.Mutex
	bucketReady bool
}

func NewMinioClient(minioConfig *config.MinioConfig) (*minio.Client, error) {
	return minio.New(minioConfig.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(minioConfig.AccessKey, minioConfig.SecretKey, ""),
		Secure: minioConfig.UseSSL,
	})
}

func NewMinioMediaStore(client MinioObjectClient, minioConfig *config.MinioConfig, logger outbound.LoggerPort) outbound.MediaStorePort {
	return &minioMediaStore{
		logger:      logger,
		client:      client,
		minioConfig: minioConfig,
	}
}

func (m *minioMediaStore) Save(ctx context.Context, req outbound.SaveMediaRequest) (string, error) {
	if err := m.ensureBucket(ctx); err != nil {
		return "", err
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := m.client.PutObject(ctx, m.minioConfig.Bucket, req.Key, bytes.NewReader(req.Content), int64(len(req.Content)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		m.logger.ErrorWithFields(err, "Failed to upload object to MinIO", map[string]interface{}{
			"bucket": m.minioConfig.Bucket,
			"key":    req.Key,
		})
		return "", fmt.Errorf("upload to minio: %w", err)
	}

	presignedURL, err := m.client.PresignedGetObject(ctx, m.minioConfig.Bucket, req.Key, m.minioConfig.URLExpiry, make(url.Values))
	if err != nil {
		m.logger.ErrorWithFields(err, "Failed to presign MinIO object", map[string]interface{}{
			"key": req.Key,
		})
		return "", fmt.Errorf("presign minio object: %w", err)
	}

	return presignedURL.String(), nil
}

func (m *minioMediaStore) ensureBucket(ctx context.Context) error {
	m.bucketMu.Lock()
	defer m.bucketMu.Unlock()
	if m.bucketReady {
		return nil
	}

	exists, err := m.client.BucketExists(ctx, m.minioConfig.Bucket)
	if err != nil {
		return fmt.Errorf("check minio bucket: %w", err)
	}
	if !exists {
		if err := m.client.MakeBucket(ctx, m.minioConfig.Bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create minio bucket: %w", err)
		}
		m.logger.InfoWithFields("Created MinIO bucket", map[string]interface{}{
			"bucket": m.minioConfig.Bucket,
		})
	}
	m.bucketReady = true
	return nil
}
