package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	URLExpiry time.Duration
}

func GetMinioConfig() (*MinioConfig, error) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		return nil, fmt.Errorf("MINIO_ENDPOINT must be set")
	}
	accessKey := os.Getenv("MINIO_ACCESS_KEY")
	if accessKey == "" {
		return nil, fmt.Errorf("MINIO_ACCESS_KEY must be set")
	}
	secretKey := os.Getenv("MINIO_SECRET_KEY")
	if secretKey == "" {
		return nil, fmt.Errorf("MINIO_SECRET_KEY must be set")
	}
	bucket := os.Getenv("MINIO_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("MINIO_BUCKET must be set")
	}

	useSSL := false
	if v := os.Getenv("MINIO_USE_SSL"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("MINIO_USE_SSL must be a boolean: %w", err)
		}
		useSSL = parsed
	}

	return &MinioConfig{
		Endpoint:  endpoint,
		AccessKey: accessKey,
		SecretKey: secretKey,
		Bucket:    bucket,
		UseSSL:    useSSL,
		URLExpiry: 7 * 24 * time.Hour,
	}, nil
}
