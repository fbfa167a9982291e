package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	MediaStoreS3    = "s3"
	MediaStoreMinio = "minio"
)

type PipelineConfig struct {
	Temperature    float64
	WorkerPoolSize int
	MockGeneration bool
	MediaStore     string
	AppURL         string
	LogLevel       string
	Port           string
	JwksURL        string
	StoryApiURL    string
}

// GetPipelineConfig reads optional settings; every field has a default.
func GetPipelineConfig() (*PipelineConfig, error) {
	conf := &PipelineConfig{
		Temperature:    0.7,
		WorkerPoolSize: 120,
		MediaStore:     MediaStoreS3,
		AppURL:         "http://localhost:3000",
		LogLevel:       "info",
		Port:           "8080",
		JwksURL:        os.Getenv("JWKS_URL"),
		StoryApiURL:    os.Getenv("STORY_API_URL"),
	}

	if v := os.Getenv("TEMPERATURE"); v != "" {
		temperature, err := strconv.ParseFloat(v, 64)
		if err != nil || temperature < 0 || temperature > 2 {
			return nil, fmt.Errorf("TEMPERATURE must be a number between 0 and 2")
		}
		conf.Temperature = temperature
	}
	if v := os.Getenv("WORKER_POOL_SIZE"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size < 1 {
			return nil, fmt.Errorf("WORKER_POOL_SIZE must be a positive integer")
		}
		conf.WorkerPoolSize = size
	}
	if v := os.Getenv("MOCK_GENERATION"); v != "" {
		mock, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("MOCK_GENERATION must be a boolean")
		}
		conf.MockGeneration = mock
	}
	if v := os.Getenv("MEDIA_STORE"); v != "" {
		if v != MediaStoreS3 && v != MediaStoreMinio {
			return nil, fmt.Errorf("MEDIA_STORE must be %q or %q", MediaStoreS3, MediaStoreMinio)
		}
		conf.MediaStore = v
	}
	if v := os.Getenv("APP_URL"); v != "" {
		conf.AppURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		conf.LogLevel = v
	}
	if v := os.Getenv("PORT"); v != "" {
		conf.Port = v
	}

	return conf, nil
}
