package storage

import (
	"context"
	"fmt"
)

// Config selects and configures the image storage driver.
type Config struct {
	Driver string `yaml:"driver"` // local | s3

	LocalDir       string `yaml:"local_dir"`
	LocalURLPrefix string `yaml:"local_url_prefix"`

	S3Region        string `yaml:"s3_region"`
	S3Bucket        string `yaml:"s3_bucket"`
	S3Prefix        string `yaml:"s3_prefix"`
	S3PublicBaseURL string `yaml:"s3_public_base_url"`

	MaxImageBytes int64 `yaml:"max_image_bytes"`
}

func DefaultConfig() Config {
	return Config{
		Driver:         "local",
		LocalDir:       "./storage/uploads",
		LocalURLPrefix: "/uploads",
		S3Prefix:       "products",
		MaxImageBytes:  DefaultMaxImageBytes,
	}
}

type FactoryResult struct {
	Driver  string
	Storage Storage
}

func New(ctx context.Context, cfg Config) (FactoryResult, error) {
	switch cfg.Driver {
	case "", "local":
		return FactoryResult{Driver: "local", Storage: NewLocal(cfg.LocalDir, cfg.LocalURLPrefix)}, nil

	case "s3":
		if cfg.S3Region == "" || cfg.S3Bucket == "" || cfg.S3PublicBaseURL == "" {
			return FactoryResult{}, fmt.Errorf("S3 config missing: S3_REGION, S3_BUCKET, S3_PUBLIC_BASE_URL required")
		}
		s, err := NewS3(ctx, S3Config{
			Region:        cfg.S3Region,
			Bucket:        cfg.S3Bucket,
			Prefix:        cfg.S3Prefix,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			return FactoryResult{}, err
		}
		return FactoryResult{Driver: "s3", Storage: s}, nil

	default:
		return FactoryResult{}, fmt.Errorf("unknown STORAGE_DRIVER: %s", cfg.Driver)
	}
}
