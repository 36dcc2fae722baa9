package storage

import "fmt"

// Config selects and configures a storage backend.
type Config struct {
	Type      string // "s3" (default) or "local"
	LocalPath string
	S3        S3Config
}

// NewStorage creates an ObjectStorage instance based on the configuration.
func NewStorage(cfg *Config) (ObjectStorage, error) {
	switch cfg.Type {
	case "local":
		return NewLocalStorage(cfg.LocalPath, cfg.S3.PublicURL)
	case "", "s3":
		return NewS3Storage(&cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}
