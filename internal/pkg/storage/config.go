package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ManuelReschke/LocalBiz/internal/pkg/env"
	"github.com/ManuelReschke/LocalBiz/internal/pkg/logger"
)

const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

// DefaultTimeout bounds a single storage call made on behalf of a request.
const DefaultTimeout = 30 * time.Second

// Config selects and configures the photo backend
type Config struct {
	Backend   string
	LocalRoot string
	LocalURL  string
	S3        S3Config
}

// LoadConfig loads the storage configuration from environment variables
func LoadConfig() Config {
	return Config{
		Backend:   strings.ToLower(env.GetEnv("STORAGE_BACKEND", BackendLocal)),
		LocalRoot: env.GetEnv("UPLOAD_DIR", "./uploads"),
		LocalURL:  env.GetEnv("UPLOAD_URL", "/uploads"),
		S3: S3Config{
			AccessKeyID:     env.GetEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
			Region:          env.GetEnv("S3_REGION", "us-east-1"),
			BucketName:      env.GetEnv("S3_BUCKET_NAME", ""),
			EndpointURL:     env.GetEnv("S3_ENDPOINT_URL", ""),
			PublicURL:       env.GetEnv("S3_PUBLIC_URL", ""),
		},
	}
}

// New builds the configured store.
func New(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", BackendLocal:
		return NewLocalStore(cfg.LocalRoot, cfg.LocalURL), nil
	case BackendS3:
		return NewS3Store(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

var defaultStore Store

// Setup initializes the process-wide store and checks it once.
func Setup(ctx context.Context) (Store, error) {
	cfg := LoadConfig()
	s, err := New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	checkCtx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()
	if err := s.Check(checkCtx); err != nil {
		logger.Named("storage").Warn("storage check failed", zap.String("backend", s.Name()), zap.Error(err))
	} else {
		logger.Named("storage").Info("storage ready", zap.String("backend", s.Name()))
	}

	defaultStore = s
	return s, nil
}

// Default returns the store set up at boot, falling back to local disk.
func Default() Store {
	if defaultStore == nil {
		cfg := LoadConfig()
		defaultStore = NewLocalStore(cfg.LocalRoot, cfg.LocalURL)
	}
	return defaultStore
}

// SetDefault replaces the process-wide store (tests).
func SetDefault(s Store) {
	defaultStore = s
}
