// Package config wires deployment configuration into constructed services.
// Backend variants (metadata store, blob store, notifier) are selected here,
// at construction time, so handlers never branch on deployment type.
package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arthousehq/photofolio/pkg/photofolio"
	"github.com/arthousehq/photofolio/pkg/photofolio/auth"
	"github.com/arthousehq/photofolio/pkg/photofolio/notify"
	"github.com/arthousehq/photofolio/pkg/photofolio/repo/flatfile"
	repomemory "github.com/arthousehq/photofolio/pkg/photofolio/repo/memory"
	repopg "github.com/arthousehq/photofolio/pkg/photofolio/repo/postgres"
	fsstorage "github.com/arthousehq/photofolio/pkg/photofolio/storage/fs"
	memorystorage "github.com/arthousehq/photofolio/pkg/photofolio/storage/memory"
	s3storage "github.com/arthousehq/photofolio/pkg/photofolio/storage/s3"
)

// DefaultMaxUploadBytes caps uploads at 10 MiB unless overridden. Some
// deployments run with 5 MiB.
const DefaultMaxUploadBytes = 10 << 20

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of
// library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:           "8080",
		Environment:    "development",
		MetadataType:   "memory",
		StorageType:    "memory",
		MaxUploadBytes: DefaultMaxUploadBytes,
	}
}

// ServerConfig represents server configuration for the portfolio service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Metadata store configuration
	MetadataType string // "memory", "flatfile", "postgres"
	MetadataPath string // flatfile: path of the JSON store
	DatabaseURL  string // postgres: connection string

	// Blob storage configuration
	StorageType string // "memory", "fs", "s3"
	FS          fsstorage.Config
	S3          s3storage.Config

	// Upload boundary
	MaxUploadBytes int64

	// Admin credential (empty AdminUsername disables auth; dev only)
	AdminUsername     string
	AdminPasswordHash string
	JWTSecret         string

	// Contact notifier (empty SMTPHost selects the noop notifier)
	SMTP notify.SMTPConfig
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	switch c.MetadataType {
	case "memory":
	case "flatfile":
		if c.MetadataPath == "" {
			return errors.New("metadata path is required when using flatfile")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("database_url is required when using postgres")
		}
	default:
		return fmt.Errorf("metadata type must be 'memory', 'flatfile' or 'postgres', got %q", c.MetadataType)
	}

	switch c.StorageType {
	case "memory":
	case "fs":
		if c.FS.BaseDir == "" {
			return errors.New("storage base dir is required when using fs")
		}
	case "s3":
		if c.S3.Bucket == "" {
			return errors.New("s3 bucket is required when using s3")
		}
	default:
		return fmt.Errorf("storage type must be 'memory', 'fs' or 's3', got %q", c.StorageType)
	}

	if c.MaxUploadBytes < 0 {
		return errors.New("max upload bytes must not be negative")
	}

	if c.AdminUsername != "" {
		if c.AdminPasswordHash == "" {
			return errors.New("admin password hash is required when admin username is set")
		}
		if c.JWTSecret == "" {
			return errors.New("jwt secret is required when admin username is set")
		}
	}

	return nil
}

// BuildService creates a Service instance from the server configuration.
// The blob store is passed in rather than rebuilt so the file-serving route
// and the service share one backend instance.
func (c *ServerConfig) BuildService(blobs photofolio.BlobStore) (photofolio.Service, error) {
	store, err := c.buildMetadataStore()
	if err != nil {
		return nil, fmt.Errorf("failed to build metadata store: %w", err)
	}

	return photofolio.New(
		photofolio.WithMetadataStore(store),
		photofolio.WithBlobStore(blobs),
		photofolio.WithMaxUploadBytes(c.MaxUploadBytes),
	)
}

func (c *ServerConfig) buildMetadataStore() (photofolio.MetadataStore, error) {
	switch c.MetadataType {
	case "memory":
		return repomemory.New(), nil
	case "flatfile":
		return flatfile.New(c.MetadataPath)
	case "postgres":
		pool, err := pgxpool.New(context.Background(), c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create pgx pool: %w", err)
		}
		repo := repopg.NewWithPool(pool)
		if err := repo.EnsureSchema(context.Background()); err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported metadata type: %s", c.MetadataType)
	}
}

// BuildBlobStore creates the configured blob storage backend.
func (c *ServerConfig) BuildBlobStore() (photofolio.BlobStore, error) {
	switch c.StorageType {
	case "memory":
		return memorystorage.New(), nil
	case "fs":
		return fsstorage.New(c.FS)
	case "s3":
		return s3storage.New(c.S3)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", c.StorageType)
	}
}

// BuildNotifier creates the contact-form notifier.
func (c *ServerConfig) BuildNotifier() (photofolio.Notifier, error) {
	if c.SMTP.Host == "" {
		return notify.NewNoop(), nil
	}
	return notify.NewSMTP(c.SMTP)
}

// BuildAdmin creates the admin credential checker, or nil when no admin
// credential is configured.
func (c *ServerConfig) BuildAdmin() (*auth.Admin, error) {
	if c.AdminUsername == "" {
		return nil, nil
	}
	return auth.NewAdmin(c.AdminUsername, c.AdminPasswordHash, []byte(c.JWTSecret))
}
