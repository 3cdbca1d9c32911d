package config

import (
	"github.com/arthousehq/photofolio/pkg/photofolio/notify"
	s3storage "github.com/arthousehq/photofolio/pkg/photofolio/storage/s3"
)

// Programmatic options for callers that wire configuration in code rather
// than through the environment.

// WithPort sets the server port
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		c.Port = port
		return nil
	}
}

// WithEnvironment sets the runtime environment
func WithEnvironment(env string) Option {
	return func(c *ServerConfig) error {
		c.Environment = env
		return nil
	}
}

// WithMemoryMetadata selects the in-memory metadata store
func WithMemoryMetadata() Option {
	return func(c *ServerConfig) error {
		c.MetadataType = "memory"
		return nil
	}
}

// WithFlatFileMetadata selects the flat-file JSON metadata store
func WithFlatFileMetadata(path string) Option {
	return func(c *ServerConfig) error {
		c.MetadataType = "flatfile"
		c.MetadataPath = path
		return nil
	}
}

// WithPostgresMetadata selects the Postgres metadata store
func WithPostgresMetadata(databaseURL string) Option {
	return func(c *ServerConfig) error {
		c.MetadataType = "postgres"
		c.DatabaseURL = databaseURL
		return nil
	}
}

// WithMemoryStorage selects the in-memory blob store
func WithMemoryStorage() Option {
	return func(c *ServerConfig) error {
		c.StorageType = "memory"
		return nil
	}
}

// WithFSStorage selects filesystem blob storage
func WithFSStorage(baseDir, urlPrefix string) Option {
	return func(c *ServerConfig) error {
		c.StorageType = "fs"
		c.FS.BaseDir = baseDir
		c.FS.URLPrefix = urlPrefix
		return nil
	}
}

// WithS3Storage selects S3 blob storage
func WithS3Storage(s3cfg s3storage.Config) Option {
	return func(c *ServerConfig) error {
		c.StorageType = "s3"
		c.S3 = s3cfg
		return nil
	}
}

// WithMaxUploadBytes sets the upload size boundary
func WithMaxUploadBytes(n int64) Option {
	return func(c *ServerConfig) error {
		c.MaxUploadBytes = n
		return nil
	}
}

// WithAdmin configures the admin credential
func WithAdmin(username, passwordHash, jwtSecret string) Option {
	return func(c *ServerConfig) error {
		c.AdminUsername = username
		c.AdminPasswordHash = passwordHash
		c.JWTSecret = jwtSecret
		return nil
	}
}

// WithSMTP configures the contact-form notifier
func WithSMTP(smtpCfg notify.SMTPConfig) Option {
	return func(c *ServerConfig) error {
		c.SMTP = smtpCfg
		return nil
	}
}
