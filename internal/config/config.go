// Package config loads runtime configuration from a YAML file with
// environment variable overrides, and opens the configured backends.
package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"broodcore/internal/archive"
	"broodcore/internal/infra/persistence/memory"
	"broodcore/internal/infra/persistence/postgres"
	"broodcore/internal/infra/persistence/sqlite"
	"broodcore/pkg/domain"
)

// Config is the top-level runtime configuration.
type Config struct {
	Persistence Persistence `yaml:"persistence"`
	Archive     Archive     `yaml:"archive"`
}

// Persistence selects and parameterizes the persistent store backend.
type Persistence struct {
	// Driver is one of memory, sqlite, postgres. Default memory.
	Driver string `yaml:"driver"`
	// Path is the database file when driver=sqlite.
	Path string `yaml:"path"`
	// DSN is the connection string when driver=postgres.
	DSN string `yaml:"dsn"`
}

// Archive selects and parameterizes the lifecycle event archive backend.
type Archive struct {
	// Driver is one of fs, s3, memory. Default fs.
	Driver string `yaml:"driver"`
	// Root is the directory root when driver=fs.
	Root string `yaml:"root"`
	// S3 settings when driver=s3.
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	PathStyle bool   `yaml:"path_style"`
}

// Default returns the configuration used when no file or overrides exist.
func Default() Config {
	return Config{
		Persistence: Persistence{Driver: "memory"},
		Archive:     Archive{Driver: string(archive.DriverFilesystem)},
	}
}

// Load reads the YAML file at path and applies environment overrides. A
// missing file is not an error: defaults plus overrides are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read %s: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("unmarshal %s: %w", path, err)
			}
		}
	}
	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Environment overrides:
//
//	BROODCORE_PERSISTENCE_DRIVER, BROODCORE_PERSISTENCE_PATH, BROODCORE_PERSISTENCE_DSN
//	BROODCORE_ARCHIVE_DRIVER, BROODCORE_ARCHIVE_FS_ROOT
//	BROODCORE_ARCHIVE_S3_BUCKET, BROODCORE_ARCHIVE_S3_REGION,
//	BROODCORE_ARCHIVE_S3_ENDPOINT, BROODCORE_ARCHIVE_S3_PATH_STYLE
func (c *Config) applyEnv() {
	if v := os.Getenv("BROODCORE_PERSISTENCE_DRIVER"); v != "" {
		c.Persistence.Driver = v
	}
	if v := os.Getenv("BROODCORE_PERSISTENCE_PATH"); v != "" {
		c.Persistence.Path = v
	}
	if v := os.Getenv("BROODCORE_PERSISTENCE_DSN"); v != "" {
		c.Persistence.DSN = v
	}
	if v := os.Getenv("BROODCORE_ARCHIVE_DRIVER"); v != "" {
		c.Archive.Driver = v
	}
	if v := os.Getenv("BROODCORE_ARCHIVE_FS_ROOT"); v != "" {
		c.Archive.Root = v
	}
	if v := os.Getenv("BROODCORE_ARCHIVE_S3_BUCKET"); v != "" {
		c.Archive.Bucket = v
	}
	if v := os.Getenv("BROODCORE_ARCHIVE_S3_REGION"); v != "" {
		c.Archive.Region = v
	}
	if v := os.Getenv("BROODCORE_ARCHIVE_S3_ENDPOINT"); v != "" {
		c.Archive.Endpoint = v
	}
	if v := os.Getenv("BROODCORE_ARCHIVE_S3_PATH_STYLE"); v != "" {
		c.Archive.PathStyle = strings.EqualFold(v, "true")
	}
}

func (c Config) validate() error {
	switch c.Persistence.Driver {
	case "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown persistence driver %q", c.Persistence.Driver)
	}
	switch archive.Driver(c.Archive.Driver) {
	case archive.DriverFilesystem, archive.DriverS3, archive.DriverMemory:
	default:
		return fmt.Errorf("unknown archive driver %q", c.Archive.Driver)
	}
	return nil
}

// OpenPersistentStore opens the configured persistence backend.
func (c Config) OpenPersistentStore(engine *domain.RulesEngine) (domain.PersistentStore, error) {
	switch c.Persistence.Driver {
	case "memory":
		return memory.NewStore(engine), nil
	case "sqlite":
		return sqlite.NewStore(c.Persistence.Path, engine)
	case "postgres":
		return postgres.NewStore(c.Persistence.DSN, engine)
	default:
		return nil, fmt.Errorf("unknown persistence driver %q", c.Persistence.Driver)
	}
}

// OpenArchive opens the configured archive backend.
func (c Config) OpenArchive(ctx context.Context) (archive.Store, error) {
	switch archive.Driver(c.Archive.Driver) {
	case archive.DriverFilesystem:
		return archive.NewFilesystem(c.Archive.Root)
	case archive.DriverS3:
		return archive.NewS3(ctx, archive.S3Config{
			Bucket:    c.Archive.Bucket,
			Region:    c.Archive.Region,
			Endpoint:  c.Archive.Endpoint,
			PathStyle: c.Archive.PathStyle,
		})
	case archive.DriverMemory:
		return archive.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown archive driver %q", c.Archive.Driver)
	}
}
