// Package config loads shoplist settings from YAML with environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vsinha/shoplist/pkg/application/session"
	domainservices "github.com/vsinha/shoplist/pkg/domain/services"
	"github.com/vsinha/shoplist/pkg/infrastructure/repositories/document"
	"github.com/vsinha/shoplist/pkg/infrastructure/storage"
	s3store "github.com/vsinha/shoplist/pkg/infrastructure/storage/s3"
)

// DefaultPath is looked up in the working directory when --config is not given.
const DefaultPath = "shoplist.yaml"

// Config is the unified shoplist configuration.
type Config struct {
	Data     DataConfig     `yaml:"data"`
	Editor   EditorConfig   `yaml:"editor"`
	Shopping ShoppingConfig `yaml:"shopping"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DataConfig selects where the recipe book and baseline list live.
type DataConfig struct {
	Driver      string   `yaml:"driver"` // fs, sqlite, s3, memory
	Dir         string   `yaml:"dir"`
	RecipesKey  string   `yaml:"recipes_key"`
	BaselineKey string   `yaml:"baseline_key"`
	CacheTTL    string   `yaml:"cache_ttl"`
	SQLitePath  string   `yaml:"sqlite_path"`
	S3          S3Config `yaml:"s3"`
}

type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Prefix    string `yaml:"prefix"`
	Endpoint  string `yaml:"endpoint"`
	PathStyle bool   `yaml:"path_style"`
}

type EditorConfig struct {
	Password string `yaml:"password"`
}

type ShoppingConfig struct {
	MaxRecipes   int    `yaml:"max_recipes"`
	DemandPolicy string `yaml:"demand_policy"` // additive, max
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the settings used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Driver:      string(storage.DriverFilesystem),
			Dir:         ".",
			RecipesKey:  document.DefaultRecipesKey,
			BaselineKey: document.DefaultBaselineKey,
			CacheTTL:    document.DefaultTTL.String(),
			SQLitePath:  "shoplist.db",
			S3: S3Config{
				Region: "us-east-1",
			},
		},
		Editor: EditorConfig{
			Password: "123",
		},
		Shopping: ShoppingConfig{
			MaxRecipes:   session.MaxSelectedRecipes,
			DemandPolicy: domainservices.DemandAdditive.String(),
		},
		Server: ServerConfig{
			Addr: ":8501",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads configuration from a YAML file. A missing file yields defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SHOPLIST_DATA_DRIVER"); v != "" {
		c.Data.Driver = v
	}
	if v := os.Getenv("SHOPLIST_DATA_DIR"); v != "" {
		c.Data.Dir = v
	}
	if v := os.Getenv("SHOPLIST_EDITOR_PASSWORD"); v != "" {
		c.Editor.Password = v
	}
	if v := os.Getenv("SHOPLIST_SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("SHOPLIST_S3_BUCKET"); v != "" {
		c.Data.S3.Bucket = v
	}
	if v := os.Getenv("SHOPLIST_MAX_RECIPES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Shopping.MaxRecipes = n
		}
	}
}

// Validate rejects settings the rest of the program cannot honor.
func (c *Config) Validate() error {
	switch storage.Driver(c.Data.Driver) {
	case storage.DriverFilesystem, storage.DriverSQLite, storage.DriverMemory:
	case storage.DriverS3:
		if c.Data.S3.Bucket == "" {
			return fmt.Errorf("data.s3.bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("unknown data.driver %q", c.Data.Driver)
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	if c.Shopping.MaxRecipes <= 0 {
		return fmt.Errorf("shopping.max_recipes must be positive, got %d", c.Shopping.MaxRecipes)
	}
	if _, err := c.DemandPolicy(); err != nil {
		return err
	}
	if c.Editor.Password == "" {
		return fmt.Errorf("editor.password cannot be empty")
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("unknown logging.format %q", c.Logging.Format)
	}
	return nil
}

// CacheTTL parses data.cache_ttl; empty means the store default.
func (c *Config) CacheTTL() (time.Duration, error) {
	if c.Data.CacheTTL == "" {
		return document.DefaultTTL, nil
	}
	ttl, err := time.ParseDuration(c.Data.CacheTTL)
	if err != nil {
		return 0, fmt.Errorf("invalid data.cache_ttl: %w", err)
	}
	if ttl < 0 {
		return 0, fmt.Errorf("data.cache_ttl cannot be negative, got %s", ttl)
	}
	return ttl, nil
}

func (c *Config) DemandPolicy() (domainservices.DemandPolicy, error) {
	return domainservices.ParseDemandPolicy(c.Shopping.DemandPolicy)
}

// StorageOptions maps the data section onto backend options.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Driver:     storage.Driver(c.Data.Driver),
		Dir:        c.Data.Dir,
		SQLitePath: c.Data.SQLitePath,
		S3: s3store.Config{
			Region:    c.Data.S3.Region,
			Bucket:    c.Data.S3.Bucket,
			Prefix:    c.Data.S3.Prefix,
			Endpoint:  c.Data.S3.Endpoint,
			PathStyle: c.Data.S3.PathStyle,
		},
	}
}
