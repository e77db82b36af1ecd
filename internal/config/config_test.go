package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainservices "github.com/vsinha/shoplist/pkg/domain/services"
	"github.com/vsinha/shoplist/pkg/infrastructure/storage"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SHOPLIST_DATA_DRIVER",
		"SHOPLIST_DATA_DIR",
		"SHOPLIST_EDITOR_PASSWORD",
		"SHOPLIST_SERVER_ADDR",
		"SHOPLIST_S3_BUCKET",
		"SHOPLIST_MAX_RECIPES",
	} {
		t.Setenv(key, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Data.Driver != "fs" {
		t.Errorf("expected Driver=fs, got %s", cfg.Data.Driver)
	}
	if cfg.Data.RecipesKey != "receitas.json" {
		t.Errorf("expected RecipesKey=receitas.json, got %s", cfg.Data.RecipesKey)
	}
	if cfg.Data.BaselineKey != "lista_base.json" {
		t.Errorf("expected BaselineKey=lista_base.json, got %s", cfg.Data.BaselineKey)
	}
	if cfg.Editor.Password != "123" {
		t.Errorf("expected Password=123, got %s", cfg.Editor.Password)
	}
	if cfg.Shopping.MaxRecipes != 5 {
		t.Errorf("expected MaxRecipes=5, got %d", cfg.Shopping.MaxRecipes)
	}
	require.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "shoplist.yaml")

	cfg := DefaultConfig()
	cfg.Data.Driver = "sqlite"
	cfg.Data.SQLitePath = "/tmp/kitchen.db"
	cfg.Shopping.DemandPolicy = "max"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	policy, err := loaded.DemandPolicy()
	require.NoError(t, err)
	assert.Equal(t, domainservices.DemandMax, policy)

	opts := loaded.StorageOptions()
	assert.Equal(t, storage.DriverSQLite, opts.Driver)
	assert.Equal(t, "/tmp/kitchen.db", opts.SQLitePath)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "shoplist.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data:\n  cache_ttl: 5s\nserver:\n  addr: \":9000\"\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "receitas.json", cfg.Data.RecipesKey)

	ttl, err := cfg.CacheTTL()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, ttl)
}

func TestConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SHOPLIST_DATA_DRIVER", "s3")
	t.Setenv("SHOPLIST_S3_BUCKET", "household")
	t.Setenv("SHOPLIST_EDITOR_PASSWORD", "segredo")
	t.Setenv("SHOPLIST_SERVER_ADDR", "127.0.0.1:8080")
	t.Setenv("SHOPLIST_MAX_RECIPES", "3")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "s3", cfg.Data.Driver)
	assert.Equal(t, "household", cfg.StorageOptions().S3.Bucket)
	assert.Equal(t, "segredo", cfg.Editor.Password)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
	assert.Equal(t, 3, cfg.Shopping.MaxRecipes)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"unknown driver", func(c *Config) { c.Data.Driver = "postgres" }},
		{"s3 without bucket", func(c *Config) { c.Data.Driver = "s3" }},
		{"bad ttl", func(c *Config) { c.Data.CacheTTL = "soon" }},
		{"negative ttl", func(c *Config) { c.Data.CacheTTL = "-1s" }},
		{"zero cap", func(c *Config) { c.Shopping.MaxRecipes = 0 }},
		{"bad policy", func(c *Config) { c.Shopping.DemandPolicy = "min" }},
		{"empty password", func(c *Config) { c.Editor.Password = "" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Expected validation error for %s", tt.name)
			}
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "shoplist.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
