package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nikolayk812/cartkeeper/internal/config"
	"github.com/nikolayk812/cartkeeper/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cartd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
http:
  addr: ":9000"
storage: memory
auth:
  jwt_secret: s3cret
redis:
  addr: localhost:6379
catalog:
  cache_ttl: 30s
  seed:
    - id: 6f1c1d1e-3a0b-4c55-9a47-9d2e0c5b2f10
      name: Linen Shirt
      price: "19.99"
      sizes: [S, M, L]
log:
  format: text
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	assert.Equal(t, config.StorageMemory, cfg.Storage)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 30*time.Second, cfg.Catalog.CacheTTL)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "cartkeeper:order-confirmations", cfg.Notify.Stream)

	products, err := cfg.SeedProducts()
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "19.99", products[0].Price.Amount.StringFixed(2))
	assert.Equal(t, "USD", products[0].Price.Currency.String())
	assert.Equal(t, []domain.Size{domain.SizeS, domain.SizeM, domain.SizeL}, products[0].Sizes)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
storage: postgres
postgres:
  dsn: postgres://file
auth:
  jwt_secret: from-file
`)

	t.Setenv("CARTD_POSTGRES_DSN", "postgres://env")
	t.Setenv("CARTD_JWT_SECRET", "from-env")
	t.Setenv("CARTD_CATALOG_CACHE_TTL", "1m")
	t.Setenv("CARTD_NOTIFY_STREAM", "orders")
	t.Setenv("CARTD_LOG_LEVEL", "debug")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://env", cfg.Postgres.DSN)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, time.Minute, cfg.Catalog.CacheTTL)
	assert.Equal(t, "orders", cfg.Notify.Stream)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_NoFile(t *testing.T) {
	t.Setenv("CARTD_STORAGE", "memory")
	t.Setenv("CARTD_JWT_SECRET", "x")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Catalog.CacheTTL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		env       map[string]string
		wantError string
	}{
		{
			name:      "missing secret",
			content:   "storage: memory\n",
			wantError: "auth.jwt_secret is required",
		},
		{
			name:      "postgres without dsn",
			content:   "auth:\n  jwt_secret: x\n",
			wantError: "postgres.dsn is required for postgres storage",
		},
		{
			name:      "unknown storage",
			content:   "storage: mongo\nauth:\n  jwt_secret: x\n",
			wantError: "storage[mongo] must be postgres or memory",
		},
		{
			name:      "bad seed size",
			content:   "storage: memory\nauth:\n  jwt_secret: x\ncatalog:\n  seed:\n    - id: 6f1c1d1e-3a0b-4c55-9a47-9d2e0c5b2f10\n      price: \"1\"\n      sizes: [XXL]\n",
			wantError: "catalog.seed[0]: size[XXL] is not valid",
		},
		{
			name:      "bad ttl env",
			content:   "storage: memory\nauth:\n  jwt_secret: x\n",
			env:       map[string]string{"CARTD_CATALOG_CACHE_TTL": "soon"},
			wantError: "CARTD_CATALOG_CACHE_TTL[soon] is not valid",
		},
		{
			name:      "unknown field",
			content:   "storage: memory\nauth:\n  jwt_secret: x\nstorgae: memory\n",
			wantError: "field storgae not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := config.Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantError)
		})
	}
}

func TestLoad_ExampleFile(t *testing.T) {
	cfg, err := config.Load(filepath.Join("..", "..", "cartd.example.yaml"))
	require.NoError(t, err)

	assert.Equal(t, config.StorageMemory, cfg.Storage)
	assert.Empty(t, cfg.Redis.Addr)

	products, err := cfg.SeedProducts()
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, []domain.Size{domain.SizeM, domain.SizeL}, products[1].Sizes)
}
