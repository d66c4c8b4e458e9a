// Package config loads cartd settings from an optional YAML file and CARTD_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/cartkeeper/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"gopkg.in/yaml.v3"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	ServiceName string   `yaml:"service_name"`
	HTTP        HTTP     `yaml:"http"`
	Storage     string   `yaml:"storage"`
	Postgres    Postgres `yaml:"postgres"`
	Redis       Redis    `yaml:"redis"`
	Auth        Auth     `yaml:"auth"`
	Catalog     Catalog  `yaml:"catalog"`
	Notify      Notify   `yaml:"notify"`
	Log         Log      `yaml:"log"`
}

type HTTP struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type Postgres struct {
	DSN string `yaml:"dsn"`
}

// Redis is optional. Without an address the catalog is read uncached
// and confirmations are only logged.
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type Auth struct {
	JWTSecret string `yaml:"jwt_secret"`
}

type Catalog struct {
	CacheTTL time.Duration `yaml:"cache_ttl"`
	// Seed is loaded into the in-memory catalog when Storage is "memory".
	Seed []SeedProduct `yaml:"seed"`
}

type SeedProduct struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Price    string   `yaml:"price"`
	Currency string   `yaml:"currency"`
	ImageURL string   `yaml:"image_url"`
	Sizes    []string `yaml:"sizes"`
}

type Notify struct {
	Stream string `yaml:"stream"`
	MaxLen int64  `yaml:"max_len"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() Config {
	return Config{
		ServiceName: "cartkeeper",
		HTTP: HTTP{
			Addr:            ":8080",
			ShutdownTimeout: 15 * time.Second,
		},
		Storage: StoragePostgres,
		Catalog: Catalog{
			CacheTTL: 5 * time.Minute,
		},
		Notify: Notify{
			Stream: "cartkeeper:order-confirmations",
			MaxLen: 10000,
		},
		Log: Log{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads path (skipped when empty), applies environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("os.ReadFile: %w", err)
		}

		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("decoder.Decode: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, fmt.Errorf("cfg.applyEnv: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.HTTP.Addr = getEnv("CARTD_HTTP_ADDR", c.HTTP.Addr)
	c.Storage = getEnv("CARTD_STORAGE", c.Storage)
	c.Postgres.DSN = getEnv("CARTD_POSTGRES_DSN", c.Postgres.DSN)
	c.Redis.Addr = getEnv("CARTD_REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("CARTD_REDIS_PASSWORD", c.Redis.Password)
	c.Auth.JWTSecret = getEnv("CARTD_JWT_SECRET", c.Auth.JWTSecret)
	c.Notify.Stream = getEnv("CARTD_NOTIFY_STREAM", c.Notify.Stream)
	c.Log.Level = getEnv("CARTD_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("CARTD_LOG_FORMAT", c.Log.Format)

	if v := os.Getenv("CARTD_CATALOG_CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CARTD_CATALOG_CACHE_TTL[%s] is not valid: %w", v, err)
		}
		c.Catalog.CacheTTL = ttl
	}

	return nil
}

func (c Config) Validate() error {
	var errs []error

	if c.Auth.JWTSecret == "" {
		errs = append(errs, fmt.Errorf("auth.jwt_secret is required"))
	}

	switch c.Storage {
	case StoragePostgres:
		if c.Postgres.DSN == "" {
			errs = append(errs, fmt.Errorf("postgres.dsn is required for postgres storage"))
		}
	case StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("storage[%s] must be %s or %s", c.Storage, StoragePostgres, StorageMemory))
	}

	if c.HTTP.Addr == "" {
		errs = append(errs, fmt.Errorf("http.addr is required"))
	}
	if c.Catalog.CacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("catalog.cache_ttl must be positive"))
	}

	if _, err := c.SeedProducts(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// SeedProducts converts the configured seed catalog to domain products.
func (c Config) SeedProducts() ([]domain.Product, error) {
	products := make([]domain.Product, 0, len(c.Catalog.Seed))

	for i, s := range c.Catalog.Seed {
		id, err := uuid.Parse(s.ID)
		if err != nil {
			return nil, fmt.Errorf("catalog.seed[%d].id[%s] is not valid: %w", i, s.ID, err)
		}

		amount, err := decimal.NewFromString(s.Price)
		if err != nil {
			return nil, fmt.Errorf("catalog.seed[%d].price[%s] is not valid: %w", i, s.Price, err)
		}

		code := s.Currency
		if code == "" {
			code = "USD"
		}
		unit, err := currency.ParseISO(code)
		if err != nil {
			return nil, fmt.Errorf("catalog.seed[%d].currency[%s] is not valid: %w", i, code, err)
		}

		sizes := make([]domain.Size, 0, len(s.Sizes))
		for _, raw := range s.Sizes {
			size, err := domain.ParseSize(raw)
			if err != nil {
				return nil, fmt.Errorf("catalog.seed[%d]: %w", i, err)
			}
			sizes = append(sizes, size)
		}

		products = append(products, domain.Product{
			ID:       id,
			Name:     s.Name,
			Price:    domain.Money{Amount: amount, Currency: unit},
			ImageURL: s.ImageURL,
			Sizes:    sizes,
		})
	}

	return products, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
