package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=warn"`
	LogPretty bool   `env:"LOG_PRETTY, default=true"`

	API     APIConfig
	Store   StoreConfig
	Redis   RedisConfig
	Mongo   MongoConfig
	Reports ReportConfig
	FakeAPI FakeAPIConfig
}

type APIConfig struct {
	BaseURL       string        `env:"STOREFRONT_API_URL,        default=http://localhost:8080/api"`
	Timeout       time.Duration `env:"STOREFRONT_TIMEOUT,        default=60s"`
	ReportTimeout time.Duration `env:"STOREFRONT_REPORT_TIMEOUT, default=120s"`
	UserAgent     string        `env:"STOREFRONT_USER_AGENT,     default=storefrontctl/1.0"`
}

// StoreConfig selects where the session and preferences are persisted.
type StoreConfig struct {
	Backend string `env:"STORE_BACKEND, default=sqlite"` // sqlite | memory | redis | mongo
	Path    string `env:"STORE_PATH"`                    // sqlite file, defaults under the user config dir
}

type RedisConfig struct {
	Addr       string        `env:"REDIS_ADDR,   default=localhost:6379"`
	DB         int           `env:"REDIS_DB,     default=0"`
	Prefix     string        `env:"REDIS_PREFIX, default=storefront"`
	SessionTTL time.Duration `env:"SESSION_TTL,  default=0s"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=storefront_client"`
}

type ReportConfig struct {
	Dir string `env:"REPORT_DIR"`
}

type FakeAPIConfig struct {
	Port          string        `env:"FAKEAPI_PORT,           default=8080"`
	JWTSecret     string        `env:"JWT_SECRET,             default=dev-secret"`
	TokenTTL      time.Duration `env:"JWT_TTL,                default=24h"`
	AdminCode     string        `env:"ADMIN_CODE,             default=ADMIN2024"`
	AdminUser     string        `env:"FAKEAPI_ADMIN_USER,     default=admin"`
	AdminPassword string        `env:"FAKEAPI_ADMIN_PASSWORD, default=admin123"`
	AdminEmail    string        `env:"FAKEAPI_ADMIN_EMAIL,    default=admin@example.com"`
	SeedCatalog   bool          `env:"FAKEAPI_SEED_CATALOG,   default=true"`
	MaxUpload     int64         `env:"FAKEAPI_MAX_UPLOAD,     default=10485760"`
}

// Load reads an optional .env file and then the process environment.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith resolves the configuration from l and fills derived defaults.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	base := defaultDataDir()
	if cfg.Store.Path == "" {
		cfg.Store.Path = filepath.Join(base, "session.db")
	}
	if cfg.Reports.Dir == "" {
		cfg.Reports.Dir = filepath.Join(base, "reports")
	}

	switch cfg.Store.Backend {
	case "sqlite", "memory", "redis", "mongo":
	default:
		return nil, fmt.Errorf("config: unsupported STORE_BACKEND %q", cfg.Store.Backend)
	}
	return &cfg, nil
}

// MustLoad is Load for entry points that cannot continue without config.
func MustLoad(ctx context.Context) *Config {
	cfg, err := Load(ctx)
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".storefront"
	}
	return filepath.Join(dir, "storefront")
}
