package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StorageFile   = "file"
	StorageRedis  = "redis"
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

type Config struct {
	Port     string `env:"PORT,      default=3000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Backend BackendConfig
	Notify  NotifyConfig
	Storage StorageConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type BackendConfig struct {
	AuthURL       string        `env:"AUTH_URL,       default=http://localhost:8091"`
	APIURL        string        `env:"API_URL,        default=http://localhost:8080"`
	Timeout       time.Duration `env:"HTTP_TIMEOUT,   default=15s"`
	EnrichRPS     float64       `env:"ENRICH_RPS,     default=20"`
	EnrichBurst   int           `env:"ENRICH_BURST,   default=10"`
	EnrichWorkers int           `env:"ENRICH_WORKERS, default=8"`
}

type NotifyConfig struct {
	Display time.Duration `env:"NOTIFY_DISPLAY, default=2s"`
	Fade    time.Duration `env:"NOTIFY_FADE,    default=700ms"`
}

type StorageConfig struct {
	Driver    string `env:"STORAGE_DRIVER,    default=file"`
	Path      string `env:"STORAGE_PATH"`
	Secret    string `env:"SESSION_SECRET"`
	Namespace string `env:"SESSION_NAMESPACE, default=default"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=ims_console"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// IsDevelopment reports whether logs should be human readable.
func (c *Config) IsDevelopment() bool { return c.Env == "development" }

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageFile, StorageRedis, StorageMongo, StorageMemory:
	default:
		return fmt.Errorf("load configuration: unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Backend.AuthURL == "" || c.Backend.APIURL == "" {
		return fmt.Errorf("load configuration: AUTH_URL and API_URL are required")
	}
	return nil
}
