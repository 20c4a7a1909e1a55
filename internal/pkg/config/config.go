package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	JWTSecret string        `env:"JWT_SECRET, required"`
	JWTTTL    time.Duration `env:"JWT_TTL,    default=24h"`
	CookieTTL time.Duration `env:"COOKIE_TTL, default=24h"`

	CORSOrigins []string `env:"CORS_ORIGINS, default=*"`

	Mongo    MongoConfig
	Redis    RedisConfig
	Geocoder GeocoderConfig
	Upload   UploadConfig
	Storage  StorageConfig
	Events   EventsConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=jobboard"`
}

// RedisConfig backs the shared geocode cache. An empty address disables it.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type GeocoderConfig struct {
	Provider          string        `env:"GEOCODER_PROVIDER,  default=mapquest"`
	APIKey            string        `env:"GEOCODER_API_KEY"`
	RequestsPerSecond float64       `env:"GEOCODER_RPS,       default=5"`
	CacheTTL          time.Duration `env:"GEOCODER_CACHE_TTL, default=24h"`
}

type UploadConfig struct {
	MaxFileSize int64  `env:"MAX_FILE_SIZE, default=2000000"`
	Path        string `env:"UPLOAD_PATH,   default=./public/uploads"`
}

// StorageConfig selects where resumes are written: "local" or "s3".
type StorageConfig struct {
	Driver      string `env:"STORAGE_DRIVER, default=local"`
	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3Prefix    string `env:"S3_PREFIX, default=resumes"`
}

// EventsConfig controls application event delivery. Without RABBITMQ_URL
// events are only logged.
type EventsConfig struct {
	RabbitMQURL string `env:"RABBITMQ_URL"`
	Exchange    string `env:"RABBITMQ_EXCHANGE, default=jobboard.events"`
	Workers     int    `env:"EVENT_WORKERS,     default=4"`
}

// IsProduction reports whether ENV is "production".
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through lookuper, which lets tests supply a map.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "local":
	case "s3":
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when STORAGE_DRIVER=s3")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Geocoder.Provider == "mapquest" && c.Geocoder.APIKey == "" {
		return fmt.Errorf("GEOCODER_API_KEY is required for the mapquest provider")
	}
	if c.Upload.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive")
	}
	return nil
}
