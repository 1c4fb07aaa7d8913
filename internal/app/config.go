package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/mindmap-backend/internal/data/db"
	"github.com/yungbote/mindmap-backend/internal/observability"
	"github.com/yungbote/mindmap-backend/internal/platform/envutil"
	"github.com/yungbote/mindmap-backend/internal/platform/neo4jdb"
	"github.com/yungbote/mindmap-backend/internal/platform/openai"
	"github.com/yungbote/mindmap-backend/internal/platform/rediscache"
	"github.com/yungbote/mindmap-backend/internal/services"
)

const configFileEnv = "MINDMAP_CONFIG_FILE"

type Config struct {
	ServiceName     string        `yaml:"service_name"`
	Environment     string        `yaml:"environment"`
	Version         string        `yaml:"version"`
	Port            string        `yaml:"port"`
	LogMode         string        `yaml:"log_mode"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORSOrigins     []string      `yaml:"cors_allowed_origins"`

	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Neo4j    Neo4jConfig    `yaml:"neo4j"`
	OpenAI   OpenAIConfig   `yaml:"openai"`
	Auth     AuthConfig     `yaml:"auth"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Tracing  TracingConfig  `yaml:"tracing"`
}

type DatabaseConfig struct {
	Driver     string `yaml:"driver"`
	Host       string `yaml:"host"`
	Port       string `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	Name       string `yaml:"name"`
	SSLMode    string `yaml:"sslmode"`
	SQLitePath string `yaml:"sqlite_path"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type Neo4jConfig struct {
	URI      string `yaml:"uri"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type OpenAIConfig struct {
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	Model       string        `yaml:"model"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxRetries  int           `yaml:"max_retries"`
	Temperature *float64      `yaml:"temperature"`
}

type AuthConfig struct {
	JWTSecretKey string `yaml:"jwt_secret_key"`
	Issuer       string `yaml:"issuer"`
	Disabled     bool   `yaml:"disabled"`
}

type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"`
	Headers     string  `yaml:"headers"`
	Insecure    bool    `yaml:"insecure"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

func defaultConfig() Config {
	temp := 0.2
	return Config{
		ServiceName:     "mindmap",
		Environment:     "development",
		Port:            "8080",
		LogMode:         "development",
		ShutdownTimeout: 15 * time.Second,
		Database: DatabaseConfig{
			Driver: db.DriverPostgres,
			Host:   "localhost",
			Port:   "5432",
			User:   "postgres",
			Name:   "mindmap",
		},
		Redis: RedisConfig{Prefix: "mindmap:", CacheTTL: 15 * time.Minute},
		OpenAI: OpenAIConfig{
			BaseURL:     "https://api.openai.com",
			Model:       "gpt-4.1-mini",
			Timeout:     180 * time.Second,
			MaxRetries:  3,
			Temperature: &temp,
		},
		Auth:    AuthConfig{Issuer: "mindmap"},
		Metrics: MetricsConfig{Namespace: "mindmap"},
		Tracing: TracingConfig{SampleRatio: 1},
	}
}

// LoadConfig layers defaults, then the YAML file named by MINDMAP_CONFIG_FILE, then
// environment variables. Later layers win.
func LoadConfig() (Config, error) {
	cfg := defaultConfig()
	if path := strings.TrimSpace(os.Getenv(configFileEnv)); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.ServiceName = envutil.String("SERVICE_NAME", cfg.ServiceName)
	cfg.Environment = envutil.String("APP_ENV", cfg.Environment)
	cfg.Version = envutil.String("APP_VERSION", cfg.Version)
	cfg.Port = envutil.String("PORT", cfg.Port)
	cfg.LogMode = envutil.String("LOG_MODE", cfg.LogMode)
	cfg.ShutdownTimeout = envutil.Seconds("SHUTDOWN_TIMEOUT_SECONDS", cfg.ShutdownTimeout)
	cfg.CORSOrigins = envutil.List("CORS_ALLOWED_ORIGINS", cfg.CORSOrigins)

	cfg.Database.Driver = envutil.String("DB_DRIVER", cfg.Database.Driver)
	cfg.Database.Host = envutil.String("POSTGRES_HOST", cfg.Database.Host)
	cfg.Database.Port = envutil.String("POSTGRES_PORT", cfg.Database.Port)
	cfg.Database.User = envutil.String("POSTGRES_USER", cfg.Database.User)
	cfg.Database.Password = envutil.String("POSTGRES_PASSWORD", cfg.Database.Password)
	cfg.Database.Name = envutil.String("POSTGRES_NAME", cfg.Database.Name)
	cfg.Database.SSLMode = envutil.String("POSTGRES_SSLMODE", cfg.Database.SSLMode)
	cfg.Database.SQLitePath = envutil.String("SQLITE_PATH", cfg.Database.SQLitePath)

	cfg.Redis.Addr = envutil.String("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = envutil.String("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = envutil.Int("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.Prefix = envutil.String("REDIS_PREFIX", cfg.Redis.Prefix)
	cfg.Redis.CacheTTL = envutil.Seconds("MINDMAP_CACHE_TTL_SECONDS", cfg.Redis.CacheTTL)

	cfg.Neo4j.URI = envutil.String("NEO4J_URI", cfg.Neo4j.URI)
	cfg.Neo4j.User = envutil.String("NEO4J_USER", cfg.Neo4j.User)
	cfg.Neo4j.Password = envutil.String("NEO4J_PASSWORD", cfg.Neo4j.Password)
	cfg.Neo4j.Database = envutil.String("NEO4J_DATABASE", cfg.Neo4j.Database)

	cfg.OpenAI.APIKey = envutil.String("OPENAI_API_KEY", cfg.OpenAI.APIKey)
	cfg.OpenAI.BaseURL = envutil.String("OPENAI_BASE_URL", cfg.OpenAI.BaseURL)
	cfg.OpenAI.Model = envutil.String("OPENAI_MODEL", cfg.OpenAI.Model)
	cfg.OpenAI.Timeout = envutil.Seconds("OPENAI_TIMEOUT_SECONDS", cfg.OpenAI.Timeout)
	cfg.OpenAI.MaxRetries = envutil.Int("OPENAI_MAX_RETRIES", cfg.OpenAI.MaxRetries)
	if raw := strings.TrimSpace(os.Getenv("OPENAI_TEMPERATURE")); raw != "" {
		if raw == "off" {
			cfg.OpenAI.Temperature = nil
		} else if f, err := strconv.ParseFloat(raw, 64); err == nil {
			cfg.OpenAI.Temperature = &f
		}
	}

	cfg.Auth.JWTSecretKey = envutil.String("JWT_SECRET_KEY", cfg.Auth.JWTSecretKey)
	cfg.Auth.Issuer = envutil.String("JWT_ISSUER", cfg.Auth.Issuer)
	cfg.Auth.Disabled = envutil.Bool("AUTH_DISABLED", cfg.Auth.Disabled)

	cfg.Metrics.Enabled = envutil.Bool("METRICS_ENABLED", cfg.Metrics.Enabled)
	cfg.Metrics.Namespace = envutil.String("METRICS_NAMESPACE", cfg.Metrics.Namespace)

	cfg.Tracing.Enabled = envutil.Bool("OTEL_ENABLED", cfg.Tracing.Enabled)
	cfg.Tracing.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Tracing.Endpoint)
	cfg.Tracing.Headers = envutil.String("OTEL_EXPORTER_OTLP_HEADERS", cfg.Tracing.Headers)
	cfg.Tracing.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", cfg.Tracing.Insecure)
	cfg.Tracing.SampleRatio = envutil.Float("OTEL_TRACES_SAMPLER_RATIO", cfg.Tracing.SampleRatio)
}

func (c Config) validate() error {
	switch strings.ToLower(c.Database.Driver) {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		return fmt.Errorf("config: unknown database driver %q", c.Database.Driver)
	}
	if !c.Auth.Disabled && strings.TrimSpace(c.Auth.JWTSecretKey) == "" {
		return fmt.Errorf("config: JWT_SECRET_KEY is required unless AUTH_DISABLED=true")
	}
	return nil
}

func (c Config) DB() db.Config {
	return db.Config{
		Driver:           c.Database.Driver,
		PostgresHost:     c.Database.Host,
		PostgresPort:     c.Database.Port,
		PostgresUser:     c.Database.User,
		PostgresPassword: c.Database.Password,
		PostgresName:     c.Database.Name,
		PostgresSSLMode:  c.Database.SSLMode,
		SQLitePath:       c.Database.SQLitePath,
	}
}

func (c Config) RedisCache() rediscache.Config {
	return rediscache.Config{
		Addr:     c.Redis.Addr,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
		Prefix:   c.Redis.Prefix,
	}
}

func (c Config) Neo4jDB() neo4jdb.Config {
	return neo4jdb.Config{
		URI:      c.Neo4j.URI,
		User:     c.Neo4j.User,
		Password: c.Neo4j.Password,
		Database: c.Neo4j.Database,
	}
}

func (c Config) OpenAIClient() openai.Config {
	return openai.Config{
		APIKey:      c.OpenAI.APIKey,
		BaseURL:     c.OpenAI.BaseURL,
		Model:       c.OpenAI.Model,
		Timeout:     c.OpenAI.Timeout,
		MaxRetries:  c.OpenAI.MaxRetries,
		Temperature: c.OpenAI.Temperature,
		Breaker:     openai.DefaultBreakerConfig(),
	}
}

func (c Config) AuthService() services.AuthConfig {
	return services.AuthConfig{
		SecretKey: c.Auth.JWTSecretKey,
		Issuer:    c.Auth.Issuer,
		Disabled:  c.Auth.Disabled,
	}
}

func (c Config) Otel() observability.OtelConfig {
	return observability.OtelConfig{
		Enabled:     c.Tracing.Enabled,
		ServiceName: c.ServiceName,
		Environment: c.Environment,
		Version:     c.Version,
		Endpoint:    c.Tracing.Endpoint,
		Headers:     observability.ParseHeaders(c.Tracing.Headers),
		Insecure:    c.Tracing.Insecure,
		SampleRatio: c.Tracing.SampleRatio,
	}
}
