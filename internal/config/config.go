package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config captures the settings required to boot the fare analytics service.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Acquisition   AcquisitionConfig   `yaml:"acquisition"`
	Aviationstack AviationstackConfig `yaml:"aviationstack"`
	Narrative     NarrativeConfig     `yaml:"narrative"`
	Cache         CacheConfig         `yaml:"cache"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	GracefulTimeout time.Duration `yaml:"gracefulTimeout"`
}

// AcquisitionConfig selects the fare data source and its bounds.
type AcquisitionConfig struct {
	DefaultSource  string `yaml:"defaultSource"`
	MaxDaysAhead   int    `yaml:"maxDaysAhead"`
	FallbackToMock bool   `yaml:"fallbackToMock"`
	MockSeed       int64  `yaml:"mockSeed"`
}

// AviationstackConfig configures access to the Aviationstack flights API.
type AviationstackConfig struct {
	BaseURL  string        `yaml:"baseURL"`
	APIKey   string        `yaml:"apiKey"`
	Timeout  time.Duration `yaml:"timeout"`
	CacheTTL time.Duration `yaml:"cacheTTL"`
}

// NarrativeConfig configures the OpenAI-compatible commentary backend.
type NarrativeConfig struct {
	Endpoint string        `yaml:"endpoint"`
	APIKey   string        `yaml:"apiKey"`
	Model    string        `yaml:"model"`
	Timeout  time.Duration `yaml:"timeout"`
}

// CacheConfig controls caching of acquisition responses. Backend is one of
// "none", "memory" or "redis".
type CacheConfig struct {
	Backend    string        `yaml:"backend"`
	MaxEntries int           `yaml:"maxEntries"`
	TTL        time.Duration `yaml:"ttl"`
	Redis      RedisConfig   `yaml:"redis"`
}

// RedisConfig holds connection parameters for a shared Redis cache.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Load initialises Config from an optional .env file, a YAML file and
// environment overrides, in that order.
func Load(path string) (*Config, error) {
	// A missing .env file is fine; explicit env vars still apply.
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv("FARE_ANALYTICS_CONFIG")
	}

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Address:         ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			GracefulTimeout: 10 * time.Second,
		},
		Acquisition: AcquisitionConfig{
			DefaultSource:  "mock",
			MaxDaysAhead:   30,
			FallbackToMock: true,
		},
		Aviationstack: AviationstackConfig{
			BaseURL:  "http://api.aviationstack.com/v1",
			Timeout:  15 * time.Second,
			CacheTTL: 10 * time.Minute,
		},
		Narrative: NarrativeConfig{
			Endpoint: "https://api.openai.com",
			Model:    "gpt-3.5-turbo",
			Timeout:  30 * time.Second,
		},
		Cache: CacheConfig{
			Backend:    "memory",
			MaxEntries: 256,
			TTL:        10 * time.Minute,
		},
		Logging: LoggingConfig{Level: "info", JSON: false},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FARE_ANALYTICS_SERVER_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("FARE_ANALYTICS_DEFAULT_SOURCE"); v != "" {
		cfg.Acquisition.DefaultSource = v
	}
	if v := os.Getenv("FARE_ANALYTICS_MAX_DAYS_AHEAD"); v != "" {
		if days, err := strconv.Atoi(v); err == nil {
			cfg.Acquisition.MaxDaysAhead = days
		}
	}
	if v := os.Getenv("FARE_ANALYTICS_FALLBACK_TO_MOCK"); v != "" {
		cfg.Acquisition.FallbackToMock = strings.EqualFold(v, "true") || v == "1"
	}
	if v := os.Getenv("FARE_ANALYTICS_MOCK_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Acquisition.MockSeed = seed
		}
	}
	if v := os.Getenv("AVIATIONSTACK_API_KEY"); v != "" {
		cfg.Aviationstack.APIKey = v
	}
	if v := os.Getenv("AVIATIONSTACK_BASE_URL"); v != "" {
		cfg.Aviationstack.BaseURL = v
	}
	if v := os.Getenv("AVIATIONSTACK_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Aviationstack.Timeout = d
		}
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Narrative.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.Narrative.Endpoint = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.Narrative.Model = v
	}
	if v := os.Getenv("FARE_ANALYTICS_CACHE_BACKEND"); v != "" {
		cfg.Cache.Backend = v
	}
	if v := os.Getenv("FARE_ANALYTICS_CACHE_MAX_ENTRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Cache.MaxEntries = n
		}
	}
	if v := os.Getenv("FARE_ANALYTICS_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = d
		}
	}
	if v := os.Getenv("FARE_ANALYTICS_REDIS_ADDR"); v != "" {
		cfg.Cache.Redis.Addr = v
	}
	if v := os.Getenv("FARE_ANALYTICS_REDIS_USERNAME"); v != "" {
		cfg.Cache.Redis.Username = v
	}
	if v := os.Getenv("FARE_ANALYTICS_REDIS_PASSWORD"); v != "" {
		cfg.Cache.Redis.Password = v
	}
	if v := os.Getenv("FARE_ANALYTICS_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Cache.Redis.DB = db
		}
	}
	if v := os.Getenv("FARE_ANALYTICS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("FARE_ANALYTICS_LOG_FORMAT"); v == "json" {
		cfg.Logging.JSON = true
	}
}

func validate(cfg *Config) error {
	switch cfg.Acquisition.DefaultSource {
	case "mock", "aviationstack":
	default:
		return fmt.Errorf("unsupported default source %q", cfg.Acquisition.DefaultSource)
	}
	switch cfg.Cache.Backend {
	case "none", "memory", "redis":
	default:
		return fmt.Errorf("unsupported cache backend %q", cfg.Cache.Backend)
	}
	if cfg.Cache.Backend == "redis" && cfg.Cache.Redis.Addr == "" {
		return fmt.Errorf("cache backend redis requires an address")
	}
	if cfg.Acquisition.MaxDaysAhead <= 0 {
		cfg.Acquisition.MaxDaysAhead = 30
	}
	return nil
}
