package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// app config; file values are optional and environment variables win
type Config struct {
	Port           string        `yaml:"port"`
	LogLevel       string        `yaml:"log_level"`
	APIBase        string        `yaml:"api_base"`
	HTTPTimeout    time.Duration `yaml:"http_timeout"`
	AllowedOrigins []string      `yaml:"allowed_origins"`

	Cache  CacheConfig  `yaml:"cache"`
	Redis  RedisConfig  `yaml:"redis"`
	Warmer WarmerConfig `yaml:"warmer"`
}

type CacheConfig struct {
	Backend string        `yaml:"backend"`
	TTL     time.Duration `yaml:"ttl"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type WarmerConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Schedule string   `yaml:"schedule"`
	RunIDs   []string `yaml:"run_ids"`
}

func defaults() *Config {
	return &Config{
		Port:           "8080",
		LogLevel:       "info",
		APIBase:        "http://localhost:8000",
		HTTPTimeout:    10 * time.Second,
		AllowedOrigins: []string{"http://localhost:3000"},
		Cache: CacheConfig{
			Backend: CacheBackendMemory,
			TTL:     30 * time.Second,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Warmer: WarmerConfig{
			Schedule: "*/5 * * * *",
		},
	}
}

// loads configuration from PU_CONFIG_FILE (if set) and environment variables
func LoadConfig() (*Config, error) {
	config := defaults()

	if path := os.Getenv("PU_CONFIG_FILE"); path != "" {
		if err := loadFile(path, config); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(config); err != nil {
		return nil, err
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func loadFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(config *Config) error {
	config.Port = getEnvOrDefault("PORT", config.Port)
	config.LogLevel = getEnvOrDefault("LOG_LEVEL", config.LogLevel)
	config.APIBase = strings.TrimRight(getEnvOrDefault("PU_API_BASE", config.APIBase), "/")
	config.Cache.Backend = strings.ToLower(getEnvOrDefault("PU_CACHE_BACKEND", config.Cache.Backend))
	config.Redis.Addr = getEnvOrDefault("REDIS_ADDR", config.Redis.Addr)
	config.Redis.Password = getEnvOrDefault("REDIS_PASSWORD", config.Redis.Password)
	config.Warmer.Schedule = getEnvOrDefault("PU_WARM_SCHEDULE", config.Warmer.Schedule)

	var err error
	if config.HTTPTimeout, err = getEnvDuration("PU_HTTP_TIMEOUT", config.HTTPTimeout); err != nil {
		return err
	}
	if config.Cache.TTL, err = getEnvDuration("PU_CACHE_TTL", config.Cache.TTL); err != nil {
		return err
	}
	if val := os.Getenv("REDIS_DB"); val != "" {
		db, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB %q: %w", val, err)
		}
		config.Redis.DB = db
	}
	if val := os.Getenv("PU_WARM_ENABLED"); val != "" {
		config.Warmer.Enabled = val == "true"
	}
	if val := os.Getenv("PU_WARM_RUN_IDS"); val != "" {
		config.Warmer.RunIDs = splitList(val)
	}
	if val := os.Getenv("PU_ALLOWED_ORIGINS"); val != "" {
		config.AllowedOrigins = splitList(val)
	}
	return nil
}

func validateConfig(config *Config) error {
	base, err := url.Parse(config.APIBase)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return errors.New("invalid PU_API_BASE: " + config.APIBase)
	}
	if config.Cache.Backend != CacheBackendMemory && config.Cache.Backend != CacheBackendRedis {
		return errors.New("unsupported cache backend: " + config.Cache.Backend + ". Currently supported: memory, redis")
	}
	if config.HTTPTimeout <= 0 {
		return errors.New("PU_HTTP_TIMEOUT must be positive")
	}
	if config.Cache.TTL < 0 {
		return errors.New("PU_CACHE_TTL must not be negative")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
