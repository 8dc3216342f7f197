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
)

type Config struct {
	AppEnv         string
	Port           string
	RequestTimeout time.Duration

	Cache     CacheConfig
	Redis     RedisConfig
	Providers ProviderConfig
	Graph     GraphConfig
	Amadeus   AmadeusConfig
	Telemetry TelemetryConfig
}

type CacheConfig struct {
	Enabled    bool
	TTL        time.Duration
	MemorySize int
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type ProviderConfig struct {
	Timeout    time.Duration
	MaxRetries int
}

type GraphConfig struct {
	MaxPairs    int
	Concurrency int
}

type AmadeusConfig struct {
	APIKey    string
	APISecret string
	BaseURL   string
	RPS       float64
	Burst     int
}

type TelemetryConfig struct {
	Enabled      bool
	OTLPEndpoint string
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads the given env files (".env" when none are named) into the
// process environment and builds the configuration from it. Missing files are
// skipped. Every malformed value is reported.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed load env file %s: %w", f, err)
		}
	}

	var errs []error
	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 15*time.Second, &errs),
		Cache: CacheConfig{
			Enabled:    getEnvBool("CACHE_ENABLED", true, &errs),
			TTL:        getEnvDuration("CACHE_TTL", 5*time.Minute, &errs),
			MemorySize: getEnvInt("MEMORY_CACHE_SIZE", 200, &errs),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0, &errs),
		},
		Providers: ProviderConfig{
			Timeout:    getEnvDuration("PROVIDER_TIMEOUT", 8*time.Second, &errs),
			MaxRetries: getEnvInt("PROVIDER_MAX_RETRIES", 1, &errs),
		},
		Graph: GraphConfig{
			MaxPairs:    getEnvInt("GRAPH_MAX_PAIRS", 60, &errs),
			Concurrency: getEnvInt("GRAPH_CONCURRENCY", 16, &errs),
		},
		Amadeus: AmadeusConfig{
			APIKey:    getEnv("AMADEUS_API_KEY", ""),
			APISecret: getEnv("AMADEUS_API_SECRET", ""),
			BaseURL:   getEnv("AMADEUS_BASE_URL", "https://test.api.amadeus.com"),
			RPS:       getEnvFloat("AMADEUS_RPS", 10, &errs),
			Burst:     getEnvInt("AMADEUS_BURST", 20, &errs),
		},
		Telemetry: TelemetryConfig{
			Enabled:      getEnvBool("OTEL_ENABLED", false, &errs),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		},
	}

	if cfg.Providers.MaxRetries < 0 {
		errs = append(errs, errors.New("PROVIDER_MAX_RETRIES must not be negative"))
	}
	if cfg.Cache.MemorySize <= 0 {
		errs = append(errs, errors.New("MEMORY_CACHE_SIZE must be positive"))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool, errs *[]error) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch value {
	case "":
		return defaultValue
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	*errs = append(*errs, fmt.Errorf("invalid bool env %s: %q", key, value))
	return defaultValue
}

func getEnvInt(key string, defaultValue int, errs *[]error) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid int env %s: %w", key, err))
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64, errs *[]error) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid float env %s: %w", key, err))
		return defaultValue
	}
	return f
}

func getEnvDuration(key string, defaultValue time.Duration, errs *[]error) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid duration env %s: %w", key, err))
		return defaultValue
	}
	return d
}
