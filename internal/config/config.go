package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	AdminAPIKey string

	OTLPEndpoint string
	// OTLPProtocol selects the exporter transport: "grpc" or "http".
	OTLPProtocol   string
	TracingEnabled bool

	Currency string

	SeedData          bool
	SimulatorEnabled  bool
	SimulatorInterval time.Duration

	ExportRateLimit  int
	ExportRateWindow time.Duration
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")
	dev := isDevEnv(environment)

	cfg := Config{
		AppName:           getenv("APP_SERVICE", "console"),
		AppVersion:        getenv("APP_VERSION", "0.1.0"),
		Environment:       environment,
		HTTPAddr:          getenv("HTTP_ADDR", ":8080"),
		AdminAPIKey:       strings.TrimSpace(getenv("ADMIN_API_KEY", "")),
		OTLPEndpoint:      getenv("OTLP_ENDPOINT", "localhost:4317"),
		OTLPProtocol:      strings.ToLower(getenv("OTLP_PROTOCOL", "grpc")),
		TracingEnabled:    getenvBool("TRACING_ENABLED", !dev),
		Currency:          strings.ToUpper(getenv("CURRENCY", "INR")),
		SeedData:          getenvBool("SEED_DATA", dev),
		SimulatorEnabled:  getenvBool("SIMULATOR_ENABLED", dev),
		SimulatorInterval: getenvDuration("SIMULATOR_INTERVAL", 30*time.Second),
		ExportRateLimit:   getenvInt("EXPORT_RATE_LIMIT", 30),
		ExportRateWindow:  getenvDuration("EXPORT_RATE_WINDOW", time.Minute),
	}

	return cfg
}

func (c Config) IsDevelopment() bool {
	return isDevEnv(c.Environment)
}

func isDevEnv(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}
