package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL       string
	Port              string
	SOCAPIURL         string
	AuthJWTSecret     string
	SyncBatchSize     int
	SyncMaxConcurrent int
	FetchTimeout      int // seconds
	StaleAfter        int // seconds without progress before a job is failed
	SweepInterval     int // seconds
	DispatcherWorkers int
	ShutdownTimeout   int // seconds
}

// DefaultSOCAPIURL is the SOC "exportadados" web service endpoint.
const DefaultSOCAPIURL = "https://ws1.soc.com.br/WebSoc/exportadados"

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error in production)
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	jwtSecret := os.Getenv("AUTH_JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("AUTH_JWT_SECRET is required")
	}

	socURL := os.Getenv("SOC_API_URL")
	if socURL == "" {
		socURL = DefaultSOCAPIURL
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return &Config{
		DatabaseURL:       dbURL,
		Port:              port,
		SOCAPIURL:         socURL,
		AuthJWTSecret:     jwtSecret,
		SyncBatchSize:     intEnv("SYNC_BATCH_SIZE", 100),
		SyncMaxConcurrent: intEnv("SYNC_MAX_CONCURRENT", 5),
		FetchTimeout:      intEnv("SYNC_FETCH_TIMEOUT", 120),
		StaleAfter:        intEnv("SYNC_STALE_AFTER", 600),
		SweepInterval:     intEnv("SYNC_SWEEP_INTERVAL", 60),
		DispatcherWorkers: intEnv("DISPATCHER_WORKERS", 4),
		ShutdownTimeout:   intEnv("SHUTDOWN_TIMEOUT", 30),
	}, nil
}

// intEnv reads an integer env var, falling back to def when unset or invalid.
func intEnv(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		fmt.Printf("Warning: invalid %s=%q, using default %d\n", key, raw, def)
		return def
	}
	return n
}
