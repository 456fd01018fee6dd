package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the enrichment daemon.
//
// Fields:
// - Env: The current environment (local, development, production).
// - Port: The port for the monitoring server.
// - BaseURL: The postcodes.io base URL.
// - Timeout: HTTP timeout for a single postcodes.io call.
// - Workers: The number of concurrent workers resolving tasks.
// - Interval: The duration between polls of the task table.
// - BatchSize: The maximum number of tasks fetched per poll.
// - RateLimit: Outbound requests per second shared by all workers.
// - GeocoderType: Fallback geocoder for tasks without a postcode (google, nominatim, none).
// - GeocoderAPIKey: API key for the fallback geocoder (required for Google).
// - Database: Configuration settings for the PostgreSQL database.
type Config struct {
	Env            string
	Port           int
	BaseURL        string
	Timeout        time.Duration
	Workers        int
	Interval       time.Duration
	BatchSize      int
	RateLimit      float64
	GeocoderType   string
	GeocoderAPIKey string
	Database       PostgresConfig
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     string // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Name     string // Name is the name of the database.
}

// nominatimRateLimit is the maximum request rate allowed by the Nominatim usage policy.
const nominatimRateLimit = "1"

// defaultRateLimit returns the outbound requests per second used when none is configured.
func defaultRateLimit(geocoderType string) string {
	if geocoderType == "nominatim" {
		return nominatimRateLimit
	}
	return "10"
}

// MustLoad reads an optional .env file, then the environment, and returns the
// resulting Config. It panics when a numeric or duration value is malformed.
func MustLoad() *Config {
	envFile, ok := os.LookupEnv("POSTCODES_ENV_FILE")
	if !ok {
		envFile = ".env"
	}
	_ = godotenv.Load(envFile)

	vpr := viper.New()
	vpr.SetEnvPrefix("POSTCODES")
	vpr.AutomaticEnv()

	vpr.SetDefault("env", "production")
	vpr.SetDefault("health_port", "8080")
	vpr.SetDefault("base_url", "https://api.postcodes.io")
	vpr.SetDefault("timeout", "10s")
	vpr.SetDefault("workers", "4")
	vpr.SetDefault("interval", "1m")
	vpr.SetDefault("batch_size", "100")
	vpr.SetDefault("geocoder_type", "nominatim")
	vpr.SetDefault("rate_limit", defaultRateLimit(vpr.GetString("geocoder_type")))
	vpr.SetDefault("db.port", "5432")

	_ = vpr.BindEnv("db.host", "DB_HOST")
	_ = vpr.BindEnv("db.port", "DB_PORT")
	_ = vpr.BindEnv("db.user", "DB_USERNAME")
	_ = vpr.BindEnv("db.password", "DB_PASSWORD")
	_ = vpr.BindEnv("db.name", "DB_NAME")

	interval, err := time.ParseDuration(vpr.GetString("interval"))
	if err != nil {
		panic("failed to parse interval from configuration")
	}

	timeout, err := time.ParseDuration(vpr.GetString("timeout"))
	if err != nil {
		panic("failed to parse timeout from configuration")
	}

	healthPort, err := strconv.Atoi(vpr.GetString("health_port"))
	if err != nil {
		panic("failed to parse port for monitoring server from configuration")
	}

	workers, err := strconv.Atoi(vpr.GetString("workers"))
	if err != nil || workers < 1 {
		panic("failed to parse workers from configuration, must be a positive integer")
	}

	batchSize, err := strconv.Atoi(vpr.GetString("batch_size"))
	if err != nil || batchSize < 1 {
		panic("failed to parse batch size from configuration, must be a positive integer")
	}

	rateLimit, err := strconv.ParseFloat(vpr.GetString("rate_limit"), 64)
	if err != nil {
		panic("failed to parse rate limit from configuration")
	}

	return &Config{
		Env:            vpr.GetString("env"),
		Port:           healthPort,
		BaseURL:        vpr.GetString("base_url"),
		Timeout:        timeout,
		Workers:        workers,
		Interval:       interval,
		BatchSize:      batchSize,
		RateLimit:      rateLimit,
		GeocoderType:   vpr.GetString("geocoder_type"),
		GeocoderAPIKey: vpr.GetString("geocoder_api_key"),
		Database: PostgresConfig{
			Host:     vpr.GetString("db.host"),
			Port:     vpr.GetString("db.port"),
			User:     vpr.GetString("db.user"),
			Password: vpr.GetString("db.password"),
			Name:     vpr.GetString("db.name"),
		},
	}
}
