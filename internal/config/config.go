package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Module provides the application configuration.
var Module = fx.Provide(Load)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string

	LogLevel  string
	LogFormat string

	// Source data locations handed to the storage collaborator.
	SongDataPath string
	LogDataPath  string

	DBType      string
	DBHost      string
	DBPort      string
	DBName      string
	DBUser      string
	DBPassword  string
	DBSSLMode   string
	DBMaxIdle   int
	DBMaxOpen   int

	// MatchEpsilon is the duration tolerance (seconds) used when matching a
	// play event against the song catalog.
	MatchEpsilon float64

	// ExtractWorkers bounds per-file parallelism inside each extractor.
	ExtractWorkers int

	// WriteBatchSize is the sink insert batch size.
	WriteBatchSize int

	// ResetTables drops and recreates the destination tables before a run.
	ResetTables bool
}

// Load loads configuration from environment variables and an optional .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "songlake"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "json"),

		SongDataPath: getenv("SONG_DATA_PATH", "data/song_data"),
		LogDataPath:  getenv("LOG_DATA_PATH", "data/log_data"),

		DBType:     getenv("DATABASE_TYPE", "postgres"),
		DBHost:     getenv("DATABASE_HOST", "localhost"),
		DBPort:     getenv("DATABASE_PORT", "5432"),
		DBName:     getenv("DATABASE_NAME", "sparkdw"),
		DBUser:     getenv("DATABASE_USER", "postgres"),
		DBPassword: getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:  getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdle:  getenvInt("DATABASE_MAX_IDLE_CONN", 2),
		DBMaxOpen:  getenvInt("DATABASE_MAX_OPEN_CONN", 10),

		MatchEpsilon:   getenvFloat("MATCH_EPSILON", 1e-6),
		ExtractWorkers: getenvInt("EXTRACT_WORKERS", 4),
		WriteBatchSize: getenvInt("WRITE_BATCH_SIZE", 500),
		ResetTables:    getenvBool("RESET_TABLES", true),
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
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed < 0 {
		return def
	}
	return parsed
}
