package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Supported values for STORE_DRIVER.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	ServerPort      string
	ShutdownTimeout time.Duration

	StoreDriver   string
	MongoURI      string
	MongoDatabase string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	CORSAllowedOrigin string
	BcryptCost        int

	LogLevel  string
	LogFormat string
}

// Load reads the dotenv file (if any) and builds a Config from the environment.
// With no arguments it loads ".env" from the working directory.
func Load(envFiles ...string) *Config {
	if err := godotenv.Load(envFiles...); err != nil {
		slog.Warn("no .env file found, using system environment variables")
	}

	return &Config{
		ServerPort:      getEnv("SERVER_PORT", "8000"),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 5*time.Second),

		StoreDriver:   getEnv("STORE_DRIVER", DriverMongo),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "taskify"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "taskify"),
		DBPassword: getEnv("DB_PASSWORD", "taskify"),
		DBName:     getEnv("DB_NAME", "taskify"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "taskify.db"),

		CORSAllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "https://taskifyhimanshu.vercel.app"),
		BcryptCost:        getInt("BCRYPT_COST", bcrypt.DefaultCost),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", raw)
		return defaultVal
	}
	return v
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", raw)
		return defaultVal
	}
	return v
}
