package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds the application configuration. Constructors receive the values
// they need from here explicitly; nothing reads the environment after Load.
type Config struct {
	ServerPort    int
	DatabasePath  string
	DataRoot      string // Base path for all persisted state
	UserFilesDir  string // <DataRoot>/userFiles, one subdirectory per namespace
	SnapshotDir   string // <DataRoot>/snapshots
	JWTSecret     string
	TokenTTL      time.Duration
	SnapshotCron  string // Standard cron expression; empty disables scheduled snapshots
	AllowedOrigin string
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	ttlStr := getEnv("TOKEN_TTL_HOURS", "168")
	ttlHours, err := strconv.Atoi(ttlStr)
	if err != nil {
		return nil, err
	}

	dataRoot := getEnv("DATA_DIR", "./notes-data")

	return &Config{
		ServerPort:    port,
		DatabasePath:  getEnv("DATABASE_PATH", filepath.Join(dataRoot, "notedeck.db")),
		DataRoot:      dataRoot,
		UserFilesDir:  filepath.Join(dataRoot, "userFiles"),
		SnapshotDir:   filepath.Join(dataRoot, "snapshots"),
		JWTSecret:     getEnv("JWT_SECRET", "development-secret"),
		TokenTTL:      time.Duration(ttlHours) * time.Hour,
		SnapshotCron:  getEnv("SNAPSHOT_CRON", "0 3 * * *"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
