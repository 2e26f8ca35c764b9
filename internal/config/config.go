package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ServerPort  string
	Environment string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// SQLitePath enables the local fallback store when non-empty.
	SQLitePath string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	Location         *time.Location
	ResyncInterval   time.Duration
	CalendarCacheTTL time.Duration
	PersistQueueSize int
	RateLimit        int
	AllowedOrigins   []string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool
	ExportURLTTL   time.Duration
}

func Load() *Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	queueSize, _ := strconv.Atoi(getEnv("PERSIST_QUEUE_SIZE", "100"))
	rateLimit, _ := strconv.Atoi(getEnv("RATE_LIMIT", "100"))
	useSSL, _ := strconv.ParseBool(getEnv("MINIO_USE_SSL", "false"))

	return &Config{
		ServerPort:  getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "kanso"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "kanso_study"),

		SQLitePath: getEnv("SQLITE_PATH", ""),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,

		Location:         loadLocation(getEnv("TIMEZONE", "Local")),
		ResyncInterval:   getDuration("RESYNC_INTERVAL", time.Minute),
		CalendarCacheTTL: getDuration("CALENDAR_CACHE_TTL", 10*time.Minute),
		PersistQueueSize: max(queueSize, 1),
		RateLimit:        rateLimit,
		AllowedOrigins:   splitList(getEnv("CORS_ORIGINS", "")),

		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinIOBucket:    getEnv("MINIO_BUCKET", "study-snapshots"),
		MinIOUseSSL:    useSSL,
		ExportURLTTL:   getDuration("EXPORT_URL_TTL", 15*time.Minute),
	}
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Now is the process clock in the configured timezone. Every calendar-day
// computation goes through it.
func (c *Config) Now() time.Time {
	return time.Now().In(c.Location)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Invalid %s=%q, using %s", key, raw, defaultValue)
		return defaultValue
	}
	return d
}

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("Unknown TIMEZONE %q, falling back to local time: %v", name, err)
		return time.Local
	}
	return loc
}
