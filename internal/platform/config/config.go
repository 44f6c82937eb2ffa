package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIPort string
	JWTKey  []byte
	JWTExp  time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SyncQueueName          string
	SyncLockTTLSeconds     int
	SubmissionFetchLimit   int
	AdapterTimeoutSeconds  int
	MinSyncIntervalSeconds int
	AutoSyncIntervalMin    int
	SyncFanoutLimit        int
}

var AppConfig *Config

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = &Config{
		APIPort:    getEnv("API_PORT", "8080"),
		JWTKey:     []byte(getEnv("JWT_SECRET", "defaultsecret")),
		JWTExp:     time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 72)) * time.Hour,
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "user"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "algo_tracker_db"),
		DBSslMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		SyncQueueName:          getEnv("SYNC_QUEUE_NAME", "platform_sync_queue"),
		SyncLockTTLSeconds:     getEnvAsInt("SYNC_LOCK_TTL_SECONDS", 300),
		SubmissionFetchLimit:   getEnvAsInt("SUBMISSION_FETCH_LIMIT", 50),
		AdapterTimeoutSeconds:  getEnvAsInt("ADAPTER_TIMEOUT_SECONDS", 8),
		MinSyncIntervalSeconds: getEnvAsInt("MIN_SYNC_INTERVAL_SECONDS", 60),
		AutoSyncIntervalMin:    getEnvAsInt("AUTO_SYNC_INTERVAL_MINUTES", 30),
		SyncFanoutLimit:        getEnvAsInt("SYNC_FANOUT_LIMIT", 4),
	}

	AppConfig.DBConnStr = "host=" + AppConfig.DBHost +
		" port=" + AppConfig.DBPort +
		" user=" + AppConfig.DBUser +
		" password=" + AppConfig.DBPassword +
		" dbname=" + AppConfig.DBName +
		" sslmode=" + AppConfig.DBSslMode
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
