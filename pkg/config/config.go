package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                    string
	Env                     string
	FirebaseCredentialsPath string
	PostgresConnStr         string
	MongoURI                string
	MongoDatabase           string
	JWTSecret               string
	SessionTTL              time.Duration
	CacheBackend            string
	CacheTTL                time.Duration
	RedisHost               string
	RedisPort               string
	RedisPassword           string
	BadgerPath              string
	LogLevel                string
}

// Load reads configuration from the environment after layering the .env
// files for the current ENV: .env.<env>.local, .env.local, .env.<env>, .env.
// Earlier files win because godotenv never overrides a variable already set.
func Load() *Config {
	loadDotEnvs("")
	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "yatube"),
		JWTSecret:               getEnv("JWT_SECRET", ""),
		SessionTTL:              getDuration("SESSION_TTL", 72*time.Hour),
		CacheBackend:            getEnv("CACHE_BACKEND", "memory"),
		CacheTTL:                getDuration("CACHE_TTL", 20*time.Second),
		RedisHost:               getEnv("REDIS_HOST", "localhost"),
		RedisPort:               getEnv("REDIS_PORT", "6379"),
		RedisPassword:           getEnv("REDIS_PASSWD", ""),
		BadgerPath:              getEnv("BADGER_PATH", ""),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
	}
}

func loadDotEnvs(rootPath string) {
	env := os.Getenv("ENV")
	if env == "" {
		env = "development"
	}
	_ = godotenv.Load(rootPath + ".env." + env + ".local")
	_ = godotenv.Load(rootPath + ".env.local")
	_ = godotenv.Load(rootPath + ".env." + env)
	_ = godotenv.Load(rootPath + ".env")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultValue
}
