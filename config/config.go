package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Model    ModelConfig
	MQTT     MQTTConfig
	Cache    CacheConfig
}

type ServerConfig struct {
	Port int
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins string
}

// ModelConfig points at the two artifacts loaded once at startup.
type ModelConfig struct {
	ModelPath    string
	FeaturesPath string
}

type MQTTConfig struct {
	Broker   string
	ClientID string
	Topic    string
	// LoadTTLSec bounds how long a load snapshot may be used to fill requests.
	LoadTTLSec int
}

func (m MQTTConfig) Enabled() bool { return m.Broker != "" }

type CacheConfig struct {
	EstimateTTLSec int
}

func (d DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// LoadConfig reads configuration from the environment. A .env file in the
// working directory is loaded first when present; real env vars win.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("ignoring .env: %v", err)
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			User:     getEnv("DB_USER", "eta"),
			Password: getEnv("DB_PASSWORD", "eta_dev_password"),
			Name:     getEnv("DB_NAME", "eta"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "change-me-in-production"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Model: ModelConfig{
			ModelPath:    getEnv("MODEL_PATH", "artifacts/model.yaml"),
			FeaturesPath: getEnv("FEATURES_PATH", "artifacts/final_features.json"),
		},
		MQTT: MQTTConfig{
			Broker:   getEnv("MQTT_BROKER", ""),
			ClientID: getEnv("MQTT_CLIENT_ID", "eta-api"),
			Topic:    getEnv("MQTT_LOAD_TOPIC", "eta/load/+"),
		},
	}

	intVars := []struct {
		key      string
		fallback int
		dst      *int
	}{
		{"SERVER_PORT", 8080, &cfg.Server.Port},
		{"DB_PORT", 5432, &cfg.Database.Port},
		{"JWT_EXPIRY_HOURS", 24, &cfg.JWT.ExpiryHours},
		{"REDIS_PORT", 6379, &cfg.Redis.Port},
		{"REDIS_DB", 0, &cfg.Redis.DB},
		{"MQTT_LOAD_TTL_SEC", 300, &cfg.MQTT.LoadTTLSec},
		{"CACHE_TTL_SEC", 60, &cfg.Cache.EstimateTTLSec},
	}
	for _, v := range intVars {
		n, err := getIntEnv(v.key, v.fallback)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", v.key, err)
		}
		*v.dst = n
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getIntEnv(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}
