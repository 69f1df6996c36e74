// Package config loads and validates application configuration from
// environment variables. Required variables and parse failures are collected
// and reported together so a misconfigured deployment fails with one message
// listing everything that is wrong.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// MongoConfig holds the document store connection settings.
type MongoConfig struct {
	URI    string
	DBName string
}

// AuthConfig holds token signing settings.
type AuthConfig struct {
	JWTSecret     string
	TokenDuration time.Duration
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port string
}

// UploadConfig holds image upload settings.
type UploadConfig struct {
	// ImageDir is where uploaded images are stored and served from.
	ImageDir string
	// SweepInterval controls the unreferenced-image sweeper; 0 disables it.
	SweepInterval time.Duration
}

// AppConfig is the top-level configuration for the application.
type AppConfig struct {
	Mongo  *MongoConfig
	Auth   *AuthConfig
	Server *ServerConfig
	Upload *UploadConfig
}

func getRequiredEnv(key string, errs *[]string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		*errs = append(*errs, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getOptionalEnvDuration(key string, defaultValue time.Duration, errs *[]string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s: expected duration string, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueDuration
}

// Load reads configuration from the environment. All errors encountered are
// aggregated into a single error.
func Load() (*AppConfig, error) {
	var errs []string

	mongoURI := getRequiredEnv("MONGO_URI", &errs)
	mongoDBName := getOptionalEnv("MONGO_DB_NAME", "blog")

	jwtSecret := getRequiredEnv("JWT_SECRET", &errs)
	tokenDuration := getOptionalEnvDuration("JWT_TOKEN_DURATION", time.Hour, &errs)

	serverPort := getOptionalEnv("PORT", "8080")

	imageDir := getOptionalEnv("IMAGE_DIR", "images")
	sweepInterval := getOptionalEnvDuration("IMAGE_SWEEP_INTERVAL", time.Hour, &errs)

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errs, "\n- "))
	}

	return &AppConfig{
		Mongo:  &MongoConfig{URI: mongoURI, DBName: mongoDBName},
		Auth:   &AuthConfig{JWTSecret: jwtSecret, TokenDuration: tokenDuration},
		Server: &ServerConfig{Port: serverPort},
		Upload: &UploadConfig{ImageDir: imageDir, SweepInterval: sweepInterval},
	}, nil
}
