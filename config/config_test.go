package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/blogql-go/config"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "blog", cfg.Mongo.DBName)
	assert.Equal(t, time.Hour, cfg.Auth.TokenDuration)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "images", cfg.Upload.ImageDir)
	assert.Equal(t, time.Hour, cfg.Upload.SweepInterval)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("MONGO_DB_NAME", "blog_test")
	t.Setenv("JWT_TOKEN_DURATION", "30m")
	t.Setenv("PORT", "9090")
	t.Setenv("IMAGE_SWEEP_INTERVAL", "0s")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "blog_test", cfg.Mongo.DBName)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenDuration)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Zero(t, cfg.Upload.SweepInterval)
}

func TestLoad_MissingRequiredAggregated(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGO_URI")
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_BadDuration(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_TOKEN_DURATION", "soon")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_TOKEN_DURATION")
}
