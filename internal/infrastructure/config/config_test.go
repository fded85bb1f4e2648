package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := defaultConfig()

	assert.Equal(t, "analytics-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "myfrido", cfg.App.DefaultStore)
	assert.Equal(t, "localhost:6379", cfg.Cache.Addr())
	assert.Equal(t, 30*time.Minute, cfg.Cache.DefaultTTL)
	assert.Equal(t, 25, cfg.Import.BatchSize)
	assert.Equal(t, 5, cfg.Import.MaxRetries)
	assert.Equal(t, "Orders", cfg.Dynamo.OrdersTable)
	assert.Equal(t, "SyncMetadata", cfg.Dynamo.SyncTable)
	assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
}

func TestValidate_BatchSizeCeiling(t *testing.T) {
	cfg := defaultConfig()
	cfg.Import.BatchSize = 26

	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch_size")
}

func TestValidate_ProductionRequiresProject(t *testing.T) {
	cfg := defaultConfig()
	cfg.App.Env = "production"
	cfg.BigQuery.ProjectID = ""

	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project_id")
}

func TestValidate_ProductionRejectsWildcardCORS(t *testing.T) {
	cfg := defaultConfig()
	cfg.App.Env = "production"
	cfg.BigQuery.ProjectID = "frido-analytics"
	cfg.HTTP.CORSAllowOrigins = []string{"*"}

	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cors_allow_origins")
}

func TestValidate_DevelopmentDefaultsPass(t *testing.T) {
	cfg := defaultConfig()
	assert.NoError(t, cfg.validate())
}
