package config

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetSingleton() {
	instance = nil
	once = sync.Once{}
	loadErr = nil
}

// TestGetUninitialized verifies that calling Get() before Load() causes a panic.
func TestGetUninitialized(t *testing.T) {
	resetSingleton()

	assert.Panics(t, func() {
		Get()
	}, "Get() should panic if configuration is not initialized")
}

func TestDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Unmarshal(v)
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "uploads", cfg.Server.UploadDir)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownGrace)
	assert.Equal(t, "neo4j", cfg.Neo4j.Database)
	assert.Equal(t, 500, cfg.Graph.SnapshotLimit)
	assert.Equal(t, 300, cfg.Graph.FallbackLimit)
	assert.Equal(t, 1000, cfg.Graph.ListLimit)
	assert.InDelta(t, 0.15, cfg.Graph.CurvatureBase, 1e-9)
	assert.True(t, cfg.Graph.Physics)
	assert.NoError(t, cfg.Validate())
}

func TestLoadAndGet(t *testing.T) {
	resetSingleton()

	yamlConfig := []byte(`
neo4j:
  uri: "neo4j+s://demo.databases.neo4j.io"
  query_timeout: 2s
server:
  port: 8080
graph:
  snapshot_limit: 50
`)

	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewBuffer(yamlConfig)))

	require.NoError(t, Load(v))

	cfg := Get()
	assert.Equal(t, "neo4j+s://demo.databases.neo4j.io", cfg.Neo4j.URI)
	assert.Equal(t, 2*time.Second, cfg.Neo4j.QueryTimeout)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 50, cfg.Graph.SnapshotLimit)
	assert.Equal(t, 300, cfg.Graph.FallbackLimit)

	// Subsequent loads keep the first instance.
	v2 := viper.New()
	v2.Set("server.port", 9999)
	require.NoError(t, Load(v2))
	assert.Equal(t, 8080, Get().Server.Port)
}

func TestBindEnv_ConventionalVariables(t *testing.T) {
	t.Setenv("NEO4J_URI", "neo4j://graph:7687")
	t.Setenv("NEO4J_PASSWORD", "secret")
	t.Setenv("PORT", "4000")
	t.Setenv("NEOVIZ_GRAPH_SNAPSHOT_LIMIT", "42")

	v := viper.New()
	SetDefaults(v)
	require.NoError(t, BindEnv(v))

	cfg, err := Unmarshal(v)
	require.NoError(t, err)

	assert.Equal(t, "neo4j://graph:7687", cfg.Neo4j.URI)
	assert.Equal(t, "secret", cfg.Neo4j.Password)
	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, 42, cfg.Graph.SnapshotLimit)
}

func TestBindEnv_EveryKeyOverridable(t *testing.T) {
	t.Setenv("NEOVIZ_NEO4J_QUERY_TIMEOUT", "2s")
	t.Setenv("NEOVIZ_LOGGER_LOG_FILE", "/tmp/neoviz.log")
	t.Setenv("NEOVIZ_LOGGER_ADD_SOURCE", "true")
	t.Setenv("NEOVIZ_LOGGER_COMPRESS", "true")

	v := viper.New()
	SetDefaults(v)
	require.NoError(t, BindEnv(v))

	cfg, err := Unmarshal(v)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.Neo4j.QueryTimeout)
	assert.Equal(t, "/tmp/neoviz.log", cfg.Logger.LogFile)
	assert.True(t, cfg.Logger.AddSource)
	assert.True(t, cfg.Logger.Compress)
}

func TestSetDefaults_CoversEveryKey(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	keys := []string{
		"logger.level", "logger.format", "logger.add_source", "logger.service_name",
		"logger.log_file", "logger.max_size", "logger.max_backups", "logger.max_age", "logger.compress",
		"neo4j.uri", "neo4j.username", "neo4j.password", "neo4j.database", "neo4j.query_timeout",
		"server.port", "server.upload_dir", "server.max_upload_bytes", "server.shutdown_grace", "server.cors_origin",
		"graph.snapshot_limit", "graph.fallback_limit", "graph.list_limit",
		"graph.curvature_base", "graph.curvature_step", "graph.physics",
	}
	for _, key := range keys {
		assert.True(t, v.IsSet(key), key)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("NEOVIZ_TEST_DOTENV=loaded\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("NEOVIZ_TEST_DOTENV") })

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "loaded", os.Getenv("NEOVIZ_TEST_DOTENV"))

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")), "missing files are ignored")
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{Port: 70000},
		Graph:  GraphConfig{SnapshotLimit: 1, FallbackLimit: 0, CurvatureBase: 0.1, CurvatureStep: 0.1},
	}

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "neo4j.uri is required")
	assert.Contains(t, err.Error(), "server.port 70000 is out of range")
	assert.Contains(t, err.Error(), "graph limits must be positive")
	assert.NotContains(t, err.Error(), "curvature")
}
