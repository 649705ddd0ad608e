package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr_http":             "www.example:9000",
		"endpoint_addr_grpc":             "",
		"database_dsn":                   "postgres://json",
		"storage_type":                   "memory",
		"secret_key":                     "my_secret_key",
		"access_token_validity_duration": "1h",
		"allowed_origins":                []string{"https://app.example"},
		"log_level":                      "error",
		"request_timeout":                "5s",
	})

	t.Run("loads from json", func(t *testing.T) {
		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJson(cfg, []string{"-config", pathFlag}))

		assert.Equal(t, "www.example:9000", cfg.EndpointAddrHTTP)
		assert.Equal(t, "", cfg.EndpointAddrGRPC)
		assert.Equal(t, "postgres://json", cfg.DatabaseDSN)
		assert.Equal(t, StorageMemory, cfg.StorageType)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, time.Hour, cfg.AccessTokenValidityDuration)
		assert.Equal(t, []string{"https://app.example"}, cfg.AllowedOrigins)
		assert.Equal(t, "error", cfg.LogLevel)
		assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	})

	t.Run("partial file keeps other values", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{"secret_key": "only-secret"})

		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJson(cfg, []string{"-c", partial}))

		assert.Equal(t, "only-secret", cfg.SecretKey)
		assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
		assert.Equal(t, ":50051", cfg.EndpointAddrGRPC)
		assert.Equal(t, 24*time.Hour, cfg.AccessTokenValidityDuration)
	})

	t.Run("no config flag → no changes", func(t *testing.T) {
		cfg := &Config{EndpointAddrHTTP: "defaults:1234", SecretKey: "key"}
		require.NoError(t, parseJson(cfg, nil))

		assert.Equal(t, "defaults:1234", cfg.EndpointAddrHTTP)
		assert.Equal(t, "key", cfg.SecretKey)
	})

	t.Run("invalid JSON → error", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		require.Error(t, parseJson(&Config{}, []string{"-config", bad}))
	})

	t.Run("missing file → error", func(t *testing.T) {
		require.Error(t, parseJson(&Config{}, []string{"-c", filepath.Join(dir, "nope.json")}))
	})
}

func TestLoadConfig_Layering(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"secret_key":   "json-secret",
		"storage_type": "memory",
	})
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("LOG_LEVEL", "debug")

	os.Args = []string{"server", "-c", path, "-s", "flag-secret"}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "flag-secret", cfg.SecretKey, "flags win over env and json")
	assert.Equal(t, "debug", cfg.LogLevel, "env wins over defaults")
	assert.Equal(t, StorageMemory, cfg.StorageType, "json wins over defaults")
}

func TestLoadConfig_InvalidResult(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"server", "-m", "cassandra"}
	_, err := LoadConfig()
	require.Error(t, err)
}

func Test_parseJson_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	data := `endpoint_addr_http: ":9090"
endpoint_addr_grpc: ""
storage_type: memory
access_token_validity_duration: 2h
allowed_origins:
  - https://a.example
  - https://b.example
request_timeout: 3s
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg := &Config{}
	cfg.LoadDefaults()
	require.NoError(t, parseJson(cfg, []string{"-c", path}))

	assert.Equal(t, ":9090", cfg.EndpointAddrHTTP)
	assert.Equal(t, "", cfg.EndpointAddrGRPC)
	assert.Equal(t, StorageMemory, cfg.StorageType)
	assert.Equal(t, 2*time.Hour, cfg.AccessTokenValidityDuration)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "secretKey", cfg.SecretKey)
}

func Test_parseJson_BrokenYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yml")
	require.NoError(t, os.WriteFile(path, []byte("endpoint_addr_http: [unclosed"), 0o600))

	cfg := &Config{}
	cfg.LoadDefaults()
	assert.Error(t, parseJson(cfg, []string{"-c", path}))
}
