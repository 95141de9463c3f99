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

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
	assert.Equal(t, time.Hour, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenValidityDuration)
	assert.Equal(t, time.Hour, cfg.ResetTokenValidityDuration)
	assert.True(t, cfg.EnforceOwnership)
}

func TestParseEnv_OverridesOnlySetVariables(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("ACCESS_TOKEN_TTL", "30m")
	t.Setenv("ENFORCE_OWNERSHIP", "false")

	parseEnv(cfg)

	assert.Equal(t, ":9090", cfg.EndpointAddrHTTP)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenValidityDuration)
	assert.False(t, cfg.EnforceOwnership)
	// untouched
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenValidityDuration)
}

func TestParseFlags(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"test", "-a", ":7070", "-t", "90"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":7070", cfg.EndpointAddrHTTP)
	assert.Equal(t, 90*time.Minute, cfg.AccessTokenValidityDuration)
}

func TestParseJson(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	enforce := false
	payload, err := json.Marshal(map[string]any{
		"endpoint_addr_http":              ":6060",
		"access_token_validity_duration":  "45m",
		"refresh_token_validity_duration": "72h",
		"enforce_ownership":               enforce,
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, payload, 0o600))

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"test", "-c", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, ":6060", cfg.EndpointAddrHTTP)
	assert.Equal(t, 45*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, 72*time.Hour, cfg.RefreshTokenValidityDuration)
	assert.False(t, cfg.EnforceOwnership)
}
