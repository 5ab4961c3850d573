package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	data := `{
		"server": {"port": 9090, "session_timeout_minutes": 10},
		"providers": {"openai": {"api_key": "file-key", "model": "gpt-4o", "enabled": true}}
	}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("PORT", "")

	cfg := LoadConfig(path)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Server.SessionTimeoutMinutes)

	name, p := cfg.GetDefaultProvider()
	assert.Equal(t, "openai", name)
	assert.Equal(t, "file-key", p.APIKey)
	assert.Equal(t, "gpt-4o", p.Model)

	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	data := `{"providers": {"openai": {"api_key": "file-key", "model": "gpt-4o-mini", "enabled": true}}}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	t.Setenv("OPENAI_API_KEY", "env-key")

	cfg := LoadConfig(path)
	_, p := cfg.GetDefaultProvider()
	assert.Equal(t, "env-key", p.APIKey)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")
	t.Setenv("PORT", "")

	cfg := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30, cfg.Server.SessionTimeoutMinutes)
	require.NoError(t, cfg.Validate())
}

func TestValidate_MissingKeyIsFatal(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	cfg := Default()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestGetTelegramConfig(t *testing.T) {
	cfg := Default()
	_, ok := cfg.GetTelegramConfig()
	assert.False(t, ok)

	cfg.Gateways = map[string]GatewayConfig{
		"telegram": {Token: "tok", Enabled: true},
	}
	tg, ok := cfg.GetTelegramConfig()
	require.True(t, ok)
	assert.Equal(t, "tok", tg.Token)
}
