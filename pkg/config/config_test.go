package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
environment: test
server:
  port: 9090
  read_timeout: 5s
  write_timeout: 10s
  shutdown_timeout: 5s
llm:
  model: gpt-4o-mini
  timeout: 30s
market:
  signal_url: http://signal.test/latest
  realized_url: http://realized.test/metrics
bias:
  refresh_interval: 1h
  retry_max: 2
  retry_delay: 1s
admin:
  password: secret
bot:
  enabled: true
  mode: proxy
  api_base_url: http://api.test
  timeout: 45s
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadParsesBotTimeout(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	// the proxy round trip has its own budget, independent of llm.timeout
	assert.Equal(t, 45*time.Second, cfg.Bot.Timeout)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, time.Hour, cfg.Bias.RefreshInterval)
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "from-env")
	t.Setenv("PORT", "7777")

	cfg, err := LoadWithEnv(writeConfig(t, validYAML))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Admin.Password)
	assert.Equal(t, 7777, cfg.Server.Port)
}

func TestValidateRejectsProxyWithoutBaseURL(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	cfg.Bot.APIBaseURL = ""
	assert.Error(t, cfg.Validate())

	cfg.Bot.Mode = "local"
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsMissingRequiredFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"no environment", func(c *Config) { c.Environment = "" }},
		{"no llm model", func(c *Config) { c.LLM.Model = "" }},
		{"no signal url", func(c *Config) { c.Market.SignalURL = "" }},
		{"no admin password", func(c *Config) { c.Admin.Password = "" }},
		{"bad bot mode", func(c *Config) { c.Bot.Mode = "remote" }},
		{"zero refresh interval", func(c *Config) { c.Bias.RefreshInterval = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, validYAML))
			require.NoError(t, err)
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
