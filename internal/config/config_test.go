package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-widgetgen/pkg/responses"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, []string{"http://localhost:3000", "https://storyweave-ai.vercel.app"}, cfg.Server.CORSOrigins)
	assert.Equal(t, BackendLLM, cfg.Service.Backend)
	assert.True(t, cfg.Service.Fallback)
	assert.Equal(t, time.Hour, cfg.Redis.TTL)
	assert.Equal(t, 2000, cfg.LLM.MaxTokens)
	assert.Equal(t, responses.PolicyRetain, cfg.Session.Policy())
	require.NoError(t, cfg.Validate())
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "widgetgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9000"
llm:
  provider: anthropic
  model: claude-test
session:
  merge_policy: reset
redis:
  ttl: 10m
`), 0o644))

	t.Setenv("WIDGETGEN_LOGGING_LEVEL", "debug")
	t.Setenv("WIDGETGEN_LLM_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "anthropic-key")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, ProviderAnthropic, cfg.LLM.Provider)
	assert.Equal(t, "claude-test", cfg.LLM.Model)
	assert.Equal(t, "anthropic-key", cfg.LLM.APIKey)
	assert.Equal(t, 10*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, responses.PolicyReset, cfg.Session.Policy())
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "widgetgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":9000\"\n"), 0o644))
	t.Setenv("WIDGETGEN_SERVER_ADDR", ":7000")
	t.Setenv("WIDGETGEN_LLM_API_KEY", "explicit")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, "explicit", cfg.LLM.APIKey)
}

func TestLoad_MissingDefaultFileIsFine(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8000", cfg.Server.Addr)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "widgetgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
service:
  backend: remote
session:
  merge_policy: sometimes
logging:
  format: xml
`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service.remote_url")
	assert.Contains(t, err.Error(), "session.merge_policy")
	assert.Contains(t, err.Error(), "logging.format")
}

func TestValidate_UnknownProvider(t *testing.T) {
	cfg := Default()
	cfg.LLM.Provider = "llama"
	assert.ErrorContains(t, cfg.Validate(), "llm.provider")

	cfg = Default()
	cfg.Service.Backend = "carrier-pigeon"
	assert.ErrorContains(t, cfg.Validate(), "service.backend")
}
