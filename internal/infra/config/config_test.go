package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, ProviderOllama, cfg.Generation.Provider)
	require.Equal(t, 3*time.Second, cfg.Generation.ProbeTimeout)
	require.Equal(t, 8*time.Second, cfg.Places.Timeout)
	require.Equal(t, 4, cfg.Places.PerCategory)
	require.Equal(t, 5, cfg.Store.HistoryCap)
	require.LessOrEqual(t, cfg.Generation.Temperature, float32(0.2))
	require.Equal(t, DefaultStop(), cfg.Generation.Stop)
}

func TestShippedConfigUsesLowTemperatureAndStops(t *testing.T) {
	path, err := filepath.Abs(filepath.Join("..", "..", "..", "configs", "config.yaml"))
	require.NoError(t, err)
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.LessOrEqual(t, cfg.Generation.Temperature, float32(0.2))
	require.Equal(t, []string{"\n```\n\n", "\n\n\n"}, cfg.Generation.Stop)
}

func TestLoadHostedProviderDropsOllamaDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("GENERATION_PROVIDER", ProviderGemini)
	t.Setenv("GENERATION_API_KEY", "g-key")

	cfg, err := Load()
	require.NoError(t, err)
	require.Empty(t, cfg.Generation.BaseURL)
	require.Empty(t, cfg.Generation.Model)
	require.Equal(t, DefaultStop(), cfg.Generation.Stop)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"unknown provider":  func(c *Config) { c.Generation.Provider = "bard" },
		"hosted needs key":  func(c *Config) { c.Generation.Provider = ProviderOpenAI },
		"zero timeout":      func(c *Config) { c.Generation.Timeout = 0 },
		"redis without url": func(c *Config) { c.Store.Redis.Enabled = true },
		"archive no bucket": func(c *Config) { c.Archive.Enabled = true; c.Archive.Endpoint = "r2" },
		"zero history":      func(c *Config) { c.Store.HistoryCap = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := defaultConfig()
			mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestLoadAppliesFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
generation:
  provider: ollama
  model: mistral
places:
  perCategory: 2
`), 0o600))
	t.Chdir(dir)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("OLLAMA_URL", "http://ollama:11434")
	t.Setenv("GOOGLE_PLACES_API_KEY", "places-key")
	t.Setenv("STORE_REDIS_ADDR", "valkey:6379")
	t.Setenv("HTTP_CORS_ALLOWED_ORIGINS", "http://localhost:5173, https://trips.example")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "mistral", cfg.Generation.Model)
	require.Equal(t, "http://ollama:11434", cfg.Generation.BaseURL)
	require.Equal(t, 2, cfg.Places.PerCategory)
	require.Equal(t, "places-key", cfg.Places.GoogleAPIKey)
	require.True(t, cfg.Store.Redis.Enabled)
	require.Equal(t, []string{"http://localhost:5173", "https://trips.example"}, cfg.HTTP.CORS.AllowedOrigins)
}

func TestLoadRejectsHostedProviderWithoutKey(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("GENERATION_PROVIDER", ProviderAnthropic)
	_, err := Load()
	require.ErrorContains(t, err, "generation.apiKey")
}
