package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Generation providers.
const (
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Generation GenerationConfig `yaml:"generation"`
	Places     PlacesConfig     `yaml:"places"`
	Itinerary  ItineraryConfig  `yaml:"itinerary"`
	Advisor    AdvisorConfig    `yaml:"advisor"`
	Store      StoreConfig      `yaml:"store"`
	Archive    ArchiveConfig    `yaml:"archive"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
	Retry        RetryConfig     `yaml:"retry"`
	CORS         CORSConfig      `yaml:"cors"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for idempotent requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// CORSConfig lists browser origins allowed to call the API. Empty allows all.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// GenerationConfig selects and tunes the text-generation backend.
type GenerationConfig struct {
	Provider     string        `yaml:"provider"`
	BaseURL      string        `yaml:"baseUrl"`
	Model        string        `yaml:"model"`
	APIKey       string        `yaml:"apiKey"`
	Temperature  float32       `yaml:"temperature"`
	TopP         float32       `yaml:"topP"`
	MaxTokens    int           `yaml:"maxTokens"`
	Stop         []string      `yaml:"stop"`
	ProbeTimeout time.Duration `yaml:"probeTimeout"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxDays      int           `yaml:"maxDays"`
}

// PlacesConfig controls the place lookup tiers.
type PlacesConfig struct {
	GoogleAPIKey      string        `yaml:"googleApiKey"`
	GoogleBaseURL     string        `yaml:"googleBaseUrl"`
	RequestsPerSecond float64       `yaml:"requestsPerSecond"`
	WikipediaBaseURL  string        `yaml:"wikipediaBaseUrl"`
	WikipediaEnabled  bool          `yaml:"wikipediaEnabled"`
	UserAgent         string        `yaml:"userAgent"`
	Timeout           time.Duration `yaml:"timeout"`
	PerCategory       int           `yaml:"perCategory"`
	MaxConcurrency    int           `yaml:"maxConcurrency"`
	CacheTTL          time.Duration `yaml:"cacheTtl"`
}

// ItineraryConfig bounds generation requests.
type ItineraryConfig struct {
	MaxTripDays int `yaml:"maxTripDays"`
	PlaceHints  int `yaml:"placeHints"`
}

// AdvisorConfig tunes the chat advisor.
type AdvisorConfig struct {
	HistoryTurns   int `yaml:"historyTurns"`
	MaxSuggestions int `yaml:"maxSuggestions"`
	MaxMessageLen  int `yaml:"maxMessageLen"`
}

// StoreConfig selects where current itineraries live.
type StoreConfig struct {
	HistoryCap int            `yaml:"historyCap"`
	Redis      RedisConfig    `yaml:"redis"`
	Postgres   PostgresConfig `yaml:"postgres"`
}

// RedisConfig contains connection information for a Valkey/Redis server.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ArchiveConfig points at the S3-compatible bucket for unparseable output.
type ArchiveConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
}

// Load reads configuration from .env, a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)
	dropOllamaDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	setString(&cfg.HTTP.Address, "HTTP_ADDRESS")
	setDuration(&cfg.HTTP.ReadTimeout, "HTTP_READ_TIMEOUT")
	setDuration(&cfg.HTTP.WriteTimeout, "HTTP_WRITE_TIMEOUT")
	setBool(&cfg.HTTP.RateLimit.Enabled, "HTTP_RATE_LIMIT_ENABLED")
	setInt(&cfg.HTTP.RateLimit.RequestsPerMinute, "HTTP_RATE_LIMIT_RPM")
	setInt(&cfg.HTTP.RateLimit.Burst, "HTTP_RATE_LIMIT_BURST")
	setBool(&cfg.HTTP.Retry.Enabled, "HTTP_RETRY_ENABLED")
	setInt(&cfg.HTTP.Retry.MaxAttempts, "HTTP_RETRY_MAX_ATTEMPTS")
	setDuration(&cfg.HTTP.Retry.BaseBackoff, "HTTP_RETRY_BASE_BACKOFF")
	if v := os.Getenv("HTTP_CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.CORS.AllowedOrigins = splitList(v)
	}

	setString(&cfg.Generation.Provider, "GENERATION_PROVIDER")
	setString(&cfg.Generation.BaseURL, "GENERATION_BASE_URL")
	setString(&cfg.Generation.Model, "GENERATION_MODEL")
	setString(&cfg.Generation.APIKey, "GENERATION_API_KEY")
	if strings.EqualFold(cfg.Generation.Provider, ProviderOllama) {
		setString(&cfg.Generation.BaseURL, "OLLAMA_URL")
		setString(&cfg.Generation.Model, "OLLAMA_MODEL")
	}
	if v := os.Getenv("GENERATION_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.Generation.Temperature = float32(parsed)
		}
	}
	setInt(&cfg.Generation.MaxTokens, "GENERATION_MAX_TOKENS")
	setDuration(&cfg.Generation.ProbeTimeout, "GENERATION_PROBE_TIMEOUT")
	setDuration(&cfg.Generation.Timeout, "GENERATION_TIMEOUT")
	setInt(&cfg.Generation.MaxDays, "GENERATION_MAX_DAYS")

	setString(&cfg.Places.GoogleAPIKey, "GOOGLE_PLACES_API_KEY")
	setString(&cfg.Places.GoogleBaseURL, "GOOGLE_PLACES_BASE_URL")
	setString(&cfg.Places.WikipediaBaseURL, "WIKIPEDIA_BASE_URL")
	setBool(&cfg.Places.WikipediaEnabled, "WIKIPEDIA_ENABLED")
	setString(&cfg.Places.UserAgent, "PLACES_USER_AGENT")
	setDuration(&cfg.Places.Timeout, "PLACES_TIMEOUT")
	setInt(&cfg.Places.PerCategory, "PLACES_PER_CATEGORY")
	setDuration(&cfg.Places.CacheTTL, "PLACES_CACHE_TTL")

	setInt(&cfg.Itinerary.MaxTripDays, "ITINERARY_MAX_TRIP_DAYS")

	setInt(&cfg.Store.HistoryCap, "STORE_HISTORY_CAP")
	if v := os.Getenv("STORE_REDIS_ADDR"); v != "" {
		cfg.Store.Redis.Addr = v
		cfg.Store.Redis.Enabled = true
	}
	setBool(&cfg.Store.Redis.Enabled, "STORE_REDIS_ENABLED")
	setString(&cfg.Store.Postgres.DSN, "STORE_POSTGRES_DSN")

	setBool(&cfg.Archive.Enabled, "ARCHIVE_ENABLED")
	setString(&cfg.Archive.Endpoint, "ARCHIVE_ENDPOINT")
	setString(&cfg.Archive.AccessKey, "ARCHIVE_ACCESS_KEY")
	setString(&cfg.Archive.SecretKey, "ARCHIVE_SECRET_KEY")
	setString(&cfg.Archive.Bucket, "ARCHIVE_BUCKET")
	setString(&cfg.Archive.Region, "ARCHIVE_REGION")
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v == "1" || strings.EqualFold(v, "true")
	}
}

func setInt(dst *int, env string) {
	if v := os.Getenv(env); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func setDuration(dst *time.Duration, env string) {
	if v := os.Getenv(env); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

const (
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "llama3.2:3b"
)

// dropOllamaDefaults clears the local endpoint and model when a hosted provider is
// selected without its own, so each SDK falls back to its public endpoint and default model.
func dropOllamaDefaults(cfg *Config) {
	if strings.EqualFold(cfg.Generation.Provider, ProviderOllama) {
		return
	}
	if cfg.Generation.BaseURL == defaultOllamaURL {
		cfg.Generation.BaseURL = ""
	}
	if cfg.Generation.Model == defaultOllamaModel {
		cfg.Generation.Model = ""
	}
}

// DefaultStop ends a completion at a closed code fence or a run of blank lines.
func DefaultStop() []string {
	return []string{"\n```\n\n", "\n\n\n"}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 90 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 3,
				BaseBackoff: 150 * time.Millisecond,
				Exclude: []string{
					"/test-ollama",
					"/test-google-places",
				},
			},
		},
		Generation: GenerationConfig{
			Provider:     ProviderOllama,
			BaseURL:      defaultOllamaURL,
			Model:        defaultOllamaModel,
			Temperature:  0.1,
			TopP:         0.9,
			MaxTokens:    2048,
			Stop:         DefaultStop(),
			ProbeTimeout: 3 * time.Second,
			Timeout:      60 * time.Second,
			MaxDays:      3,
		},
		Places: PlacesConfig{
			WikipediaEnabled:  true,
			RequestsPerSecond: 5,
			Timeout:           8 * time.Second,
			PerCategory:       4,
			MaxConcurrency:    5,
			CacheTTL:          30 * time.Minute,
		},
		Itinerary: ItineraryConfig{
			MaxTripDays: 30,
			PlaceHints:  6,
		},
		Advisor: AdvisorConfig{
			HistoryTurns:   6,
			MaxSuggestions: 3,
			MaxMessageLen:  2000,
		},
		Store: StoreConfig{
			HistoryCap: 5,
			Redis: RedisConfig{
				Prefix: "itinerary",
			},
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	switch strings.ToLower(c.Generation.Provider) {
	case ProviderOllama:
	case ProviderOpenAI, ProviderGemini, ProviderAnthropic:
		if strings.TrimSpace(c.Generation.APIKey) == "" {
			return fmt.Errorf("generation.apiKey is required for provider %q", c.Generation.Provider)
		}
	default:
		return fmt.Errorf("generation.provider %q is not supported", c.Generation.Provider)
	}
	if c.Generation.ProbeTimeout <= 0 {
		return errors.New("generation.probeTimeout must be positive")
	}
	if c.Generation.Timeout <= 0 {
		return errors.New("generation.timeout must be positive")
	}
	if c.Generation.MaxDays <= 0 {
		return errors.New("generation.maxDays must be positive")
	}
	if c.Places.Timeout <= 0 {
		return errors.New("places.timeout must be positive")
	}
	if c.Places.PerCategory <= 0 {
		return errors.New("places.perCategory must be positive")
	}
	if c.Places.CacheTTL < 0 {
		return errors.New("places.cacheTtl cannot be negative")
	}
	if c.Itinerary.MaxTripDays <= 0 {
		return errors.New("itinerary.maxTripDays must be positive")
	}
	if c.Store.HistoryCap <= 0 {
		return errors.New("store.historyCap must be positive")
	}
	if c.Store.Redis.Enabled && strings.TrimSpace(c.Store.Redis.Addr) == "" {
		return errors.New("store.redis.addr cannot be empty when redis is enabled")
	}
	if c.Archive.Enabled && (strings.TrimSpace(c.Archive.Endpoint) == "" || strings.TrimSpace(c.Archive.Bucket) == "") {
		return errors.New("archive.endpoint and archive.bucket are required when the archive is enabled")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	return nil
}
