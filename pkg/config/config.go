package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server     ServerConfig     `koanf:"server"`
	OpenAI     OpenAIConfig     `koanf:"openai"`
	Gemini     GeminiConfig     `koanf:"gemini"`
	LLM        LLMConfig        `koanf:"llm"`
	Enrichment EnrichmentConfig `koanf:"enrichment"`
	Storage    StorageConfig    `koanf:"storage"`
	Log        LogConfig        `koanf:"log"`
}

type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	Mode               string   `koanf:"mode" validate:"oneof=debug release test"`
	RateLimitPerMinute int64    `koanf:"rate_limit_per_minute" validate:"min=0"`
	CORSOrigins        []string `koanf:"cors_origins"`
}

type OpenAIConfig struct {
	APIKey      string `koanf:"api_key"`
	Model       string `koanf:"model" validate:"required"`
	SearchModel string `koanf:"search_model"`
	BaseURL     string `koanf:"base_url"`
}

type GeminiConfig struct {
	APIKey string `koanf:"api_key"`
	Model  string `koanf:"model"`
}

type LLMConfig struct {
	// TripProvider selects the model behind the legacy /trip endpoint.
	TripProvider string        `koanf:"trip_provider" validate:"oneof=openai gemini"`
	Retries      int           `koanf:"retries" validate:"min=0,max=5"`
	RetryBackoff time.Duration `koanf:"retry_backoff"`
	Timeout      time.Duration `koanf:"timeout" validate:"gt=0"`
}

type EnrichmentConfig struct {
	Timeout            time.Duration `koanf:"timeout" validate:"gt=0"`
	SearchEnabled      bool          `koanf:"search_enabled"`
	WeatherEnabled     bool          `koanf:"weather_enabled"`
	WeatherGeocodeURL  string        `koanf:"weather_geocode_url"`
	WeatherForecastURL string        `koanf:"weather_forecast_url"`
}

type StorageConfig struct {
	// PostgresURL enables the database store for saved trips. Empty keeps
	// them in memory.
	PostgresURL  string        `koanf:"postgres_url"`
	SavedTripTTL time.Duration `koanf:"saved_trip_ttl"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:               "8080",
			Mode:               "release",
			RateLimitPerMinute: 30,
			CORSOrigins:        []string{"*"},
		},
		OpenAI: OpenAIConfig{
			Model:       "gpt-4o-mini",
			SearchModel: "gpt-4o-mini-search-preview",
		},
		Gemini: GeminiConfig{
			Model: "gemini-1.5-flash",
		},
		LLM: LLMConfig{
			TripProvider: "openai",
			Retries:      2,
			RetryBackoff: 500 * time.Millisecond,
			Timeout:      90 * time.Second,
		},
		Enrichment: EnrichmentConfig{
			Timeout:        3 * time.Second,
			SearchEnabled:  true,
			WeatherEnabled: true,
		},
		Storage: StorageConfig{
			SavedTripTTL: 24 * time.Hour,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

var envToPath = map[string]string{
	"PORT":                  "server.port",
	"GIN_MODE":              "server.mode",
	"RATE_LIMIT_PER_MINUTE": "server.rate_limit_per_minute",
	"CORS_ORIGINS":          "server.cors_origins",
	"OPENAI_API_KEY":        "openai.api_key",
	"OPENAI_MODEL":          "openai.model",
	"OPENAI_SEARCH_MODEL":   "openai.search_model",
	"OPENAI_BASE_URL":       "openai.base_url",
	"GEMINI_API_KEY":        "gemini.api_key",
	"GEMINI_MODEL":          "gemini.model",
	"TRIP_PROVIDER":         "llm.trip_provider",
	"LLM_RETRIES":           "llm.retries",
	"LLM_RETRY_BACKOFF":     "llm.retry_backoff",
	"LLM_TIMEOUT":           "llm.timeout",
	"ENRICHMENT_TIMEOUT":    "enrichment.timeout",
	"SEARCH_ENABLED":        "enrichment.search_enabled",
	"WEATHER_ENABLED":       "enrichment.weather_enabled",
	"WEATHER_GEOCODE_URL":   "enrichment.weather_geocode_url",
	"WEATHER_FORECAST_URL":  "enrichment.weather_forecast_url",
	"POSTGRES_URL":          "storage.postgres_url",
	"SAVED_TRIP_TTL":        "storage.saved_trip_ttl",
	"LOG_LEVEL":             "log.level",
}

// Load reads .env files if present, then layers the environment over the
// defaults. A missing .env is not an error.
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)
	return FromEnv()
}

// FromEnv builds the configuration from defaults and the current environment
// only.
func FromEnv() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if err := k.Load(env.Provider(".", env.Opt{
		TransformFunc: func(key, value string) (string, any) {
			path, ok := envToPath[key]
			if !ok || strings.TrimSpace(value) == "" {
				return "", nil
			}
			return path, strings.TrimSpace(value)
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &cfg,
			TagName:          "koanf",
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	cfg.OpenAI.Model = strings.TrimSpace(cfg.OpenAI.Model)
	cfg.LLM.TripProvider = strings.ToLower(cfg.LLM.TripProvider)
	for i, origin := range cfg.Server.CORSOrigins {
		cfg.Server.CORSOrigins[i] = strings.TrimSpace(origin)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// DatabaseEnabled reports whether saved trips go to postgres.
func (c *Config) DatabaseEnabled() bool {
	return c.Storage.PostgresURL != ""
}
