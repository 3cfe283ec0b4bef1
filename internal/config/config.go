package config

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultBaseURL = "https://www.alphavantage.co/query"

var (
	ErrAPIKeyRequired  = errors.New("alpha vantage api key is required (use --api-key or set ALPHAVANTAGE_API_KEY)")
	ErrPairsRequired   = errors.New("at least one currency pair is required")
	ErrInvalidRefresh  = errors.New("refresh interval must be a positive number of seconds")
	ErrInvalidTimeout  = errors.New("http timeout must be a positive number of seconds")
	ErrInvalidFailures = errors.New("fail threshold must be positive")
)

type Scanner struct {
	Pairs          string `mapstructure:"pairs"`
	RefreshSeconds int    `mapstructure:"refresh_seconds"`
	FailThreshold  int    `mapstructure:"fail_threshold"`
	Once           bool   `mapstructure:"once"`
}

type AlphaVantage struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

type HTTPClient struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// HTTPServer configures the optional snapshot observer. An empty port keeps
// it disabled.
type HTTPServer struct {
	Port string `mapstructure:"port"`
}

type Cache struct {
	TTLSeconds int   `mapstructure:"ttl_seconds"`
	MaxItems   int64 `mapstructure:"max_items"`
}

type Logging struct {
	Level string `mapstructure:"level"`
}

type AppConfig struct {
	Scanner      Scanner      `mapstructure:"scanner"`
	AlphaVantage AlphaVantage `mapstructure:"alpha_vantage"`
	HTTPClient   HTTPClient   `mapstructure:"http_client"`
	HTTPServer   HTTPServer   `mapstructure:"http_server"`
	Cache        Cache        `mapstructure:"cache"`
	Logging      Logging      `mapstructure:"logging"`
}

// Init layers configuration as defaults < config file < environment < flags
// and validates the result.
func Init(args []string) (*AppConfig, error) {
	fs := flag.NewFlagSet("fxscan", flag.ContinueOnError)
	pairs := fs.String("pairs", "", "comma-separated currency pairs, format BASE/QUOTE")
	refresh := fs.Int("refresh", 0, "refresh interval in seconds")
	apiKey := fs.String("api-key", "", "Alpha Vantage API key (overrides ALPHAVANTAGE_API_KEY)")
	once := fs.Bool("once", false, "fetch a single snapshot and exit")
	timeout := fs.Int("timeout", 0, "HTTP request timeout in seconds")
	port := fs.String("port", "", "serve the latest snapshot over HTTP on this port")
	configPath := fs.String("config", "", "path to a YAML config file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Best effort: a .env file is optional.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("scanner.pairs", "EUR/USD,GBP/USD,USD/JPY")
	v.SetDefault("scanner.refresh_seconds", 60)
	v.SetDefault("scanner.fail_threshold", 3)
	v.SetDefault("alpha_vantage.base_url", defaultBaseURL)
	v.SetDefault("http_client.timeout_seconds", 10)
	v.SetDefault("cache.ttl_seconds", 0)
	v.SetDefault("cache.max_items", 1024)
	v.SetDefault("logging.level", "info")

	_ = v.BindEnv("scanner.pairs", "FX_PAIRS")
	_ = v.BindEnv("scanner.refresh_seconds", "FX_REFRESH_SECONDS")
	_ = v.BindEnv("scanner.fail_threshold", "FX_FAIL_THRESHOLD")
	_ = v.BindEnv("alpha_vantage.api_key", "ALPHAVANTAGE_API_KEY")
	_ = v.BindEnv("alpha_vantage.base_url", "ALPHAVANTAGE_BASE_URL")
	_ = v.BindEnv("http_client.timeout_seconds", "HTTP_CLIENT_TIMEOUT_SECONDS")
	_ = v.BindEnv("http_server.port", "HTTP_SERVER_PORT")
	_ = v.BindEnv("cache.ttl_seconds", "CACHE_TTL_SECONDS")
	_ = v.BindEnv("logging.level", "LOG_LEVEL")

	if *configPath != "" {
		v.SetConfigFile(*configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Explicitly set flags override everything else. Values go in typed so
	// Unmarshal doesn't have to coerce strings.
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["pairs"] {
		v.Set("scanner.pairs", *pairs)
	}
	if set["refresh"] {
		v.Set("scanner.refresh_seconds", *refresh)
	}
	if set["api-key"] {
		v.Set("alpha_vantage.api_key", *apiKey)
	}
	if set["once"] {
		v.Set("scanner.once", *once)
	}
	if set["timeout"] {
		v.Set("http_client.timeout_seconds", *timeout)
	}
	if set["port"] {
		v.Set("http_server.port", *port)
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *AppConfig) validate() error {
	if strings.TrimSpace(cfg.AlphaVantage.APIKey) == "" {
		return ErrAPIKeyRequired
	}
	if strings.TrimSpace(strings.ReplaceAll(cfg.Scanner.Pairs, ",", "")) == "" {
		return ErrPairsRequired
	}
	if cfg.Scanner.RefreshSeconds <= 0 {
		return ErrInvalidRefresh
	}
	if cfg.HTTPClient.TimeoutSeconds <= 0 {
		return ErrInvalidTimeout
	}
	if cfg.Scanner.FailThreshold <= 0 {
		return ErrInvalidFailures
	}
	return nil
}
