// Package config handles application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvProduction = "production"

	DefaultAppURL         = "http://localhost:3002"
	DefaultAttemptTimeout = 60 * time.Second
	DefaultOAuthTimeout   = 15 * time.Second
)

// DefaultProviderOrder is the failover order of the AI provider chain.
var DefaultProviderOrder = []string{"openclaw", "openai", "anthropic"}

// Config holds all configuration for the application.
type Config struct {
	Server ServerConfig
	AppEnv string
	AppURL string
	Log    LogConfig
	DB     DBConfig
	Auth   AuthConfig
	CORS   CORSConfig
	AI     AIConfig
	OAuth  OAuthConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// Address returns the server address in host:port format.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string
}

// DBConfig holds the usage ledger location. An empty path disables the ledger.
type DBConfig struct {
	Path string
}

// AuthConfig guards the /ai routes. An empty key leaves them open.
type AuthConfig struct {
	APIKey string
}

// CORSConfig lists origins allowed to call the /ai routes.
type CORSConfig struct {
	Origins []string
}

// AIConfig holds provider credentials and chain settings. Empty base URLs
// select each SDK's public endpoint.
type AIConfig struct {
	Providers        []string
	AttemptTimeout   time.Duration
	OpenClawURL      string
	OpenClawKey      string
	OpenAIKey        string
	OpenAIBaseURL    string
	AnthropicKey     string
	AnthropicBaseURL string
}

// OAuthConfig holds settings for outbound OAuth calls.
type OAuthConfig struct {
	Timeout time.Duration
}

// Production reports whether cookies must be marked Secure.
func (c *Config) Production() bool {
	return strings.EqualFold(c.AppEnv, EnvProduction)
}

type fileConfig struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"server"`
	AppEnv string `yaml:"app_env"`
	AppURL string `yaml:"app_url"`
	Log    struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	DB struct {
		Path *string `yaml:"path"`
	} `yaml:"db"`
	CORS struct {
		Origins []string `yaml:"origins"`
	} `yaml:"cors"`
	AI struct {
		Providers        []string `yaml:"providers"`
		AttemptTimeout   string   `yaml:"attempt_timeout"`
		OpenAIBaseURL    string   `yaml:"openai_base_url"`
		AnthropicBaseURL string   `yaml:"anthropic_base_url"`
	} `yaml:"ai"`
	OAuth struct {
		Timeout string `yaml:"timeout"`
	} `yaml:"oauth"`
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in that order of precedence. An empty path falls back to
// OPENPAWS_CONFIG; no file at all is fine.
func Load(path string) (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := defaults()

	if path == "" {
		path = strings.TrimSpace(os.Getenv("OPENPAWS_CONFIG"))
	}
	if path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
		AppEnv: "development",
		AppURL: DefaultAppURL,
		Log:    LogConfig{Level: "info", Format: "json"},
		DB:     DBConfig{Path: "openpaws.db"},
		CORS:   CORSConfig{Origins: []string{DefaultAppURL}},
		AI: AIConfig{
			Providers:      append([]string(nil), DefaultProviderOrder...),
			AttemptTimeout: DefaultAttemptTimeout,
		},
		OAuth: OAuthConfig{Timeout: DefaultOAuthTimeout},
	}
}

func applyFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if fc.Server.Host != "" {
		cfg.Server.Host = fc.Server.Host
	}
	if fc.Server.Port != 0 {
		cfg.Server.Port = fc.Server.Port
	}
	if fc.AppEnv != "" {
		cfg.AppEnv = fc.AppEnv
	}
	if fc.AppURL != "" {
		cfg.AppURL = fc.AppURL
	}
	if fc.Log.Level != "" {
		cfg.Log.Level = fc.Log.Level
	}
	if fc.Log.Format != "" {
		cfg.Log.Format = fc.Log.Format
	}
	if fc.DB.Path != nil {
		cfg.DB.Path = strings.TrimSpace(*fc.DB.Path)
	}
	if len(fc.CORS.Origins) > 0 {
		cfg.CORS.Origins = fc.CORS.Origins
	}
	if len(fc.AI.Providers) > 0 {
		cfg.AI.Providers = normalizeList(fc.AI.Providers)
	}
	if fc.AI.AttemptTimeout != "" {
		d, err := parseDuration("ai.attempt_timeout", fc.AI.AttemptTimeout)
		if err != nil {
			return err
		}
		cfg.AI.AttemptTimeout = d
	}
	if fc.AI.OpenAIBaseURL != "" {
		cfg.AI.OpenAIBaseURL = fc.AI.OpenAIBaseURL
	}
	if fc.AI.AnthropicBaseURL != "" {
		cfg.AI.AnthropicBaseURL = fc.AI.AnthropicBaseURL
	}
	if fc.OAuth.Timeout != "" {
		d, err := parseDuration("oauth.timeout", fc.OAuth.Timeout)
		if err != nil {
			return err
		}
		cfg.OAuth.Timeout = d
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.Server.Host = getEnv("HOST", cfg.Server.Host)
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	cfg.AppEnv = getEnv("APP_ENV", cfg.AppEnv)
	cfg.AppURL = getEnv("NEXT_PUBLIC_APP_URL", cfg.AppURL)
	cfg.AppURL = getEnv("OPENPAWS_APP_URL", cfg.AppURL)
	cfg.AppURL = strings.TrimRight(cfg.AppURL, "/")
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)
	if v, ok := os.LookupEnv("OPENPAWS_DB_PATH"); ok {
		cfg.DB.Path = strings.TrimSpace(v)
	}
	cfg.Auth.APIKey = getEnv("OPENPAWS_API_KEY", cfg.Auth.APIKey)
	if v := os.Getenv("OPENPAWS_CORS_ORIGINS"); v != "" {
		cfg.CORS.Origins = normalizeList(strings.Split(v, ","))
	}
	if v := os.Getenv("OPENPAWS_AI_PROVIDERS"); v != "" {
		cfg.AI.Providers = normalizeList(strings.Split(v, ","))
	}
	if v := os.Getenv("OPENPAWS_AI_ATTEMPT_TIMEOUT"); v != "" {
		d, err := parseDuration("OPENPAWS_AI_ATTEMPT_TIMEOUT", v)
		if err != nil {
			return err
		}
		cfg.AI.AttemptTimeout = d
	}
	if v := os.Getenv("OPENPAWS_OAUTH_TIMEOUT"); v != "" {
		d, err := parseDuration("OPENPAWS_OAUTH_TIMEOUT", v)
		if err != nil {
			return err
		}
		cfg.OAuth.Timeout = d
	}

	cfg.AI.OpenClawURL = strings.TrimRight(getEnv("OPENCLAW_API_URL", cfg.AI.OpenClawURL), "/")
	cfg.AI.OpenClawKey = getEnv("OPENCLAW_API_KEY", cfg.AI.OpenClawKey)
	cfg.AI.OpenAIKey = getEnv("OPENAI_API_KEY", cfg.AI.OpenAIKey)
	cfg.AI.AnthropicKey = getEnv("ANTHROPIC_API_KEY", cfg.AI.AnthropicKey)
	cfg.AI.OpenAIBaseURL = strings.TrimRight(getEnv("OPENAI_BASE_URL", cfg.AI.OpenAIBaseURL), "/")
	cfg.AI.AnthropicBaseURL = strings.TrimRight(getEnv("ANTHROPIC_BASE_URL", cfg.AI.AnthropicBaseURL), "/")
	return nil
}

// Validate checks values that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server port %d out of range", c.Server.Port))
	}
	if c.AI.AttemptTimeout <= 0 {
		errs = append(errs, errors.New("ai attempt timeout must be positive"))
	}
	if c.OAuth.Timeout <= 0 {
		errs = append(errs, errors.New("oauth timeout must be positive"))
	}
	if u, err := url.Parse(c.AppURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("invalid app URL %q", c.AppURL))
	}
	for _, p := range c.AI.Providers {
		if !isKnownProvider(p) {
			errs = append(errs, fmt.Errorf("unknown AI provider %q", p))
		}
	}
	return errors.Join(errs...)
}

func isKnownProvider(name string) bool {
	for _, p := range DefaultProviderOrder {
		if p == name {
			return true
		}
	}
	return false
}

func parseDuration(field, raw string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, raw, err)
	}
	return d, nil
}

func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
