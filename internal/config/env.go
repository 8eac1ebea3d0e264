package config

import (
    "errors"
    "os"
    "strconv"
    "strings"
    "time"
)

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
    Level      string
    Pretty     bool
    File       string
    MaxSizeMB  int
    MaxBackups int
    MaxAgeDays int
    Compress   bool
}

// AxiomConfig holds Axiom log forwarding configuration.
type AxiomConfig struct {
    Send          bool
    APIKey        string
    OrgID         string
    Dataset       string
    FlushInterval time.Duration
}

// OpenAIConfig holds credentials and defaults for the vision model provider.
type OpenAIConfig struct {
    APIKey         string
    Model          string
    Endpoint       string
    RequestTimeout time.Duration
}

// ServerConfig defines HTTP bind settings.
type ServerConfig struct {
    Host string
    Port string
}

// RenderConfig bounds PDF rasterization per request.
type RenderConfig struct {
    DPI             int
    DefaultMaxPages int
    MaxPagesLimit   int
}

// Config is the top-level configuration.
type Config struct {
    Logging LoggingConfig
    Axiom   AxiomConfig
    OpenAI  OpenAIConfig
    Server  ServerConfig
    Render  RenderConfig
}

// ErrMissingAPIKey is returned by Validate when no provider key is configured.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set")

// FromEnv loads configuration from environment with sensible defaults.
func FromEnv() Config {
    cfg := Config{}

    cfg.Logging = LoggingConfig{
        Level:      getEnv("LOG_LEVEL", "info"),
        Pretty:     parseBool(getEnv("LOG_PRETTY", devDefaultPretty())),
        File:       getEnv("LOG_FILE", "logs/esquelas.log"),
        MaxSizeMB:  parseInt(getEnv("LOG_MAX_SIZE_MB", "100"), 100),
        MaxBackups: parseInt(getEnv("LOG_MAX_BACKUPS", "10"), 10),
        MaxAgeDays: parseInt(getEnv("LOG_MAX_AGE_DAYS", "30"), 30),
        Compress:   parseBool(getEnv("LOG_COMPRESS", "true")),
    }

    baseDataset := getEnv("AXIOM_DATASET", "dev")
    cfg.Axiom = AxiomConfig{
        Send:          parseBool(getEnv("SEND_LOGS_TO_AXIOM", "0")),
        APIKey:        getEnv("AXIOM_API_KEY", ""),
        OrgID:         getEnv("AXIOM_ORG_ID", ""),
        Dataset:       baseDataset + "_esquelas",
        FlushInterval: parseDuration(getEnv("AXIOM_FLUSH_INTERVAL", "10s"), 10*time.Second),
    }

    cfg.OpenAI = OpenAIConfig{
        APIKey:         getEnv("OPENAI_API_KEY", ""),
        Model:          getEnv("OPENAI_MODEL", "gpt-4o-mini"),
        Endpoint:       getEnv("OPENAI_API_URL", ""),
        RequestTimeout: parseDuration(getEnv("OPENAI_TIMEOUT", "120s"), 120*time.Second),
    }

    cfg.Server = ServerConfig{
        Host: getEnv("APP_HOST", "127.0.0.1"),
        Port: getEnv("APP_PORT", "8000"),
    }

    cfg.Render = RenderConfig{
        DPI:             parseInt(getEnv("RENDER_DPI", "200"), 200),
        DefaultMaxPages: parseInt(getEnv("RENDER_DEFAULT_MAX_PAGES", "3"), 3),
        MaxPagesLimit:   parseInt(getEnv("RENDER_MAX_PAGES_LIMIT", "10"), 10),
    }

    return cfg
}

// Validate checks fatal startup conditions.
func (c Config) Validate() error {
    if c.OpenAI.APIKey == "" {
        return ErrMissingAPIKey
    }
    return nil
}

// Helpers
func getEnv(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func parseInt(s string, def int) int {
    if s == "" { return def }
    if n, err := strconv.Atoi(s); err == nil { return n }
    return def
}

func parseBool(s string) bool {
    v := strings.ToLower(strings.TrimSpace(s))
    return v == "1" || v == "true" || v == "yes" || v == "on"
}

func parseDuration(s string, def time.Duration) time.Duration {
    if s == "" { return def }
    if d, err := time.ParseDuration(s); err == nil { return d }
    return def
}

func devDefaultPretty() string {
    env := strings.ToLower(os.Getenv("ENVIRONMENT"))
    if env == "dev" || env == "development" || env == "local" { return "true" }
    return "false"
}
