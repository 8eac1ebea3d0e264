package config

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
    for _, key := range []string{"OPENAI_MODEL", "APP_HOST", "APP_PORT", "RENDER_DPI", "OPENAI_TIMEOUT", "LOG_LEVEL"} {
        t.Setenv(key, "")
    }
    cfg := FromEnv()

    assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
    assert.Equal(t, "127.0.0.1", cfg.Server.Host)
    assert.Equal(t, "8000", cfg.Server.Port)
    assert.Equal(t, 200, cfg.Render.DPI)
    assert.Equal(t, 3, cfg.Render.DefaultMaxPages)
    assert.Equal(t, 10, cfg.Render.MaxPagesLimit)
    assert.Equal(t, 120*time.Second, cfg.OpenAI.RequestTimeout)
    assert.Equal(t, "info", cfg.Logging.Level)
}

func TestFromEnv_Overrides(t *testing.T) {
    t.Setenv("OPENAI_MODEL", "gpt-4o")
    t.Setenv("APP_PORT", "9000")
    t.Setenv("RENDER_DPI", "150")
    t.Setenv("OPENAI_TIMEOUT", "30s")

    cfg := FromEnv()
    assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
    assert.Equal(t, "9000", cfg.Server.Port)
    assert.Equal(t, 150, cfg.Render.DPI)
    assert.Equal(t, 30*time.Second, cfg.OpenAI.RequestTimeout)
}

func TestValidate_RequiresAPIKey(t *testing.T) {
    t.Setenv("OPENAI_API_KEY", "")
    cfg := FromEnv()
    err := cfg.Validate()
    require.Error(t, err)
    assert.ErrorIs(t, err, ErrMissingAPIKey)

    t.Setenv("OPENAI_API_KEY", "sk-test")
    cfg = FromEnv()
    assert.NoError(t, cfg.Validate())
}
