package main

import (
    "context"
    "fmt"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/joho/godotenv"
    "github.com/rs/zerolog/log"

    "github.com/local/esquelas/internal/ai"
    "github.com/local/esquelas/internal/api"
    cfgpkg "github.com/local/esquelas/internal/config"
    "github.com/local/esquelas/internal/extract"
    logpkg "github.com/local/esquelas/internal/logger"
    "github.com/local/esquelas/internal/metrics"
    "github.com/local/esquelas/internal/render"
)

func main() {
    _ = godotenv.Load()
    cfg := cfgpkg.FromEnv()

    // Init logging
    _ = logpkg.Init(logpkg.Options{
        Level:        cfg.Logging.Level,
        Pretty:       cfg.Logging.Pretty,
        File:         cfg.Logging.File,
        MaxSizeMB:    cfg.Logging.MaxSizeMB,
        MaxBackups:   cfg.Logging.MaxBackups,
        MaxAgeDays:   cfg.Logging.MaxAgeDays,
        Compress:     cfg.Logging.Compress,
        SendToAxiom:  cfg.Axiom.Send && cfg.Axiom.APIKey != "",
        AxiomAPIKey:  cfg.Axiom.APIKey,
        AxiomOrgID:   cfg.Axiom.OrgID,
        AxiomDataset: cfg.Axiom.Dataset,
        AxiomFlush:   cfg.Axiom.FlushInterval,
    })
    defer logpkg.Close()

    if err := cfg.Validate(); err != nil {
        log.Fatal().Err(err).Msg("invalid configuration")
    }

    metrics.Init()

    // Single model client and renderer, shared read-only across requests.
    client := ai.NewOpenAIClient(cfg.OpenAI)
    svc := extract.NewService(client, render.New(), extract.Config{
        Model:           cfg.OpenAI.Model,
        DPI:             cfg.Render.DPI,
        DefaultMaxPages: cfg.Render.DefaultMaxPages,
        MaxPagesLimit:   cfg.Render.MaxPagesLimit,
    })

    mux := http.NewServeMux()
    api.New(svc, cfg.OpenAI.Model).RegisterRoutes(mux)

    addr := cfg.Server.Host + ":" + cfg.Server.Port
    srv := &http.Server{Addr: addr, Handler: mux}

    go func() {
        log.Info().Str("model", cfg.OpenAI.Model).Msgf("HTTP server listening on %s", addr)
        if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            log.Fatal().Err(err).Msg("http server error")
        }
    }()

    // Graceful shutdown
    stop := make(chan os.Signal, 1)
    signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
    <-stop
    ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    _ = srv.Shutdown(ctx)
    fmt.Println("shutdown complete")
}
