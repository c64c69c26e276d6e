package main

import (
	"fmt"
	"os"
	"time"

	"rtmd/internal/analysis"
	"rtmd/internal/core"
	"rtmd/internal/llm"
	"rtmd/internal/server"
	"rtmd/internal/store"
)

func main() {
	cfg, err := core.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := core.NewLogger(cfg.LogLevel)

	// Gateway client is optional: without an API key the analysis
	// endpoints report 503 while the rest of the dashboard keeps working.
	var exec analysis.Executor
	if cfg.Gateway.APIKey != "" {
		client, err := llm.NewClient(&llm.Config{
			APIKey:       cfg.Gateway.APIKey,
			BaseURL:      cfg.Gateway.BaseURL,
			DefaultModel: cfg.Gateway.Model,
			Timeout:      time.Duration(cfg.Gateway.TimeoutSeconds) * time.Second,
			MaxRetries:   cfg.Gateway.MaxRetries,
		}, log)
		if err != nil {
			log.Error("failed to init gateway client", "error", err.Error())
			os.Exit(1)
		}
		exec = analysis.NewGatewayExecutor(client)
	} else {
		log.Warn("GATEWAY_API_KEY not set; analysis endpoints disabled")
	}

	requirements := store.New()
	runner := analysis.NewRunner(requirements, exec, log)

	router := server.NewRouter(server.RouterConfig{
		RequirementHandler: server.NewRequirementHandler(requirements, cfg.ExportDir, log),
		AnalysisHandler:    server.NewAnalysisHandler(runner, log),
		AllowedOrigins:     cfg.AllowedOrigins,
	})

	log.Info("starting server", "addr", cfg.ListenAddr)
	if err := router.Run(cfg.ListenAddr); err != nil {
		log.Error("server stopped", "error", err.Error())
		os.Exit(1)
	}
}
