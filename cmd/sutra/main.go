package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rahul/sutra/internal/agent"
	"github.com/rahul/sutra/internal/gateway"
	"github.com/rahul/sutra/internal/governance"
	"github.com/rahul/sutra/internal/llm"
	"github.com/rahul/sutra/internal/observability"
	"github.com/rahul/sutra/internal/orchestrator"
	"github.com/rahul/sutra/internal/store"
	"github.com/rahul/sutra/internal/tools"
	"github.com/rahul/sutra/pkg/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

func main() {
	observability.PrintBanner()

	cfg := config.LoadConfig("config.json")
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	// Initialize LLM (using default enabled provider)
	pName, pCfg := cfg.GetDefaultProvider()
	if pName == "" {
		log.Fatal("No enabled provider found in config")
	}

	var model llms.Model
	var err error
	switch pName {
	case "openai", "openrouter":
		opts := []openai.Option{
			openai.WithToken(pCfg.APIKey),
			openai.WithModel(pCfg.Model),
		}
		if pCfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(pCfg.BaseURL))
		}
		model, err = openai.New(opts...)
	default:
		log.Fatalf("Provider %s not yet implemented in main", pName)
	}
	if err != nil {
		log.Fatal(err)
	}

	client := llm.NewClient(model)
	prompts := agent.NewPromptManager(cfg.Prompts.Directory)

	research := agent.NewResearchAgent(client, prompts)
	planning := agent.NewPlanningAgent(client, prompts)
	execution := agent.NewExecutionAgent(client, prompts)

	gov := governance.NewDefaultPolicyEngine()
	// Default safety rules: block obvious prompt-injection payloads
	_ = gov.DenyPattern(`(?i)ignore (all )?previous instructions`)
	_ = gov.DenyPattern(`(?i)reveal your system prompt`)

	logger := observability.NewLogger()

	history, err := store.NewHistoryStore(store.InMemoryDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer history.Close()

	fetcher := tools.NewFetcher(cfg.Enrichment.MaxChars)

	orch := orchestrator.New(research, planning, execution, gov, history, fetcher, logger)
	orch.MaxURLs = cfg.Enrichment.MaxURLs

	httpGW := gateway.NewHTTPGateway(cfg.App.Name, cfg.Server.Port, orch, history, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Session sweeper: idle sessions and their history drop off after the
	// configured timeout.
	go func() {
		timeout := time.Duration(cfg.Server.SessionTimeoutMinutes) * time.Minute
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := history.ExpireSessions(timeout); err != nil {
					log.Printf("Warning: session sweep failed: %v", err)
				} else if n > 0 {
					logger.LogSession("", "expired")
					log.Printf("[ SWEEP ] Expired %d idle session(s)", n)
				}
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				observability.Heartbeat()
				logger.LogHeartbeat()
			}
		}
	}()

	go func() {
		log.Printf("[ HTTP ] Listening on :%d", cfg.Server.Port)
		if err := httpGW.Start(); err != nil {
			log.Printf("\033[91m[ FAIL ] GATEWAY CRITICAL ERROR: %v\033[0m", err)
			stop() // stop caller if gateway dies
		}
	}()

	var tg *gateway.TelegramGateway
	if tgCfg, ok := cfg.GetTelegramConfig(); ok {
		tg, err = gateway.NewTelegramGateway(tgCfg.Token, orch)
		if err != nil {
			log.Fatal(err)
		}
		go func() {
			if err := tg.Start(); err != nil {
				log.Printf("\033[91m[ FAIL ] TELEGRAM GATEWAY ERROR: %v\033[0m", err)
			}
		}()
	}

	// Wait for shutdown signal
	<-ctx.Done()

	if err := httpGW.Stop(); err != nil {
		log.Printf("Warning: HTTP shutdown: %v", err)
	}
	if tg != nil {
		_ = tg.Stop()
	}

	// Give a short time for final logs/syncs
	time.Sleep(500 * time.Millisecond)
	log.Println("\033[95m[ EXIT ] CORE DE-INITIALIZED. GOODBYE.\033[0m")
}
