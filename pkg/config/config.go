package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
)

type Config struct {
	App        AppConfig                 `json:"app"`
	Server     ServerConfig              `json:"server"`
	Gateways   map[string]GatewayConfig  `json:"gateways"`
	Providers  map[string]ProviderConfig `json:"providers"`
	Prompts    PromptsConfig             `json:"prompts"`
	Enrichment EnrichmentConfig          `json:"enrichment"`
}

type AppConfig struct {
	Name string `json:"name"`
}

type ServerConfig struct {
	Port                  int `json:"port"`
	SessionTimeoutMinutes int `json:"session_timeout_minutes"`
}

type GatewayConfig struct {
	Token   string `json:"token"`
	Enabled bool   `json:"enabled"`
}

type ProviderConfig struct {
	APIKey  string `json:"api_key"`
	Model   string `json:"model"`
	BaseURL string `json:"base_url,omitempty"`
	Enabled bool   `json:"enabled"`
}

type PromptsConfig struct {
	// Directory overrides the embedded stage prompts when set.
	Directory string `json:"directory"`
}

type EnrichmentConfig struct {
	MaxURLs  int `json:"max_urls"`
	MaxChars int `json:"max_chars"`
}

// Default returns the configuration used when no config file is present.
// The OpenAI provider is enabled but keyless; the key must come from the
// OPENAI_API_KEY environment variable.
func Default() *Config {
	return &Config{
		App: AppConfig{Name: "sutra"},
		Server: ServerConfig{
			Port:                  8080,
			SessionTimeoutMinutes: 30,
		},
		Providers: map[string]ProviderConfig{
			"openai": {Model: "gpt-4o-mini", Enabled: true},
		},
		Enrichment: EnrichmentConfig{MaxURLs: 3, MaxChars: 8000},
	}
}

// LoadConfig reads the JSON config file at path, falling back to defaults
// when the file does not exist. Environment variables are merged afterwards,
// so OPENAI_API_KEY always wins over the file.
func LoadConfig(path string) *Config {
	cfg := Default()

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("config file %s not found, using defaults", path)
			cfg.applyEnv()
			return cfg
		}
		log.Fatalf("failed to open config file: %v", err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(cfg); err != nil {
		log.Fatalf("failed to decode config file: %v", err)
	}

	cfg.applyEnv()
	return cfg
}

func (c *Config) applyEnv() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		for name, p := range c.Providers {
			if name == "openai" || name == "openrouter" {
				p.APIKey = key
				c.Providers[name] = p
			}
		}
	}
	if port := os.Getenv("PORT"); port != "" {
		var v int
		if _, err := fmt.Sscanf(port, "%d", &v); err == nil && v > 0 {
			c.Server.Port = v
		}
	}
}

// Validate checks the parts of the config that must be present at startup.
func (c *Config) Validate() error {
	name, p := c.GetDefaultProvider()
	if name == "" {
		return fmt.Errorf("no enabled provider found in config")
	}
	if p.APIKey == "" {
		return fmt.Errorf("provider %s has no API key: set OPENAI_API_KEY or providers.%s.api_key", name, name)
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server port must be positive, got %d", c.Server.Port)
	}
	return nil
}

// GetDefaultProvider returns the first enabled provider
func (c *Config) GetDefaultProvider() (string, ProviderConfig) {
	for name, p := range c.Providers {
		if p.Enabled {
			return name, p
		}
	}
	return "", ProviderConfig{}
}

// GetTelegramConfig returns telegram config if enabled
func (c *Config) GetTelegramConfig() (GatewayConfig, bool) {
	tg, ok := c.Gateways["telegram"]
	if ok && tg.Enabled && tg.Token != "" {
		return tg, true
	}
	return GatewayConfig{}, false
}
