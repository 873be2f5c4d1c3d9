package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobpilot/internal/ai"
	"jobpilot/internal/ai/anthropic"
	"jobpilot/internal/ai/gemini"
	"jobpilot/internal/draft"
	"jobpilot/internal/letter"
	"jobpilot/internal/persona"
	"jobpilot/internal/pipeline"
	"jobpilot/internal/secrets"
	"jobpilot/internal/source"
	"jobpilot/internal/source/platsbanken"
	"jobpilot/internal/store"

	"go.uber.org/zap"
)

const defaultLetterTimeout = 120 * time.Second

func newStore(config *Config) (*store.Store, error) {
	cfg := store.Config{}
	if config.Database != nil {
		cfg.Path = config.Database.Path
	}
	return store.Open(cfg)
}

func newSelector(config *Config) *persona.Selector {
	personas := persona.Defaults()
	defaultName := persona.DefaultName

	if config.Personas != nil {
		if len(config.Personas.List) > 0 {
			personas = config.Personas.List
		}
		if config.Personas.Default != "" {
			defaultName = config.Personas.Default
		}
	}

	return persona.NewSelector(personas, defaultName)
}

// newProviders builds the text-generation fallback list in configured order.
// A provider whose key is not configured is skipped with a warning so the
// remaining ones still work.
func newProviders(ctx context.Context, config *Config, logger *zap.Logger) ([]ai.Generator, error) {
	aiCfg := config.AI
	if aiCfg == nil {
		aiCfg = &AIConfig{}
	}

	order := aiCfg.Order
	if len(order) == 0 {
		order = []string{"gemini", "anthropic"}
	}

	var providers []ai.Generator
	for _, name := range order {
		switch strings.TrimSpace(strings.ToLower(name)) {
		case "gemini":
			provider, err := newGeminiProvider(ctx, aiCfg.Gemini, logger)
			if err != nil {
				logger.Warn("skipping gemini provider", zap.Error(err))
				continue
			}
			providers = append(providers, provider)
		case "anthropic":
			provider, err := newAnthropicProvider(aiCfg.Anthropic, logger)
			if err != nil {
				logger.Warn("skipping anthropic provider", zap.Error(err))
				continue
			}
			providers = append(providers, provider)
		default:
			return nil, fmt.Errorf("unsupported ai provider: %s", name)
		}
	}

	if len(providers) == 0 {
		return nil, errors.New("no text-generation provider is configured (set ai.gemini.api-key-file or ai.anthropic.api-key-file)")
	}

	return providers, nil
}

func newGeminiProvider(ctx context.Context, cfg *GeminiConfig, logger *zap.Logger) (ai.Generator, error) {
	if cfg == nil {
		cfg = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, err
	}

	return gemini.New(ctx, apiKey, cfg.Model, logger)
}

func newAnthropicProvider(cfg *AnthropicConfig, logger *zap.Logger) (ai.Generator, error) {
	if cfg == nil {
		cfg = &AnthropicConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "anthropic api key",
		File: cfg.APIKeyFile,
		Env:  "ANTHROPIC_API_KEY",
	})
	if err != nil {
		return nil, err
	}

	return anthropic.New(anthropic.Config{
		APIKey:  apiKey,
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
	}, logger)
}

func newLetterGenerator(ctx context.Context, config *Config, logger *zap.Logger) (*letter.Generator, error) {
	providers, err := newProviders(ctx, config, logger)
	if err != nil {
		return nil, err
	}

	cfg := letter.Config{}
	if config.Letter != nil {
		cfg.MinWords = config.Letter.MinWords
		cfg.MaxWords = config.Letter.MaxWords
		cfg.MaxTokens = config.Letter.MaxTokens
		cfg.Closing = config.Letter.Closing
	}

	return letter.New(providers, cfg, logger)
}

// newDraftCreator builds the Gmail capability. A missing token is not fatal
// here: the creator reports config-missing on first use instead, so commands
// that never draft still run.
func newDraftCreator(config *Config, logger *zap.Logger) draft.Creator {
	cfg := draft.GmailConfig{}
	if config.Gmail != nil {
		cfg.Sender = config.Gmail.Sender

		token, err := secrets.Load(secrets.Source{
			Name: "gmail access token",
			File: config.Gmail.TokenFile,
			Env:  "GMAIL_ACCESS_TOKEN",
		})
		if err != nil {
			logger.Warn("gmail draft capability is not configured", zap.Error(err))
		} else {
			cfg.AccessToken = token
		}
	}

	return draft.NewGmail(cfg, logger)
}

func newPipeline(ctx context.Context, config *Config, logger *zap.Logger) (*pipeline.Pipeline, error) {
	st, err := newStore(config)
	if err != nil {
		return nil, err
	}

	letters, err := newLetterGenerator(ctx, config, logger)
	if err != nil {
		return nil, err
	}

	return pipeline.New(st, newSelector(config), letters, newDraftCreator(config, logger), logger), nil
}

func newSource(config *Config, logger *zap.Logger) *platsbanken.Client {
	cfg := platsbanken.Config{}
	if config.Source != nil {
		cfg.Keywords = config.Source.Keywords
		cfg.MaxRecords = config.Source.MaxRecords
		cfg.UserAgent = config.Source.UserAgent
	}

	return platsbanken.New(cfg, logger)
}

func ingestFilters(config *Config) []source.Filter {
	filters := []source.Filter{source.NewDeadlineFilter()}
	if config.Source != nil && len(config.Source.Locations) > 0 {
		filters = append(filters, source.NewLocationFilter(config.Source.Locations))
	}
	return filters
}

func letterTimeout(config *Config) time.Duration {
	if config.Letter != nil && config.Letter.TimeoutSeconds > 0 {
		return time.Duration(config.Letter.TimeoutSeconds) * time.Second
	}
	return defaultLetterTimeout
}
