// Package letter builds cover letters from a job and a persona, driving an
// ordered list of text-generation providers with bounded fallback.
package letter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	_ "embed"

	"jobpilot/internal/ai"
	"jobpilot/internal/logger"
	"jobpilot/internal/persona"
	"jobpilot/internal/store"
	"jobpilot/internal/utils"

	"go.uber.org/zap"
)

//go:embed prompts/cover_letter.md
var coverLetterPromptRaw string

// coverLetterTemplate is parsed once at package init and reused on every call.
var coverLetterTemplate = template.Must(template.New("cover_letter").Parse(coverLetterPromptRaw))

// ErrGenerationUnavailable is returned when every configured provider failed
// or timed out. No letter is produced in that case.
var ErrGenerationUnavailable = errors.New("letter generation unavailable")

const (
	defaultMinWords  = 150
	defaultMaxWords  = 350
	defaultMaxTokens = 800
	defaultClosing   = "Med vänlig hälsning"
)

// retryDelay spaces the single bounded retry against a provider.
var retryDelay = 2 * time.Second

// Config bounds the generated text. Zero values fall back to defaults.
type Config struct {
	MinWords  int
	MaxWords  int
	MaxTokens int
	// Closing is the phrase the letter must end with.
	Closing string
}

func (c Config) withDefaults() Config {
	if c.MinWords <= 0 {
		c.MinWords = defaultMinWords
	}
	if c.MaxWords <= 0 {
		c.MaxWords = defaultMaxWords
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = defaultMaxTokens
	}
	if strings.TrimSpace(c.Closing) == "" {
		c.Closing = defaultClosing
	}
	return c
}

// Letter is the produced text plus its review flag. NeedsReview marks output
// that violated the length or closing policy; it is surfaced, never rejected.
type Letter struct {
	Text         string
	Provider     string
	WordCount    int
	NeedsReview  bool
	ReviewReason string
}

// Generator produces letters. It has no persistence side effects; results go
// back to the orchestrator.
type Generator struct {
	providers []ai.Generator
	config    Config
	logger    *zap.Logger
}

// New creates a Generator over an ordered provider fallback list. Any number
// of providers can be configured; they are tried in declared order.
func New(providers []ai.Generator, cfg Config, log *zap.Logger) (*Generator, error) {
	if len(providers) == 0 {
		return nil, errors.New("at least one text-generation provider is required")
	}

	return &Generator{
		providers: providers,
		config:    cfg.withDefaults(),
		logger:    logger.With(log),
	}, nil
}

type promptData struct {
	Title          string
	Company        string
	Location       string
	Description    string
	WhyPerfect     string
	PersonaName    string
	PersonaSummary string
	MinWords       int
	MaxWords       int
	Closing        string
}

// BuildPrompt renders the generation prompt for the job and persona.
func (g *Generator) BuildPrompt(job *store.Job, p persona.Persona) (string, error) {
	const maxDescriptionRunes = 1500

	data := promptData{
		Title:          job.Title,
		Company:        job.Company,
		Location:       job.Location,
		Description:    logger.TruncateForLog(job.Description, maxDescriptionRunes),
		WhyPerfect:     job.WhyPerfect,
		PersonaName:    p.Name,
		PersonaSummary: p.Summary,
		MinWords:       g.config.MinWords,
		MaxWords:       g.config.MaxWords,
		Closing:        g.config.Closing,
	}

	var builder strings.Builder
	if err := coverLetterTemplate.Execute(&builder, data); err != nil {
		return "", fmt.Errorf("rendering letter prompt: %w", err)
	}

	return builder.String(), nil
}

// Generate builds one prompt and walks the provider list. A rate-limited
// provider is abandoned immediately in favor of the next one; a hard failure
// gets a single retry against the same provider before falling back. When all
// providers are exhausted the call fails with ErrGenerationUnavailable.
func (g *Generator) Generate(ctx context.Context, job *store.Job, p persona.Persona) (*Letter, error) {
	prompt, err := g.BuildPrompt(job, p)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for _, provider := range g.providers {
		text, err := g.callProvider(ctx, provider, prompt, job.ID)
		if err == nil {
			return g.validated(text, provider.Name(), job.ID), nil
		}

		lastErr = err
		g.logger.Warn("letter provider failed",
			zap.String("job_id", job.ID),
			zap.String(logger.FieldProvider, provider.Name()),
			zap.Bool("rate_limited", errors.Is(err, ai.ErrRateLimited)),
			zap.Error(err),
		)

		if ctx.Err() != nil {
			break
		}
	}

	return nil, fmt.Errorf("%w: %w", ErrGenerationUnavailable, lastErr)
}

func (g *Generator) callProvider(ctx context.Context, provider ai.Generator, prompt, jobID string) (string, error) {
	text, err := provider.Generate(ctx, prompt, g.config.MaxTokens)
	if err == nil {
		return text, nil
	}

	// Retrying a throttled provider straight away is pointless; fall back.
	if errors.Is(err, ai.ErrRateLimited) || ctx.Err() != nil {
		return "", err
	}

	g.logger.Debug("retrying letter provider once",
		zap.String("job_id", jobID),
		zap.String(logger.FieldProvider, provider.Name()),
		zap.Error(err),
	)

	if waitErr := utils.WaitFor(ctx, retryDelay); waitErr != nil {
		return "", err
	}

	return provider.Generate(ctx, prompt, g.config.MaxTokens)
}

// validated post-checks the text against the word window and closing phrase.
// A violation flags the letter for review instead of rejecting it; the
// generator never re-prompts on validation failures.
func (g *Generator) validated(text, providerName, jobID string) *Letter {
	text = strings.TrimSpace(text)
	words := len(strings.Fields(text))

	result := &Letter{
		Text:      text,
		Provider:  providerName,
		WordCount: words,
	}

	switch {
	case words < g.config.MinWords:
		result.NeedsReview = true
		result.ReviewReason = fmt.Sprintf("letter is %d words, expected at least %d", words, g.config.MinWords)
	case words > g.config.MaxWords:
		result.NeedsReview = true
		result.ReviewReason = fmt.Sprintf("letter is %d words, expected at most %d", words, g.config.MaxWords)
	case !strings.Contains(strings.ToLower(text), strings.ToLower(g.config.Closing)):
		result.NeedsReview = true
		result.ReviewReason = fmt.Sprintf("letter is missing the closing phrase %q", g.config.Closing)
	}

	if result.NeedsReview {
		g.logger.Warn("letter flagged for review",
			zap.String("job_id", jobID),
			zap.String(logger.FieldProvider, providerName),
			zap.String("reason", result.ReviewReason),
		)
	}

	return result
}
