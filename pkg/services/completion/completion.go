// Package completion contains text completion provider clients.
package completion

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/seo-atlas/pkg/metrics"
	"github.com/de-tools/seo-atlas/pkg/models/domain"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

// systemPrompt is sent with every completion request.
const systemPrompt = "You are an expert SEO and content marketing specialist. Always respond in the same language as the user prompt."

type GenerateOptions struct {
	MaxTokens   int
	Temperature float64
}

func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		MaxTokens:   1000,
		Temperature: 0.7,
	}
}

func (o GenerateOptions) withDefaults() GenerateOptions {
	def := DefaultGenerateOptions()
	if o.MaxTokens <= 0 {
		o.MaxTokens = def.MaxTokens
	}
	if o.Temperature <= 0 {
		o.Temperature = def.Temperature
	}
	return o
}

// Service turns a prompt into generated text. Failures are wrapped with domain.ErrProvider.
type Service interface {
	Name() string
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

type Settings struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
}

func DefaultSettings() Settings {
	return Settings{
		Provider: ProviderOpenAI,
		Timeout:  60 * time.Second,
	}
}

// NewFromSettings creates the Service for the configured provider.
func NewFromSettings(s Settings) (Service, error) {
	if s.Timeout <= 0 {
		s.Timeout = DefaultSettings().Timeout
	}

	switch s.Provider {
	case ProviderOpenAI, "":
		if s.APIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return NewOpenAIClient(s.APIKey, s.Model, s.BaseURL, s.Timeout), nil
	case ProviderAnthropic:
		if s.APIKey == "" {
			return nil, fmt.Errorf("Anthropic API key is required")
		}
		return NewAnthropicClient(s.APIKey, s.Model, s.Timeout), nil
	case ProviderOllama:
		return NewOllamaClient(s.Model, s.BaseURL, s.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", s.Provider)
	}
}

type instrumented struct {
	next    Service
	metrics *metrics.Metrics
}

// WithMetrics counts every Generate call on m by provider and outcome.
func WithMetrics(next Service, m *metrics.Metrics) Service {
	if m == nil {
		return next
	}
	return &instrumented{next: next, metrics: m}
}

func (s *instrumented) Name() string {
	return s.next.Name()
}

func (s *instrumented) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	text, err := s.next.Generate(ctx, prompt, opts)
	s.metrics.ObserveCompletion(s.next.Name(), err)
	return text, err
}

func providerError(provider string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrProvider, provider, err)
}

type unconfigured struct {
	reason error
}

// Unconfigured is used when no provider could be built. Every call fails with ErrProvider.
func Unconfigured(reason error) Service {
	return &unconfigured{reason: reason}
}

func (u *unconfigured) Name() string {
	return "unconfigured"
}

func (u *unconfigured) Generate(context.Context, string, GenerateOptions) (string, error) {
	return "", fmt.Errorf("%w: API key not configured: %w", domain.ErrProvider, u.reason)
}
