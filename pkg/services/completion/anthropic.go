package completion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aktagon/llmkit/anthropic"
	"github.com/aktagon/llmkit/anthropic/types"
)

const anthropicDefaultModel = "claude-3-haiku-20240307"

type promptFunc func(system, user string, settings types.RequestSettings) (string, error)

// AnthropicClient calls the Messages API through llmkit.
type AnthropicClient struct {
	model   string
	timeout time.Duration
	prompt  promptFunc
}

func NewAnthropicClient(apiKey, model string, timeout time.Duration) *AnthropicClient {
	if model == "" {
		model = anthropicDefaultModel
	}
	return &AnthropicClient{
		model:   model,
		timeout: timeout,
		prompt: func(system, user string, settings types.RequestSettings) (string, error) {
			response, err := anthropic.PromptWithSettings(system, user, "", apiKey, settings)
			if err != nil {
				return "", err
			}
			if len(response.Content) == 0 {
				return "", fmt.Errorf("no content in response")
			}
			return response.Content[0].Text, nil
		},
	}
}

func (c *AnthropicClient) Name() string {
	return ProviderAnthropic
}

type promptResult struct {
	text string
	err  error
}

// Generate runs the blocking llmkit call in a goroutine so ctx and the timeout can abandon it.
func (c *AnthropicClient) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	opts = opts.withDefaults()
	settings := types.RequestSettings{
		Model:       c.model,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	done := make(chan promptResult, 1)
	go func() {
		text, err := c.prompt(systemPrompt, prompt, settings)
		done <- promptResult{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", providerError(c.Name(), ctx.Err())
	case res := <-done:
		if res.err != nil {
			return "", providerError(c.Name(), res.err)
		}
		text := strings.TrimSpace(res.text)
		if text == "" {
			return "", providerError(c.Name(), fmt.Errorf("empty response"))
		}
		return text, nil
	}
}
