package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/carprompt/ai"
	"github.com/poiesic/carprompt/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// parseAttempts bounds retries when the model returns something that is not
// a JSON object.
const parseAttempts = 3

// FilterParser implements ai.FilterParser using an OpenAI-compatible chat API
// in JSON mode.
type FilterParser struct {
	client llms.Model
	now    func() time.Time
	logger *slog.Logger
}

// newFilterParser is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newFilterParser(config *ai.Config) (*FilterParser, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ParserHost),
		openai.WithToken(token(config)),
		openai.WithModel(config.ParserModel),
	)
	if err != nil {
		return nil, err
	}
	return newFilterParserWithModel(client), nil
}

func newFilterParserWithModel(client llms.Model) *FilterParser {
	return &FilterParser{
		client: client,
		now:    time.Now,
		logger: slog.Default().With("component", "openai-parser"),
	}
}

// NewFilterParser creates a new prompt parser using the provided configuration.
//
// Returns ai.FilterParser interface to enforce abstraction.
func NewFilterParser(config *ai.Config) (ai.FilterParser, error) {
	return newFilterParser(config)
}

// ParseFilters asks the model for filters and decodes its answer through
// ai.DecodeFilterSet.
func (p *FilterParser) ParseFilters(ctx context.Context, prompt string) (core.FilterSet, error) {
	prompt = scrubPrompt(prompt)
	if prompt == "" {
		return core.EmptyFilterSet(), nil
	}

	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, buildParsePrompt(p.now().Year())),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	var lastErr error
	for attempt := 0; attempt < parseAttempts; attempt++ {
		response, err := p.client.GenerateContent(ctx, content, llms.WithTemperature(0.1), llms.WithJSONMode())
		if err != nil {
			p.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return core.FilterSet{}, fmt.Errorf("%w: %w", ai.ErrParseFailure, err)
		}

		if len(response.Choices) < 1 {
			p.logger.Debug("no choices returned from model")
			return core.EmptyFilterSet(), nil
		}

		responseText := cleanResponse(response.Choices[0].Content)
		filters, dropped, err := ai.DecodeFilterSet([]byte(responseText))
		if err != nil {
			if !errors.Is(err, ai.ErrParseFailure) {
				return core.FilterSet{}, err
			}
			lastErr = err
			p.logger.Warn("error parsing model response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		if len(dropped) > 0 {
			p.logger.Warn("dropped malformed filter fields", "fields", dropped)
		}
		p.logger.Debug("parsed filters", "prompt", prompt, "keywords", filters.Keywords)
		return filters, nil
	}

	p.logger.Error("failed to parse model response after retries", "err", lastErr)
	return core.FilterSet{}, lastErr
}

// token returns the bearer token for config. Local OpenAI-compatible
// services that don't require authentication accept "none".
func token(config *ai.Config) string {
	if key := strings.TrimSpace(config.APIKey); key != "" {
		return key
	}
	return "none"
}
