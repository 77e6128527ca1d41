package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/poiesic/carprompt/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// QueryExpander implements ai.QueryExpander with a chat model.
type QueryExpander struct {
	client llms.Model
	logger *slog.Logger
}

func newQueryExpander(config *ai.Config) (*QueryExpander, error) {
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
	return newQueryExpanderWithModel(client), nil
}

func newQueryExpanderWithModel(client llms.Model) *QueryExpander {
	return &QueryExpander{
		client: client,
		logger: slog.Default().With("component", "openai-expander"),
	}
}

// NewQueryExpander creates a new query expander using the provided configuration.
//
// Returns ai.QueryExpander interface to enforce abstraction.
func NewQueryExpander(config *ai.Config) (ai.QueryExpander, error) {
	return newQueryExpander(config)
}

// ExpandQuery asks the model for related terms. The model may answer with
// {"terms": [...]} or a bare array. Any failure degrades to []string{query}.
func (e *QueryExpander) ExpandQuery(ctx context.Context, query string) ([]string, error) {
	query = scrubPrompt(query)
	if query == "" {
		return []string{}, nil
	}

	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, expandSystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, buildExpandPrompt(query)),
	}
	response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.3), llms.WithJSONMode())
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		e.logger.Warn("query expansion failed", "err", err)
		return []string{query}, nil
	}
	if len(response.Choices) < 1 {
		return []string{query}, nil
	}

	terms := decodeTerms(cleanResponse(response.Choices[0].Content))
	if len(terms) == 0 {
		e.logger.Warn("unexpected expansion response", "response", response.Choices[0].Content)
		return []string{query}, nil
	}
	return terms, nil
}

// decodeTerms accepts {"terms": [...]} or [...] and returns the non-blank
// strings.
func decodeTerms(s string) []string {
	var raw []any
	var wrapped struct {
		Terms []any `json:"terms"`
	}
	if err := json.Unmarshal([]byte(s), &wrapped); err == nil && wrapped.Terms != nil {
		raw = wrapped.Terms
	} else if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil
	}

	terms := make([]string, 0, len(raw))
	for _, t := range raw {
		if str, ok := t.(string); ok {
			if str = strings.TrimSpace(str); str != "" {
				terms = append(terms, str)
			}
		}
	}
	return terms
}
