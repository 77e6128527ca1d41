package search

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"

	"github.com/poiesic/carprompt/ai"
	"github.com/poiesic/carprompt/core"
)

// VectorScorer scores candidates by cosine similarity to the embedded
// keywords.
type VectorScorer struct {
	embedder ai.Embedder
	logger   *slog.Logger
}

// NewVectorScorer creates a VectorScorer around embedder.
func NewVectorScorer(embedder ai.Embedder, logger *slog.Logger) (*VectorScorer, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &VectorScorer{
		embedder: embedder,
		logger:   logger.With("component", "vector_scorer"),
	}, nil
}

// Score embeds the space-joined keywords once and returns the similarity of
// every candidate carrying an embedding, clamped to [0,1]. No keywords means
// no embedding call and an empty map. Candidates without an embedding, or
// with one of a different dimension, are left out of the map.
func (v *VectorScorer) Score(ctx context.Context, keywords []string, candidates []*core.Listing) (map[core.ID]float64, error) {
	scores := make(map[core.ID]float64)
	if len(keywords) == 0 {
		return scores, nil
	}

	query, err := v.embedder.EmbedText(ctx, strings.Join(keywords, " "))
	if err != nil {
		return nil, err
	}

	for _, candidate := range candidates {
		if len(candidate.Vector) == 0 {
			continue
		}
		sim, err := core.CosineSimilarity(query, candidate.Vector)
		if err != nil {
			if errors.Is(err, core.ErrDimensionMismatch) {
				v.logger.Warn("skipping candidate with mismatched embedding", "id", candidate.Id, "err", err)
				continue
			}
			return nil, err
		}
		scores[candidate.Id] = math.Max(0, sim)
	}
	return scores, nil
}
