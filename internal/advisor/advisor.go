// Package advisor turns free-form descriptions into item suggestions and answers
// questions about the inventory with a generative model.
package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/tair/fabstock/internal/domain"
	"github.com/tair/fabstock/pkg/logger"
)

// Fixed answers returned by Advise instead of an error.
const (
	MissingKeyAnswer = "Veuillez configurer votre clé API pour utiliser l'assistant."
	FailureAnswer    = "Une erreur est survenue lors de la consultation de l'assistant."
	EmptyAnswer      = "Désolé, je n'ai pas pu générer de réponse."
)

const extractionTTL = 24 * time.Hour

// ItemSuggestion is the structured result of an extraction.
type ItemSuggestion struct {
	Name                 string          `json:"name"`
	Description          string          `json:"description"`
	Category             domain.Category `json:"category"`
	SuggestedQuantity    int             `json:"suggestedQuantity"`
	SuggestedMinQuantity int             `json:"suggestedMinQuantity"`
	LocationSuggestion   string          `json:"locationSuggestion"`
	EstimatedPrice       *float64        `json:"estimatedPrice,omitempty"`
}

// rawSuggestion mirrors the response schema, where every number is a float.
type rawSuggestion struct {
	Name                 string   `json:"name"`
	Description          string   `json:"description"`
	Category             string   `json:"category"`
	SuggestedQuantity    float64  `json:"suggestedQuantity"`
	SuggestedMinQuantity float64  `json:"suggestedMinQuantity"`
	LocationSuggestion   string   `json:"locationSuggestion"`
	EstimatedPrice       *float64 `json:"estimatedPrice"`
}

// Advisor wraps a Generator with prompts, response decoding and caching.
type Advisor struct {
	gen   Generator
	cache Cache
}

// New creates an Advisor. A nil gen means no API key is configured; a nil cache disables caching.
func New(gen Generator, cache Cache) *Advisor {
	return &Advisor{gen: gen, cache: cache}
}

// Enabled reports whether a generator is configured.
func (a *Advisor) Enabled() bool {
	return a.gen != nil
}

// Extract suggests item fields for a free-form description.
func (a *Advisor) Extract(ctx context.Context, text string) (*ItemSuggestion, error) {
	if a.gen == nil {
		return nil, &domain.ConfigurationError{Message: "Gemini API key is missing"}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &domain.ValidationError{Field: "text", Message: "is required"}
	}

	key := cacheKey("extract", text)
	if cached, ok := a.lookup(ctx, key); ok {
		var s ItemSuggestion
		if err := json.Unmarshal(cached, &s); err == nil {
			return &s, nil
		}
	}

	out, err := a.gen.Generate(ctx, extractionPrompt(text), suggestionSchema())
	if err != nil {
		logger.Error(ctx).Err(err).Msg("Item extraction failed")
		return nil, fmt.Errorf("failed to analyze item text: %w", err)
	}

	var raw rawSuggestion
	if err := json.Unmarshal([]byte(out), &raw); err != nil {
		return nil, fmt.Errorf("failed to decode item suggestion: %w", err)
	}
	s := raw.normalize()

	if encoded, err := json.Marshal(s); err == nil {
		a.store(ctx, key, encoded)
	}
	return s, nil
}

// Advise answers question about the given inventory. It never fails: problems are
// reported through fixed answers.
func (a *Advisor) Advise(ctx context.Context, question string, items []domain.InventoryItem) string {
	if a.gen == nil {
		return MissingKeyAnswer
	}

	out, err := a.gen.Generate(ctx, advicePrompt(question, items), nil)
	if err != nil {
		logger.Error(ctx).Err(err).Msg("Assistant request failed")
		return FailureAnswer
	}
	if strings.TrimSpace(out) == "" {
		return EmptyAnswer
	}
	return out
}

func (a *Advisor) lookup(ctx context.Context, key string) ([]byte, bool) {
	if a.cache == nil {
		return nil, false
	}
	value, ok, err := a.cache.Get(ctx, key)
	if err != nil {
		logger.Warn(ctx).Err(err).Msg("Advisor cache read failed")
		return nil, false
	}
	return value, ok
}

func (a *Advisor) store(ctx context.Context, key string, value []byte) {
	if a.cache == nil {
		return
	}
	if err := a.cache.Set(ctx, key, value, extractionTTL); err != nil {
		logger.Warn(ctx).Err(err).Msg("Advisor cache write failed")
	}
}

func (r rawSuggestion) normalize() *ItemSuggestion {
	s := &ItemSuggestion{
		Name:                 strings.TrimSpace(r.Name),
		Description:          r.Description,
		Category:             domain.ParseCategory(r.Category),
		SuggestedQuantity:    max(1, int(math.Round(r.SuggestedQuantity))),
		SuggestedMinQuantity: max(0, int(math.Round(r.SuggestedMinQuantity))),
		LocationSuggestion:   r.LocationSuggestion,
	}
	if r.EstimatedPrice != nil && *r.EstimatedPrice >= 0 {
		price := math.Round(*r.EstimatedPrice*100) / 100
		s.EstimatedPrice = &price
	}
	return s
}
