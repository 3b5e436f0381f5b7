package advisor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/tair/fabstock/internal/domain"
)

type fakeGenerator struct {
	out     string
	err     error
	calls   int
	prompts []string
	schemas []*genai.Schema
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string, schema *genai.Schema) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	f.schemas = append(f.schemas, schema)
	return f.out, f.err
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte), ttls: make(map[string]time.Duration)}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.ttls[key] = ttl
	return nil
}

const arduinoJSON = `{"name":"Arduino Nano","description":"Carte ATmega328P","category":"electronics",
"suggestedQuantity":4.0,"suggestedMinQuantity":2,"locationSuggestion":"Armoire A","estimatedPrice":21.499}`

func TestExtractDecodesSuggestion(t *testing.T) {
	gen := &fakeGenerator{out: arduinoJSON}
	a := New(gen, nil)

	s, err := a.Extract(context.Background(), "4 arduino nano neufs")

	require.NoError(t, err)
	assert.Equal(t, "Arduino Nano", s.Name)
	assert.Equal(t, domain.CategoryElectronics, s.Category)
	assert.Equal(t, 4, s.SuggestedQuantity)
	assert.Equal(t, 2, s.SuggestedMinQuantity)
	require.NotNil(t, s.EstimatedPrice)
	assert.Equal(t, 21.5, *s.EstimatedPrice)

	require.Len(t, gen.schemas, 1)
	assert.Equal(t, []string{"name", "category", "suggestedQuantity"}, gen.schemas[0].Required)
	assert.Contains(t, gen.prompts[0], "4 arduino nano neufs")
}

func TestExtractNormalizesModelOutput(t *testing.T) {
	gen := &fakeGenerator{out: `{"name":" Colle ","category":"Consommables","suggestedQuantity":0,"suggestedMinQuantity":-3,"estimatedPrice":-1}`}

	s, err := New(gen, nil).Extract(context.Background(), "colle")

	require.NoError(t, err)
	assert.Equal(t, "Colle", s.Name)
	assert.Equal(t, domain.CategoryConsumables, s.Category, "labels are accepted")
	assert.Equal(t, 1, s.SuggestedQuantity)
	assert.Equal(t, 0, s.SuggestedMinQuantity)
	assert.Nil(t, s.EstimatedPrice)

	gen.out = `{"name":"Truc","category":"Librairie / Documentation","suggestedQuantity":1}`
	s, err = New(gen, nil).Extract(context.Background(), "livre")
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryOther, s.Category)
}

func TestExtractWithoutKey(t *testing.T) {
	_, err := New(nil, nil).Extract(context.Background(), "anything")

	var configErr *domain.ConfigurationError
	assert.True(t, errors.As(err, &configErr))
}

func TestExtractErrors(t *testing.T) {
	ctx := context.Background()

	_, err := New(&fakeGenerator{}, nil).Extract(ctx, "   ")
	var validationErr *domain.ValidationError
	assert.True(t, errors.As(err, &validationErr))

	boom := errors.New("quota exceeded")
	_, err = New(&fakeGenerator{err: boom}, nil).Extract(ctx, "vis")
	assert.ErrorIs(t, err, boom)

	_, err = New(&fakeGenerator{out: "not json"}, nil).Extract(ctx, "vis")
	assert.Error(t, err)
}

func TestExtractUsesCache(t *testing.T) {
	ctx := context.Background()
	gen := &fakeGenerator{out: arduinoJSON}
	cache := newMemCache()
	a := New(gen, cache)

	first, err := a.Extract(ctx, "arduino")
	require.NoError(t, err)
	second, err := a.Extract(ctx, "  arduino ")
	require.NoError(t, err)

	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, first, second)
	assert.Equal(t, extractionTTL, cache.ttls[cacheKey("extract", "arduino")])
}

func TestAdvise(t *testing.T) {
	ctx := context.Background()
	items := domain.SeedSnapshot().Items

	assert.Equal(t, MissingKeyAnswer, New(nil, nil).Advise(ctx, "?", items))
	assert.Equal(t, FailureAnswer, New(&fakeGenerator{err: errors.New("down")}, nil).Advise(ctx, "?", items))
	assert.Equal(t, EmptyAnswer, New(&fakeGenerator{out: " "}, nil).Advise(ctx, "?", items))

	gen := &fakeGenerator{out: "Oui, vous avez assez de PLA."}
	answer := New(gen, nil).Advise(ctx, "Puis-je imprimer 3 boîtiers ?", items)

	assert.Equal(t, "Oui, vous avez assez de PLA.", answer)
	assert.Nil(t, gen.schemas[0])
	assert.Contains(t, gen.prompts[0], "- Arduino Uno R3 (12 en stock, Loc: Armoire A, Étagère 2)")
	assert.Contains(t, gen.prompts[0], "en français")
	assert.Contains(t, gen.prompts[0], "Puis-je imprimer 3 boîtiers ?")
}

func TestCacheKeyIsStable(t *testing.T) {
	assert.Equal(t, cacheKey("extract", "a"), cacheKey("extract", "a"))
	assert.NotEqual(t, cacheKey("extract", "a"), cacheKey("extract", "b"))
	assert.Len(t, cacheKey("extract", "a"), len("extract:")+64)
}
