package similarity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phaniteluguti/Edutech-mvp/internal/models"
)

// stubEmbedder maps texts to fixed vectors. Unknown texts fail, which
// stands in for a provider outage on that input.
type stubEmbedder struct {
	vectors map[string][]float32
	calls   int
}

func (s *stubEmbedder) GenerateEmbedding(_ context.Context, text string) ([]float32, error) {
	s.calls++
	vec, ok := s.vectors[text]
	if !ok {
		return nil, errors.New("provider unavailable")
	}
	return vec, nil
}

type memoryCache struct {
	store map[string][]float32
}

func newMemoryCache() *memoryCache {
	return &memoryCache{store: map[string][]float32{}}
}

func (c *memoryCache) GetEmbedding(_ context.Context, hash string) ([]float32, bool, error) {
	vec, ok := c.store[hash]
	return vec, ok, nil
}

func (c *memoryCache) SetEmbedding(_ context.Context, hash string, vec []float32, _ time.Duration) error {
	c.store[hash] = vec
	return nil
}

func TestCosineSimilarity(t *testing.T) {
	a := []float32{1, 2, 3}

	assert.InDelta(t, 1.0, cosineSimilarity(a, a), 1e-9)

	// Orthogonal vectors score zero.
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)

	// Symmetry.
	b := []float32{3, 2, 1}
	assert.InDelta(t, cosineSimilarity(a, b), cosineSimilarity(b, a), 1e-12)

	// Zero norm yields zero, not NaN.
	assert.Equal(t, 0.0, cosineSimilarity([]float32{0, 0, 0}, a))
	assert.Equal(t, 0.0, cosineSimilarity(nil, a))
}

func TestSimilarity(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"first":  {1, 0},
		"second": {1, 0},
	}}
	c := NewChecker(embedder, 0, 0)

	score, err := c.Similarity(context.Background(), "first", "second")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestSimilarityErrorWrapsSentinel(t *testing.T) {
	c := NewChecker(&stubEmbedder{vectors: map[string][]float32{}}, 0, 0)

	_, err := c.Similarity(context.Background(), "a", "b")
	assert.ErrorIs(t, err, ErrEmbeddingUnavailable)

	// No embedder configured at all.
	_, err = NewChecker(nil, 0, 0).Similarity(context.Background(), "a", "b")
	assert.ErrorIs(t, err, ErrEmbeddingUnavailable)
}

func TestFindSimilarRanksAndTruncates(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"target": {1, 0},
		"close":  {1, 0.1},
		"mid":    {1, 1},
		"far":    {0, 1},
	}}
	c := NewChecker(embedder, 0, 0)

	target := models.Question{Text: "target"}
	candidates := []models.Question{
		{Text: "far"},
		{Text: "mid"},
		{Text: "close"},
	}

	similar, err := c.FindSimilar(context.Background(), target, candidates, 0.3, 10)
	require.NoError(t, err)

	require.Len(t, similar, 2)
	assert.Equal(t, "close", similar[0].Question.Text)
	assert.Equal(t, "mid", similar[1].Question.Text)
	assert.Greater(t, similar[0].Similarity, similar[1].Similarity)

	// The limit truncates after ranking.
	similar, err = c.FindSimilar(context.Background(), target, candidates, 0.3, 1)
	require.NoError(t, err)
	require.Len(t, similar, 1)
	assert.Equal(t, "close", similar[0].Question.Text)
}

func TestFindSimilarSkipsFailedCandidates(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"target": {1, 0},
		"good":   {1, 0},
	}}
	c := NewChecker(embedder, 0, 0)

	similar, err := c.FindSimilar(context.Background(),
		models.Question{Text: "target"},
		[]models.Question{{Text: "broken"}, {Text: "good"}, {Text: ""}},
		0.3, 10,
	)
	require.NoError(t, err)

	require.Len(t, similar, 1)
	assert.Equal(t, "good", similar[0].Question.Text)
}

func TestFindSimilarTargetFailureIsError(t *testing.T) {
	c := NewChecker(&stubEmbedder{vectors: map[string][]float32{}}, 0, 0)

	_, err := c.FindSimilar(context.Background(),
		models.Question{Text: "target"},
		[]models.Question{{Text: "candidate"}},
		0.3, 10,
	)
	assert.ErrorIs(t, err, ErrEmbeddingUnavailable)
}

func TestCheckOriginalityThresholdIsStrict(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"generated": {1, 0},
		"existing":  {1, 0},
	}}
	c := NewChecker(embedder, 0, 0)

	// Identical texts embed identically: similarity 1.0 >= 0.9 fails.
	result, err := c.CheckOriginality(context.Background(),
		models.Question{Text: "generated"},
		[]models.Question{{Text: "existing"}},
		0,
	)
	require.NoError(t, err)

	assert.False(t, result.IsOriginal)
	assert.InDelta(t, 1.0, result.MaxSimilarity, 1e-9)
	assert.Equal(t, DefaultMaxSimilarityThreshold, result.Threshold)
	assert.Equal(t, "FAIL - Too similar to existing questions", result.Verdict)
	require.NotNil(t, result.MostSimilarQuestion)
	assert.Equal(t, "existing", result.MostSimilarQuestion.Text)

	// A similarity exactly at the threshold is also not original.
	result, err = c.CheckOriginality(context.Background(),
		models.Question{Text: "generated"},
		[]models.Question{{Text: "existing"}},
		1.0,
	)
	require.NoError(t, err)
	assert.False(t, result.IsOriginal)
}

func TestCheckOriginalityPassesDissimilar(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"generated": {1, 0},
		"existing":  {0, 1},
	}}
	c := NewChecker(embedder, 0, 0)

	result, err := c.CheckOriginality(context.Background(),
		models.Question{Text: "generated"},
		[]models.Question{{Text: "existing"}},
		0,
	)
	require.NoError(t, err)

	assert.True(t, result.IsOriginal)
	assert.Equal(t, "PASS", result.Verdict)
	assert.Empty(t, result.SimilarQuestions)
	assert.Nil(t, result.MostSimilarQuestion)
	assert.Equal(t, 0.0, result.MaxSimilarity)
}

func TestCheckOriginalityEmptyCorpus(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"generated": {1, 0},
	}}
	c := NewChecker(embedder, 0, 0)

	result, err := c.CheckOriginality(context.Background(),
		models.Question{Text: "generated"}, nil, 0)
	require.NoError(t, err)

	assert.True(t, result.IsOriginal)
	assert.Equal(t, 0.0, result.MaxSimilarity)
}

func TestBatchCheckOriginalityRecordsUnverified(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"ok":       {1, 0},
		"existing": {0, 1},
	}}
	c := NewChecker(embedder, 0, 0)

	results := c.BatchCheckOriginality(context.Background(),
		[]models.Question{{Text: "ok"}, {Text: "broken"}},
		[]models.Question{{Text: "existing"}},
	)

	require.Len(t, results, 2)

	assert.True(t, results[0].IsOriginal)
	assert.Equal(t, 0, results[0].QuestionIndex)

	assert.False(t, results[1].IsOriginal)
	assert.Equal(t, 1, results[1].QuestionIndex)
	assert.Equal(t, "UNVERIFIED - embedding unavailable", results[1].Verdict)
}

func TestEmbeddingCacheAvoidsRepeatCalls(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"a": {1, 0},
		"b": {1, 0},
	}}
	c := NewChecker(embedder, 0, 0).WithCache(newMemoryCache())

	_, err := c.Similarity(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.Equal(t, 2, embedder.calls)

	_, err = c.Similarity(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.Equal(t, 2, embedder.calls)
}
