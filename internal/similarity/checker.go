package similarity

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/phaniteluguti/Edutech-mvp/internal/models"
	"github.com/phaniteluguti/Edutech-mvp/pkg/logger"
	"github.com/phaniteluguti/Edutech-mvp/pkg/utils"
)

// ErrEmbeddingUnavailable means one side of a comparison could not be
// embedded. Callers must treat this as "cannot verify", never as zero
// similarity.
var ErrEmbeddingUnavailable = errors.New("embedding unavailable")

const (
	DefaultMaxSimilarityThreshold = 0.9
	DefaultScanThreshold          = 0.3
	originalityScanLimit          = 5

	embeddingCacheTTL = 24 * time.Hour
)

// Embedder produces a fixed-length vector for a text.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// EmbeddingCache is an optional write-through cache keyed by content hash.
type EmbeddingCache interface {
	GetEmbedding(ctx context.Context, textHash string) ([]float32, bool, error)
	SetEmbedding(ctx context.Context, textHash string, embedding []float32, ttl time.Duration) error
}

// Checker classifies generated questions as original or too similar to a
// reference corpus, using embedding cosine similarity.
type Checker struct {
	embedder      Embedder
	cache         EmbeddingCache
	maxThreshold  float64
	scanThreshold float64
}

func NewChecker(embedder Embedder, maxThreshold, scanThreshold float64) *Checker {
	if maxThreshold <= 0 {
		maxThreshold = DefaultMaxSimilarityThreshold
	}
	if scanThreshold <= 0 {
		scanThreshold = DefaultScanThreshold
	}

	return &Checker{
		embedder:      embedder,
		maxThreshold:  maxThreshold,
		scanThreshold: scanThreshold,
	}
}

// WithCache attaches an embedding cache. Cache failures degrade to provider
// calls.
func (c *Checker) WithCache(cache EmbeddingCache) *Checker {
	c.cache = cache
	return c
}

func (c *Checker) embed(ctx context.Context, text string) ([]float32, error) {
	if c.embedder == nil {
		return nil, ErrEmbeddingUnavailable
	}

	var hash string
	if c.cache != nil {
		hash = utils.HashString(text)
		if vec, ok, err := c.cache.GetEmbedding(ctx, hash); err == nil && ok {
			return vec, nil
		} else if err != nil {
			logger.Warn("Embedding cache lookup failed", zap.Error(err))
		}
	}

	vec, err := c.embedder.GenerateEmbedding(ctx, text)
	if err != nil {
		logger.Error("Error getting embedding", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, err)
	}

	if c.cache != nil {
		if err := c.cache.SetEmbedding(ctx, hash, vec, embeddingCacheTTL); err != nil {
			logger.Warn("Embedding cache write failed", zap.Error(err))
		}
	}

	return vec, nil
}

// Similarity returns the cosine similarity of two texts in [0,1]. When
// either embedding is unavailable the error wraps ErrEmbeddingUnavailable
// and the score is meaningless.
func (c *Checker) Similarity(ctx context.Context, text1, text2 string) (float64, error) {
	emb1, err := c.embed(ctx, text1)
	if err != nil {
		return 0, err
	}

	emb2, err := c.embed(ctx, text2)
	if err != nil {
		return 0, err
	}

	return cosineSimilarity(emb1, emb2), nil
}

// cosineSimilarity computes dot(a,b)/(|a|*|b|), defining the result as 0
// when either norm is zero instead of propagating NaN.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// FindSimilar embeds the target question once and ranks candidates whose
// similarity meets the threshold, highest first, truncated to limit.
// Candidates whose embedding fails are skipped, not scored as zero. Failure
// to embed the target itself is an error: nothing can be verified then.
func (c *Checker) FindSimilar(ctx context.Context, question models.Question, candidates []models.Question, threshold float64, limit int) ([]models.SimilarQuestion, error) {
	if question.Text == "" {
		return nil, nil
	}

	target, err := c.embed(ctx, question.Text)
	if err != nil {
		return nil, err
	}

	var similar []models.SimilarQuestion
	for _, candidate := range candidates {
		if candidate.Text == "" {
			continue
		}

		vec, err := c.embed(ctx, candidate.Text)
		if err != nil {
			logger.Warn("Skipping candidate with unavailable embedding",
				zap.String("topic", candidate.Topic),
			)
			continue
		}

		score := cosineSimilarity(target, vec)
		if score >= threshold {
			similar = append(similar, models.SimilarQuestion{
				Question:   candidate,
				Similarity: score,
			})
		}
	}

	sort.Slice(similar, func(i, j int) bool {
		return similar[i].Similarity > similar[j].Similarity
	})

	if len(similar) > limit {
		similar = similar[:limit]
	}

	return similar, nil
}

// CheckOriginality scans the corpus at the exploratory threshold and
// verdicts the generated question against maxThreshold. Equal to the
// threshold is NOT original. maxThreshold <= 0 uses the configured default.
func (c *Checker) CheckOriginality(ctx context.Context, generated models.Question, existing []models.Question, maxThreshold float64) (*models.OriginalityResult, error) {
	if maxThreshold <= 0 {
		maxThreshold = c.maxThreshold
	}

	similar, err := c.FindSimilar(ctx, generated, existing, c.scanThreshold, originalityScanLimit)
	if err != nil {
		return nil, err
	}

	maxSimilarity := 0.0
	var mostSimilar *models.Question
	if len(similar) > 0 {
		maxSimilarity = similar[0].Similarity
		q := similar[0].Question
		mostSimilar = &q
	}

	isOriginal := maxSimilarity < maxThreshold

	verdict := "PASS"
	if !isOriginal {
		verdict = "FAIL - Too similar to existing questions"
	}

	return &models.OriginalityResult{
		IsOriginal:          isOriginal,
		MaxSimilarity:       maxSimilarity,
		Threshold:           maxThreshold,
		SimilarQuestions:    similar,
		MostSimilarQuestion: mostSimilar,
		Verdict:             verdict,
	}, nil
}

// BatchCheckOriginality checks each generated question against the same
// corpus. Results match input order and record the input index. A question
// that cannot be verified gets an explicit unverified verdict instead of a
// silent pass.
func (c *Checker) BatchCheckOriginality(ctx context.Context, generated []models.Question, existing []models.Question) []models.OriginalityResult {
	results := make([]models.OriginalityResult, 0, len(generated))

	for i, question := range generated {
		logger.Info("Checking originality",
			zap.Int("question", i+1),
			zap.Int("total", len(generated)),
		)

		result, err := c.CheckOriginality(ctx, question, existing, 0)
		if err != nil {
			results = append(results, models.OriginalityResult{
				IsOriginal:    false,
				Threshold:     c.maxThreshold,
				Verdict:       "UNVERIFIED - embedding unavailable",
				QuestionIndex: i,
			})
			continue
		}

		result.QuestionIndex = i
		results = append(results, *result)
	}

	passed := 0
	for _, r := range results {
		if r.IsOriginal {
			passed++
		}
	}
	logger.Info("Originality check complete",
		zap.Int("passed", passed),
		zap.Int("total", len(results)),
	)

	return results
}
