// Package generator drives the question generation loop: build prompt,
// call the provider, parse and validate the response, gate it through the
// originality check, and retry until an original question is produced or
// attempts run out.
package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/phaniteluguti/Edutech-mvp/internal/llm"
	"github.com/phaniteluguti/Edutech-mvp/internal/metrics"
	"github.com/phaniteluguti/Edutech-mvp/internal/models"
	"github.com/phaniteluguti/Edutech-mvp/internal/prompt"
	"github.com/phaniteluguti/Edutech-mvp/pkg/config"
	"github.com/phaniteluguti/Edutech-mvp/pkg/logger"
)

// ErrNotConfigured is returned when no generation provider is present.
// This is a configuration error, not a retryable failure.
var ErrNotConfigured = errors.New("generation provider not configured")

// batchContextLimit caps the context pool handed to each single generation
// inside a batch.
const batchContextLimit = 10

// validationMaxTokens bounds the validation completion.
const validationMaxTokens = 500

// CompletionProvider is the generation capability: given prompt text,
// return completion text.
type CompletionProvider interface {
	Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error)
}

// OriginalityChecker gates generated questions against the existing corpus.
type OriginalityChecker interface {
	CheckOriginality(ctx context.Context, generated models.Question, existing []models.Question, maxThreshold float64) (*models.OriginalityResult, error)
}

// Generator orchestrates single, batch and validation flows. It owns no
// cross-request state; every call works on its own copies.
type Generator struct {
	provider CompletionProvider
	checker  OriginalityChecker
	prompts  *prompt.Builder
	cfg      config.GenerationConfig
}

func New(provider CompletionProvider, checker OriginalityChecker, prompts *prompt.Builder, cfg config.GenerationConfig) *Generator {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.8
	}
	if cfg.ValidationTemperature == 0 {
		cfg.ValidationTemperature = 0.3
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1000
	}

	return &Generator{
		provider: provider,
		checker:  checker,
		prompts:  prompts,
		cfg:      cfg,
	}
}

// Request carries everything one generation needs: the target parameters,
// the context questions grounding the prompt, and the corpus the result is
// checked against.
type Request struct {
	Topic             string
	Difficulty        string
	ExamType          string
	ContextQuestions  []models.Question
	ExistingQuestions []models.Question
	Report            *models.PatternReport
}

// Generate runs the bounded retry loop. It returns (nil, nil) when every
// attempt produced a non-original or unparseable question: a soft failure
// the caller can count and move past. Only a missing provider is an error.
func (g *Generator) Generate(ctx context.Context, req Request) (*models.GeneratedQuestion, error) {
	if g.provider == nil {
		return nil, ErrNotConfigured
	}

	for attempt := 1; attempt <= g.cfg.MaxRetries; attempt++ {
		logger.Info("Generation attempt",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", g.cfg.MaxRetries),
			zap.String("topic", req.Topic),
		)
		metrics.GenerationAttempts.Inc()

		userPrompt := g.prompts.BuildGenerationPrompt(req.Topic, req.Difficulty, req.ExamType, req.ContextQuestions, req.Report)

		resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
			SystemPrompt: prompt.GenerationSystemPrompt,
			UserPrompt:   userPrompt,
			Temperature:  g.cfg.Temperature,
			MaxTokens:    g.cfg.MaxTokens,
			JSONResponse: true,
		})
		if err != nil {
			logger.Error("Error generating question", zap.Error(err))
			continue
		}

		metrics.TokensUsed.WithLabelValues("completion").Add(float64(resp.Usage.TotalTokens))

		generated, err := parseGenerated(resp.Content)
		if err != nil {
			logger.Error("Failed to parse generated question", zap.Error(err))
			continue
		}

		check, err := g.checker.CheckOriginality(ctx, generated.AsQuestion(), req.ExistingQuestions, g.cfg.MaxSimilarityThreshold)
		if err != nil {
			logger.Error("Could not verify originality", zap.Error(err))
			continue
		}

		metrics.MaxSimilarityScore.Observe(check.MaxSimilarity)

		if !check.IsOriginal {
			metrics.OriginalityVerdicts.WithLabelValues("fail").Inc()
			logger.Warn("Generated question too similar to existing",
				zap.Float64("similarity", check.MaxSimilarity),
			)
			continue
		}

		metrics.OriginalityVerdicts.WithLabelValues("pass").Inc()
		metrics.GenerationOutcomes.WithLabelValues("success").Inc()
		logger.Info("Generated original question",
			zap.Float64("similarity", check.MaxSimilarity),
			zap.Int("attempt", attempt),
		)

		generated.ID = uuid.NewString()
		generated.OriginalityCheck = check
		generated.GenerationAttempt = attempt

		return generated, nil
	}

	metrics.GenerationOutcomes.WithLabelValues("exhausted").Inc()
	logger.Error("Failed to generate original question",
		zap.Int("max_retries", g.cfg.MaxRetries),
		zap.String("topic", req.Topic),
	)

	return nil, nil
}

// parseGenerated decodes provider output, validating it against the
// question schema before trusting any field.
func parseGenerated(content string) (*models.GeneratedQuestion, error) {
	raw := []byte(content)

	if err := validateGenerated(raw); err != nil {
		return nil, err
	}

	var generated models.GeneratedQuestion
	if err := json.Unmarshal(raw, &generated); err != nil {
		return nil, fmt.Errorf("decode generated question: %w", err)
	}

	return &generated, nil
}

// GenerateBatch runs the single flow once per specification, in order.
// Individual failures are tallied, never fatal to the batch.
func (g *Generator) GenerateBatch(ctx context.Context, specs []models.Spec, examType string, contextQuestions, existingQuestions []models.Question, report *models.PatternReport) (*models.BatchResult, error) {
	if g.provider == nil {
		return nil, ErrNotConfigured
	}

	logger.Info("Starting batch generation", zap.Int("specifications", len(specs)))

	result := &models.BatchResult{
		TotalRequested: len(specs),
		Questions:      []models.GeneratedQuestion{},
	}

	for i, spec := range specs {
		logger.Info("Generating question",
			zap.Int("index", i+1),
			zap.Int("total", len(specs)),
		)

		relevant := prompt.FilterContext(contextQuestions, spec.Topic, spec.Difficulty, batchContextLimit)

		question, err := g.Generate(ctx, Request{
			Topic:             spec.Topic,
			Difficulty:        spec.Difficulty,
			ExamType:          examType,
			ContextQuestions:  relevant,
			ExistingQuestions: existingQuestions,
			Report:            report,
		})
		if err != nil {
			return nil, err
		}

		if question != nil {
			result.Successful++
			result.Questions = append(result.Questions, *question)
		} else {
			result.Failed++
		}
	}

	logger.Info("Batch generation complete",
		zap.Int("successful", result.Successful),
		zap.Int("failed", result.Failed),
	)

	return result, nil
}

// Validate reviews a generated question with a low-temperature provider
// call. A provider or parse failure yields an invalid result carrying the
// error, never a fault escaping the component.
func (g *Generator) Validate(ctx context.Context, question models.GeneratedQuestion, examType string) models.ValidationResult {
	if g.provider == nil {
		return models.ValidationResult{Error: ErrNotConfigured.Error()}
	}

	userPrompt := g.prompts.BuildValidationPrompt(question, examType)

	resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: prompt.ValidationSystemPrompt,
		UserPrompt:   userPrompt,
		Temperature:  g.cfg.ValidationTemperature,
		MaxTokens:    validationMaxTokens,
		JSONResponse: true,
	})
	if err != nil {
		logger.Error("Error validating question", zap.Error(err))
		return models.ValidationResult{Error: err.Error()}
	}

	var result models.ValidationResult
	if err := json.Unmarshal([]byte(resp.Content), &result); err != nil {
		logger.Error("Failed to parse validation result", zap.Error(err))
		return models.ValidationResult{Error: err.Error()}
	}

	return result
}
