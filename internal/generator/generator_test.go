package generator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phaniteluguti/Edutech-mvp/internal/llm"
	"github.com/phaniteluguti/Edutech-mvp/internal/models"
	"github.com/phaniteluguti/Edutech-mvp/internal/prompt"
	"github.com/phaniteluguti/Edutech-mvp/pkg/config"
)

const validCompletion = `{
	"question_text": "A particle moves with constant acceleration. What is its velocity after 2 seconds?",
	"options": [
		{"key": "A", "text": "5 m/s"},
		{"key": "B", "text": "10 m/s"},
		{"key": "C", "text": "15 m/s"},
		{"key": "D", "text": "20 m/s"}
	],
	"correct_answer": "B",
	"explanation": "v = u + at",
	"concepts_tested": ["Kinematics"],
	"difficulty": "MEDIUM",
	"topic": "Physics"
}`

// stubProvider replays canned completions in order and repeats the last
// one when attempts outnumber responses.
type stubProvider struct {
	responses []string
	err       error
	calls     int
}

func (s *stubProvider) Complete(_ context.Context, _ llm.CompletionRequest) (*llm.CompletionResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	idx := s.calls - 1
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	return &llm.CompletionResponse{Content: s.responses[idx]}, nil
}

// stubChecker returns a fixed similarity verdict per call, cycling like
// the provider stub.
type stubChecker struct {
	results []*models.OriginalityResult
	err     error
	calls   int
}

func (s *stubChecker) CheckOriginality(_ context.Context, _ models.Question, _ []models.Question, _ float64) (*models.OriginalityResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	idx := s.calls - 1
	if idx >= len(s.results) {
		idx = len(s.results) - 1
	}
	return s.results[idx], nil
}

func original() *models.OriginalityResult {
	return &models.OriginalityResult{IsOriginal: true, MaxSimilarity: 0.1, Verdict: "PASS"}
}

func duplicate() *models.OriginalityResult {
	return &models.OriginalityResult{IsOriginal: false, MaxSimilarity: 0.95, Verdict: "FAIL - Too similar to existing questions"}
}

func newTestGenerator(provider CompletionProvider, checker OriginalityChecker) *Generator {
	return New(provider, checker, prompt.New(), config.GenerationConfig{MaxRetries: 3})
}

func TestGenerateSuccessFirstAttempt(t *testing.T) {
	provider := &stubProvider{responses: []string{validCompletion}}
	checker := &stubChecker{results: []*models.OriginalityResult{original()}}
	g := newTestGenerator(provider, checker)

	question, err := g.Generate(context.Background(), Request{Topic: "Kinematics", Difficulty: models.DifficultyMedium, ExamType: "JEE"})
	require.NoError(t, err)
	require.NotNil(t, question)

	assert.NotEmpty(t, question.ID)
	assert.Equal(t, 1, question.GenerationAttempt)
	assert.Equal(t, "B", question.CorrectAnswer)
	require.Len(t, question.Options, 4)
	require.NotNil(t, question.OriginalityCheck)
	assert.True(t, question.OriginalityCheck.IsOriginal)
	assert.Equal(t, 1, provider.calls)
}

func TestGenerateRetriesOnDuplicate(t *testing.T) {
	provider := &stubProvider{responses: []string{validCompletion}}
	checker := &stubChecker{results: []*models.OriginalityResult{duplicate(), duplicate(), original()}}
	g := newTestGenerator(provider, checker)

	question, err := g.Generate(context.Background(), Request{Topic: "Kinematics"})
	require.NoError(t, err)
	require.NotNil(t, question)

	assert.Equal(t, 3, question.GenerationAttempt)
	assert.Equal(t, 3, provider.calls)
}

func TestGenerateExhaustionIsSoftFailure(t *testing.T) {
	provider := &stubProvider{responses: []string{validCompletion}}
	checker := &stubChecker{results: []*models.OriginalityResult{duplicate()}}
	g := newTestGenerator(provider, checker)

	question, err := g.Generate(context.Background(), Request{Topic: "Kinematics"})
	require.NoError(t, err)
	assert.Nil(t, question)
	assert.Equal(t, 3, provider.calls)
}

func TestGenerateParseFailureConsumesAttempt(t *testing.T) {
	provider := &stubProvider{responses: []string{"not json", validCompletion}}
	checker := &stubChecker{results: []*models.OriginalityResult{original()}}
	g := newTestGenerator(provider, checker)

	question, err := g.Generate(context.Background(), Request{Topic: "Kinematics"})
	require.NoError(t, err)
	require.NotNil(t, question)

	assert.Equal(t, 2, question.GenerationAttempt)
	// The bad completion never reached the originality check.
	assert.Equal(t, 1, checker.calls)
}

func TestGenerateSchemaRejectsIncompleteOptions(t *testing.T) {
	incomplete := `{
		"question_text": "Pick one.",
		"options": [{"key": "A", "text": "only"}],
		"correct_answer": "A"
	}`
	provider := &stubProvider{responses: []string{incomplete}}
	checker := &stubChecker{results: []*models.OriginalityResult{original()}}
	g := newTestGenerator(provider, checker)

	question, err := g.Generate(context.Background(), Request{Topic: "Kinematics"})
	require.NoError(t, err)
	assert.Nil(t, question)
	assert.Equal(t, 0, checker.calls)
}

func TestGenerateProviderErrorConsumesAttempt(t *testing.T) {
	provider := &stubProvider{err: errors.New("rate limited")}
	checker := &stubChecker{results: []*models.OriginalityResult{original()}}
	g := newTestGenerator(provider, checker)

	question, err := g.Generate(context.Background(), Request{Topic: "Kinematics"})
	require.NoError(t, err)
	assert.Nil(t, question)
	assert.Equal(t, 3, provider.calls)
}

func TestGenerateCheckerErrorConsumesAttempt(t *testing.T) {
	provider := &stubProvider{responses: []string{validCompletion}}
	checker := &stubChecker{err: errors.New("embedding unavailable")}
	g := newTestGenerator(provider, checker)

	question, err := g.Generate(context.Background(), Request{Topic: "Kinematics"})
	require.NoError(t, err)
	assert.Nil(t, question)
}

func TestGenerateWithoutProvider(t *testing.T) {
	g := New(nil, nil, prompt.New(), config.GenerationConfig{})

	_, err := g.Generate(context.Background(), Request{Topic: "Kinematics"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = g.GenerateBatch(context.Background(), []models.Spec{{Topic: "Kinematics"}}, "JEE", nil, nil, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)

	result := g.Validate(context.Background(), models.GeneratedQuestion{}, "JEE")
	assert.Equal(t, ErrNotConfigured.Error(), result.Error)
}

func TestGenerateBatchTallies(t *testing.T) {
	provider := &stubProvider{responses: []string{validCompletion}}
	checker := &stubChecker{results: []*models.OriginalityResult{duplicate()}}
	g := newTestGenerator(provider, checker)

	specs := []models.Spec{
		{Topic: "Kinematics", Difficulty: models.DifficultyEasy},
		{Topic: "Optics", Difficulty: models.DifficultyMedium},
		{Topic: "Algebra", Difficulty: models.DifficultyHard},
	}

	result, err := g.GenerateBatch(context.Background(), specs, "JEE", nil, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalRequested)
	assert.Equal(t, 0, result.Successful)
	assert.Equal(t, 3, result.Failed)
	assert.Empty(t, result.Questions)
}

func TestGenerateBatchMixedOutcomes(t *testing.T) {
	provider := &stubProvider{responses: []string{validCompletion}}
	// First spec succeeds immediately; the second burns all three attempts.
	checker := &stubChecker{results: []*models.OriginalityResult{original(), duplicate(), duplicate(), duplicate()}}
	g := newTestGenerator(provider, checker)

	specs := []models.Spec{
		{Topic: "Kinematics"},
		{Topic: "Optics"},
	}

	result, err := g.GenerateBatch(context.Background(), specs, "JEE", nil, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Successful)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Questions, 1)
}

func TestValidateParsesResult(t *testing.T) {
	provider := &stubProvider{responses: []string{`{
		"is_valid": true,
		"factual_accuracy": true,
		"answer_correctness": true,
		"clarity_score": 8,
		"difficulty_match": true,
		"options_quality": 9,
		"issues": [],
		"suggestions": ["tighten option D"]
	}`}}
	g := newTestGenerator(provider, &stubChecker{})

	result := g.Validate(context.Background(), models.GeneratedQuestion{Text: "Pick one."}, "JEE")

	assert.True(t, result.IsValid)
	assert.Equal(t, 8, result.ClarityScore)
	assert.Empty(t, result.Error)
	require.Len(t, result.Suggestions, 1)
}

func TestValidateBadJSONCarriesError(t *testing.T) {
	provider := &stubProvider{responses: []string{"nonsense"}}
	g := newTestGenerator(provider, &stubChecker{})

	result := g.Validate(context.Background(), models.GeneratedQuestion{Text: "Pick one."}, "JEE")

	assert.False(t, result.IsValid)
	assert.NotEmpty(t, result.Error)
}

func TestParseGeneratedValid(t *testing.T) {
	generated, err := parseGenerated(validCompletion)
	require.NoError(t, err)

	assert.Equal(t, "B", generated.CorrectAnswer)
	assert.Equal(t, "Physics", generated.Topic)
	require.Len(t, generated.Options, 4)
	assert.Equal(t, models.Option{Key: "A", Text: "5 m/s"}, generated.Options[0])
}

func TestParseGeneratedRejectsMissingFields(t *testing.T) {
	_, err := parseGenerated(`{"question_text": "No options here."}`)
	assert.Error(t, err)

	_, err = parseGenerated(`{"question_text": "", "options": [], "correct_answer": "E"}`)
	assert.Error(t, err)
}
