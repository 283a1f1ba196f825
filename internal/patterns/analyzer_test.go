package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phaniteluguti/Edutech-mvp/internal/models"
)

func topicQuestions(topic string, perYear map[int]int) []models.Question {
	var questions []models.Question
	for year, n := range perYear {
		for i := 0; i < n; i++ {
			questions = append(questions, models.Question{Topic: topic, Year: year})
		}
	}
	return questions
}

func TestTopicFrequencyCountsAndTrend(t *testing.T) {
	a := New()

	years := []int{2020, 2021, 2022, 2023, 2024}
	questions := topicQuestions("Physics", map[int]int{
		2020: 1, 2021: 1, 2022: 1, 2023: 5, 2024: 6,
	})

	analysis := a.AnalyzeTopicFrequency(questions, years)

	assert.Equal(t, 14, analysis.TotalCounts["Physics"])
	assert.Equal(t, 5, analysis.ByYear[2023]["Physics"])
	// recent mean 5.5 vs older mean 1: well past the 1.2x band.
	assert.Equal(t, models.TrendIncreasing, analysis.Trends["Physics"])
}

func TestTopicTrendDecreasingAndStable(t *testing.T) {
	a := New()
	years := []int{2021, 2022, 2023, 2024}

	down := a.AnalyzeTopicFrequency(
		topicQuestions("Optics", map[int]int{2021: 6, 2022: 6, 2023: 1, 2024: 1}),
		years,
	)
	assert.Equal(t, models.TrendDecreasing, down.Trends["Optics"])

	flat := a.AnalyzeTopicFrequency(
		topicQuestions("Algebra", map[int]int{2021: 3, 2022: 3, 2023: 3, 2024: 3}),
		years,
	)
	assert.Equal(t, models.TrendStable, flat.Trends["Algebra"])
}

func TestTopicTrendRequiresTwoYears(t *testing.T) {
	a := New()

	analysis := a.AnalyzeTopicFrequency(
		topicQuestions("Physics", map[int]int{2024: 4}),
		[]int{2024},
	)

	assert.Empty(t, analysis.Trends)
}

func TestTopicFrequencyIgnoresYearsOutsideWindow(t *testing.T) {
	a := New()

	questions := topicQuestions("Physics", map[int]int{2019: 2, 2024: 3})
	analysis := a.AnalyzeTopicFrequency(questions, []int{2024})

	assert.Equal(t, 5, analysis.TotalCounts["Physics"])
	assert.NotContains(t, analysis.ByYear, 2019)
}

func TestDifficultyDistributionPercentages(t *testing.T) {
	a := New()

	questions := []models.Question{
		{Topic: "Physics", Difficulty: models.DifficultyEasy},
		{Topic: "Physics", Difficulty: models.DifficultyMedium},
		{Topic: "Chemistry", Difficulty: models.DifficultyMedium},
		{Topic: "Chemistry", Difficulty: models.DifficultyHard},
	}

	analysis := a.AnalyzeDifficultyDistribution(questions)

	assert.Equal(t, 2, analysis.Counts[models.DifficultyMedium])
	assert.InDelta(t, 25.0, analysis.Percentages[models.DifficultyEasy], 1e-9)
	assert.InDelta(t, 50.0, analysis.Percentages[models.DifficultyMedium], 1e-9)
	assert.Equal(t, 1, analysis.ByTopic["Chemistry"][models.DifficultyHard])
}

func TestQuestionTypesSkipZeroYear(t *testing.T) {
	a := New()

	questions := []models.Question{
		{QuestionType: models.TypeSingleChoice, Year: 2024},
		{QuestionType: models.TypeNumerical},
	}

	analysis := a.AnalyzeQuestionTypes(questions)

	assert.Equal(t, 1, analysis.Counts[models.TypeNumerical])
	assert.Len(t, analysis.ByYear, 1)
	assert.Equal(t, 1, analysis.ByYear[2024][models.TypeSingleChoice])
}

func TestConceptPatterns(t *testing.T) {
	a := New()

	questions := []models.Question{
		{ConceptsTested: []string{"Kinematics", "Newton's Laws"}},
		{ConceptsTested: []string{"Newton's Laws", "Kinematics"}},
		{ConceptsTested: []string{"Calculus"}},
	}

	analysis := a.AnalyzeConceptPatterns(questions)

	require.NotEmpty(t, analysis.TopConcepts)
	assert.Equal(t, "Kinematics", analysis.TopConcepts[0].Concept)
	assert.Equal(t, 2, analysis.TopConcepts[0].Count)

	// Order inside a combination must not matter.
	require.Len(t, analysis.CommonCombinations, 1)
	assert.Equal(t, []string{"Kinematics", "Newton's Laws"}, analysis.CommonCombinations[0].Concepts)
	assert.Equal(t, 2, analysis.CommonCombinations[0].Count)
}

func TestJaccard(t *testing.T) {
	assert.Equal(t, 0.0, jaccard(nil, nil))
	assert.Equal(t, 0.0, jaccard(conceptSet([]string{"Algebra"}), nil))
	assert.Equal(t, 1.0, jaccard(
		conceptSet([]string{"Algebra", "Calculus"}),
		conceptSet([]string{"Calculus", "Algebra"}),
	))
	assert.InDelta(t, 1.0/3.0, jaccard(
		conceptSet([]string{"Algebra", "Calculus"}),
		conceptSet([]string{"Calculus", "Vectors"}),
	), 1e-9)
}

func TestQuestionFrequency(t *testing.T) {
	a := New()

	target := models.Question{
		ID:             "target",
		Topic:          "Physics",
		ConceptsTested: []string{"Kinematics", "Newton's Laws"},
	}

	corpus := []models.Question{
		// Identical concepts, same topic: counts.
		{ID: "a", Topic: "Physics", ConceptsTested: []string{"Newton's Laws", "Kinematics"}},
		// Same concepts, different topic: never counts.
		{ID: "b", Topic: "Mathematics", ConceptsTested: []string{"Newton's Laws", "Kinematics"}},
		// Low overlap: below threshold.
		{ID: "c", Topic: "Physics", ConceptsTested: []string{"Kinematics", "Optics", "Gravitation"}},
		// The target itself is excluded.
		{ID: "target", Topic: "Physics", ConceptsTested: []string{"Kinematics", "Newton's Laws"}},
	}

	assert.Equal(t, 1, a.QuestionFrequency(target, corpus, DefaultConceptOverlapThreshold))

	// A non-positive threshold falls back to the default.
	assert.Equal(t, 1, a.QuestionFrequency(target, corpus, 0))
}

func TestQuestionFrequencyEmptyConcepts(t *testing.T) {
	a := New()

	target := models.Question{Topic: "Physics"}
	corpus := []models.Question{{ID: "a", Topic: "Physics"}}

	assert.Equal(t, 0, a.QuestionFrequency(target, corpus, 0.5))
}

func TestGenerateReport(t *testing.T) {
	a := New()

	questions := []models.Question{
		{Topic: "Physics", Year: 2023, Difficulty: models.DifficultyEasy, QuestionType: models.TypeSingleChoice, ConceptsTested: []string{"Kinematics"}},
		{Topic: "Chemistry", Year: 2024, Difficulty: models.DifficultyHard, QuestionType: models.TypeNumerical, ConceptsTested: []string{"Redox"}},
	}

	report := a.GenerateReport(questions, "JEE", []int{2023, 2024})

	assert.Equal(t, "JEE", report.ExamType)
	assert.Equal(t, 2, report.TotalQuestions)
	assert.False(t, report.GeneratedAt.IsZero())
	assert.Equal(t, 1, report.TopicPatterns.TotalCounts["Physics"])
	assert.Equal(t, 1, report.QuestionTypes.Counts[models.TypeNumerical])
}
