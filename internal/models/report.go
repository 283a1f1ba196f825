package models

import "time"

// Trend classifications for topic frequency across years.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// TopicCount is a (topic, count) pair, used for ranked listings.
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// TopicAnalysis aggregates topic frequency overall and per year, with a
// trend classification per topic.
type TopicAnalysis struct {
	TotalCounts  map[string]int         `json:"total_counts"`
	ByYear       map[int]map[string]int `json:"by_year"`
	Trends       map[string]string      `json:"trends"`
	MostFrequent []TopicCount           `json:"most_frequent"`
}

// DifficultyAnalysis holds difficulty counts and percentages, overall and
// broken down per topic.
type DifficultyAnalysis struct {
	Counts      map[string]int            `json:"counts"`
	Percentages map[string]float64        `json:"percentages"`
	ByTopic     map[string]map[string]int `json:"by_topic"`
}

// TypeAnalysis holds question-type counts and percentages, overall and per
// year. Only questions carrying a year contribute to the per-year breakdown.
type TypeAnalysis struct {
	Counts      map[string]int         `json:"counts"`
	Percentages map[string]float64     `json:"percentages"`
	ByYear      map[int]map[string]int `json:"by_year"`
}

// ConceptCombination is a sorted set of concepts that co-occur on questions.
type ConceptCombination struct {
	Concepts []string `json:"concepts"`
	Count    int      `json:"count"`
}

// ConceptCount is a (concept, count) pair, used for ranked listings.
type ConceptCount struct {
	Concept string `json:"concept"`
	Count   int    `json:"count"`
}

// ConceptAnalysis holds per-concept frequency and co-occurrence patterns.
type ConceptAnalysis struct {
	TopConcepts        []ConceptCount       `json:"top_concepts"`
	CommonCombinations []ConceptCombination `json:"common_combinations"`
}

// PatternReport is the read-only aggregate over a question collection,
// scoped to an exam type and a set of years. Immutable once produced.
type PatternReport struct {
	ExamType       string             `json:"exam_type"`
	YearsAnalyzed  []int              `json:"years_analyzed"`
	TotalQuestions int                `json:"total_questions"`
	GeneratedAt    time.Time          `json:"generated_at"`
	TopicPatterns  TopicAnalysis      `json:"topic_patterns"`
	Difficulty     DifficultyAnalysis `json:"difficulty_patterns"`
	QuestionTypes  TypeAnalysis       `json:"question_type_patterns"`
	Concepts       ConceptAnalysis    `json:"concept_patterns"`
}
