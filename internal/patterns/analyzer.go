package patterns

import (
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/phaniteluguti/Edutech-mvp/internal/models"
	"github.com/phaniteluguti/Edutech-mvp/pkg/logger"
)

// DefaultConceptOverlapThreshold is the Jaccard overlap at which two
// questions on the same topic count as similar for frequency estimation.
const DefaultConceptOverlapThreshold = 0.7

// Analyzer computes read-only aggregates over an in-memory question
// collection. All sub-analyses are pure and independent.
type Analyzer struct{}

func New() *Analyzer {
	return &Analyzer{}
}

// AnalyzeTopicFrequency counts questions per topic, overall and per
// requested year, and classifies a per-topic trend when at least two years
// are in the analyzed set.
func (a *Analyzer) AnalyzeTopicFrequency(questions []models.Question, years []int) models.TopicAnalysis {
	totalCounts := map[string]int{}
	byYear := map[int]map[string]int{}

	yearSet := map[int]bool{}
	for _, y := range years {
		yearSet[y] = true
	}

	for _, q := range questions {
		totalCounts[q.Topic]++

		if yearSet[q.Year] {
			if byYear[q.Year] == nil {
				byYear[q.Year] = map[string]int{}
			}
			byYear[q.Year][q.Topic]++
		}
	}

	sortedYears := append([]int(nil), years...)
	sort.Ints(sortedYears)

	trends := map[string]string{}
	if len(sortedYears) >= 2 {
		for topic := range totalCounts {
			trends[topic] = classifyTrend(topic, sortedYears, byYear)
		}
	}

	return models.TopicAnalysis{
		TotalCounts:  totalCounts,
		ByYear:       byYear,
		Trends:       trends,
		MostFrequent: topCounts(totalCounts, 10),
	}
}

// classifyTrend compares the mean of the last two years against the mean of
// the years before that. The older mean's denominator is floored at 1 so a
// two-year window never divides by zero.
func classifyTrend(topic string, sortedYears []int, byYear map[int]map[string]int) string {
	yearly := make([]int, len(sortedYears))
	for i, y := range sortedYears {
		yearly[i] = byYear[y][topic]
	}

	n := len(yearly)
	recentAvg := float64(yearly[n-2]+yearly[n-1]) / 2

	olderSum := 0
	for _, c := range yearly[:n-2] {
		olderSum += c
	}
	olderDenom := n - 2
	if olderDenom < 1 {
		olderDenom = 1
	}
	olderAvg := float64(olderSum) / float64(olderDenom)

	switch {
	case recentAvg > olderAvg*1.2:
		return models.TrendIncreasing
	case recentAvg < olderAvg*0.8:
		return models.TrendDecreasing
	default:
		return models.TrendStable
	}
}

// AnalyzeDifficultyDistribution tallies difficulty counts and percentages,
// overall and per topic.
func (a *Analyzer) AnalyzeDifficultyDistribution(questions []models.Question) models.DifficultyAnalysis {
	counts := map[string]int{}
	byTopic := map[string]map[string]int{}

	for _, q := range questions {
		counts[q.Difficulty]++

		if byTopic[q.Topic] == nil {
			byTopic[q.Topic] = map[string]int{}
		}
		byTopic[q.Topic][q.Difficulty]++
	}

	return models.DifficultyAnalysis{
		Counts:      counts,
		Percentages: percentages(counts),
		ByTopic:     byTopic,
	}
}

// AnalyzeQuestionTypes tallies type counts and percentages, overall and per
// year. Questions without a year stay out of the per-year breakdown.
func (a *Analyzer) AnalyzeQuestionTypes(questions []models.Question) models.TypeAnalysis {
	counts := map[string]int{}
	byYear := map[int]map[string]int{}

	for _, q := range questions {
		counts[q.QuestionType]++

		if q.Year != 0 {
			if byYear[q.Year] == nil {
				byYear[q.Year] = map[string]int{}
			}
			byYear[q.Year][q.QuestionType]++
		}
	}

	return models.TypeAnalysis{
		Counts:      counts,
		Percentages: percentages(counts),
		ByYear:      byYear,
	}
}

// AnalyzeConceptPatterns counts individual concepts and co-occurrence sets.
// A question with more than one concept contributes one occurrence of its
// sorted concept tuple.
func (a *Analyzer) AnalyzeConceptPatterns(questions []models.Question) models.ConceptAnalysis {
	conceptCounts := map[string]int{}
	comboCounts := map[string]int{}

	for _, q := range questions {
		for _, concept := range q.ConceptsTested {
			conceptCounts[concept]++
		}

		if len(q.ConceptsTested) > 1 {
			combo := append([]string(nil), q.ConceptsTested...)
			sort.Strings(combo)
			comboCounts[strings.Join(combo, "\x00")]++
		}
	}

	topConcepts := make([]models.ConceptCount, 0, len(conceptCounts))
	for concept, count := range conceptCounts {
		topConcepts = append(topConcepts, models.ConceptCount{Concept: concept, Count: count})
	}
	sort.Slice(topConcepts, func(i, j int) bool {
		if topConcepts[i].Count != topConcepts[j].Count {
			return topConcepts[i].Count > topConcepts[j].Count
		}
		return topConcepts[i].Concept < topConcepts[j].Concept
	})
	if len(topConcepts) > 20 {
		topConcepts = topConcepts[:20]
	}

	combos := make([]models.ConceptCombination, 0, len(comboCounts))
	for key, count := range comboCounts {
		combos = append(combos, models.ConceptCombination{
			Concepts: strings.Split(key, "\x00"),
			Count:    count,
		})
	}
	sort.Slice(combos, func(i, j int) bool {
		if combos[i].Count != combos[j].Count {
			return combos[i].Count > combos[j].Count
		}
		return strings.Join(combos[i].Concepts, ",") < strings.Join(combos[j].Concepts, ",")
	})
	if len(combos) > 10 {
		combos = combos[:10]
	}

	return models.ConceptAnalysis{
		TopConcepts:        topConcepts,
		CommonCombinations: combos,
	}
}

// QuestionFrequency estimates how often a similar question appeared in the
// corpus: same topic and concept-set Jaccard overlap at or above the
// threshold. Empty concept sets on either side never overlap.
func (a *Analyzer) QuestionFrequency(target models.Question, corpus []models.Question, threshold float64) int {
	if threshold <= 0 {
		threshold = DefaultConceptOverlapThreshold
	}

	targetConcepts := conceptSet(target.ConceptsTested)

	count := 0
	for _, q := range corpus {
		if target.ID != "" && q.ID == target.ID {
			continue
		}
		if q.Topic != target.Topic {
			continue
		}

		if jaccard(targetConcepts, conceptSet(q.ConceptsTested)) >= threshold {
			count++
		}
	}

	return count
}

// jaccard returns |a∩b| / |a∪b|, defined as 0 when either set is empty.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	intersection := 0
	for k := range a {
		if b[k] {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

func conceptSet(concepts []string) map[string]bool {
	set := make(map[string]bool, len(concepts))
	for _, c := range concepts {
		set[c] = true
	}
	return set
}

// GenerateReport runs all four sub-analyses and assembles the immutable
// pattern report for an exam type over a set of years.
func (a *Analyzer) GenerateReport(questions []models.Question, examType string, years []int) models.PatternReport {
	logger.Info("Generating pattern report",
		zap.String("exam_type", examType),
		zap.Int("questions", len(questions)),
	)

	report := models.PatternReport{
		ExamType:       examType,
		YearsAnalyzed:  years,
		TotalQuestions: len(questions),
		GeneratedAt:    time.Now().UTC(),
		TopicPatterns:  a.AnalyzeTopicFrequency(questions, years),
		Difficulty:     a.AnalyzeDifficultyDistribution(questions),
		QuestionTypes:  a.AnalyzeQuestionTypes(questions),
		Concepts:       a.AnalyzeConceptPatterns(questions),
	}

	logger.Info("Pattern report generated", zap.String("exam_type", examType))

	return report
}

func percentages(counts map[string]int) map[string]float64 {
	total := 0
	for _, c := range counts {
		total += c
	}

	result := make(map[string]float64, len(counts))
	for k, c := range counts {
		if total > 0 {
			result[k] = float64(c) / float64(total) * 100
		} else {
			result[k] = 0
		}
	}
	return result
}

func topCounts(counts map[string]int, limit int) []models.TopicCount {
	ranked := make([]models.TopicCount, 0, len(counts))
	for topic, count := range counts {
		ranked = append(ranked, models.TopicCount{Topic: topic, Count: count})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Topic < ranked[j].Topic
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
