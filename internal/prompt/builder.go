// Package prompt renders generation and validation prompt text. Pure
// templating, no network calls.
package prompt

import (
	"fmt"
	"strings"

	"github.com/phaniteluguti/Edutech-mvp/internal/models"
)

// maxContextQuestions caps how many reference questions a single prompt
// embeds.
const maxContextQuestions = 5

// Builder assembles prompts from target parameters, context questions and
// pattern-analysis results.
type Builder struct{}

func New() *Builder {
	return &Builder{}
}

// GenerationSystemPrompt is the system role for question generation.
const GenerationSystemPrompt = "You are an expert question paper setter."

// ValidationSystemPrompt is the system role for question review.
const ValidationSystemPrompt = "You are an expert question reviewer."

// BuildGenerationPrompt renders the user prompt for generating one new
// question on the target topic and difficulty, grounded on up to five
// context questions and optional pattern insights.
func (b *Builder) BuildGenerationPrompt(topic, difficulty, examType string, contextQuestions []models.Question, report *models.PatternReport) string {
	if len(contextQuestions) > maxContextQuestions {
		contextQuestions = contextQuestions[:maxContextQuestions]
	}

	insights := ""
	if report != nil {
		insights = formatPatternInsights(*report)
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "You are an expert question paper setter for %s exams in India.\n\n", examType)
	fmt.Fprintf(&sb, "Your task is to generate a NEW %s difficulty question on the topic: %s\n\n", difficulty, topic)

	sb.WriteString(`IMPORTANT GUIDELINES:
1. The question MUST be realistic and match the style of actual exam papers
2. Use the context from previous years questions below to understand:
   - Question phrasing style
   - Difficulty level expectations
   - Common patterns and formats
3. The question should be ORIGINAL - do not copy from the examples
4. Include 4 options (A, B, C, D) with only ONE correct answer
5. Provide a brief explanation for the correct answer
6. Include the concepts being tested
`)

	if insights != "" {
		sb.WriteString("\n")
		sb.WriteString(insights)
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "\nCONTEXT - Previous Years Questions on %s:\n", topic)
	sb.WriteString(formatContextQuestions(contextQuestions))

	sb.WriteString("\nNow generate a NEW question following the same style and difficulty level.\n")
	sb.WriteString("\nReturn your response in this exact JSON format:\n")
	fmt.Fprintf(&sb, `{
  "question_text": "Your question here...",
  "options": [
    {"key": "A", "text": "Option A text"},
    {"key": "B", "text": "Option B text"},
    {"key": "C", "text": "Option C text"},
    {"key": "D", "text": "Option D text"}
  ],
  "correct_answer": "A",
  "explanation": "Brief explanation of why this is correct...",
  "concepts_tested": ["Concept1", "Concept2"],
  "difficulty": "%s",
  "topic": "%s"
}
`, difficulty, topic)

	return sb.String()
}

// BuildBatchPrompts renders one generation prompt per specification, in
// specification order. Each prompt's context is the shared pool filtered to
// that specification's topic and difficulty.
func (b *Builder) BuildBatchPrompts(specs []models.Spec, examType string, contextQuestions []models.Question) []string {
	prompts := make([]string, 0, len(specs))

	for _, spec := range specs {
		relevant := FilterContext(contextQuestions, spec.Topic, spec.Difficulty, maxContextQuestions)
		prompts = append(prompts, b.BuildGenerationPrompt(spec.Topic, spec.Difficulty, examType, relevant, nil))
	}

	return prompts
}

// BuildValidationPrompt renders a generated question with the five-criterion
// review rubric and the required JSON verdict shape.
func (b *Builder) BuildValidationPrompt(q models.GeneratedQuestion, examType string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are an expert reviewer for %s exam questions.\n\n", examType)
	sb.WriteString("Review the following generated question for quality and accuracy:\n\n")
	fmt.Fprintf(&sb, "Question: %s\nOptions:\n", q.Text)

	for _, opt := range q.Options {
		fmt.Fprintf(&sb, "  %s. %s\n", opt.Key, opt.Text)
	}

	fmt.Fprintf(&sb, "\nCorrect Answer: %s\nDifficulty: %s\nTopic: %s\n", q.CorrectAnswer, q.Difficulty, q.Topic)

	sb.WriteString(`
Evaluate the question on these criteria:
1. Factual Accuracy: Is the question scientifically/mathematically correct?
2. Answer Correctness: Is the marked answer actually correct?
3. Clarity: Is the question clearly worded?
4. Difficulty Match: Does the difficulty match the level?
5. Options Quality: Are all options plausible?

Return your response in JSON format:
{
  "is_valid": true/false,
  "factual_accuracy": true/false,
  "answer_correctness": true/false,
  "clarity_score": 1-10,
  "difficulty_match": true/false,
  "options_quality": 1-10,
  "issues": ["list of any issues found"],
  "suggestions": ["list of improvement suggestions"]
}
`)

	return sb.String()
}

// FilterContext keeps questions matching both topic and difficulty, up to
// limit, preserving pool order.
func FilterContext(pool []models.Question, topic, difficulty string, limit int) []models.Question {
	var relevant []models.Question
	for _, q := range pool {
		if q.Topic == topic && q.Difficulty == difficulty {
			relevant = append(relevant, q)
			if len(relevant) == limit {
				break
			}
		}
	}
	return relevant
}

func formatContextQuestions(questions []models.Question) string {
	var sb strings.Builder

	for i, q := range questions {
		year := "N/A"
		if q.Year != 0 {
			year = fmt.Sprintf("%d", q.Year)
		}

		fmt.Fprintf(&sb, "\nExample %d (Year: %s, Difficulty: %s):\nQuestion: %s\n", i+1, year, orNA(q.Difficulty), q.Text)

		for _, opt := range q.Options {
			fmt.Fprintf(&sb, "  %s. %s\n", opt.Key, opt.Text)
		}

		fmt.Fprintf(&sb, "Correct Answer: %s\nConcepts: %s\n", orNA(q.CorrectAnswer), strings.Join(q.ConceptsTested, ", "))
	}

	return sb.String()
}

// formatPatternInsights renders the top-5 topic trends and top-10 frequent
// concepts from a pattern report.
func formatPatternInsights(report models.PatternReport) string {
	var lines []string

	if len(report.TopicPatterns.Trends) > 0 {
		lines = append(lines, "PATTERN INSIGHTS:")
		shown := 0
		for _, tc := range report.TopicPatterns.MostFrequent {
			trend, ok := report.TopicPatterns.Trends[tc.Topic]
			if !ok {
				continue
			}
			lines = append(lines, fmt.Sprintf("- %s: %s trend in recent years", tc.Topic, trend))
			shown++
			if shown == 5 {
				break
			}
		}
	}

	if len(report.Concepts.TopConcepts) > 0 {
		concepts := make([]string, 0, 10)
		for i, cc := range report.Concepts.TopConcepts {
			if i == 10 {
				break
			}
			concepts = append(concepts, cc.Concept)
		}
		lines = append(lines, fmt.Sprintf("\nFrequently tested concepts: %s", strings.Join(concepts, ", ")))
	}

	return strings.Join(lines, "\n")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
