package parser

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/phaniteluguti/Edutech-mvp/internal/metrics"
	"github.com/phaniteluguti/Edutech-mvp/internal/models"
	"github.com/phaniteluguti/Edutech-mvp/pkg/logger"
)

// Two option-marker conventions exist in the wild and serve different
// upstream sources. They are kept as distinct modes on purpose: merging
// them silently changes extraction on ambiguous input.
//
//	ModeParenthesized:   "(A) text"   — exam-paper dumps split on "Question N:"
//	ModePeriodDelimited: "A. text" / "(A). text" — scraped line-based candidates
var (
	blockSplitRe = regexp.MustCompile(`(?i)Question\s+\d+:`)

	// ModeParenthesized option marker.
	parenOptionRe = regexp.MustCompile(`\(([A-D])\)\s*([^\n]+)`)
	// Marker that ends the question stem in a block: an option line or an
	// answer line.
	stemEndRe = regexp.MustCompile(`\n\s*\(?[A-D]\)|\nAnswer:`)

	blockAnswerRe     = regexp.MustCompile(`(?i)Answer:\s*([A-D])`)
	blockDifficultyRe = regexp.MustCompile(`(?i)Difficulty:\s*(EASY|MEDIUM|HARD)`)
	blockTopicRe      = regexp.MustCompile(`(?i)Topic:\s*([^\n]+)`)

	// ModePeriodDelimited option marker.
	periodOptionRe = regexp.MustCompile(`\(?([A-D])\)?\.\s*([^\n]+)`)

	questionNumberRe = regexp.MustCompile(`(?i)^Q(?:uestion)?\s*\d+[\.\)]\s*`)
	bareNumberRe     = regexp.MustCompile(`^\d+[\.\)]\s*`)
	stemBeforeOptRe  = regexp.MustCompile(`(?s)^(.*?)\n\s*\(?[A-D]\)`)

	answerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Answer:\s*([A-D]|\d+(?:\.\d+)?)`),
		regexp.MustCompile(`(?i)Ans:\s*([A-D]|\d+(?:\.\d+)?)`),
		regexp.MustCompile(`(?i)Correct\s+(?:Answer|Option):\s*([A-D])`),
	}
)

// Parser turns raw exam-paper text into structured question records.
type Parser struct{}

func New() *Parser {
	return &Parser{}
}

// ParseQuestions splits full text on "Question N:" markers and extracts one
// record per block. A bad block is logged and skipped; it never aborts the
// batch.
func (p *Parser) ParseQuestions(text, examType string) []models.Question {
	var questions []models.Question

	blocks := blockSplitRe.Split(text, -1)

	idx := 0
	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		idx++

		q, err := p.parseBlock(block)
		if err != nil {
			logger.Error("Error parsing question block",
				zap.Int("block", idx),
				zap.Error(err),
			)
			continue
		}

		q.ExamType = examType
		questions = append(questions, q)
	}

	return questions
}

func (p *Parser) parseBlock(block string) (models.Question, error) {
	// The stem is everything before the first option marker or an
	// "Answer:" line; fall back to the block's first line.
	stem := block
	if loc := stemEndRe.FindStringIndex(block); loc != nil {
		stem = block[:loc[0]]
	} else {
		stem = strings.SplitN(block, "\n", 2)[0]
	}
	stem = strings.TrimSpace(stem)
	if stem == "" {
		return models.Question{}, fmt.Errorf("block has no question text")
	}

	options := extractOptions(parenOptionRe, block)

	answer := "A"
	if m := blockAnswerRe.FindStringSubmatch(block); m != nil {
		answer = strings.ToUpper(m[1])
	}

	difficulty := models.DifficultyMedium
	if m := blockDifficultyRe.FindStringSubmatch(block); m != nil {
		difficulty = strings.ToUpper(m[1])
	}

	topic := models.TopicGeneral
	if m := blockTopicRe.FindStringSubmatch(block); m != nil {
		topic = strings.TrimSpace(m[1])
	}

	questionType := models.TypeNumerical
	if len(options) > 0 {
		questionType = models.TypeSingleChoice
	}

	return models.Question{
		Text:          stem,
		Options:       options,
		CorrectAnswer: answer,
		QuestionType:  questionType,
		Topic:         topic,
		Difficulty:    difficulty,
	}, nil
}

// ParseQuestion parses a single scraped question candidate into a complete
// record, resolving options, answer, type, topic, difficulty and concepts.
// Returns nil (no result) when no usable question text is present, so batch
// callers can skip the item.
func (p *Parser) ParseQuestion(rawText, examType string) *models.Question {
	text := extractQuestionText(rawText)
	if text == "" {
		logger.Warn("Question candidate has no text, skipping")
		return nil
	}

	options := extractOptions(periodOptionRe, rawText)
	answer := extractAnswer(rawText, options)

	return &models.Question{
		Text:           text,
		Options:        options,
		CorrectAnswer:  answer,
		QuestionType:   determineQuestionType(options),
		Topic:          extractTopic(text, examType),
		Difficulty:     estimateDifficulty(text),
		ConceptsTested: extractConcepts(text),
	}
}

func extractQuestionText(rawText string) string {
	text := questionNumberRe.ReplaceAllString(rawText, "")
	text = bareNumberRe.ReplaceAllString(text, "")

	if m := stemBeforeOptRe.FindStringSubmatch(text); m != nil {
		text = m[1]
	}

	return strings.TrimSpace(text)
}

// extractOptions scans with the given marker mode, keeping encounter order.
// Duplicate keys keep their first occurrence so a record never carries more
// than one option per key. Returns nil when nothing matches, which signals
// a non-MCQ question.
func extractOptions(re *regexp.Regexp, text string) []models.Option {
	var options []models.Option
	seen := map[string]bool{}

	for _, m := range re.FindAllStringSubmatch(text, -1) {
		key := m[1]
		if seen[key] {
			continue
		}
		seen[key] = true
		options = append(options, models.Option{
			Key:  key,
			Text: strings.TrimSpace(m[2]),
		})
	}

	return options
}

// extractAnswer resolves the correct answer: explicit answer markers first,
// then the first option's key, then the UNKNOWN sentinel.
func extractAnswer(rawText string, options []models.Option) string {
	for _, re := range answerPatterns {
		if m := re.FindStringSubmatch(rawText); m != nil {
			return strings.ToUpper(m[1])
		}
	}

	if len(options) > 0 {
		return options[0].Key
	}

	return models.AnswerUnknown
}

// determineQuestionType classifies by options. The assertion-reason keyword
// check deliberately runs before any option-count consideration: an
// assertion-style question with four options is still ASSERTION_REASON.
func determineQuestionType(options []models.Option) string {
	if len(options) == 0 {
		return models.TypeNumerical
	}

	for _, opt := range options {
		if strings.Contains(strings.ToLower(opt.Text), "assertion") {
			return models.TypeAssertionReason
		}
	}

	return models.TypeSingleChoice
}

// estimateDifficulty uses a word-count heuristic over the question stem.
func estimateDifficulty(text string) string {
	wordCount := len(strings.Fields(text))

	switch {
	case wordCount < 30:
		return models.DifficultyEasy
	case wordCount < 60:
		return models.DifficultyMedium
	default:
		return models.DifficultyHard
	}
}

// SkippedItem records why one item of a batch produced no record.
type SkippedItem struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// BatchSummary is the outcome of parsing a batch of raw candidates: the
// records that parsed plus an explicit skip entry per item that did not.
type BatchSummary struct {
	Questions []models.Question `json:"questions"`
	Skipped   []SkippedItem     `json:"skipped,omitempty"`
	Attempted int               `json:"attempted"`
}

// ParseBatch parses scraped candidates one by one, merging provenance from
// each raw item. Partial failures are collected, never raised.
func (p *Parser) ParseBatch(raws []models.RawQuestion, examType string) BatchSummary {
	summary := BatchSummary{Attempted: len(raws)}

	for i, raw := range raws {
		parsed := p.ParseQuestion(raw.Text, examType)
		if parsed == nil {
			metrics.QuestionsParsed.WithLabelValues("skipped").Inc()
			summary.Skipped = append(summary.Skipped, SkippedItem{
				Index:  i,
				Reason: "no question text",
			})
			continue
		}
		metrics.QuestionsParsed.WithLabelValues("parsed").Inc()

		parsed.ExamType = raw.ExamType
		parsed.Year = raw.Year
		parsed.Session = raw.Session
		parsed.QuestionNumber = raw.QuestionNumber
		parsed.ScrapeSource = raw.ScrapeSource

		summary.Questions = append(summary.Questions, *parsed)
	}

	logger.Info("Batch parse complete",
		zap.Int("parsed", len(summary.Questions)),
		zap.Int("attempted", summary.Attempted),
	)

	return summary
}
