package models

import "time"

// Question difficulty levels.
const (
	DifficultyEasy   = "EASY"
	DifficultyMedium = "MEDIUM"
	DifficultyHard   = "HARD"
)

// Question types.
const (
	TypeSingleChoice    = "SINGLE_CHOICE"
	TypeNumerical       = "NUMERICAL"
	TypeAssertionReason = "ASSERTION_REASON"
)

// AnswerUnknown marks a question whose correct answer could not be resolved.
const AnswerUnknown = "UNKNOWN"

// TopicGeneral is the fallback topic and concept when nothing matches.
const TopicGeneral = "General"

// Option is a single multiple-choice option keyed A-D.
type Option struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// Question is the canonical record flowing through the pipeline. Options is
// nil for numerical/subjective questions. Provenance fields are carried
// through unvalidated.
type Question struct {
	ID             string   `json:"id,omitempty"`
	Text           string   `json:"text"`
	Options        []Option `json:"options,omitempty"`
	CorrectAnswer  string   `json:"correct_answer"`
	QuestionType   string   `json:"question_type"`
	Topic          string   `json:"topic"`
	Difficulty     string   `json:"difficulty"`
	ConceptsTested []string `json:"concepts_tested,omitempty"`

	ExamType       string `json:"exam_type,omitempty"`
	Year           int    `json:"year,omitempty"`
	Session        string `json:"session,omitempty"`
	QuestionNumber int    `json:"question_number,omitempty"`
	ScrapeSource   string `json:"scrape_source,omitempty"`
}

// RawQuestion is an unparsed question candidate produced by the scraper,
// before structured parsing resolves options, answer, topic and difficulty.
type RawQuestion struct {
	Text           string   `json:"text"`
	ExamType       string   `json:"exam_type"`
	Year           int      `json:"year"`
	Session        string   `json:"session,omitempty"`
	QuestionNumber int      `json:"question_number"`
	ScrapeSource   string   `json:"scrape_source"`
	Keywords       []string `json:"keywords,omitempty"`
}

// ImageRegion describes an image found on a PDF page. Informational only.
type ImageRegion struct {
	Page   int     `json:"page"`
	Index  int     `json:"index"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// GeneratedQuestion is the structured object the generation provider returns,
// plus metadata attached by the orchestrator once the question is accepted.
type GeneratedQuestion struct {
	ID             string   `json:"id,omitempty"`
	Text           string   `json:"question_text"`
	Options        []Option `json:"options"`
	CorrectAnswer  string   `json:"correct_answer"`
	Explanation    string   `json:"explanation"`
	ConceptsTested []string `json:"concepts_tested"`
	Difficulty     string   `json:"difficulty"`
	Topic          string   `json:"topic"`

	OriginalityCheck  *OriginalityResult `json:"originality_check,omitempty"`
	GenerationAttempt int                `json:"generation_attempt,omitempty"`
}

// AsQuestion converts a generated question into a canonical record.
func (g GeneratedQuestion) AsQuestion() Question {
	return Question{
		ID:             g.ID,
		Text:           g.Text,
		Options:        g.Options,
		CorrectAnswer:  g.CorrectAnswer,
		QuestionType:   TypeSingleChoice,
		Topic:          g.Topic,
		Difficulty:     g.Difficulty,
		ConceptsTested: g.ConceptsTested,
	}
}

// SimilarQuestion pairs a corpus question with its similarity to a target.
type SimilarQuestion struct {
	Question   Question `json:"question"`
	Similarity float64  `json:"similarity"`
}

// OriginalityResult is the verdict of comparing one generated question
// against a reference corpus. Produced fresh per check, never mutated.
type OriginalityResult struct {
	IsOriginal          bool              `json:"is_original"`
	MaxSimilarity       float64           `json:"max_similarity"`
	Threshold           float64           `json:"max_similarity_threshold"`
	SimilarQuestions    []SimilarQuestion `json:"similar_questions"`
	MostSimilarQuestion *Question         `json:"most_similar_question,omitempty"`
	Verdict             string            `json:"verdict"`
	QuestionIndex       int               `json:"question_index,omitempty"`
}

// ValidationResult is the verdict of the AI validation pass over a
// generated question. A provider or parse failure yields IsValid=false
// with Error set, never a panic or unhandled fault.
type ValidationResult struct {
	IsValid           bool     `json:"is_valid"`
	FactualAccuracy   bool     `json:"factual_accuracy"`
	AnswerCorrectness bool     `json:"answer_correctness"`
	ClarityScore      int      `json:"clarity_score"`
	DifficultyMatch   bool     `json:"difficulty_match"`
	OptionsQuality    int      `json:"options_quality"`
	Issues            []string `json:"issues,omitempty"`
	Suggestions       []string `json:"suggestions,omitempty"`
	Error             string   `json:"error,omitempty"`
}

// BatchResult summarizes a batch generation run. Questions are listed in
// completion order; the batch never aborts on an individual failure.
type BatchResult struct {
	TotalRequested int                 `json:"total_requested"`
	Successful     int                 `json:"successful"`
	Failed         int                 `json:"failed"`
	Questions      []GeneratedQuestion `json:"questions"`
}

// Spec names the topic and difficulty of one question to generate.
type Spec struct {
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
}

// ScrapeResult is what a document scrape produces: raw question candidates
// plus informational image metadata per page.
type ScrapeResult struct {
	Questions []RawQuestion `json:"questions"`
	Images    []ImageRegion `json:"images,omitempty"`
	Pages     int           `json:"pages"`
	ScrapedAt time.Time     `json:"scraped_at"`
}
