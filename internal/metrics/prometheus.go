package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	GenerationAttempts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "edutech_generation_attempts_total",
			Help: "Total question generation attempts, including retries",
		},
	)

	GenerationOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edutech_generation_outcomes_total",
			Help: "Question generation outcomes",
		},
		[]string{"status"},
	)

	OriginalityVerdicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edutech_originality_verdicts_total",
			Help: "Originality check verdicts for generated questions",
		},
		[]string{"verdict"},
	)

	MaxSimilarityScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "edutech_max_similarity_score",
			Help:    "Max similarity of generated questions against the corpus",
			Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
	)

	TokensUsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edutech_llm_tokens_used_total",
			Help: "Total provider tokens used",
		},
		[]string{"type"},
	)

	PagesScraped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "edutech_pages_scraped_total",
			Help: "Total PDF pages scraped",
		},
	)

	QuestionsParsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edutech_questions_parsed_total",
			Help: "Questions parsed from raw text",
		},
		[]string{"status"},
	)
)

func Init() {
	prometheus.MustRegister(GenerationAttempts)
	prometheus.MustRegister(GenerationOutcomes)
	prometheus.MustRegister(OriginalityVerdicts)
	prometheus.MustRegister(MaxSimilarityScore)
	prometheus.MustRegister(TokensUsed)
	prometheus.MustRegister(PagesScraped)
	prometheus.MustRegister(QuestionsParsed)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
