package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/phaniteluguti/Edutech-mvp/internal/models"
	"github.com/phaniteluguti/Edutech-mvp/internal/patterns"
	"github.com/phaniteluguti/Edutech-mvp/pkg/logger"
)

type PatternHandler struct {
	analyzer *patterns.Analyzer
}

func NewPatternHandler(analyzer *patterns.Analyzer) *PatternHandler {
	return &PatternHandler{
		analyzer: analyzer,
	}
}

// GenerateReport computes a full pattern report over the supplied corpus.
func (h *PatternHandler) GenerateReport(c *fiber.Ctx) error {
	var req struct {
		Questions []models.Question `json:"questions"`
		ExamType  string            `json:"exam_type"`
		Years     []int             `json:"years"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if len(req.Questions) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "At least one question is required",
		})
	}

	report := h.analyzer.GenerateReport(req.Questions, req.ExamType, req.Years)
	return c.JSON(report)
}

// QuestionFrequency counts how often a question's concept combination
// recurs in a corpus.
func (h *PatternHandler) QuestionFrequency(c *fiber.Ctx) error {
	var req struct {
		Question  models.Question   `json:"question"`
		Corpus    []models.Question `json:"corpus"`
		Threshold float64           `json:"threshold"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	threshold := req.Threshold
	if threshold <= 0 {
		threshold = patterns.DefaultConceptOverlapThreshold
	}

	count := h.analyzer.QuestionFrequency(req.Question, req.Corpus, threshold)
	return c.JSON(fiber.Map{
		"frequency": count,
		"threshold": threshold,
	})
}
