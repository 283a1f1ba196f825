package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/phaniteluguti/Edutech-mvp/internal/models"
	"github.com/phaniteluguti/Edutech-mvp/internal/similarity"
	"github.com/phaniteluguti/Edutech-mvp/pkg/logger"
)

type SimilarityHandler struct {
	checker *similarity.Checker
}

func NewSimilarityHandler(checker *similarity.Checker) *SimilarityHandler {
	return &SimilarityHandler{
		checker: checker,
	}
}

func (h *SimilarityHandler) notConfigured(c *fiber.Ctx) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": "Embedding provider is not configured",
	})
}

// CheckOriginality verifies a batch of candidate questions against an
// existing corpus.
func (h *SimilarityHandler) CheckOriginality(c *fiber.Ctx) error {
	if h.checker == nil {
		return h.notConfigured(c)
	}

	var req struct {
		Questions []models.Question `json:"questions"`
		Existing  []models.Question `json:"existing"`
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

	results := h.checker.BatchCheckOriginality(c.Context(), req.Questions, req.Existing)
	return c.JSON(fiber.Map{
		"results": results,
	})
}

// FindSimilar ranks corpus questions by semantic similarity to a target.
func (h *SimilarityHandler) FindSimilar(c *fiber.Ctx) error {
	if h.checker == nil {
		return h.notConfigured(c)
	}

	var req struct {
		Question  models.Question   `json:"question"`
		Corpus    []models.Question `json:"corpus"`
		Threshold float64           `json:"threshold"`
		Limit     int               `json:"limit"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Question.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Question text is required",
		})
	}
	if req.Threshold <= 0 {
		req.Threshold = similarity.DefaultScanThreshold
	}
	if req.Limit <= 0 {
		req.Limit = 10
	}

	matches, err := h.checker.FindSimilar(c.Context(), req.Question, req.Corpus, req.Threshold, req.Limit)
	if err != nil {
		logger.Error("Failed to rank similar questions", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Embedding provider is unavailable",
		})
	}

	return c.JSON(fiber.Map{
		"similar": matches,
	})
}
