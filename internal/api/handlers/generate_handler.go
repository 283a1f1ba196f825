package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/phaniteluguti/Edutech-mvp/internal/generator"
	"github.com/phaniteluguti/Edutech-mvp/internal/models"
	"github.com/phaniteluguti/Edutech-mvp/pkg/logger"
)

type GenerateHandler struct {
	generator *generator.Generator
}

func NewGenerateHandler(gen *generator.Generator) *GenerateHandler {
	return &GenerateHandler{
		generator: gen,
	}
}

func (h *GenerateHandler) GenerateSingle(c *fiber.Ctx) error {
	var req struct {
		Topic             string            `json:"topic"`
		Difficulty        string            `json:"difficulty"`
		ExamType          string            `json:"exam_type"`
		ContextQuestions  []models.Question `json:"context_questions"`
		ExistingQuestions []models.Question `json:"existing_questions"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Topic == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Topic is required",
		})
	}
	if req.Difficulty == "" {
		req.Difficulty = models.DifficultyMedium
	}

	question, err := h.generator.Generate(c.Context(), generator.Request{
		Topic:             req.Topic,
		Difficulty:        req.Difficulty,
		ExamType:          req.ExamType,
		ContextQuestions:  req.ContextQuestions,
		ExistingQuestions: req.ExistingQuestions,
	})
	if err != nil {
		if errors.Is(err, generator.ErrNotConfigured) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "Generation provider is not configured",
			})
		}
		logger.Error("Failed to generate question", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate question",
		})
	}

	if question == nil {
		return c.JSON(fiber.Map{
			"success": false,
			"message": "Could not produce an original question within the retry budget",
		})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"question": question,
	})
}

func (h *GenerateHandler) GenerateBatch(c *fiber.Ctx) error {
	var req struct {
		Specs             []models.Spec     `json:"specs"`
		ExamType          string            `json:"exam_type"`
		ContextQuestions  []models.Question `json:"context_questions"`
		ExistingQuestions []models.Question `json:"existing_questions"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if len(req.Specs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "At least one spec is required",
		})
	}

	result, err := h.generator.GenerateBatch(c.Context(),
		req.Specs, req.ExamType, req.ContextQuestions, req.ExistingQuestions, nil)
	if err != nil {
		if errors.Is(err, generator.ErrNotConfigured) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "Generation provider is not configured",
			})
		}
		logger.Error("Failed to generate batch", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate batch",
		})
	}

	return c.JSON(result)
}

func (h *GenerateHandler) ValidateQuestion(c *fiber.Ctx) error {
	var req struct {
		Question models.GeneratedQuestion `json:"question"`
		ExamType string                   `json:"exam_type"`
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

	result := h.generator.Validate(c.Context(), req.Question, req.ExamType)
	return c.JSON(result)
}
