package handlers

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/phaniteluguti/Edutech-mvp/internal/parser"
	"github.com/phaniteluguti/Edutech-mvp/internal/scraper"
	"github.com/phaniteluguti/Edutech-mvp/pkg/logger"
)

type ScrapeHandler struct {
	scraper *scraper.Scraper
	parser  *parser.Parser
}

func NewScrapeHandler(scr *scraper.Scraper, prs *parser.Parser) *ScrapeHandler {
	return &ScrapeHandler{
		scraper: scr,
		parser:  prs,
	}
}

// ScrapePDF accepts a multipart upload of an exam paper PDF, extracts its
// raw question candidates, and parses them into structured questions.
func (h *ScrapeHandler) ScrapePDF(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "A PDF file upload is required",
		})
	}

	prov := scraper.Provenance{
		ExamType: c.FormValue("exam_type"),
		Session:  c.FormValue("session"),
		Source:   file.Filename,
	}
	if yearStr := c.FormValue("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid year",
			})
		}
		prov.Year = year
	}

	tmpPath := filepath.Join(os.TempDir(), uuid.NewString()+".pdf")
	if err := c.SaveFile(file, tmpPath); err != nil {
		logger.Error("Failed to save uploaded file", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save uploaded file",
		})
	}
	defer os.Remove(tmpPath)

	result, err := h.scraper.ScrapePDF(c.Context(), tmpPath, prov)
	if err != nil {
		logger.Error("Failed to scrape document", zap.Error(err))
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "Failed to extract text from document",
		})
	}

	summary := h.parser.ParseBatch(result.Questions, prov.ExamType)

	return c.JSON(fiber.Map{
		"pages":      result.Pages,
		"images":     result.Images,
		"raw":        result.Questions,
		"questions":  summary.Questions,
		"skipped":    summary.Skipped,
		"attempted":  summary.Attempted,
		"scraped_at": result.ScrapedAt,
	})
}

// ScrapeHTML parses an HTML exam paper supplied inline in the request body.
func (h *ScrapeHandler) ScrapeHTML(c *fiber.Ctx) error {
	var req struct {
		HTMLContent string `json:"html_content"`
		ExamType    string `json:"exam_type"`
		Year        int    `json:"year"`
		Session     string `json:"session"`
		Source      string `json:"source"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.HTMLContent == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "HTML content is required",
		})
	}

	result, err := h.scraper.ScrapeHTML(req.HTMLContent, scraper.Provenance{
		ExamType: req.ExamType,
		Year:     req.Year,
		Session:  req.Session,
		Source:   req.Source,
	})
	if err != nil {
		logger.Error("Failed to scrape HTML", zap.Error(err))
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "Failed to parse HTML content",
		})
	}

	summary := h.parser.ParseBatch(result.Questions, req.ExamType)

	return c.JSON(fiber.Map{
		"raw":       result.Questions,
		"questions": summary.Questions,
		"skipped":   summary.Skipped,
		"attempted": summary.Attempted,
	})
}

// ScrapeURL rejects URL-based scraping with an explanation.
func (h *ScrapeHandler) ScrapeURL(c *fiber.Ctx) error {
	var req struct {
		URL string `json:"url"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	_, err := h.scraper.ScrapeFromURL(c.Context(), req.URL)
	if errors.Is(err, scraper.ErrURLScrapingUnsupported) {
		return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Failed to scrape URL",
	})
}
