package scraper

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/phaniteluguti/Edutech-mvp/internal/models"
	"github.com/phaniteluguti/Edutech-mvp/pkg/config"
	"github.com/phaniteluguti/Edutech-mvp/pkg/logger"
)

// Extractor pulls raw page text and image metadata out of PDF documents
// using the poppler command line tools. Failure to extract a single page
// logs and yields an empty string for that page; failure on the whole
// document is an error.
type Extractor struct {
	pdfToText string
	pdfInfo   string
	pdfImages string
}

func NewExtractor(cfg config.ScraperConfig) *Extractor {
	pdfToText := cfg.PdfToTextPath
	if pdfToText == "" {
		pdfToText = "pdftotext"
	}
	pdfInfo := cfg.PdfInfoPath
	if pdfInfo == "" {
		pdfInfo = "pdfinfo"
	}
	pdfImages := cfg.PdfImagesPath
	if pdfImages == "" {
		pdfImages = "pdfimages"
	}

	return &Extractor{
		pdfToText: pdfToText,
		pdfInfo:   pdfInfo,
		pdfImages: pdfImages,
	}
}

// PageCount reads the page count via pdfinfo.
func (e *Extractor) PageCount(ctx context.Context, path string) (int, error) {
	out, err := exec.CommandContext(ctx, e.pdfInfo, path).Output()
	if err != nil {
		return 0, fmt.Errorf("pdfinfo failed: %w", err)
	}

	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "Pages:") {
			count, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Pages:")))
			if err != nil {
				return 0, fmt.Errorf("unparseable page count %q: %w", line, err)
			}
			return count, nil
		}
	}

	return 0, fmt.Errorf("pdfinfo output had no page count")
}

// ExtractPages returns one text per page, in page order. A page that fails
// to extract contributes an empty string.
func (e *Extractor) ExtractPages(ctx context.Context, path string) ([]string, error) {
	pages, err := e.PageCount(ctx, path)
	if err != nil {
		return nil, err
	}

	texts := make([]string, pages)
	for i := 1; i <= pages; i++ {
		out, err := exec.CommandContext(ctx, e.pdfToText,
			"-f", strconv.Itoa(i),
			"-l", strconv.Itoa(i),
			path, "-",
		).Output()
		if err != nil {
			logger.Error("Error extracting page text",
				zap.Int("page", i),
				zap.Error(err),
			)
			continue
		}
		texts[i-1] = string(out)
	}

	return texts, nil
}

// ExtractImages lists image regions per page via pdfimages. Informational
// only; a failure here is logged and yields no metadata.
func (e *Extractor) ExtractImages(ctx context.Context, path string) []models.ImageRegion {
	out, err := exec.CommandContext(ctx, e.pdfImages, "-list", path).Output()
	if err != nil {
		logger.Warn("Error listing page images", zap.Error(err))
		return nil
	}

	var regions []models.ImageRegion
	indexOnPage := map[int]int{}

	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		// pdfimages -list: page num type width height ...
		if len(fields) < 5 {
			continue
		}

		page, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		width, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			continue
		}
		height, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			continue
		}

		regions = append(regions, models.ImageRegion{
			Page:   page,
			Index:  indexOnPage[page],
			Width:  width,
			Height: height,
		})
		indexOnPage[page]++
	}

	return regions
}
