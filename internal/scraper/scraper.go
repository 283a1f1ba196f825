package scraper

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jdkato/prose/v2"
	"go.uber.org/zap"

	"github.com/phaniteluguti/Edutech-mvp/internal/metrics"
	"github.com/phaniteluguti/Edutech-mvp/internal/models"
	"github.com/phaniteluguti/Edutech-mvp/pkg/logger"
)

// ErrURLScrapingUnsupported is returned by ScrapeFromURL. Exam paper sites
// sit behind login walls and captchas, so only uploaded documents are
// processed.
var ErrURLScrapingUnsupported = errors.New("scraping from URL is not supported, upload the document instead")

// questionStartRe marks lines that open a new question candidate:
// "Q12", "Question 12", or a bare "12." / "12)" at the start of a line.
var questionStartRe = regexp.MustCompile(`(?i)^\s*(?:Q(?:uestion)?\s*(\d+)|(\d+)[\.\)])`)

const maxKeywords = 10

// Scraper turns uploaded exam documents into raw question candidates with
// provenance. The candidates still need the parser to become structured
// questions.
type Scraper struct {
	extractor *Extractor
}

func New(extractor *Extractor) *Scraper {
	return &Scraper{extractor: extractor}
}

// Provenance identifies where a scraped document came from.
type Provenance struct {
	ExamType string
	Year     int
	Session  string
	Source   string
}

// ScrapePDF extracts page text from the document at path and scans it for
// question candidates. Pages that fail to extract are skipped; the rest of
// the document is still processed.
func (s *Scraper) ScrapePDF(ctx context.Context, path string, prov Provenance) (*models.ScrapeResult, error) {
	pages, err := s.extractor.ExtractPages(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extracting pages: %w", err)
	}

	var full strings.Builder
	for i, text := range pages {
		if strings.TrimSpace(text) == "" {
			continue
		}
		full.WriteString(fmt.Sprintf("\n--- Page %d ---\n", i+1))
		full.WriteString(text)
		metrics.PagesScraped.Inc()
	}

	result := &models.ScrapeResult{
		Questions: s.ScanText(full.String(), prov),
		Images:    s.extractor.ExtractImages(ctx, path),
		Pages:     len(pages),
		ScrapedAt: time.Now().UTC(),
	}

	logger.Info("Scraped document",
		zap.String("source", prov.Source),
		zap.Int("pages", result.Pages),
		zap.Int("questions", len(result.Questions)),
	)

	return result, nil
}

// ScrapeHTML strips markup from an HTML exam paper and scans the remaining
// text for question candidates.
func (s *Scraper) ScrapeHTML(html string, prov Provenance) (*models.ScrapeResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	doc.Find("script, style, nav, header, footer").Remove()

	var lines []string
	doc.Find("p, li, div, td").Each(func(_ int, sel *goquery.Selection) {
		if sel.Children().Length() > 0 {
			return
		}
		text := strings.TrimSpace(sel.Text())
		if text != "" {
			lines = append(lines, text)
		}
	})

	return &models.ScrapeResult{
		Questions: s.ScanText(strings.Join(lines, "\n"), prov),
		Pages:     1,
		ScrapedAt: time.Now().UTC(),
	}, nil
}

// ScrapeFromURL always fails; see ErrURLScrapingUnsupported.
func (s *Scraper) ScrapeFromURL(ctx context.Context, url string) (*models.ScrapeResult, error) {
	return nil, ErrURLScrapingUnsupported
}

// ScanText walks text line by line and groups lines into raw question
// candidates. A candidate starts at a line that looks like a question
// heading and ends at the next heading or end of input.
func (s *Scraper) ScanText(text string, prov Provenance) []models.RawQuestion {
	var questions []models.RawQuestion
	var current []string
	currentNumber := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		body := strings.TrimSpace(strings.Join(current, " "))
		current = nil
		if body == "" {
			return
		}
		questions = append(questions, models.RawQuestion{
			Text:           body,
			ExamType:       prov.ExamType,
			Year:           prov.Year,
			Session:        prov.Session,
			QuestionNumber: currentNumber,
			ScrapeSource:   prov.Source,
			Keywords:       extractKeywords(body),
		})
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--- Page") {
			continue
		}

		if m := questionStartRe.FindStringSubmatch(line); m != nil {
			flush()
			number := m[1]
			if number == "" {
				number = m[2]
			}
			currentNumber, _ = strconv.Atoi(number)
			current = append(current, line)
			continue
		}

		if len(current) > 0 {
			current = append(current, line)
		}
	}
	flush()

	return questions
}

// extractKeywords annotates a candidate with named entities. Informational
// only; extraction failure just means no keywords.
func extractKeywords(text string) []string {
	doc, err := prose.NewDocument(text)
	if err != nil {
		logger.Debug("Keyword extraction failed", zap.Error(err))
		return nil
	}

	seen := map[string]bool{}
	var keywords []string
	for _, ent := range doc.Entities() {
		key := strings.ToLower(ent.Text)
		if seen[key] {
			continue
		}
		seen[key] = true
		keywords = append(keywords, ent.Text)
		if len(keywords) >= maxKeywords {
			break
		}
	}

	return keywords
}
