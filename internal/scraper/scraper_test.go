package scraper

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phaniteluguti/Edutech-mvp/pkg/config"
)

func testScraper() *Scraper {
	return New(NewExtractor(config.ScraperConfig{}))
}

func TestScanTextGroupsQuestions(t *testing.T) {
	s := testScraper()

	text := `--- Page 1 ---
JEE Main 2023 Physics Section

Q1. A body of mass 2 kg moves with velocity 3 m/s.
(A). 6 J
(B). 9 J

2. Find the momentum of the body.
Ans: 6

--- Page 2 ---
Question 3: Evaluate the integral of sin(x).`

	prov := Provenance{ExamType: "JEE", Year: 2023, Session: "January", Source: "jee2023.pdf"}
	questions := s.ScanText(text, prov)

	require.Len(t, questions, 3)

	assert.Equal(t, 1, questions[0].QuestionNumber)
	assert.Contains(t, questions[0].Text, "A body of mass 2 kg")
	assert.Contains(t, questions[0].Text, "(B). 9 J")

	assert.Equal(t, 2, questions[1].QuestionNumber)
	assert.Contains(t, questions[1].Text, "momentum")

	assert.Equal(t, 3, questions[2].QuestionNumber)

	for _, q := range questions {
		assert.Equal(t, "JEE", q.ExamType)
		assert.Equal(t, 2023, q.Year)
		assert.Equal(t, "January", q.Session)
		assert.Equal(t, "jee2023.pdf", q.ScrapeSource)
	}
}

func TestScanTextIgnoresPreambleAndPageMarkers(t *testing.T) {
	s := testScraper()

	text := `--- Page 1 ---
Instructions: answer all questions.
Total marks: 100

1. First real question here.`

	questions := s.ScanText(text, Provenance{})

	require.Len(t, questions, 1)
	assert.NotContains(t, questions[0].Text, "Instructions")
	assert.NotContains(t, questions[0].Text, "--- Page")
}

func TestScanTextEmptyInput(t *testing.T) {
	s := testScraper()
	assert.Empty(t, s.ScanText("", Provenance{}))
	assert.Empty(t, s.ScanText("No question markers anywhere.", Provenance{}))
}

func TestScrapeHTMLStripsMarkup(t *testing.T) {
	s := testScraper()

	html := `<html><head><script>alert("x")</script></head><body>
<nav>Menu</nav>
<p>Q1. What is the capital of France?</p>
<p>(A). Paris</p>
<p>(B). Lyon</p>
<footer>Copyright</footer>
</body></html>`

	result, err := s.ScrapeHTML(html, Provenance{ExamType: "JEE", Source: "paper.html"})
	require.NoError(t, err)

	require.Len(t, result.Questions, 1)
	q := result.Questions[0]
	assert.Contains(t, q.Text, "capital of France")
	assert.Contains(t, q.Text, "(A). Paris")
	assert.NotContains(t, q.Text, "alert")
	assert.NotContains(t, q.Text, "Menu")
	assert.NotContains(t, q.Text, "Copyright")
}

func TestScrapeFromURLUnsupported(t *testing.T) {
	s := testScraper()

	_, err := s.ScrapeFromURL(context.Background(), "https://example.com/paper")
	assert.ErrorIs(t, err, ErrURLScrapingUnsupported)
}

func TestQuestionStartPattern(t *testing.T) {
	matching := []string{
		"Q1. text",
		"Question 12: text",
		"q3) text",
		"7. text",
		"  15) text",
	}
	for _, line := range matching {
		assert.True(t, questionStartRe.MatchString(line), line)
	}

	nonMatching := []string{
		"The 7 wonders",
		"(A). option text",
		"Answer: B",
	}
	for _, line := range nonMatching {
		assert.False(t, questionStartRe.MatchString(line), line)
	}
}
