package parser

import (
	"strings"

	"github.com/phaniteluguti/Edutech-mvp/internal/models"
)

// topicEntry maps a topic to the keywords that indicate it. Entries are
// probed in slice order and the first topic with any keyword hit wins, so
// ordering is load-bearing.
type topicEntry struct {
	topic    string
	keywords []string
}

var jeeTopics = []topicEntry{
	{"Physics", []string{"force", "motion", "energy", "electric", "magnetic", "optics", "wave"}},
	{"Chemistry", []string{"reaction", "compound", "element", "acid", "base", "organic", "inorganic"}},
	{"Mathematics", []string{"equation", "integral", "derivative", "matrix", "vector", "probability"}},
}

var neetTopics = []topicEntry{
	{"Physics", []string{"force", "motion", "energy", "electric", "magnetic", "optics", "wave"}},
	{"Chemistry", []string{"reaction", "compound", "element", "acid", "base", "organic", "inorganic"}},
	{"Biology", []string{"cell", "tissue", "organ", "genetics", "evolution", "ecology", "plant", "animal"}},
}

// conceptVocabulary is the fixed set of named concepts matched by
// containment against the question text.
var conceptVocabulary = []string{
	// Physics
	"Newton's Laws", "Kinematics", "Work-Energy", "Momentum",
	"Gravitation", "Electrostatics", "Magnetism", "Optics",
	// Chemistry
	"Stoichiometry", "Chemical Bonding", "Thermodynamics",
	"Equilibrium", "Redox", "Organic Reactions",
	// Mathematics
	"Algebra", "Calculus", "Trigonometry", "Coordinate Geometry",
	"Probability", "Statistics", "Vectors", "Matrices",
}

func topicTable(examType string) []topicEntry {
	if examType == "JEE" {
		return jeeTopics
	}
	return neetTopics
}

func extractTopic(text, examType string) string {
	lower := strings.ToLower(text)

	for _, entry := range topicTable(examType) {
		for _, keyword := range entry.keywords {
			if strings.Contains(lower, keyword) {
				return entry.topic
			}
		}
	}

	return models.TopicGeneral
}

func extractConcepts(text string) []string {
	lower := strings.ToLower(text)

	var concepts []string
	for _, concept := range conceptVocabulary {
		if strings.Contains(lower, strings.ToLower(concept)) {
			concepts = append(concepts, concept)
		}
	}

	if len(concepts) == 0 {
		return []string{models.TopicGeneral}
	}
	return concepts
}
