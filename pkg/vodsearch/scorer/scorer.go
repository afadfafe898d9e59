// Package scorer classifies how well a candidate name matches a search title.
package scorer

import (
	"strings"

	"github.com/avolet/govodmatch/pkg/vodsearch/models"
)

// Score returns the confidence tier for a candidate name against the search
// title. Both strings are lowercased and trimmed before comparison: equal
// strings are high, one containing the other is medium, anything else is low.
// This is a deliberately cheap heuristic, not a text-similarity model.
func Score(candidateName, searchTitle string) models.Confidence {
	name := normalize(candidateName)
	title := normalize(searchTitle)

	if name == title {
		return models.ConfidenceHigh
	}
	if name != "" && title != "" && (strings.Contains(name, title) || strings.Contains(title, name)) {
		return models.ConfidenceMedium
	}
	return models.ConfidenceLow
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
