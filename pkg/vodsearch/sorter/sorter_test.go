package sorter

import (
	"testing"

	"github.com/avolet/govodmatch/pkg/vodsearch/models"
)

func result(key string, priority int, confidence models.Confidence) models.MatchResult {
	return models.MatchResult{
		ProviderKey:   key,
		ProviderName:  key,
		CandidateID:   "1",
		CandidateName: "Avatar",
		Confidence:    confidence,
		Priority:      priority,
	}
}

// permutations returns every ordering of the given results.
func permutations(results []models.MatchResult) [][]models.MatchResult {
	if len(results) <= 1 {
		return [][]models.MatchResult{append([]models.MatchResult{}, results...)}
	}
	var perms [][]models.MatchResult
	for i := range results {
		rest := make([]models.MatchResult, 0, len(results)-1)
		rest = append(rest, results[:i]...)
		rest = append(rest, results[i+1:]...)
		for _, sub := range permutations(rest) {
			perms = append(perms, append([]models.MatchResult{results[i]}, sub...))
		}
	}
	return perms
}

func keys(results []models.MatchResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.ProviderKey
	}
	return out
}

func TestSortPriorityDominatesConfidence(t *testing.T) {
	results := []models.MatchResult{
		result("b", 1, models.ConfidenceHigh),
		result("a", 0, models.ConfidenceMedium),
		result("c", 1, models.ConfidenceLow),
	}

	rs := NewResultSorter()
	rs.Sort(results)

	expected := []string{"a", "b", "c"}
	for i, key := range keys(results) {
		if key != expected[i] {
			t.Fatalf("sorted order = %v, expected %v", keys(results), expected)
		}
	}
}

func TestSortStableAcrossArrivalOrders(t *testing.T) {
	base := []models.MatchResult{
		result("a", 0, models.ConfidenceMedium),
		result("b", 1, models.ConfidenceHigh),
		result("c", 1, models.ConfidenceMedium),
		result("d", models.DefaultPriority, models.ConfidenceHigh),
	}
	expected := []string{"a", "b", "c", "d"}

	rs := NewResultSorter()
	for _, perm := range permutations(base) {
		var view []models.MatchResult
		for _, r := range perm {
			view = rs.Insert(view, r)
		}
		for i, key := range keys(view) {
			if key != expected[i] {
				t.Fatalf("arrival order %v produced ranking %v, expected %v",
					keys(perm), keys(view), expected)
			}
		}
	}
}

func TestSortConfidenceTieBreak(t *testing.T) {
	base := []models.MatchResult{
		result("high", 5, models.ConfidenceHigh),
		result("medium", 5, models.ConfidenceMedium),
		result("low", 5, models.ConfidenceLow),
	}
	expected := []string{"high", "medium", "low"}

	rs := NewResultSorter()
	for _, perm := range permutations(base) {
		sorted := append([]models.MatchResult{}, perm...)
		rs.Sort(sorted)
		for i, key := range keys(sorted) {
			if key != expected[i] {
				t.Fatalf("arrival order %v produced ranking %v, expected %v",
					keys(perm), keys(sorted), expected)
			}
		}
	}
}
