// Package sorter orders match results for presentation.
package sorter

import (
	"sort"

	"github.com/avolet/govodmatch/pkg/vodsearch/models"
)

type ResultSorter struct{}

func NewResultSorter() *ResultSorter {
	return &ResultSorter{}
}

// Sort orders results by provider priority ascending, breaking ties with
// confidence descending. Arrival order never influences the final placement,
// so the ordering is deterministic for a given result set.
func (rs *ResultSorter) Sort(results []models.MatchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Priority != results[j].Priority {
			return results[i].Priority < results[j].Priority
		}
		return results[i].Confidence.Rank() > results[j].Confidence.Rank()
	})
}

// Insert adds a result and returns the slice re-sorted. The caller keeps the
// returned slice as the current ranked view.
func (rs *ResultSorter) Insert(results []models.MatchResult, result models.MatchResult) []models.MatchResult {
	results = append(results, result)
	rs.Sort(results)
	return results
}
