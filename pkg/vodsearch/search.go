// Package vodsearch fans a title search out to every enabled VOD provider
// concurrently and streams ranked matches back as each provider settles.
package vodsearch

import (
	"context"
	"errors"
	"sync"

	"github.com/avolet/govodmatch/pkg/logger"
	"github.com/avolet/govodmatch/pkg/vodsearch/models"
	"github.com/avolet/govodmatch/pkg/vodsearch/sorter"
)

// ErrNoProviders is returned when a search starts with zero enabled
// providers. This is a terminal configuration failure: no stream is opened.
var ErrNoProviders = errors.New("no providers configured")

// Searcher orchestrates concurrent provider queries.
type Searcher struct {
	querier Querier
	sorter  *sorter.ResultSorter
	logger  logger.Logger
}

// NewSearcher creates a Searcher backed by the given querier. Tests inject a
// fake querier; production wiring passes a QueryAdapter.
func NewSearcher(querier Querier) *Searcher {
	return &Searcher{
		querier: querier,
		sorter:  sorter.NewResultSorter(),
		logger:  logger.New(),
	}
}

// Session tracks one in-flight search: its provider snapshot, completion
// accounting and the continuously re-sorted view of matches found so far.
type Session struct {
	Title     string
	ContextID string
	Total     int

	events chan models.Event

	mu        sync.Mutex
	completed int
	results   []models.MatchResult
	found     int
	sorter    *sorter.ResultSorter
}

// Events returns the event stream for this search. The channel yields exactly
// one init event, one result event per provider in arrival order, and one
// done event, then closes. The channel is buffered for the whole sequence, so
// provider tasks always run to completion even with no consumer attached.
func (s *Session) Events() <-chan models.Event {
	return s.events
}

// Results returns a snapshot of the current ranked matches. At any point
// during the stream this is a valid prefix of the final ordering: completed
// providers only accumulate, and a result's sort placement never changes
// after arrival.
func (s *Session) Results() []models.MatchResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]models.MatchResult, len(s.results))
	copy(snapshot, s.results)
	return snapshot
}

// Completed reports how many provider tasks have settled so far.
func (s *Session) Completed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed
}

// settle records one provider outcome, updates the ranked view and emits the
// result event; the last settle also emits done and closes the stream.
func (s *Session) settle(providerKey string, match *models.MatchResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.completed++
	if match != nil {
		s.found++
		s.results = s.sorter.Insert(s.results, *match)
	}

	s.events <- models.Event{
		Type:        models.EventResult,
		ProviderKey: providerKey,
		Match:       match,
		Completed:   s.completed,
		Total:       s.Total,
	}

	if s.completed == s.Total {
		s.events <- models.Event{
			Type:           models.EventDone,
			TotalProviders: s.Total,
			FoundCount:     s.found,
		}
		close(s.events)
	}
}

// Search starts a fan-out over the given provider snapshot and returns the
// session immediately; results arrive on Session.Events as providers settle.
//
// Providers are queried all at once with no concurrency cap: each is an
// independent external system and the configured count is small. A provider
// task is never cancelled because a sibling finished first; the consumer
// wants the full set of alternatives, and completed/total accounting stays
// exact. The caller's ctx bounds individual queries only through the
// adapter's own timeout.
func (s *Searcher) Search(ctx context.Context, title, contextID string, providers []models.Provider) (*Session, error) {
	if len(providers) == 0 {
		return nil, ErrNoProviders
	}

	snapshot := make([]models.Provider, len(providers))
	copy(snapshot, providers)

	session := &Session{
		Title:     title,
		ContextID: contextID,
		Total:     len(snapshot),
		// init + one result per provider + done all fit in the buffer,
		// so no emit ever blocks on a slow or absent consumer.
		events: make(chan models.Event, len(snapshot)+2),
		sorter: sorter.NewResultSorter(),
	}

	session.events <- models.Event{
		Type:           models.EventInit,
		ContextID:      contextID,
		TotalProviders: session.Total,
	}

	s.logger.Infof("[vodsearch] searching %d providers for %q", session.Total, title)

	for _, provider := range snapshot {
		go func(p models.Provider) {
			match := s.querier.Query(ctx, p, title)
			session.settle(p.Key, match)
		}(provider)
	}

	return session, nil
}
