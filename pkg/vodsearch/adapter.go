package vodsearch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avolet/govodmatch/pkg/httputil"
	"github.com/avolet/govodmatch/pkg/logger"
	"github.com/avolet/govodmatch/pkg/ratelimiter"
	"github.com/avolet/govodmatch/pkg/vodsearch/models"
	"github.com/avolet/govodmatch/pkg/vodsearch/scorer"
)

const (
	// KeywordPlaceholder is substituted into a provider's search endpoint
	// template. Endpoints without it get the term appended as "wd".
	KeywordPlaceholder = "{keyword}"

	// Per-provider query timeout. A provider slower than this resolves to
	// no match; it never delays or fails the rest of the fan-out.
	defaultQueryTimeout = 12 * time.Second

	// Upper bound on a provider response body. Anything larger than this
	// is not a search result list.
	maxResponseBytes = 4 << 20
)

// Querier issues a search against a single provider and returns its best
// match, or nil when the provider produced nothing usable.
type Querier interface {
	Query(ctx context.Context, provider models.Provider, title string) *models.MatchResult
}

// QueryAdapter talks to provider search APIs over HTTP. Every failure mode
// (network error, timeout, non-2xx, unparseable body, empty list) is absorbed
// and reported as a nil match so one broken provider cannot affect siblings.
type QueryAdapter struct {
	httpClient *http.Client
	limiter    *ratelimiter.TokenBucket
	timeout    time.Duration
	logger     logger.Logger
}

// NewQueryAdapter creates an adapter with the default per-query timeout.
func NewQueryAdapter() *QueryAdapter {
	return NewQueryAdapterWithTimeout(defaultQueryTimeout)
}

// NewQueryAdapterWithTimeout creates an adapter with a custom per-query
// timeout. Used by tests and by deployments with unusually slow providers.
func NewQueryAdapterWithTimeout(timeout time.Duration) *QueryAdapter {
	return &QueryAdapter{
		httpClient: httputil.NewHTTPClient(timeout),
		limiter:    ratelimiter.NewTokenBucket(20, 10),
		timeout:    timeout,
		logger:     logger.New(),
	}
}

// vodListResponse is the common shape of provider search APIs. Providers are
// inconsistent about field types, so id and year tolerate both strings and
// numbers.
type vodListResponse struct {
	Code int       `json:"code"`
	Msg  string    `json:"msg"`
	List []vodItem `json:"list"`
}

type vodItem struct {
	ID      flexString `json:"vod_id"`
	Name    string     `json:"vod_name"`
	Year    flexString `json:"vod_year"`
	Area    string     `json:"vod_area"`
	Remarks string     `json:"vod_remarks"`
}

// flexString decodes a JSON string or number into a string.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*f = flexString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*f = flexString(num.String())
	return nil
}

// Query runs one provider search. It never returns an error: any failure is
// logged and mapped to a nil match. No retries are attempted.
func (a *QueryAdapter) Query(ctx context.Context, provider models.Provider, title string) *models.MatchResult {
	endpoint := BuildSearchURL(provider.SearchEndpoint, title)
	if endpoint == "" {
		a.logger.Warnf("[%s] invalid search endpoint %q", provider.Key, provider.SearchEndpoint)
		return nil
	}

	a.limiter.Wait()

	queryCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	req, err := httputil.NewBrowserRequest(queryCtx, endpoint)
	if err != nil {
		a.logger.Warnf("[%s] failed to build request: %v", provider.Key, err)
		return nil
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.Warnf("[%s] search request failed: %v", provider.Key, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.logger.Warnf("[%s] search returned status %d", provider.Key, resp.StatusCode)
		return nil
	}

	// Read the whole body first. Some providers serve HTML or XML error
	// pages with a 200 status, so decoding straight off the wire would
	// conflate transport and parse failures.
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		a.logger.Warnf("[%s] failed to read response: %v", provider.Key, err)
		return nil
	}

	candidates := parseCandidates(body)
	if len(candidates) == 0 {
		a.logger.Debugf("[%s] no usable candidates for %q", provider.Key, title)
		return nil
	}

	best := selectBestCandidate(candidates, title)
	match := &models.MatchResult{
		ProviderKey:   provider.Key,
		ProviderName:  provider.Name,
		CandidateID:   best.ID,
		CandidateName: best.DisplayName,
		Confidence:    scorer.Score(best.DisplayName, title),
		Priority:      provider.Priority,
	}

	a.logger.Debugf("[%s] matched %q -> %q (%s)", provider.Key, title, best.DisplayName, match.Confidence)
	return match
}

// BuildSearchURL substitutes the search term into a provider endpoint
// template. Returns "" when the endpoint is not an absolute HTTP URL.
func BuildSearchURL(endpoint, title string) string {
	escaped := url.QueryEscape(strings.TrimSpace(title))

	var raw string
	if strings.Contains(endpoint, KeywordPlaceholder) {
		raw = strings.ReplaceAll(endpoint, KeywordPlaceholder, escaped)
	} else if strings.Contains(endpoint, "?") {
		raw = endpoint + "&wd=" + escaped
	} else {
		raw = endpoint + "?wd=" + escaped
	}

	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}
	return raw
}

// parseCandidates decodes a provider response body into candidates. A body
// that is not JSON, lacks the success marker, or has an empty list yields nil.
func parseCandidates(body []byte) []models.Candidate {
	trimmed := strings.TrimSpace(string(body))
	if !strings.HasPrefix(trimmed, "{") {
		return nil
	}

	var parsed vodListResponse
	if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
		return nil
	}
	if parsed.Code != 1 {
		return nil
	}

	candidates := make([]models.Candidate, 0, len(parsed.List))
	for _, item := range parsed.List {
		if item.Name == "" {
			continue
		}
		candidates = append(candidates, models.Candidate{
			ID:          string(item.ID),
			DisplayName: item.Name,
			Year:        string(item.Year),
			Region:      item.Area,
			Remarks:     item.Remarks,
		})
	}
	return candidates
}

// selectBestCandidate picks one candidate with deterministic precedence:
// exact name match, then mutual containment, then provider order.
func selectBestCandidate(candidates []models.Candidate, title string) models.Candidate {
	want := strings.ToLower(strings.TrimSpace(title))

	for _, c := range candidates {
		if strings.ToLower(strings.TrimSpace(c.DisplayName)) == want {
			return c
		}
	}

	for _, c := range candidates {
		name := strings.ToLower(strings.TrimSpace(c.DisplayName))
		if name == "" || want == "" {
			continue
		}
		if strings.Contains(name, want) || strings.Contains(want, name) {
			return c
		}
	}

	return candidates[0]
}
