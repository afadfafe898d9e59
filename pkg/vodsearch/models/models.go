// Package models defines the data types shared by the VOD search engine.
package models

// DefaultPriority is assigned to providers that were configured without an
// explicit priority. It sorts them after every explicitly ranked provider
// while keeping them present and orderable.
const DefaultPriority = 999

// Provider describes a single VOD content source.
type Provider struct {
	// Key is the stable, unique identifier of the provider.
	Key string `json:"key"`
	// Name is the display name shown to viewers.
	Name string `json:"name"`
	// SearchEndpoint is the URL template of the provider's search API.
	// A literal "{keyword}" placeholder is substituted with the escaped
	// search term; without a placeholder the term is appended as the
	// "wd" query parameter.
	SearchEndpoint string `json:"searchEndpoint"`
	// PlayerURLTemplate, when set, resolves playback through the
	// provider's own player page instead of the raw media URL.
	PlayerURLTemplate string `json:"playerUrlTemplate,omitempty"`
	// UsePlayerTemplate switches between the player page and the raw
	// resolved media URL for playback.
	UsePlayerTemplate bool `json:"usePlayerTemplate"`
	// Priority ranks providers; lower value sorts first.
	Priority int `json:"priority"`
	// Enabled excludes the provider from every search when false.
	Enabled bool `json:"enabled"`
}

// Candidate is one entry from a provider's search response. Year, Region and
// Remarks are carried for display only; matching uses the name alone.
type Candidate struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Year        string `json:"year,omitempty"`
	Region      string `json:"region,omitempty"`
	Remarks     string `json:"remarks,omitempty"`
}

// Confidence classifies how closely a candidate name matches the search title.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// confidenceRanks orders confidence tiers for sorting, higher is better.
var confidenceRanks = map[Confidence]int{
	ConfidenceHigh:   2,
	ConfidenceMedium: 1,
	ConfidenceLow:    0,
}

// Rank returns the numeric ordering weight of a confidence tier.
// Unknown values rank lowest.
func (c Confidence) Rank() int {
	return confidenceRanks[c]
}

// MatchResult is the single best candidate a provider produced for a search.
type MatchResult struct {
	ProviderKey   string     `json:"providerKey"`
	ProviderName  string     `json:"providerName"`
	CandidateID   string     `json:"candidateId"`
	CandidateName string     `json:"candidateName"`
	Confidence    Confidence `json:"confidence"`
	Priority      int        `json:"priority"`
}

// EventType identifies the three progress event variants of a search stream.
type EventType string

const (
	EventInit   EventType = "init"
	EventResult EventType = "result"
	EventDone   EventType = "done"
)

// Event is one self-contained progress notification. Which fields are
// populated depends on Type: init carries TotalProviders (and the echoed
// ContextID), result carries ProviderKey/Match/Completed/Total, done carries
// TotalProviders and FoundCount.
type Event struct {
	Type           EventType    `json:"type"`
	ContextID      string       `json:"contextId,omitempty"`
	TotalProviders int          `json:"totalProviders,omitempty"`
	ProviderKey    string       `json:"providerKey,omitempty"`
	Match          *MatchResult `json:"match"`
	Completed      int          `json:"completed,omitempty"`
	Total          int          `json:"total,omitempty"`
	FoundCount     int          `json:"foundCount"`
}
