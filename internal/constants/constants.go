// Package constants defines application-wide constants and default values.
package constants

const (
	// Application metadata
	AppName    = "govodmatch"
	AppVersion = "1.0.0"

	// Default configuration values
	DefaultPort     = "5000"
	DefaultLogLevel = "info"

	// Cache settings
	DefaultCacheSize = 1000
	DefaultCacheTTL  = 24 // hours

	// Session cookie
	SessionCookieName = "govodmatch_session"
	SessionTTLDays    = 7

	// Rate limiting (token bucket capacity, refill per second)
	TMDBRateLimit = 20
	TMDBRateBurst = 5

	// Catalog paging: TMDB serves 20 items per page, callers send a skip offset.
	CatalogPageSize = 20

	// Largest image the proxy will buffer and cache.
	MaxCachedImageBytes = 2 << 20
)
