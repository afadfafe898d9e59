// Package constants defines timeout values used throughout the application.
package constants

import "time"

const (
	// ProxyRequestTimeout bounds an image fetch through the relay.
	ProxyRequestTimeout = 20 * time.Second

	// CacheCleanupInterval drives the expired-entry sweep.
	CacheCleanupInterval = 1 * time.Hour
)
