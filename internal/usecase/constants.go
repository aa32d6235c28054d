package usecase

import "time"

const (
	// DefaultPageSize and MaxPageSize bound list pagination.
	DefaultPageSize = 20
	MaxPageSize     = 100

	// DefaultHistoryRetention is how many history entries per client the
	// cleanup operation keeps when no explicit count is given.
	DefaultHistoryRetention = 1000

	// StatsCacheKey and StatsCacheTTL control the cached work statistics
	// aggregate.
	StatsCacheKey   = "work_stats"
	StatsCacheTTL   = 30 * time.Second
	IdempotencyTTL  = 24 * time.Hour
	reconcileLimit  = 10000
)
