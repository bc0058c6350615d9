package usecase

import "time"

const (
	// DefaultRuleCacheTTL bounds how stale a cached rule set can get if an
	// invalidation is lost.
	DefaultRuleCacheTTL = 5 * time.Minute

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour
)
