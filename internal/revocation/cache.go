// Package revocation holds the short-TTL blacklist of revoked access tokens.
// Entries expire with the token they shadow, so the cache never grows unbounded
// and never outlives the tokens it rejects.
package revocation

import (
	"context"
	"time"
)

// Cache is the fast key-value collaborator consulted on every authenticated
// request. Presence of a token means "reject". Callers treat read failures as
// not-revoked (availability over strict consistency for this layer only).
type Cache interface {
	// Put records the token as revoked for ttl. A non-positive ttl is a no-op:
	// the token is already past expiry and needs no blacklist entry.
	Put(ctx context.Context, token string, ttl time.Duration) error
	// Exists reports whether the token is blacklisted.
	Exists(ctx context.Context, token string) (bool, error)
}
