package session

import (
	"context"
	"time"
)

// Store is the atomic primitive set under the registry. The identity
// index is a cache of liveness, never a lock: a stale entry (backing
// record expired) must not block a new reservation, and the sweep
// self-heals whatever expiry leaves behind.
type Store interface {
	// ReserveIdentity claims the index entry for identity iff there is
	// no entry, or the entry's backing record no longer exists. The
	// check and the write are one atomic step, two concurrent
	// reservations for an identity cannot both win.
	ReserveIdentity(ctx context.Context, identity, credential string) (bool, error)

	ReleaseIdentity(ctx context.Context, identity string) error

	// IndexEntries returns identity -> credential for every index entry.
	IndexEntries(ctx context.Context) (map[string]string, error)

	// IndexSize is the O(1) cardinality of the index. Stale entries
	// count until the sweep removes them.
	IndexSize(ctx context.Context) (int64, error)

	PutSession(ctx context.Context, s *Session, ttl time.Duration) error
	GetSession(ctx context.Context, credential string) (*Session, error)
	DeleteSession(ctx context.Context, credential string) error
	SessionExists(ctx context.Context, credential string) (bool, error)
}
