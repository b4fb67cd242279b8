package queue

import (
	"context"
	"time"
)

// Store is the small set of atomic primitives the admission logic is
// built on. Each call maps to one redis command (or one script), the
// store serializes concurrent access per key, and no method spans a
// cross-operation lock. The line holds full ticket records so a scan
// can rank by id without touching the per-ticket keys.
type Store interface {
	AppendLine(ctx context.Context, t *Ticket) error

	// PopLine removes and returns the head of the line, nil when the
	// line is empty. Popping a given element is inherently exclusive.
	PopLine(ctx context.Context) (*Ticket, error)

	ScanLine(ctx context.Context) ([]*Ticket, error)

	// RemoveLine deletes the WAITING entry for id from the line, a
	// no-op when absent.
	RemoveLine(ctx context.Context, id TicketId) error

	LineLength(ctx context.Context) (int64, error)

	AddActive(ctx context.Context, id TicketId) error
	RemoveActive(ctx context.Context, id TicketId) error
	ActiveCount(ctx context.Context) (int64, error)

	// PutTicket writes the per-ticket record with the given ttl.
	// Expiry is enforced by the store, never by our own timers.
	PutTicket(ctx context.Context, t *Ticket, ttl time.Duration) error
	GetTicket(ctx context.Context, id TicketId) (*Ticket, error)
	DeleteTicket(ctx context.Context, id TicketId) error

	// ConsumeActive deletes the record and removes id from the active
	// set iff the record exists with status ACTIVE, as one atomic
	// step. Returns the consumed record, nil when the ticket is
	// absent or not ACTIVE. Of two concurrent calls exactly one wins.
	ConsumeActive(ctx context.Context, id TicketId) (*Ticket, error)
}
