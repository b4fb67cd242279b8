package queue

import "errors"

var (
	// Ticket record absent or expired. Recoverable by joining again.
	ErrTicketNotFound = errors.New("ticket not found or expired")

	// Consume attempted on a ticket that is not ACTIVE, or a second
	// consume on the same id.
	ErrInvalidTicket = errors.New("ticket is not active or already used")
)
