package queue

type TicketId string

type TicketStatus string

const (
	StatusWaiting TicketStatus = "WAITING"
	StatusActive  TicketStatus = "ACTIVE"
)

// Ticket is one participant in the waiting line. The record in redis is
// the single source of truth, it is never cached in process since
// multiple server instances may run against the same store.
type Ticket struct {
	TicketId TicketId `json:"ticketId"`

	Status TicketStatus `json:"status"`

	// Unix msec at issuance.
	JoinedAt int64 `json:"joinedAt"`

	// Unix msec at promotion. Zero while WAITING.
	ActivatedAt int64 `json:"activatedAt,omitempty"`
}
