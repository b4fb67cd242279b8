package queue

import (
	"context"
	"math"
	"time"

	"campus-results/result-queue-server/pkg/config"
	"campus-results/result-queue-server/pkg/infra"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionCounter reports how many live sessions exist. A consumed
// ticket leaves the active set the moment a session is created for it,
// so a slot stays occupied until the session ends or expires only when
// promotion counts sessions too.
type SessionCounter interface {
	LiveCount(ctx context.Context) (int64, error)
}

// Admission owns ticket issuance, position lookup and the promotion
// algorithm. It is the only mutator of ticket status.
type Admission struct {
	store    Store
	sessions SessionCounter
	config   *config.Config
	settings *config.QueueSettings
	stats    *Stats
	logger   *zap.SugaredLogger
}

func ProvideAdmission(store Store, sessions SessionCounter, config *config.Config, settings *config.QueueSettings, stats *Stats, loggerFactory *infra.LoggerFactory) *Admission {
	return &Admission{
		store:    store,
		sessions: sessions,
		config:   config,
		settings: settings,
		stats:    stats,
		logger:   loggerFactory.Create("Admission").Sugar(),
	}
}

// Issue appends a WAITING ticket to the tail of the line and stores its
// record with the waiting ttl.
func (a *Admission) Issue(ctx context.Context) (*Ticket, error) {
	ticket := &Ticket{
		TicketId: TicketId(uuid.New().String()),
		Status:   StatusWaiting,
		JoinedAt: time.Now().UnixMilli(),
	}

	if err := a.store.PutTicket(ctx, ticket, a.config.WaitingTtl); err != nil {
		return nil, err
	}
	if err := a.store.AppendLine(ctx, ticket); err != nil {
		return nil, err
	}

	a.logger.Infof("issued ticketId[%v], expires in %v", ticket.TicketId, a.config.WaitingTtl)
	return ticket, nil
}

// Lookup returns the ticket record, or ErrTicketNotFound once the
// record has expired or never existed.
func (a *Admission) Lookup(ctx context.Context, id TicketId) (*Ticket, error) {
	ticket, err := a.store.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, ErrTicketNotFound
	}
	return ticket, nil
}

// Position returns the 1-based rank of id in the waiting line, 0 when
// the ticket is not in the line (promoted already). O(line length),
// the line is bounded by realistic concurrent demand.
func (a *Admission) Position(ctx context.Context, id TicketId) (int, error) {
	line, err := a.store.ScanLine(ctx)
	if err != nil {
		return 0, err
	}

	for i, ticket := range line {
		if ticket.TicketId == id {
			return i + 1, nil
		}
	}
	return 0, nil
}

// Promote pops waiting tickets into free slots and returns the promoted
// ids for notification.
//
// Capacity is re-read before every single pop rather than once per
// batch: a batch pop against a stale capacity read over-admits when two
// reconciliation loops overlap. The worst case left is one extra pop
// per racing instance, bounded by the pop itself being exclusive.
func (a *Admission) Promote(ctx context.Context) ([]TicketId, error) {
	slots := int64(a.settings.Slots())
	gateOpen := !a.settings.QueueEnabled

	var promoted []TicketId
	for {
		if !gateOpen {
			occupied, err := a.occupiedSlots(ctx)
			if err != nil {
				return promoted, err
			}
			if occupied >= slots {
				break
			}
		}

		ticket, err := a.store.PopLine(ctx)
		if err != nil {
			return promoted, err
		}
		if ticket == nil {
			break
		}

		ticket.Status = StatusActive
		ticket.ActivatedAt = time.Now().UnixMilli()

		// Re-issue with the shorter login window ttl so an admitted
		// client that never logs in gives the slot back.
		if err := a.store.PutTicket(ctx, ticket, a.config.LoginWindow); err != nil {
			return promoted, err
		}
		if err := a.store.AddActive(ctx, ticket.TicketId); err != nil {
			return promoted, err
		}

		a.stats.ObserveWait(time.Duration(ticket.ActivatedAt-ticket.JoinedAt) * time.Millisecond)
		a.logger.Infof("promoted ticketId[%v], login window %v", ticket.TicketId, a.config.LoginWindow)
		promoted = append(promoted, ticket.TicketId)
	}
	return promoted, nil
}

// Consume redeems an ACTIVE ticket exactly once. A second consume on
// the same id fails ErrInvalidTicket.
func (a *Admission) Consume(ctx context.Context, id TicketId) (*Ticket, error) {
	ticket, err := a.store.ConsumeActive(ctx, id)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, ErrInvalidTicket
	}

	a.logger.Infof("consumed ticketId[%v]", id)
	return ticket, nil
}

// Withdraw removes a ticket regardless of status. Idempotent, and safe
// racing a concurrent promotion: the ticket ends up absent from both
// the line and the active set either way.
func (a *Admission) Withdraw(ctx context.Context, id TicketId) error {
	if err := a.store.RemoveLine(ctx, id); err != nil {
		return err
	}
	if err := a.store.RemoveActive(ctx, id); err != nil {
		return err
	}
	if err := a.store.DeleteTicket(ctx, id); err != nil {
		return err
	}

	a.logger.Infof("withdrew ticketId[%v]", id)
	return nil
}

// A slot is occupied by an ACTIVE ticket or by the live session it was
// exchanged for. Consuming a ticket moves the occupancy from the
// active set to the session index, it never frees the slot.
func (a *Admission) occupiedSlots(ctx context.Context) (int64, error) {
	active, err := a.store.ActiveCount(ctx)
	if err != nil {
		return 0, err
	}
	live, err := a.sessions.LiveCount(ctx)
	if err != nil {
		return 0, err
	}
	return active + live, nil
}

func (a *Admission) LineLength(ctx context.Context) (int64, error) {
	return a.store.LineLength(ctx)
}

func (a *Admission) ActiveCount(ctx context.Context) (int64, error) {
	return a.store.ActiveCount(ctx)
}

// EstimateWait is the client facing heuristic, not a guarantee:
// ceil(rank / slots) slot turnovers at the configured average hold.
func (a *Admission) EstimateWait(rank int) time.Duration {
	if rank <= 0 {
		return 0
	}

	slots := a.settings.Slots()
	seconds := math.Ceil(float64(rank) / float64(slots) * a.config.AvgSlotHold().Seconds())
	return time.Duration(seconds) * time.Second
}
