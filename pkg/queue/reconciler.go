package queue

import (
	"context"
	"time"

	"campus-results/result-queue-server/pkg/config"
	"campus-results/result-queue-server/pkg/infra"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Upper bound on the store work of one tick. Well above the loop
// period so a slow store stalls ticks (skipped by the overlap guard)
// instead of leaking unbounded calls.
const tickTimeout = 30 * time.Second

// Sweeper reclaims stale session index entries. Implemented by the
// session registry, declared here so the loop does not import it.
type Sweeper interface {
	Sweep(ctx context.Context) error
}

// Reconciler is the single periodic driver: every tick it refreshes the
// dynamic settings, promotes into free slots, pushes the promotion and
// stats events to the hub, and sweeps expired sessions. Polling clients
// converge to the same state through the status endpoint, the push
// channel is best effort.
type Reconciler struct {
	// Promotion events for the hub. Clients filter by their own id.
	NotifyReady chan TicketId

	// Periodic queue observations for the hub.
	NotifyStats chan *Snapshot

	admission *Admission
	sweeper   Sweeper
	settings  *config.QueueSettings
	config    *config.Config
	stats     *Stats

	// Guards against a tick overlapping a previous slow tick, which
	// would run two promotion loops from one process.
	inFlight *atomic.Bool

	logger *zap.SugaredLogger
}

func ProvideReconciler(admission *Admission, sweeper Sweeper, settings *config.QueueSettings, config *config.Config, stats *Stats, loggerFactory *infra.LoggerFactory) *Reconciler {
	return &Reconciler{
		NotifyReady: make(chan TicketId, 1024),
		NotifyStats: make(chan *Snapshot, 64),

		admission: admission,
		sweeper:   sweeper,
		settings:  settings,
		config:    config,
		stats:     stats,
		inFlight:  atomic.NewBool(false),
		logger:    loggerFactory.Create("Reconciler").Sugar(),
	}
}

func (r *Reconciler) Run() {
	go r.loop()
}

func (r *Reconciler) loop() {
	ticker := time.NewTicker(r.config.ReconcileInterval)
	defer ticker.Stop()

	for ; true; <-ticker.C {
		r.Tick()
	}
}

// Tick runs one reconciliation pass. Store errors are logged and left
// for the next tick, each underlying primitive is independently atomic
// so a failed tick does less work, never partial-corrupt work.
func (r *Reconciler) Tick() {
	if !r.inFlight.CompareAndSwap(false, true) {
		r.logger.Warnf("previous tick still running, skipping")
		return
	}
	defer r.inFlight.Store(false)

	ctx, cancel := context.WithTimeout(context.Background(), tickTimeout)
	defer cancel()

	r.settings.Refresh(ctx)

	promoted, err := r.admission.Promote(ctx)
	if err != nil {
		r.logger.Errorf("promote failed %v", err)
	}
	for _, ticketId := range promoted {
		select {
		case r.NotifyReady <- ticketId:
		default:
			r.logger.Warnf("notify channel full, dropping ready event for ticketId[%v]", ticketId)
		}
	}

	if err := r.sweeper.Sweep(ctx); err != nil {
		r.logger.Errorf("session sweep failed %v", err)
	}

	r.publishStats(ctx)
}

func (r *Reconciler) publishStats(ctx context.Context) {
	lineLength, err := r.admission.LineLength(ctx)
	if err != nil {
		r.logger.Errorf("line length read failed %v", err)
		return
	}
	activeCount, err := r.admission.ActiveCount(ctx)
	if err != nil {
		r.logger.Errorf("active count read failed %v", err)
		return
	}

	select {
	case r.NotifyStats <- &Snapshot{
		LineLength:  lineLength,
		ActiveCount: activeCount,
		AvgWaitMsec: r.stats.AvgWait().Milliseconds(),
	}:
	default:
	}
}
