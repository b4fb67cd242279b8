package queue_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"campus-results/result-queue-server/pkg/config"
	"campus-results/result-queue-server/pkg/infra"
	"campus-results/result-queue-server/pkg/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSweeper struct {
	mu     sync.Mutex
	calls  int
	block  chan struct{}
}

func (s *recordingSweeper) Sweep(ctx context.Context) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return nil
}

func (s *recordingSweeper) sweeps() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newTestReconciler(slots int, sweeper queue.Sweeper) (*queue.Reconciler, *queue.Admission) {
	cfg := testConfig(slots)
	loggerFactory := infra.ProvideLoggerFactory()
	settings := config.ProvideQueueSettings(cfg, nil, loggerFactory)
	stats := queue.ProvideStats(loggerFactory)
	admission := queue.ProvideAdmission(newMemStore(), &stubSessions{}, cfg, settings, stats, loggerFactory)
	return queue.ProvideReconciler(admission, sweeper, settings, cfg, stats, loggerFactory), admission
}

func TestTickPromotesSweepsAndNotifies(t *testing.T) {
	sweeper := &recordingSweeper{}
	reconciler, admission := newTestReconciler(2, sweeper)
	ids := issueN(t, admission, 3)

	reconciler.Tick()

	assert.Equal(t, 1, sweeper.sweeps())

	var ready []queue.TicketId
	for i := 0; i < 2; i++ {
		select {
		case id := <-reconciler.NotifyReady:
			ready = append(ready, id)
		default:
			t.Fatalf("expected 2 ready events, got %v", ready)
		}
	}
	assert.Equal(t, ids[:2], ready)
	select {
	case id := <-reconciler.NotifyReady:
		t.Fatalf("unexpected ready event for %v", id)
	default:
	}

	select {
	case snapshot := <-reconciler.NotifyStats:
		assert.EqualValues(t, 1, snapshot.LineLength)
		assert.EqualValues(t, 2, snapshot.ActiveCount)
	default:
		t.Fatal("expected a stats snapshot")
	}
}

// Two overlapping ticks must not run two promotion loops: the second
// tick is skipped entirely while the first is in flight.
func TestTickSkipsWhileInFlight(t *testing.T) {
	sweeper := &recordingSweeper{block: make(chan struct{})}
	reconciler, admission := newTestReconciler(2, sweeper)
	issueN(t, admission, 2)

	done := make(chan struct{})
	go func() {
		reconciler.Tick() // blocks inside Sweep
		close(done)
	}()

	// Wait for the first tick to reach the sweeper.
	require.Eventually(t, func() bool {
		activeCount, err := admission.ActiveCount(context.Background())
		return err == nil && activeCount == 2
	}, time.Second, 5*time.Millisecond)

	reconciler.Tick() // overlaps, must be a no-op
	assert.Equal(t, 0, sweeper.sweeps())

	close(sweeper.block)
	<-done
	assert.Equal(t, 1, sweeper.sweeps())
}
