package queue

import (
	"sync"
	"time"

	"campus-results/result-queue-server/pkg/infra"

	"github.com/emirpasic/gods/queues/linkedlistqueue"
	"go.uber.org/zap"
)

const (
	// Sliding window size for the observed admission wait.
	waitWindowSize = 50

	// Reported before any promotion has been observed.
	initAvgWait = 3 * time.Minute
)

// Stats tracks the observed wait between issuance and promotion over a
// fixed size sliding window. Purely informational, the client facing
// estimate in Admission is a separate formula.
type Stats struct {
	mu sync.Mutex

	waitWindow *linkedlistqueue.Queue

	avgWait time.Duration

	logger *zap.SugaredLogger
}

// Snapshot is one observation of the queue pushed to connected clients.
type Snapshot struct {
	LineLength  int64
	ActiveCount int64
	AvgWaitMsec int64
}

func ProvideStats(loggerFactory *infra.LoggerFactory) *Stats {
	return &Stats{
		waitWindow: linkedlistqueue.New(),
		avgWait:    initAvgWait,
		logger:     loggerFactory.Create("Stats").Sugar(),
	}
}

func (s *Stats) ObserveWait(waitDuration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.waitWindow.Size() >= waitWindowSize {
		s.waitWindow.Dequeue()
	}
	s.waitWindow.Enqueue(waitDuration)

	it := s.waitWindow.Iterator()
	var total time.Duration
	for it.Next() {
		total += it.Value().(time.Duration)
	}
	s.avgWait = total / time.Duration(s.waitWindow.Size())

	s.logger.Debugf("updated avgWait[%v]", s.avgWait)
}

func (s *Stats) AvgWait() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.avgWait
}
