package queue_test

import (
	"context"
	"sync"
	"time"

	"campus-results/result-queue-server/pkg/queue"
)

// memStore implements queue.Store with one mutex per primitive call,
// mirroring the per-command atomicity redis gives the production store.
// Record expiry is driven manually through expire.
type memStore struct {
	mu      sync.Mutex
	line    []queue.Ticket
	active  map[queue.TicketId]bool
	records map[queue.TicketId]queue.Ticket
}

func newMemStore() *memStore {
	return &memStore{
		active:  make(map[queue.TicketId]bool),
		records: make(map[queue.TicketId]queue.Ticket),
	}
}

// expire simulates the store dropping a record once its ttl lapses.
func (s *memStore) expire(id queue.TicketId) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
}

func (s *memStore) AppendLine(ctx context.Context, t *queue.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.line = append(s.line, *t)
	return nil
}

func (s *memStore) PopLine(ctx context.Context) (*queue.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.line) == 0 {
		return nil, nil
	}
	head := s.line[0]
	s.line = s.line[1:]
	return &head, nil
}

func (s *memStore) ScanLine(ctx context.Context) ([]*queue.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tickets := make([]*queue.Ticket, 0, len(s.line))
	for i := range s.line {
		t := s.line[i]
		tickets = append(tickets, &t)
	}
	return tickets, nil
}

func (s *memStore) RemoveLine(ctx context.Context, id queue.TicketId) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.line {
		if t.TicketId == id {
			s.line = append(s.line[:i], s.line[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *memStore) LineLength(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.line)), nil
}

func (s *memStore) AddActive(ctx context.Context, id queue.TicketId) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active[id] = true
	return nil
}

func (s *memStore) RemoveActive(ctx context.Context, id queue.TicketId) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, id)
	return nil
}

func (s *memStore) ActiveCount(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.active)), nil
}

func (s *memStore) PutTicket(ctx context.Context, t *queue.Ticket, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[t.TicketId] = *t
	return nil
}

func (s *memStore) GetTicket(ctx context.Context, id queue.TicketId) (*queue.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (s *memStore) DeleteTicket(ctx context.Context, id queue.TicketId) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}

func (s *memStore) ConsumeActive(ctx context.Context, id queue.TicketId) (*queue.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.records[id]
	if !ok || t.Status != queue.StatusActive {
		return nil, nil
	}
	delete(s.records, id)
	delete(s.active, id)
	return &t, nil
}

// stubSessions is a fixed session occupancy for admission tests.
type stubSessions struct {
	mu sync.Mutex
	n  int64
}

func (s *stubSessions) LiveCount(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n, nil
}

func (s *stubSessions) set(n int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n = n
}
