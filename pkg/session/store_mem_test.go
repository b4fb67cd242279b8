package session_test

import (
	"context"
	"sync"
	"time"

	"campus-results/result-queue-server/pkg/session"
)

// memStore implements session.Store with per-call locking, matching
// the per-command atomicity of the redis store. Record expiry is
// driven manually through expire.
type memStore struct {
	mu       sync.Mutex
	index    map[string]string
	sessions map[string]session.Session
}

func newMemStore() *memStore {
	return &memStore{
		index:    make(map[string]string),
		sessions: make(map[string]session.Session),
	}
}

func (s *memStore) expire(credential string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, credential)
}

func (s *memStore) ReserveIdentity(ctx context.Context, identity, credential string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.index[identity]; ok {
		if _, live := s.sessions[cur]; live {
			return false, nil
		}
	}
	s.index[identity] = credential
	return true, nil
}

func (s *memStore) ReleaseIdentity(ctx context.Context, identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.index, identity)
	return nil
}

func (s *memStore) IndexEntries(ctx context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make(map[string]string, len(s.index))
	for identity, credential := range s.index {
		entries[identity] = credential
	}
	return entries, nil
}

func (s *memStore) IndexSize(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.index)), nil
}

func (s *memStore) PutSession(ctx context.Context, sess *session.Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.Credential] = *sess
	return nil
}

func (s *memStore) GetSession(ctx context.Context, credential string) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[credential]
	if !ok {
		return nil, nil
	}
	return &sess, nil
}

func (s *memStore) DeleteSession(ctx context.Context, credential string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, credential)
	return nil
}

func (s *memStore) SessionExists(ctx context.Context, credential string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[credential]
	return ok, nil
}
