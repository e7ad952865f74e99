package convo

import "sync"

// senderLocks serializes turns per sender id. Two concurrent messages from
// the same sender would otherwise race on the read-modify-write of the
// conversation state. Entries are refcounted so the map does not grow with
// the sender population.
type senderLocks struct {
	mu    sync.Mutex
	locks map[string]*senderLock
}

type senderLock struct {
	mu   sync.Mutex
	refs int
}

func newSenderLocks() *senderLocks {
	return &senderLocks{locks: map[string]*senderLock{}}
}

func (s *senderLocks) lock(senderID string) {
	s.mu.Lock()
	entry, ok := s.locks[senderID]
	if !ok {
		entry = &senderLock{}
		s.locks[senderID] = entry
	}
	entry.refs++
	s.mu.Unlock()

	entry.mu.Lock()
}

func (s *senderLocks) unlock(senderID string) {
	s.mu.Lock()
	entry := s.locks[senderID]
	entry.refs--
	if entry.refs == 0 {
		delete(s.locks, senderID)
	}
	s.mu.Unlock()

	entry.mu.Unlock()
}
