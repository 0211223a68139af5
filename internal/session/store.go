// Package session keeps the current hazard record of each client session in
// memory. Records are never persisted and expire after a period of inactivity.
package session

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"sdsposter/internal/domain"
)

// Ticket identifies one extraction attempt. Only the ticket issued by the
// most recent Begin or Reset for a session can commit.
type Ticket struct {
	SessionID  string
	Generation uint64
}

// Snapshot is a copy of a session's current record.
type Snapshot struct {
	SessionID  string
	Generation uint64
	Record     domain.HazardRecord
	UpdatedAt  time.Time
}

type slot struct {
	generation uint64
	record     *domain.HazardRecord
	updatedAt  time.Time
}

// Store holds one record slot per session.
type Store struct {
	mu    sync.Mutex
	cache *gocache.Cache
	seq   uint64
	now   func() time.Time
}

// NewStore creates a store whose slots expire after ttl without activity.
func NewStore(ttl, cleanupInterval time.Duration) *Store {
	return &Store{
		cache: gocache.New(ttl, cleanupInterval),
		now:   time.Now,
	}
}

// Begin starts a new extraction for the session and supersedes any in flight.
// The current record, if any, stays visible until the new one commits.
func (s *Store) Begin(sessionID string) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl := s.slotLocked(sessionID)
	s.seq++
	sl.generation = s.seq
	s.cache.SetDefault(sessionID, sl)
	return Ticket{SessionID: sessionID, Generation: sl.generation}
}

// Commit stores record as the session's current record if t is still the
// latest ticket. It reports whether the record was stored.
func (s *Store) Commit(t Ticket, record domain.HazardRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.cache.Get(t.SessionID)
	if !ok {
		return false
	}
	sl := v.(*slot)
	if sl.generation != t.Generation {
		return false
	}
	clone := record.Clone()
	sl.record = &clone
	sl.updatedAt = s.now()
	s.cache.SetDefault(t.SessionID, sl)
	return true
}

// Current returns the session's current record.
func (s *Store) Current(sessionID string) (*Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.cache.Get(sessionID)
	if !ok {
		return nil, false
	}
	sl := v.(*slot)
	if sl.record == nil {
		return nil, false
	}
	return &Snapshot{
		SessionID:  sessionID,
		Generation: sl.generation,
		Record:     sl.record.Clone(),
		UpdatedAt:  sl.updatedAt,
	}, true
}

// Reset clears the session's record and invalidates any extraction in flight.
func (s *Store) Reset(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cache.Get(sessionID); !ok {
		return
	}
	s.seq++
	s.cache.SetDefault(sessionID, &slot{generation: s.seq})
}

// Len returns the number of live sessions, including expired ones not yet
// cleaned up.
func (s *Store) Len() int {
	return s.cache.ItemCount()
}

func (s *Store) slotLocked(sessionID string) *slot {
	if v, ok := s.cache.Get(sessionID); ok {
		return v.(*slot)
	}
	return &slot{}
}
