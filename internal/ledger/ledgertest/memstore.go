// Package ledgertest provides an in-memory ledger.Store for tests.
package ledgertest

import (
	"context"
	"sync"

	"casino-bot/internal/model"
)

// MemStore keeps profiles and journal rows in memory. Set SaveErr or GetErr
// to make the corresponding call fail.
type MemStore struct {
	mu       sync.Mutex
	profiles map[int64]*model.Profile
	journal  map[int64][]*model.Transaction
	nextID   int64
	saves    int

	SaveErr error
	GetErr  error
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		profiles: make(map[int64]*model.Profile),
		journal:  make(map[int64][]*model.Transaction),
	}
}

// Put seeds a profile.
func (s *MemStore) Put(p *model.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.UserID] = p.Clone()
}

// Get returns a copy of the stored profile, or nil.
func (s *MemStore) Get(userID int64) *model.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil
	}
	return p.Clone()
}

// Saves returns the number of successful Save calls.
func (s *MemStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// GetOrCreate implements ledger.Store.
func (s *MemStore) GetOrCreate(_ context.Context, userID int64) (*model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	p, ok := s.profiles[userID]
	if !ok {
		p = model.NewProfile(userID)
		s.profiles[userID] = p
	}
	return p.Clone(), nil
}

// Save implements ledger.Store.
func (s *MemStore) Save(_ context.Context, p *model.Profile, entries []*model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.profiles[p.UserID] = p.Clone()
	for _, e := range entries {
		s.nextID++
		e.ID = s.nextID
		s.journal[e.UserID] = append(s.journal[e.UserID], e)
	}
	s.saves++
	return nil
}

// Recent implements ledger.Store.
func (s *MemStore) Recent(_ context.Context, userID int64, limit int) ([]*model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.journal[userID]
	out := make([]*model.Transaction, 0, limit)
	for i := len(rows) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, rows[i])
	}
	return out, nil
}
