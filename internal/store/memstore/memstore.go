// Package memstore is an in-memory Store implementation used by tests in
// place of a real Redis connection. It is not part of the shipped binary.
package memstore

import (
	"context"
	"sync"
)

// Store implements store.Store with plain Go maps guarded by a mutex. Set
// semantics (SAdd) and sorted-set semantics (ZIncrBy, scores only, no
// ordering queries required by the core) are reproduced exactly enough to
// exercise the invariants in spec.md §8.
type Store struct {
	mu      sync.Mutex
	sets    map[string]map[string]bool
	zsets   map[string]map[string]float64
	scalars map[string]string
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		sets:    make(map[string]map[string]bool),
		zsets:   make(map[string]map[string]float64),
		scalars: make(map[string]string),
	}
}

func (s *Store) SAdd(_ context.Context, key, member string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sets[key]
	if !ok {
		set = make(map[string]bool)
		s.sets[key] = set
	}
	set[member] = true
	return nil
}

func (s *Store) SMembers(_ context.Context, key string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.sets[key]
	members := make([]string, 0, len(set))
	for m := range set {
		members = append(members, m)
	}
	return members, nil
}

func (s *Store) ZIncrBy(_ context.Context, key, member string, delta float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	zset, ok := s.zsets[key]
	if !ok {
		zset = make(map[string]float64)
		s.zsets[key] = zset
	}
	zset[member] += delta
	return nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scalars[key] = value
	return nil
}

func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scalars[key], nil
}

// ZScore returns the current score of member in the sorted set at key, and
// whether member is present. Test-only helper, not part of store.Store.
func (s *Store) ZScore(key, member string) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	zset, ok := s.zsets[key]
	if !ok {
		return 0, false
	}
	score, ok := zset[member]
	return score, ok
}

// ZMembers returns every member of the sorted set at key. Test-only helper.
func (s *Store) ZMembers(key string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	zset := s.zsets[key]
	members := make([]string, 0, len(zset))
	for m := range zset {
		members = append(members, m)
	}
	return members
}

// SIsMember reports whether member is in the unsorted set at key. Test-only
// helper.
func (s *Store) SIsMember(key, member string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets[key][member]
}
