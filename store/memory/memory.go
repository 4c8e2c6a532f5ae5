// Package memory is the in-process store used by default and in tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cvhariharan/actordir/models"
	"github.com/cvhariharan/actordir/store"
)

type Store struct {
	mu      sync.RWMutex
	actors  map[string]models.ActorRecord
	samples []models.LatencySample
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{actors: make(map[string]models.ActorRecord)}
}

func (s *Store) CreateActor(_ context.Context, rec *models.ActorRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := store.ActorKey(rec.Username)
	if _, ok := s.actors[key]; ok {
		return store.ErrExists
	}
	s.actors[key] = *rec
	return nil
}

func (s *Store) GetActor(_ context.Context, username string) (*models.ActorRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.actors[store.ActorKey(username)]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &rec, nil
}

func (s *Store) AppendSample(_ context.Context, sample models.LatencySample) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := sample.Key()
	i := sort.Search(len(s.samples), func(i int) bool {
		return s.samples[i].Key() >= key
	})
	if i < len(s.samples) && s.samples[i].Key() == key {
		s.samples[i] = sample
		return nil
	}
	s.samples = append(s.samples, models.LatencySample{})
	copy(s.samples[i+1:], s.samples[i:])
	s.samples[i] = sample
	return nil
}

func (s *Store) PruneSamples(_ context.Context, beforeMs int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := sort.Search(len(s.samples), func(i int) bool {
		return s.samples[i].TimestampMs >= beforeMs
	})
	if i == 0 {
		return 0, nil
	}
	s.samples = append(s.samples[:0:0], s.samples[i:]...)
	return int64(i), nil
}

func (s *Store) ListSamples(_ context.Context) ([]models.LatencySample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.LatencySample, len(s.samples))
	copy(out, s.samples)
	return out, nil
}

func (s *Store) Close() error { return nil }
