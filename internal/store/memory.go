package store

import (
	"errors"
	"sync"

	"github.com/meteobridge/swissweather/internal/meteo"
	"github.com/meteobridge/swissweather/internal/weather"
)

// ErrNotFound is returned before the first successful update cycle.
var ErrNotFound = errors.New("no snapshot available yet")

// MemoryStore is a concurrency-safe last-known-good store. Each cycle
// replaces the previous snapshot wholesale; no history is kept.
type MemoryStore struct {
	mu sync.RWMutex

	weather *weather.Snapshot
	pollen  *meteo.CurrentPollen
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// SaveWeather replaces the stored weather snapshot.
func (s *MemoryStore) SaveWeather(snapshot weather.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.weather = &snapshot
}

// LatestWeather returns the last stored weather snapshot.
func (s *MemoryStore) LatestWeather() (weather.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.weather == nil {
		return weather.Snapshot{}, ErrNotFound
	}
	return *s.weather, nil
}

// SavePollen replaces the stored pollen snapshot.
func (s *MemoryStore) SavePollen(pollen meteo.CurrentPollen) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pollen = &pollen
}

// LatestPollen returns the last stored pollen snapshot.
func (s *MemoryStore) LatestPollen() (meteo.CurrentPollen, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pollen == nil {
		return meteo.CurrentPollen{}, ErrNotFound
	}
	return *s.pollen, nil
}
