package memory

import (
	"maps"
	"sync"

	"github.com/custodia-labs/digest/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore holds settings for the process lifetime. It mirrors the file
// store's contract: Set stages a value, Save commits the staged values and
// Load discards anything not yet saved.
type ConfigStore struct {
	mu     sync.RWMutex
	staged map[string]any
	saved  map[string]any
	saves  int
}

// NewConfigStore creates an empty store, optionally seeded with committed values.
func NewConfigStore(seed ...map[string]any) *ConfigStore {
	s := &ConfigStore{saved: make(map[string]any)}
	for _, m := range seed {
		maps.Copy(s.saved, m)
	}
	s.staged = maps.Clone(s.saved)
	return s
}

// Get returns the staged value under key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.staged[key]
	return v, ok
}

// GetString returns the string under key, or "".
func (s *ConfigStore) GetString(key string) string {
	v, _ := s.Get(key)
	str, _ := v.(string)
	return str
}

// GetInt returns the number under key as an int, or 0.
func (s *ConfigStore) GetInt(key string) int {
	return int(s.GetFloat(key))
}

// GetFloat returns the number under key, or 0.
func (s *ConfigStore) GetFloat(key string) float64 {
	v, _ := s.Get(key)
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float64:
		return n
	}
	return 0
}

// GetBool returns the bool under key, or false.
func (s *ConfigStore) GetBool(key string) bool {
	v, _ := s.Get(key)
	b, _ := v.(bool)
	return b
}

// Set stages value under key.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	s.staged[key] = value
	s.mu.Unlock()
	return nil
}

// Save commits the staged values.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	s.saved = maps.Clone(s.staged)
	s.saves++
	s.mu.Unlock()
	return nil
}

// Load drops staged values that were never saved.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	s.staged = maps.Clone(s.saved)
	s.mu.Unlock()
	return nil
}

// Saves reports how many times Save has been called.
func (s *ConfigStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

// Path returns a pseudo path; nothing is written to disk.
func (s *ConfigStore) Path() string {
	return ":memory:"
}
