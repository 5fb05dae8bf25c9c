// Package memory implements an in-memory archive Store for tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"broodcore/internal/archive/core"
)

type entry struct {
	info core.Info
	data []byte
}

// Store keeps archived entries in process memory. Intended for tests.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// New returns an in-memory archive store.
func New() *Store { return &Store{entries: make(map[string]entry)} }

// Driver returns the archive driver identifier.
func (s *Store) Driver() core.Driver { return core.DriverMemory }

// Put archives a new entry; errors if the key exists.
func (s *Store) Put(_ context.Context, key string, data []byte) (core.Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[key]; exists {
		return core.Info{}, fmt.Errorf("%w: %s", core.ErrExists, key)
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	info := core.Info{Key: key, Size: int64(len(stored)), LastModified: time.Now().UTC()}
	s.entries[key] = entry{info: info, data: stored}
	return info, nil
}

// Get returns a copy of the archived payload.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	obj, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrNotFound, key)
	}
	data := make([]byte, len(obj.data))
	copy(data, obj.data)
	return data, nil
}

// List returns all entries matching prefix ordered by key.
func (s *Store) List(_ context.Context, prefix string) ([]core.Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Info, 0, len(s.entries))
	for k, v := range s.entries {
		if prefix == "" || strings.HasPrefix(k, prefix) {
			out = append(out, v.info)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
