package storage

import (
	"context"
	"sync"
)

// MemoryKV keeps items in process memory. Nothing survives Close.
type MemoryKV struct {
	mu    sync.Mutex
	items map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{items: make(map[string]string)}
}

func (s *MemoryKV) Init() error  { return nil }
func (s *MemoryKV) Load() error  { return nil }
func (s *MemoryKV) Close() error { return nil }

func (s *MemoryKV) GetItem(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *MemoryKV) SetItem(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}

func (s *MemoryKV) RemoveItem(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

func (s *MemoryKV) Location() string {
	return MemoryTarget
}
