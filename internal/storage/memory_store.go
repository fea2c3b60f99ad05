package storage

import (
	"context"
	"sync"
)

type MemoryStoreImpl struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() Store {
	return &MemoryStoreImpl{
		data: make(map[string][]byte),
	}
}

func (s *MemoryStoreImpl) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	// 回傳副本，避免呼叫端修改內部資料
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

func (s *MemoryStoreImpl) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	s.data[key] = stored
	return nil
}

func (s *MemoryStoreImpl) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}
