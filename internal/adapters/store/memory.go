package store

import (
	"context"
	"ratebot/internal/core/domain"
	"slices"
	"sync"
)

// Memory is a process-local user store. Its contents are lost on restart.
type Memory struct {
	mu    sync.RWMutex
	users map[int64]string
}

func NewMemory() *Memory {
	return &Memory{users: map[int64]string{}}
}

func (m *Memory) AddOrUpdateUser(_ context.Context, id int64, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.users[id] = name
	return nil
}

func (m *Memory) GetUserName(_ context.Context, id int64) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	name, ok := m.users[id]
	if !ok {
		return "", domain.ErrUserNotFound
	}
	return name, nil
}

func (m *Memory) ListUserIDs(_ context.Context) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]int64, 0, len(m.users))
	for id := range m.users {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	return ids, nil
}
