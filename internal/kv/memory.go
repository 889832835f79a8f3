package kv

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/nikolayk812/ezcart/internal/port"
)

// Memory keeps values in process memory. Safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	items map[string][]byte
}

var _ port.BatchKV = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		items: make(map[string][]byte),
	}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, fmt.Errorf("key is empty")
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.items[key]
	if !ok {
		return nil, false, nil
	}

	return slices.Clone(value), true, nil
}

func (m *Memory) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = slices.Clone(value)

	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, key)

	return nil
}

func (m *Memory) SetBatch(ctx context.Context, entries []port.KVEntry) error {
	for _, e := range entries {
		if e.Key == "" {
			return fmt.Errorf("key is empty")
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range entries {
		m.items[e.Key] = slices.Clone(e.Value)
	}

	return nil
}
