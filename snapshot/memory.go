package snapshot

import (
	"context"
	"net/url"
	"sync"

	"github.com/ncobase/gqltable/config"
)

func init() {
	Register(memoryDriver{})
}

type memoryDriver struct{}

func (memoryDriver) Name() string { return "memory" }

func (memoryDriver) Open(context.Context, *config.Snapshot) (Store, error) {
	return NewMemory(), nil
}

// Memory is a process-local Store.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: map[string][]byte{}}
}

// Save implements Store.
func (m *Memory) Save(_ context.Context, id string, values url.Values) error {
	data, err := encode(values)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[Key(id)] = data
	return nil
}

// Load implements Store.
func (m *Memory) Load(_ context.Context, id string) (url.Values, error) {
	m.mu.RLock()
	data := m.data[Key(id)]
	m.mu.RUnlock()
	return decode(data)
}

// Delete implements Store.
func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, Key(id))
	return nil
}

// Close implements Store.
func (m *Memory) Close() error { return nil }
