package mocks

import (
	"context"
	"sync"

	"chatbox/internal/jsonx"
)

// StoreMock is an in-memory key-value store. Func fields override the
// default behaviour.
type StoreMock struct {
	ReadIntoFunc func(ctx context.Context, key string, out any) (bool, error)
	WriteFunc    func(ctx context.Context, key string, value any) error

	mu     sync.Mutex
	data   map[string][]byte
	Writes []string
}

func (m *StoreMock) ReadInto(ctx context.Context, key string, out any) (bool, error) {
	if m.ReadIntoFunc != nil {
		return m.ReadIntoFunc(ctx, key, out)
	}
	m.mu.Lock()
	raw, ok := m.data[key]
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, jsonx.Unmarshal(raw, out)
}

func (m *StoreMock) Write(ctx context.Context, key string, value any) error {
	if m.WriteFunc != nil {
		return m.WriteFunc(ctx, key, value)
	}
	raw, err := jsonx.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = map[string][]byte{}
	}
	m.data[key] = raw
	m.Writes = append(m.Writes, key)
	return nil
}

// Raw returns the encoded value under key.
func (m *StoreMock) Raw(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[key]
	return raw, ok
}

// Seed stores raw JSON under key without recording a write.
func (m *StoreMock) Seed(key string, raw string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = map[string][]byte{}
	}
	m.data[key] = []byte(raw)
}
