package mocks

import (
	"context"
	"sync"

	"github.com/example/storefront/internal/infrastructure/storage"
)

// MockStorage is an in-memory Storage implementation for testing.
type MockStorage struct {
	mu   sync.RWMutex
	data []byte
	set  bool

	// For tracking calls and injecting failures in tests
	SaveCalls int
	LoadCalls int
	SaveErr   error
	LoadErr   error
}

// NewMockStorage creates an empty MockStorage.
func NewMockStorage() *MockStorage {
	return &MockStorage{}
}

// Load returns the stored blob, LoadErr if set, or storage.ErrNotFound
// when nothing has been saved.
func (m *MockStorage) Load(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoadCalls++

	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if !m.set {
		return nil, storage.ErrNotFound
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, nil
}

// Save stores the blob, or returns SaveErr if set.
func (m *MockStorage) Save(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++

	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.data = make([]byte, len(data))
	copy(m.data, data)
	m.set = true
	return nil
}

// Seed sets the stored blob directly for testing.
func (m *MockStorage) Seed(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
	m.set = true
}

// Contents returns the current blob without counting as a Load call.
func (m *MockStorage) Contents() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data
}
