package iocache

import (
	"github.com/aipowerranking/toolrank/internal/contract"
	"github.com/aipowerranking/toolrank/schema"
	"github.com/stretchr/testify/mock"
)

// MockCacheManager is a mock implementation of CacheManager for testing.
type MockCacheManager struct {
	mock.Mock
}

var _ contract.CacheManager = &MockCacheManager{} // Compile-time check

// GetSignalCache implements the CacheManager interface.
func (m *MockCacheManager) GetSignalCache() contract.CacheStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.CacheStore)
	return store
}

// GetSnapshotStore implements the CacheManager interface.
func (m *MockCacheManager) GetSnapshotStore() contract.SnapshotStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.SnapshotStore)
	return store
}

// MockCacheStore is a mock implementation of CacheStore for testing.
type MockCacheStore struct {
	mock.Mock
}

var _ contract.CacheStore = &MockCacheStore{} // Compile-time check

// Get implements the CacheStore interface.
func (m *MockCacheStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	return args.Get(0).([]byte), args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the CacheStore interface.
func (m *MockCacheStore) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// Close implements the CacheStore interface.
func (m *MockCacheStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the CacheStore interface.
func (m *MockCacheStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// MockSnapshotStore is a mock implementation of SnapshotStore for testing.
type MockSnapshotStore struct {
	mock.Mock
}

var _ contract.SnapshotStore = &MockSnapshotStore{} // Compile-time check

// SaveSnapshot implements the SnapshotStore interface.
func (m *MockSnapshotStore) SaveSnapshot(snapshot schema.RankingSnapshot) error {
	args := m.Called(snapshot)
	return args.Error(0)
}

// GetSnapshot implements the SnapshotStore interface.
func (m *MockSnapshotStore) GetSnapshot(period string) (*schema.RankingSnapshot, error) {
	args := m.Called(period)
	snapshot, _ := args.Get(0).(*schema.RankingSnapshot)
	return snapshot, args.Error(1)
}

// LatestBefore implements the SnapshotStore interface.
func (m *MockSnapshotStore) LatestBefore(period string) (*schema.RankingSnapshot, error) {
	args := m.Called(period)
	snapshot, _ := args.Get(0).(*schema.RankingSnapshot)
	return snapshot, args.Error(1)
}

// ListSnapshots implements the SnapshotStore interface.
func (m *MockSnapshotStore) ListSnapshots() ([]schema.SnapshotSummary, error) {
	args := m.Called()
	summaries, _ := args.Get(0).([]schema.SnapshotSummary)
	return summaries, args.Error(1)
}

// DeleteSnapshot implements the SnapshotStore interface.
func (m *MockSnapshotStore) DeleteSnapshot(period string) error {
	args := m.Called(period)
	return args.Error(0)
}

// GetStatus implements the SnapshotStore interface.
func (m *MockSnapshotStore) GetStatus() (schema.SnapshotStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.SnapshotStatus), args.Error(1)
}

// Close implements the SnapshotStore interface.
func (m *MockSnapshotStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
