package iocache

import (
	"sync"

	"github.com/aipowerranking/toolrank/internal/contract"
)

// CacheStoreManager holds the signal cache and the snapshot store.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	signals      contract.CacheStore
	snapshots    contract.SnapshotStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetSignalCache returns the signal CacheStore.
func (mgr *CacheStoreManager) GetSignalCache() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.signals
}

// GetSnapshotStore returns the SnapshotStore.
func (mgr *CacheStoreManager) GetSnapshotStore() contract.SnapshotStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.snapshots
}
