package smc

import "sync"

// KeyInfoCacheSize is the default capacity of a KeyInfoCache
const KeyInfoCacheSize = 100

// KeyInfoCache memoizes the KeyInfo of every key for the lifetime of the process.
// The register layout of the SMC does not change while the machine is running,
// so entries are never invalidated. Once the cache is full, new keys are simply not cached.
type KeyInfoCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[Key]KeyInfo
}

func NewKeyInfoCache(capacity int) *KeyInfoCache {
	return &KeyInfoCache{
		capacity: capacity,
		entries:  make(map[Key]KeyInfo, capacity),
	}
}

func (c *KeyInfoCache) Lookup(key Key) (KeyInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	info, ok := c.entries[key]
	return info, ok
}

// Insert stores info for key, unless the key is already known or the cache is full
func (c *KeyInfoCache) Insert(key Key, info KeyInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; ok {
		return
	}
	if len(c.entries) >= c.capacity {
		return
	}
	c.entries[key] = info
}

func (c *KeyInfoCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
