package cache

import "time"

// LayeredCache checks memory first, then disk
type LayeredCache struct {
	memory Cache
	disk   Cache
}

// NewLayeredCache creates a memory cache in front of a disk cache
func NewLayeredCache(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *LayeredCache {
	return NewLayered(NewMemoryCache(memoryTTL, 10*time.Minute), NewDiskCache(diskDir, diskTTL))
}

// NewLayered combines two caches; either may be nil
func NewLayered(memory, disk Cache) *LayeredCache {
	return &LayeredCache{
		memory: memory,
		disk:   disk,
	}
}

// Get retrieves a value, promoting disk hits into memory
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if c.memory != nil {
		if val, found := c.memory.Get(key); found {
			return val, true
		}
	}

	if c.disk != nil {
		if val, found := c.disk.Get(key); found {
			if c.memory != nil {
				_ = c.memory.Set(key, val, 0)
			}
			return val, true
		}
	}

	return nil, false
}

// Set stores a value in both layers
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	if c.memory != nil {
		if err := c.memory.Set(key, value, ttl); err != nil {
			return err
		}
	}

	if c.disk != nil {
		if err := c.disk.Set(key, value, ttl); err != nil {
			return err
		}
	}

	return nil
}

// Delete removes a value from both layers
func (c *LayeredCache) Delete(key string) error {
	if c.memory != nil {
		if err := c.memory.Delete(key); err != nil {
			return err
		}
	}
	if c.disk != nil {
		return c.disk.Delete(key)
	}
	return nil
}

// Clear removes all values from both layers
func (c *LayeredCache) Clear() error {
	if c.memory != nil {
		if err := c.memory.Clear(); err != nil {
			return err
		}
	}
	if c.disk != nil {
		return c.disk.Clear()
	}
	return nil
}
