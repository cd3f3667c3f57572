// Package cache stores expanded dictionaries between runs.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// keyPrefix versions the cached layout; bump it when Snapshot changes shape
const keyPrefix = "wordgauge:v1:"

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from an ordered list of inputs. Each part is
// length-prefixed, so ("ab", "c") and ("a", "bc") differ.
func Key(parts ...[]byte) string {
	h := sha256.New()
	var n [8]byte
	for _, p := range parts {
		binary.BigEndian.PutUint64(n[:], uint64(len(p)))
		h.Write(n[:])
		h.Write(p)
	}
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}

// GetJSON loads and decodes a cached value. Undecodable entries count as misses.
func GetJSON[T any](c Cache, key string) (T, bool) {
	var v T
	data, ok := c.Get(key)
	if !ok {
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false
	}
	return v, true
}

// SetJSON encodes and stores a value
func SetJSON(c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}
	return c.Set(key, data, ttl)
}
