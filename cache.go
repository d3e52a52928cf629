package rocgofft

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/rocgofft/rocgofft/internal/config"
	"github.com/rocgofft/rocgofft/internal/rtccache"
)

// globalCache is the process-wide RTC cache spec §4.2 describes ("the RTC
// Cache is process-wide state with an explicit init/teardown hook tied to
// library setup/cleanup"). It is nil until Setup is called.
var (
	globalCacheMu sync.RWMutex
	globalCache   *rtccache.Cache
)

// Setup opens the process-wide RTC cache at the path named by CACHE_PATH
// (or in-memory if unset), matching the teardown pairing rocfft_setup/
// rocfft_cleanup name at the C API boundary this library's Go surface
// replaces (spec §6). Calling Setup twice replaces the previous cache
// after closing it.
func Setup(log zerolog.Logger) error {
	cfg := config.Load()

	globalCacheMu.Lock()
	defer globalCacheMu.Unlock()

	if globalCache != nil {
		_ = globalCache.Close()
	}
	globalCache = rtccache.Open(cfg.CachePath, log)
	return nil
}

// Cleanup closes the process-wide RTC cache opened by Setup. It is safe
// to call without a prior Setup.
func Cleanup() error {
	globalCacheMu.Lock()
	defer globalCacheMu.Unlock()

	if globalCache == nil {
		return nil
	}
	err := globalCache.Close()
	globalCache = nil
	return err
}

// CacheSerialize snapshots the process-wide RTC cache's contents (spec
// §4.2: "cache_serialize() -> bytes").
func CacheSerialize() ([]byte, error) {
	globalCacheMu.RLock()
	defer globalCacheMu.RUnlock()

	if globalCache == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "CacheSerialize: cache not set up, call Setup first")
	}
	return globalCache.Serialize()
}

// CacheDeserialize merges snapshot data into the process-wide RTC cache
// (spec §4.2: "cache_deserialize(bytes)"; spec P5: deserializing a cache's
// own serialization leaves prior Get results unchanged).
func CacheDeserialize(data []byte) error {
	globalCacheMu.RLock()
	cache := globalCache
	globalCacheMu.RUnlock()

	if cache == nil {
		return errors.Wrap(ErrInvalidArgument, "CacheDeserialize: cache not set up, call Setup first")
	}
	return cache.Deserialize(data)
}
