// Package yacache provides a typed key-value store with per-entry TTL and two
// interchangeable back-ends: an in-process map swept by a background goroutine
// and a Redis wrapper that MessagePack-encodes values. yamemo uses it to share
// settled results between time-boxed memoizers, possibly across processes.
//
// # Thread-safety
//
//   - [Redis] is as thread-safe as the underlying go-redis/v9 client.
//   - [Memory] uses a sync.RWMutex to protect all reads and writes. The sweeper
//     holds the mutex only while it walks the map.
//
// # Time-to-live
//
// A zero ttl stores the value indefinitely. The Redis back-end delegates expiry
// to the server; the memory back-end stores the absolute deadline next to the
// value, hides expired entries from Get immediately and frees them on the next
// sweep.
//
// # Quick start (in-memory)
//
//	store := yacache.NewMemory[int](time.Minute)
//	defer store.Close()
//
//	_ = store.Set(ctx, "answer", 42, time.Hour)
//	value, found, _ := store.Get(ctx, "answer")
//	fmt.Println(value, found) // 42 true
//
// # Quick start (Redis)
//
//	client := yacache.NewRedisClient("localhost", uint16(6379), "", 1, log)
//	store := yacache.NewRedis[Report](client)
//	_ = store.Set(ctx, "report:today", report, 5*time.Minute)
package yacache

import (
	"context"
	"time"

	"github.com/YaCodeDev/GoYaCodeDevAsync/yaerrors"
)

// DefaultSweepInterval is used by NewMemory when tickToClean is not positive.
const DefaultSweepInterval = time.Minute

// Store is a typed TTL key-value store.
//
// A missing or expired key is not an error: Get reports it through the boolean.
// Errors are reserved for back-end failures such as a lost connection or a
// value that cannot be decoded into V.
type Store[V any] interface {
	// Get fetches the value stored under key.
	//
	// Example:
	//
	// 	value, found, err := store.Get(ctx, "token")
	Get(ctx context.Context, key string) (V, bool, yaerrors.Error)

	// Set stores key → value. A zero ttl means "store indefinitely".
	//
	// Example:
	//
	// 	_ = store.Set(ctx, "token", token, 10*time.Minute)
	Set(ctx context.Context, key string, value V, ttl time.Duration) yaerrors.Error

	// Del removes key. Deleting a missing key succeeds.
	Del(ctx context.Context, key string) yaerrors.Error

	// Ping checks that the back-end is reachable.
	Ping(ctx context.Context) yaerrors.Error

	// Close releases the back-end. The store must not be used afterwards.
	Close() yaerrors.Error
}
