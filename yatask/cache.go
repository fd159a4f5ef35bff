package yatask

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/YaCodeDev/GoYaCodeDevAsync/yacache"
	"github.com/YaCodeDev/GoYaCodeDevAsync/yaerrors"
	"github.com/YaCodeDev/GoYaCodeDevAsync/yalogger"
	"github.com/YaCodeDev/GoYaCodeDevAsync/yamemo"
)

// DefaultCacheDuration is the lifetime of a CacheTemporal result when
// CacheOptions.Duration is not set.
const DefaultCacheDuration = 5 * time.Minute

// CacheStrategy selects how a Task's Execute reuses results.
type CacheStrategy uint8

const (
	// CacheNone runs the computation on every Execute.
	CacheNone CacheStrategy = iota
	// CacheMemoize keeps the first settled result until Refresh or InvalidateCache.
	CacheMemoize
	// CacheTemporal keeps the settled result for CacheOptions.Duration.
	CacheTemporal
)

func (s CacheStrategy) String() string {
	switch s {
	case CacheNone:
		return "none"
	case CacheMemoize:
		return "memoize"
	case CacheTemporal:
		return "temporal"
	default:
		return "unknown"
	}
}

// Computation produces a task's data.
type Computation[D any] = yamemo.Func[D]

type CacheOptions[D any] struct {
	// Duration applies to CacheTemporal. Zero means DefaultCacheDuration.
	Duration time.Duration

	// Store and StoreKey share CacheTemporal successes between caches.
	Store    yacache.Store[yamemo.Entry[D]]
	StoreKey string

	// Prefetch is the computation used when Execute receives nil.
	Prefetch Computation[D]

	// PrefetchNow starts Prefetch in the background as soon as the cache is
	// built. It requires Prefetch.
	PrefetchNow bool

	Logger yalogger.Logger
}

// Cache is the result cache a task lineage shares. It is not part of the
// state machine: every transition forwards the same *Cache, and only Refresh
// and InvalidateCache clear it.
type Cache[D any] struct {
	strategy CacheStrategy
	prefetch Computation[D]
	memo     *yamemo.Memoizer[D]
	temporal *yamemo.Temporal[D]
}

// NewCache builds a cache for strategy.
//
// Example:
//
//	cache, err := yatask.NewCache(yatask.CacheTemporal, yatask.CacheOptions[[]Item]{
//	    Duration: time.Minute,
//	    Prefetch: loadItems,
//	})
//	task := yatask.NewPending[[]Item, string, yatask.Tags](yatask.Cached[[]Item, string, yatask.Tags](cache))
func NewCache[D any](strategy CacheStrategy, opts CacheOptions[D]) (*Cache[D], yaerrors.Error) {
	if opts.PrefetchNow && opts.Prefetch == nil {
		return nil, yaerrors.FromError(
			http.StatusBadRequest,
			ErrMissingComputation,
			"[CACHE] eager prefetch needs a computation",
		)
	}

	cache := &Cache[D]{
		strategy: strategy,
		prefetch: opts.Prefetch,
	}

	switch strategy {
	case CacheNone:
	case CacheMemoize:
		cache.memo = &yamemo.Memoizer[D]{}
	case CacheTemporal:
		duration := opts.Duration
		if duration <= 0 {
			duration = DefaultCacheDuration
		}

		temporalOpts := []yamemo.TemporalOption[D]{yamemo.WithLogger[D](opts.Logger)}
		if opts.Store != nil {
			temporalOpts = append(temporalOpts, yamemo.WithStore(opts.Store, opts.StoreKey))
		}

		cache.temporal = yamemo.NewTemporal(duration, temporalOpts...)
	default:
		return nil, yaerrors.FromString(
			http.StatusBadRequest,
			fmt.Sprintf("[CACHE] unknown strategy %d", strategy),
		)
	}

	if opts.PrefetchNow && strategy != CacheNone {
		go func() {
			_, _ = cache.Execute(context.Background(), nil)
		}()
	}

	return cache, nil
}

func (c *Cache[D]) Strategy() CacheStrategy {
	if c == nil {
		return CacheNone
	}

	return c.strategy
}

// Execute returns the cached result or runs fn. A nil fn falls back to the
// Prefetch computation; with neither, ErrMissingComputation is returned.
//
// Failures come back as yaerrors.Error with the original error reachable
// through errors.Is and errors.As.
func (c *Cache[D]) Execute(ctx context.Context, fn Computation[D]) (D, yaerrors.Error) {
	value, _, err := c.execute(ctx, fn)
	if err != nil {
		return value, computationFailed(err)
	}

	return value, nil
}

// Refresh drops the cached result and runs fn, caching its outcome.
func (c *Cache[D]) Refresh(ctx context.Context, fn Computation[D]) (D, yaerrors.Error) {
	c.Invalidate()

	return c.Execute(ctx, fn)
}

// execute is Execute without the error conversion. It also returns the stack
// trace of a failure: the panic site when the computation panicked, the call
// site otherwise.
func (c *Cache[D]) execute(ctx context.Context, fn Computation[D]) (D, string, error) {
	fn, yaErr := c.computation(fn)
	if yaErr != nil {
		var zero D

		return zero, "", yaErr
	}

	var (
		value D
		err   error
	)

	switch c.Strategy() {
	case CacheMemoize:
		value, err = c.memo.Run(ctx, fn)
	case CacheTemporal:
		value, err = c.temporal.Fetch(ctx, fn)
	default:
		return invoke(ctx, fn)
	}

	if err == nil {
		return value, "", nil
	}

	var panicked *yamemo.PanicError
	if errors.As(err, &panicked) {
		return value, panicked.StackTrace, err
	}

	return value, string(debug.Stack()), err
}

func computationFailed(err error) yaerrors.Error {
	if yaErr, ok := err.(yaerrors.Error); ok {
		return yaErr
	}

	code := http.StatusInternalServerError
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		code = http.StatusRequestTimeout
	}

	return yaerrors.FromError(code, err, "[CACHE] computation failed")
}

func (c *Cache[D]) Invalidate() {
	switch c.Strategy() {
	case CacheMemoize:
		c.memo.Reset()
	case CacheTemporal:
		c.temporal.Invalidate()
	}
}

func (c *Cache[D]) computation(fn Computation[D]) (Computation[D], yaerrors.Error) {
	if fn != nil {
		return fn, nil
	}

	if c != nil && c.prefetch != nil {
		return c.prefetch, nil
	}

	return nil, yaerrors.FromError(
		http.StatusBadRequest,
		ErrMissingComputation,
		"[CACHE] nothing to execute",
	)
}

// invoke runs fn once, recovering a panic into an error with its stack trace.
// A plain error also gets the stack of the call site.
func invoke[D any](ctx context.Context, fn Computation[D]) (value D, stackTrace string, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("%w: %v", ErrTaskPanicked, recovered)
			stackTrace = string(debug.Stack())
		}
	}()

	value, err = fn(ctx)
	if err != nil {
		stackTrace = string(debug.Stack())
	}

	return value, stackTrace, err
}

type cacheHolder[D any] interface {
	Cache() *Cache[D]
	CacheStrategy() CacheStrategy
	Execute(ctx context.Context, fn Computation[D]) (D, yaerrors.Error)
	Refresh(ctx context.Context, fn Computation[D]) (D, yaerrors.Error)
	InvalidateCache()
}

// Cache returns the attached cache, or nil.
func (b base[D, L, G]) Cache() *Cache[D] {
	return b.rec.cache
}

func (b base[D, L, G]) CacheStrategy() CacheStrategy {
	return b.rec.cache.Strategy()
}

// Execute runs fn through the attached cache. Without a cache it behaves like
// CacheNone.
func (b base[D, L, G]) Execute(ctx context.Context, fn Computation[D]) (D, yaerrors.Error) {
	return b.rec.cache.Execute(ctx, fn)
}

func (b base[D, L, G]) Refresh(ctx context.Context, fn Computation[D]) (D, yaerrors.Error) {
	return b.rec.cache.Refresh(ctx, fn)
}

func (b base[D, L, G]) InvalidateCache() {
	b.rec.cache.Invalidate()
}
