// Package yatask models the lifecycle of asynchronous operations as immutable
// values. A Task is one snapshot: Pending, Running, Refreshing, Retrying,
// Success or Failure. Transitions never modify a Task; they return a new one
// that keeps the label, tags, initial data and cache of its predecessor.
//
// Any state may move to any other. Callers that want a stricter lifecycle
// check transitions with a yafsm.Table, see DefaultPolicy and Checked.
//
// Example:
//
//	pending := yatask.NewPending[*Profile, string, yatask.Tags](
//	    yatask.Labeled[*Profile, string, yatask.Tags]("profile"),
//	)
//
//	running := pending.ToRunning()
//	profile, err := api.LoadProfile(ctx)
//	if err != nil {
//	    render(running.ToFailure(err, ""))
//	    return
//	}
//
//	render(running.ToSuccess(profile))
//
// Groups of tasks are covered by Group and MixedGroup.
package yatask

import (
	"context"
	"fmt"
	"net/http"

	"github.com/YaCodeDev/GoYaCodeDevAsync/yaerrors"
)

// Task is the closed set of lifecycle variants: PendingTask, RunningTask,
// RefreshingTask, RetryingTask, SuccessTask and FailureTask. Use a type switch
// to reach variant-only accessors.
type Task[D, L, G any] interface {
	State() State
	Label() L
	Tags() G

	// InitialData is the seed given at construction, carried unchanged
	// through transitions unless explicitly overridden.
	InitialData() (D, bool)

	// EffectiveData is the best data available right now: Success data,
	// otherwise the previous data, otherwise the initial data.
	EffectiveData() (D, bool)

	IsPending() bool
	IsRunning() bool
	IsRefreshing() bool
	IsRetrying() bool
	IsSuccess() bool
	IsFailure() bool

	// Err is nil unless the task is a Failure.
	Err() error

	ToPending() PendingTask[D, L, G]
	ToPendingWith(initial D) PendingTask[D, L, G]
	ToRunning() RunningTask[D, L, G]
	ToRefreshing() RefreshingTask[D, L, G]
	ToRetrying() RetryingTask[D, L, G]
	ToSuccess(data D) SuccessTask[D, L, G]
	ToFailure(err error, stackTrace string) FailureTask[D, L, G]
	ApplyTransition(target State, payload Payload[D]) (Task[D, L, G], yaerrors.Error)

	WithLabel(label L) Task[D, L, G]
	WithTags(tags G) Task[D, L, G]
	WithInitialData(initial D) Task[D, L, G]
	WithCache(cache *Cache[D]) Task[D, L, G]

	MapError(fn func(error) error) Task[D, L, G]
	Transform(opts TransformOptions[D]) Task[D, L, G]

	// Settle runs fn through the attached cache and records the outcome.
	Settle(ctx context.Context, fn Computation[D]) Task[D, L, G]

	cacheHolder[D]
	entry[L, G]

	snapshot() record[D, L, G]
}

// Payload carries the arguments of ApplyTransition. Data is required for
// Success and optional for Pending, where it replaces the initial data. Err is
// required for Failure.
type Payload[D any] struct {
	Data       *D
	Err        error
	StackTrace string
}

// TransformOptions selects which fields Transform rewrites. UpdateData applies
// to Success data and to Pending initial data, UpdatePrevious to the previous
// data of the in-flight variants and Failure, UpdateError to Failure errors.
// Nil functions leave their field untouched.
type TransformOptions[D any] struct {
	UpdateData     func(D) D
	UpdateError    func(error) error
	UpdatePrevious func(D) D
}

type optional[D any] struct {
	value D
	ok    bool
}

func some[D any](value D) optional[D] {
	return optional[D]{value: value, ok: true}
}

func (o optional[D]) get() (D, bool) {
	return o.value, o.ok
}

func (o optional[D]) or(other optional[D]) optional[D] {
	if o.ok {
		return o
	}

	return other
}

func mapOptional[D, E any](o optional[D], fn func(D) E) optional[E] {
	if !o.ok {
		return optional[E]{}
	}

	return some(fn(o.value))
}

// record is the single representation shared by every variant. Fields that a
// variant does not expose stay zero.
type record[D, L, G any] struct {
	state      State
	label      L
	tags       G
	initial    optional[D]
	previous   optional[D]
	data       D
	err        error
	stackTrace string
	cache      *Cache[D]
}

// lineage copies what every transition keeps.
func (r record[D, L, G]) lineage(state State) record[D, L, G] {
	return record[D, L, G]{
		state:   state,
		label:   r.label,
		tags:    r.tags,
		initial: r.initial,
		cache:   r.cache,
	}
}

func (r record[D, L, G]) effective() optional[D] {
	switch r.state {
	case StateSuccess:
		return some(r.data)
	case StatePending:
		return r.initial
	default:
		return r.previous.or(r.initial)
	}
}

type base[D, L, G any] struct {
	rec record[D, L, G]
}

func (b base[D, L, G]) snapshot() record[D, L, G] {
	return b.rec
}

func (b base[D, L, G]) State() State {
	return b.rec.state
}

func (b base[D, L, G]) Label() L {
	return b.rec.label
}

func (b base[D, L, G]) Tags() G {
	return b.rec.tags
}

func (b base[D, L, G]) InitialData() (D, bool) {
	return b.rec.initial.get()
}

func (b base[D, L, G]) EffectiveData() (D, bool) {
	return b.rec.effective().get()
}

func (b base[D, L, G]) IsPending() bool    { return b.rec.state == StatePending }
func (b base[D, L, G]) IsRunning() bool    { return b.rec.state == StateRunning }
func (b base[D, L, G]) IsRefreshing() bool { return b.rec.state == StateRefreshing }
func (b base[D, L, G]) IsRetrying() bool   { return b.rec.state == StateRetrying }
func (b base[D, L, G]) IsSuccess() bool    { return b.rec.state == StateSuccess }
func (b base[D, L, G]) IsFailure() bool    { return b.rec.state == StateFailure }

func (b base[D, L, G]) Err() error {
	return b.rec.err
}

func (b base[D, L, G]) String() string {
	data, ok := b.EffectiveData()
	if !ok {
		return fmt.Sprintf("%s(label=%v)", b.rec.state, b.rec.label)
	}

	if b.rec.state == StateFailure {
		return fmt.Sprintf("%s(label=%v, data=%v, err=%v)", b.rec.state, b.rec.label, data, b.rec.err)
	}

	return fmt.Sprintf("%s(label=%v, data=%v)", b.rec.state, b.rec.label, data)
}

func (b base[D, L, G]) ToPending() PendingTask[D, L, G] {
	return PendingTask[D, L, G]{base[D, L, G]{b.rec.lineage(StatePending)}}
}

func (b base[D, L, G]) ToPendingWith(initial D) PendingTask[D, L, G] {
	rec := b.rec.lineage(StatePending)
	rec.initial = some(initial)

	return PendingTask[D, L, G]{base[D, L, G]{rec}}
}

func (b base[D, L, G]) ToRunning() RunningTask[D, L, G] {
	return RunningTask[D, L, G]{b.carrying(StateRunning)}
}

func (b base[D, L, G]) ToRefreshing() RefreshingTask[D, L, G] {
	return RefreshingTask[D, L, G]{b.carrying(StateRefreshing)}
}

func (b base[D, L, G]) ToRetrying() RetryingTask[D, L, G] {
	return RetryingTask[D, L, G]{b.carrying(StateRetrying)}
}

func (b base[D, L, G]) ToSuccess(data D) SuccessTask[D, L, G] {
	rec := b.rec.lineage(StateSuccess)
	rec.data = data

	return SuccessTask[D, L, G]{base[D, L, G]{rec}}
}

func (b base[D, L, G]) ToFailure(err error, stackTrace string) FailureTask[D, L, G] {
	next := b.carrying(StateFailure)
	next.rec.err = err
	next.rec.stackTrace = stackTrace

	return FailureTask[D, L, G]{next}
}

// carrying starts a state whose previous data is the current effective data.
func (b base[D, L, G]) carrying(state State) base[D, L, G] {
	rec := b.rec.lineage(state)
	rec.previous = b.rec.effective()

	return base[D, L, G]{rec}
}

// ApplyTransition moves to target using payload. Success without Data and
// Failure without Err are refused with ErrInvalidTransition; the receiver is
// never modified.
func (b base[D, L, G]) ApplyTransition(target State, payload Payload[D]) (Task[D, L, G], yaerrors.Error) {
	switch target {
	case StatePending:
		if payload.Data != nil {
			return b.ToPendingWith(*payload.Data), nil
		}

		return b.ToPending(), nil
	case StateRunning:
		return b.ToRunning(), nil
	case StateRefreshing:
		return b.ToRefreshing(), nil
	case StateRetrying:
		return b.ToRetrying(), nil
	case StateSuccess:
		if payload.Data == nil {
			return nil, invalidTransition(target, "data is required")
		}

		return b.ToSuccess(*payload.Data), nil
	case StateFailure:
		if payload.Err == nil {
			return nil, invalidTransition(target, "error is required")
		}

		return b.ToFailure(payload.Err, payload.StackTrace), nil
	default:
		return nil, invalidTransition(target, "unknown state")
	}
}

func invalidTransition(target State, reason string) yaerrors.Error {
	return yaerrors.FromError(
		http.StatusBadRequest,
		ErrInvalidTransition,
		fmt.Sprintf("[TASK] cannot move to %s: %s", target, reason),
	)
}

func (b base[D, L, G]) WithLabel(label L) Task[D, L, G] {
	rec := b.rec
	rec.label = label

	return wrap(rec)
}

func (b base[D, L, G]) WithTags(tags G) Task[D, L, G] {
	rec := b.rec
	rec.tags = tags

	return wrap(rec)
}

func (b base[D, L, G]) WithInitialData(initial D) Task[D, L, G] {
	rec := b.rec
	rec.initial = some(initial)

	return wrap(rec)
}

// WithCache attaches cache to this task; every later transition forwards it.
func (b base[D, L, G]) WithCache(cache *Cache[D]) Task[D, L, G] {
	rec := b.rec
	rec.cache = cache

	return wrap(rec)
}

// MapError rewrites the error of a Failure and returns other variants as they
// are.
func (b base[D, L, G]) MapError(fn func(error) error) Task[D, L, G] {
	return b.Transform(TransformOptions[D]{UpdateError: fn})
}

func (b base[D, L, G]) Transform(opts TransformOptions[D]) Task[D, L, G] {
	rec := b.rec

	switch rec.state {
	case StateSuccess:
		if opts.UpdateData != nil {
			rec.data = opts.UpdateData(rec.data)
		}
	case StatePending:
		if opts.UpdateData != nil {
			rec.initial = mapOptional(rec.initial, opts.UpdateData)
		}
	case StateFailure:
		if opts.UpdateError != nil {
			rec.err = opts.UpdateError(rec.err)
		}

		fallthrough
	default:
		if opts.UpdatePrevious != nil {
			rec.previous = mapOptional(rec.previous, opts.UpdatePrevious)
		}
	}

	return wrap(rec)
}

// MapData converts every payload field of t with fn, changing its data type.
// Label and tags are kept; the cache is dropped because it is typed on the old
// data type.
//
// Example:
//
//	count := yatask.MapData(users, func(u []User) int { return len(u) })
func MapData[D, E, L, G any](t Task[D, L, G], fn func(D) E) Task[E, L, G] {
	rec := t.snapshot()

	mapped := record[E, L, G]{
		state:      rec.state,
		label:      rec.label,
		tags:       rec.tags,
		initial:    mapOptional(rec.initial, fn),
		previous:   mapOptional(rec.previous, fn),
		err:        rec.err,
		stackTrace: rec.stackTrace,
	}

	if rec.state == StateSuccess {
		mapped.data = fn(rec.data)
	}

	return wrap(mapped)
}

// wrap returns the variant matching rec.state.
func wrap[D, L, G any](rec record[D, L, G]) Task[D, L, G] {
	b := base[D, L, G]{rec}

	switch rec.state {
	case StateRunning:
		return RunningTask[D, L, G]{b}
	case StateRefreshing:
		return RefreshingTask[D, L, G]{b}
	case StateRetrying:
		return RetryingTask[D, L, G]{b}
	case StateSuccess:
		return SuccessTask[D, L, G]{b}
	case StateFailure:
		return FailureTask[D, L, G]{b}
	default:
		return PendingTask[D, L, G]{b}
	}
}

type PendingTask[D, L, G any] struct {
	base[D, L, G]
}

type RunningTask[D, L, G any] struct {
	base[D, L, G]
}

// PreviousData is the data that was available when the run started.
func (t RunningTask[D, L, G]) PreviousData() (D, bool) {
	return t.rec.previous.get()
}

type RefreshingTask[D, L, G any] struct {
	base[D, L, G]
}

func (t RefreshingTask[D, L, G]) PreviousData() (D, bool) {
	return t.rec.previous.get()
}

type RetryingTask[D, L, G any] struct {
	base[D, L, G]
}

func (t RetryingTask[D, L, G]) PreviousData() (D, bool) {
	return t.rec.previous.get()
}

type SuccessTask[D, L, G any] struct {
	base[D, L, G]
}

func (t SuccessTask[D, L, G]) Data() D {
	return t.rec.data
}

type FailureTask[D, L, G any] struct {
	base[D, L, G]
}

func (t FailureTask[D, L, G]) PreviousData() (D, bool) {
	return t.rec.previous.get()
}

// StackTrace is the trace captured when the failure was recorded, if any.
func (t FailureTask[D, L, G]) StackTrace() string {
	return t.rec.stackTrace
}

// Option configures a task built by one of the New* constructors.
type Option[D, L, G any] func(*record[D, L, G])

func Labeled[D, L, G any](label L) Option[D, L, G] {
	return func(r *record[D, L, G]) {
		r.label = label
	}
}

func Tagged[D, L, G any](tags G) Option[D, L, G] {
	return func(r *record[D, L, G]) {
		r.tags = tags
	}
}

// Seeded sets the initial data.
func Seeded[D, L, G any](initial D) Option[D, L, G] {
	return func(r *record[D, L, G]) {
		r.initial = some(initial)
	}
}

// Carrying sets the previous data of Running, Refreshing, Retrying and Failure
// tasks. Other variants ignore it.
func Carrying[D, L, G any](previous D) Option[D, L, G] {
	return func(r *record[D, L, G]) {
		r.previous = some(previous)
	}
}

func Cached[D, L, G any](cache *Cache[D]) Option[D, L, G] {
	return func(r *record[D, L, G]) {
		r.cache = cache
	}
}

func build[D, L, G any](state State, opts []Option[D, L, G]) record[D, L, G] {
	rec := record[D, L, G]{state: state}

	for _, opt := range opts {
		opt(&rec)
	}

	if state == StatePending || state == StateSuccess {
		rec.previous = optional[D]{}
	}

	return rec
}

func NewPending[D, L, G any](opts ...Option[D, L, G]) PendingTask[D, L, G] {
	return PendingTask[D, L, G]{base[D, L, G]{build(StatePending, opts)}}
}

func NewRunning[D, L, G any](opts ...Option[D, L, G]) RunningTask[D, L, G] {
	return RunningTask[D, L, G]{base[D, L, G]{build(StateRunning, opts)}}
}

func NewRefreshing[D, L, G any](opts ...Option[D, L, G]) RefreshingTask[D, L, G] {
	return RefreshingTask[D, L, G]{base[D, L, G]{build(StateRefreshing, opts)}}
}

func NewRetrying[D, L, G any](opts ...Option[D, L, G]) RetryingTask[D, L, G] {
	return RetryingTask[D, L, G]{base[D, L, G]{build(StateRetrying, opts)}}
}

func NewSuccess[D, L, G any](data D, opts ...Option[D, L, G]) SuccessTask[D, L, G] {
	rec := build(StateSuccess, opts)
	rec.data = data

	return SuccessTask[D, L, G]{base[D, L, G]{rec}}
}

func NewFailure[D, L, G any](err error, stackTrace string, opts ...Option[D, L, G]) FailureTask[D, L, G] {
	rec := build(StateFailure, opts)
	rec.err = err
	rec.stackTrace = stackTrace

	return FailureTask[D, L, G]{base[D, L, G]{rec}}
}
