package yatask

import (
	"context"
	"fmt"
	"net/http"
	"reflect"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/YaCodeDev/GoYaCodeDevAsync/threadsafemap"
	"github.com/YaCodeDev/GoYaCodeDevAsync/yaerrors"
	"github.com/YaCodeDev/GoYaCodeDevAsync/yalogger"
)

// Group is an immutable keyed collection of tasks sharing one data type. Its
// State is derived from the members every time a new Group is produced; no
// operation modifies a Group in place.
//
// Example:
//
//	group := yatask.NewGroup(map[string]yatask.Simple[int]{
//	    "a": yatask.NewPending[int, string, yatask.Tags](),
//	    "b": yatask.NewPending[int, string, yatask.Tags](),
//	})
//
//	done := group.RunAll(ctx, func(ctx context.Context, key string, _ yatask.Simple[int]) (int, error) {
//	    return fetchCount(ctx, key)
//	})
//	fmt.Println(done.State()) // completed, failed or partial
type Group[D, L, G any] struct {
	tasks map[string]Task[D, L, G]
	label L
	tags  G
	state GroupState
	log   yalogger.Logger
}

// Callback computes the data of one group member.
type Callback[D, L, G any] func(ctx context.Context, key string, task Task[D, L, G]) (D, error)

type ExecutionMode uint8

const (
	// Parallel starts every callback without waiting for the others.
	Parallel ExecutionMode = iota
	// Sequential runs callbacks one at a time in key order.
	Sequential
)

// ExecutionOptions tunes batch operations. Limit caps the number of callbacks
// running at once in Parallel mode; zero means no cap.
type ExecutionOptions struct {
	Mode  ExecutionMode
	Limit int
}

type GroupOption func(*groupConfig)

type groupConfig struct {
	log yalogger.Logger
}

// WithGroupLogger sets the logger batch operations report to.
func WithGroupLogger(log yalogger.Logger) GroupOption {
	return func(c *groupConfig) {
		c.log = log
	}
}

// NewGroup builds a group from tasks. The map is copied.
func NewGroup[D, L, G any](tasks map[string]Task[D, L, G], opts ...GroupOption) Group[D, L, G] {
	var cfg groupConfig

	for _, opt := range opts {
		opt(&cfg)
	}

	owned := cloneTasks(tasks, 0)

	return Group[D, L, G]{
		tasks: owned,
		state: derive(owned),
		log:   cfg.log,
	}
}

// with returns a group holding tasks, which must not be shared.
func (g Group[D, L, G]) with(tasks map[string]Task[D, L, G]) Group[D, L, G] {
	return Group[D, L, G]{
		tasks: tasks,
		label: g.label,
		tags:  g.tags,
		state: derive(tasks),
		log:   g.log,
	}
}

func (g Group[D, L, G]) logger() yalogger.Logger {
	return yalogger.Safe(g.log)
}

// Tasks returns a copy of the members.
func (g Group[D, L, G]) Tasks() map[string]Task[D, L, G] {
	return cloneTasks(g.tasks, 0)
}

func (g Group[D, L, G]) Len() int {
	return len(g.tasks)
}

func (g Group[D, L, G]) State() GroupState {
	return g.state
}

func (g Group[D, L, G]) Label() L {
	return g.label
}

func (g Group[D, L, G]) Tags() G {
	return g.tags
}

func (g Group[D, L, G]) WithLabel(label L) Group[D, L, G] {
	next := g.with(g.tasks)
	next.label = label

	return next
}

func (g Group[D, L, G]) WithTags(tags G) Group[D, L, G] {
	next := g.with(g.tasks)
	next.tags = tags

	return next
}

// AddTask returns a group with task stored under key, replacing any previous
// member with that key.
func (g Group[D, L, G]) AddTask(key string, task Task[D, L, G]) Group[D, L, G] {
	tasks := cloneTasks(g.tasks, 1)
	tasks[key] = task

	return g.with(tasks)
}

// AddTaskAuto stores task under a fresh UUID and returns that key.
func (g Group[D, L, G]) AddTaskAuto(task Task[D, L, G]) (Group[D, L, G], string) {
	key := uuid.NewString()

	return g.AddTask(key, task), key
}

// RemoveTask drops key. A missing key returns the group unchanged.
func (g Group[D, L, G]) RemoveTask(key string) Group[D, L, G] {
	if _, ok := g.tasks[key]; !ok {
		return g
	}

	tasks := cloneTasks(g.tasks, 0)
	delete(tasks, key)

	return g.with(tasks)
}

// UpdateTask replaces the member under key with update(member). A missing key
// returns the group unchanged.
func (g Group[D, L, G]) UpdateTask(key string, update func(Task[D, L, G]) Task[D, L, G]) Group[D, L, G] {
	task, ok := g.tasks[key]
	if !ok {
		return g
	}

	tasks := cloneTasks(g.tasks, 0)
	tasks[key] = update(task)

	return g.with(tasks)
}

func (g Group[D, L, G]) GetTask(key string) (Task[D, L, G], bool) {
	task, ok := g.tasks[key]

	return task, ok
}

// GetAs returns the member under key as variant V. A missing key is reported
// through the boolean; a member of another variant is ErrTypeMismatch.
//
// Example:
//
//	done, found, err := yatask.GetAs[yatask.SuccessTask[int, string, yatask.Tags]](group, "a")
func GetAs[V any, D, L, G any](g Group[D, L, G], key string) (V, bool, yaerrors.Error) {
	task, ok := g.tasks[key]
	if !ok {
		var zero V

		return zero, false, nil
	}

	return assertVariant[V](key, task)
}

func assertVariant[V any](key string, task any) (V, bool, yaerrors.Error) {
	variant, ok := task.(V)
	if !ok {
		var zero V

		return zero, false, yaerrors.FromError(
			http.StatusInternalServerError,
			ErrTypeMismatch,
			fmt.Sprintf("[GROUP] `%s` holds %T, not %s", key, task, reflect.TypeFor[V]()),
		)
	}

	return variant, true, nil
}

// FilterByState returns the members in any of states.
func (g Group[D, L, G]) FilterByState(states ...State) map[string]Task[D, L, G] {
	return filterByState(g.tasks, states)
}

// Filter returns the members accepted by keep.
func (g Group[D, L, G]) Filter(keep func(key string, task Task[D, L, G]) bool) map[string]Task[D, L, G] {
	return filterTasks(g.tasks, keep)
}

// MapTasks rewrites every member with transform.
func (g Group[D, L, G]) MapTasks(transform func(key string, task Task[D, L, G]) Task[D, L, G]) Group[D, L, G] {
	tasks := make(map[string]Task[D, L, G], len(g.tasks))

	for key, task := range g.tasks {
		tasks[key] = transform(key, task)
	}

	return g.with(tasks)
}

func (g Group[D, L, G]) ToRunning() Group[D, L, G] {
	return g.MapTasks(func(_ string, task Task[D, L, G]) Task[D, L, G] {
		return task.ToRunning()
	})
}

func (g Group[D, L, G]) ToPending() Group[D, L, G] {
	return g.MapTasks(func(_ string, task Task[D, L, G]) Task[D, L, G] {
		return task.ToPending()
	})
}

// ResetFailed moves Failure members back to Pending.
func (g Group[D, L, G]) ResetFailed() Group[D, L, G] {
	return g.MapTasks(func(_ string, task Task[D, L, G]) Task[D, L, G] {
		if task.IsFailure() {
			return task.ToPending()
		}

		return task
	})
}

// RunAll moves every member to Running, runs cb for all of them concurrently
// and returns the group once every callback has settled. Each member becomes
// Success or Failure on its own; one failing callback never stops the others.
func (g Group[D, L, G]) RunAll(ctx context.Context, cb Callback[D, L, G]) Group[D, L, G] {
	return g.RunAllWith(ctx, ExecutionOptions{}, cb)
}

// RunAllWith is RunAll with an explicit execution mode.
func (g Group[D, L, G]) RunAllWith(ctx context.Context, opts ExecutionOptions, cb Callback[D, L, G]) Group[D, L, G] {
	running := g.ToRunning()

	return running.execute(ctx, "run", opts, sortedKeys(running.tasks), cb)
}

// RetryFailed runs cb again for the Failure members only, after moving them to
// Retrying. Without failures the group is returned as is and cb is never
// called.
func (g Group[D, L, G]) RetryFailed(ctx context.Context, cb Callback[D, L, G]) Group[D, L, G] {
	return g.RetryFailedWith(ctx, ExecutionOptions{}, cb)
}

func (g Group[D, L, G]) RetryFailedWith(ctx context.Context, opts ExecutionOptions, cb Callback[D, L, G]) Group[D, L, G] {
	failed := g.FilterByState(StateFailure)
	if len(failed) == 0 {
		return g
	}

	tasks := cloneTasks(g.tasks, 0)

	for key, task := range failed {
		tasks[key] = task.ToRetrying()
	}

	return g.with(tasks).execute(ctx, "retry", opts, sortedKeys(failed), cb)
}

// Watch reports a sequential run: first the group with every member Running,
// then one snapshot after each member settles, in key order. The channel is
// closed after the last member, or early when ctx is done, in which case the
// remaining members are left Running.
//
// Example:
//
//	for snapshot := range group.Watch(ctx, load) {
//	    render(snapshot.State(), snapshot.Tasks())
//	}
func (g Group[D, L, G]) Watch(ctx context.Context, cb Callback[D, L, G]) <-chan Group[D, L, G] {
	current := g.ToRunning()
	keys := sortedKeys(current.tasks)

	updates := make(chan Group[D, L, G], len(keys)+1)
	updates <- current

	go func() {
		defer close(updates)

		log := current.logger().WithRandomRequestID().WithField(yalogger.KeyComponent, "group")

		for _, key := range keys {
			if err := ctx.Err(); err != nil {
				log.Warnf("[GROUP] watch stopped before `%s`: %v", key, err)

				return
			}

			settled := current.runOne(ctx, key, cb)

			tasks := cloneTasks(current.tasks, 0)
			tasks[key] = settled
			current = current.with(tasks)

			updates <- current
		}
	}()

	return updates
}

func (g Group[D, L, G]) runOne(ctx context.Context, key string, cb Callback[D, L, G]) Task[D, L, G] {
	from := g.tasks[key]

	return settle(ctx, from, func(ctx context.Context) (D, error) {
		return cb(ctx, key, from)
	})
}

// execute runs cb for keys and merges the settled members into g.
func (g Group[D, L, G]) execute(
	ctx context.Context,
	op string,
	opts ExecutionOptions,
	keys []string,
	cb Callback[D, L, G],
) Group[D, L, G] {
	log := g.logger().WithRandomRequestID().WithField(yalogger.KeyComponent, "group")
	results := threadsafemap.NewThreadSafeMapWithCapacity[string, Task[D, L, G]](len(keys))

	log.Debugf("[GROUP] %s: %d tasks, mode %d, limit %d", op, len(keys), opts.Mode, opts.Limit)

	run := func(key string) {
		settled := g.runOne(ctx, key, cb)
		if err := settled.Err(); err != nil {
			log.WithField(yalogger.KeyTaskKey, key).Debugf("[GROUP] %s failed: %v", op, err)
		}

		results.Set(key, settled)
	}

	switch opts.Mode {
	case Sequential:
		for _, key := range keys {
			run(key)
		}
	default:
		var eg errgroup.Group

		if opts.Limit > 0 {
			eg.SetLimit(opts.Limit)
		}

		for _, key := range keys {
			eg.Go(func() error {
				run(key)

				return nil
			})
		}

		_ = eg.Wait()
	}

	tasks := cloneTasks(g.tasks, 0)

	results.IterateOnCopy(func(key string, task Task[D, L, G]) {
		tasks[key] = task
	})

	merged := g.with(tasks)

	log.Debugf("[GROUP] %s finished: %s", op, merged.State())

	return merged
}
