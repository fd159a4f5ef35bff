package yatask

import (
	"github.com/google/uuid"

	"github.com/YaCodeDev/GoYaCodeDevAsync/yaerrors"
)

// Entry is a task of any data type. Every Task[D, L, G] is an Entry[L, G], so
// tasks with different payloads can live in one MixedGroup.
type Entry[L, G any] interface {
	State() State
	Label() L
	Tags() G

	IsPending() bool
	IsRunning() bool
	IsRefreshing() bool
	IsRetrying() bool
	IsSuccess() bool
	IsFailure() bool

	Err() error

	entry[L, G]
}

type entry[L, G any] interface {
	runningEntry() Entry[L, G]
	pendingEntry() Entry[L, G]
}

func (b base[D, L, G]) runningEntry() Entry[L, G] {
	return b.ToRunning()
}

func (b base[D, L, G]) pendingEntry() Entry[L, G] {
	return b.ToPending()
}

// MixedGroup is the heterogeneous counterpart of Group. It offers the same
// structural operations and queries, but no batch execution: there is no
// single data type a callback could produce. Read members back with
// GetMixedAs.
//
// Example:
//
//	dashboard := yatask.NewMixedGroup(map[string]yatask.Entry[string, yatask.Tags]{
//	    "user":   yatask.NewSuccess[User, string, yatask.Tags](user),
//	    "orders": yatask.NewRunning[[]Order, string, yatask.Tags](),
//	})
//	fmt.Println(dashboard.State()) // active
type MixedGroup[L, G any] struct {
	tasks map[string]Entry[L, G]
	label L
	tags  G
	state GroupState
}

// NewMixedGroup builds a group from tasks. The map is copied.
func NewMixedGroup[L, G any](tasks map[string]Entry[L, G]) MixedGroup[L, G] {
	owned := cloneTasks(tasks, 0)

	return MixedGroup[L, G]{
		tasks: owned,
		state: derive(owned),
	}
}

func (g MixedGroup[L, G]) with(tasks map[string]Entry[L, G]) MixedGroup[L, G] {
	return MixedGroup[L, G]{
		tasks: tasks,
		label: g.label,
		tags:  g.tags,
		state: derive(tasks),
	}
}

func (g MixedGroup[L, G]) Tasks() map[string]Entry[L, G] {
	return cloneTasks(g.tasks, 0)
}

func (g MixedGroup[L, G]) Len() int {
	return len(g.tasks)
}

func (g MixedGroup[L, G]) State() GroupState {
	return g.state
}

func (g MixedGroup[L, G]) Label() L {
	return g.label
}

func (g MixedGroup[L, G]) Tags() G {
	return g.tags
}

func (g MixedGroup[L, G]) WithLabel(label L) MixedGroup[L, G] {
	next := g.with(g.tasks)
	next.label = label

	return next
}

func (g MixedGroup[L, G]) WithTags(tags G) MixedGroup[L, G] {
	next := g.with(g.tasks)
	next.tags = tags

	return next
}

func (g MixedGroup[L, G]) AddTask(key string, task Entry[L, G]) MixedGroup[L, G] {
	tasks := cloneTasks(g.tasks, 1)
	tasks[key] = task

	return g.with(tasks)
}

func (g MixedGroup[L, G]) AddTaskAuto(task Entry[L, G]) (MixedGroup[L, G], string) {
	key := uuid.NewString()

	return g.AddTask(key, task), key
}

func (g MixedGroup[L, G]) RemoveTask(key string) MixedGroup[L, G] {
	if _, ok := g.tasks[key]; !ok {
		return g
	}

	tasks := cloneTasks(g.tasks, 0)
	delete(tasks, key)

	return g.with(tasks)
}

func (g MixedGroup[L, G]) UpdateTask(key string, update func(Entry[L, G]) Entry[L, G]) MixedGroup[L, G] {
	task, ok := g.tasks[key]
	if !ok {
		return g
	}

	tasks := cloneTasks(g.tasks, 0)
	tasks[key] = update(task)

	return g.with(tasks)
}

func (g MixedGroup[L, G]) GetTask(key string) (Entry[L, G], bool) {
	task, ok := g.tasks[key]

	return task, ok
}

// GetMixedAs returns the member under key as V, typically a concrete variant
// such as SuccessTask[User, string, Tags]. A missing key is reported through
// the boolean; a member of another type is ErrTypeMismatch.
func GetMixedAs[V any, L, G any](g MixedGroup[L, G], key string) (V, bool, yaerrors.Error) {
	task, ok := g.tasks[key]
	if !ok {
		var zero V

		return zero, false, nil
	}

	return assertVariant[V](key, task)
}

func (g MixedGroup[L, G]) FilterByState(states ...State) map[string]Entry[L, G] {
	return filterByState(g.tasks, states)
}

func (g MixedGroup[L, G]) Filter(keep func(key string, task Entry[L, G]) bool) map[string]Entry[L, G] {
	return filterTasks(g.tasks, keep)
}

func (g MixedGroup[L, G]) mapTasks(transform func(Entry[L, G]) Entry[L, G]) MixedGroup[L, G] {
	tasks := make(map[string]Entry[L, G], len(g.tasks))

	for key, task := range g.tasks {
		tasks[key] = transform(task)
	}

	return g.with(tasks)
}

func (g MixedGroup[L, G]) ToRunning() MixedGroup[L, G] {
	return g.mapTasks(func(task Entry[L, G]) Entry[L, G] {
		return task.runningEntry()
	})
}

func (g MixedGroup[L, G]) ToPending() MixedGroup[L, G] {
	return g.mapTasks(func(task Entry[L, G]) Entry[L, G] {
		return task.pendingEntry()
	})
}

func (g MixedGroup[L, G]) ResetFailed() MixedGroup[L, G] {
	return g.mapTasks(func(task Entry[L, G]) Entry[L, G] {
		if task.IsFailure() {
			return task.pendingEntry()
		}

		return task
	})
}
