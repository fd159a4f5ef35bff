package yatask

import (
	"maps"
	"slices"

	"github.com/YaCodeDev/GoYaCodeDevAsync/yathreadsafeset"
)

type stater interface {
	State() State
}

func derive[T stater](tasks map[string]T) GroupState {
	states := make([]State, 0, len(tasks))

	for _, task := range tasks {
		states = append(states, task.State())
	}

	return DeriveState(states...)
}

func cloneTasks[T any](tasks map[string]T, extra int) map[string]T {
	clone := make(map[string]T, len(tasks)+extra)
	maps.Copy(clone, tasks)

	return clone
}

func sortedKeys[T any](tasks map[string]T) []string {
	return slices.Sorted(maps.Keys(tasks))
}

func filterTasks[T any](tasks map[string]T, keep func(key string, task T) bool) map[string]T {
	filtered := make(map[string]T)

	for key, task := range tasks {
		if keep(key, task) {
			filtered[key] = task
		}
	}

	return filtered
}

func filterByState[T stater](tasks map[string]T, states []State) map[string]T {
	return filterTasks(tasks, func(_ string, task T) bool {
		return slices.Contains(states, task.State())
	})
}

// FilterByLabel keeps the tasks whose label equals label.
//
// Example:
//
//	profiles := yatask.FilterByLabel(group.Tasks(), "profile")
func FilterByLabel[T interface{ Label() L }, L comparable](tasks map[string]T, label L) map[string]T {
	return filterTasks(tasks, func(_ string, task T) bool {
		return task.Label() == label
	})
}

// FilterByTagsAll keeps the tasks whose tags contain every one of tags. A task
// without tags only matches an empty tag list.
func FilterByTagsAll[T interface {
	Tags() *yathreadsafeset.ThreadSafeSet[K]
}, K comparable](tasks map[string]T, tags ...K) map[string]T {
	wanted := yathreadsafeset.NewThreadSafeSet(tags...)

	return filterTasks(tasks, func(_ string, task T) bool {
		own := task.Tags()
		if own == nil {
			return wanted.IsEmpty()
		}

		return own.IsSuperset(wanted)
	})
}

// FilterByTagsAny keeps the tasks sharing at least one tag with tags.
func FilterByTagsAny[T interface {
	Tags() *yathreadsafeset.ThreadSafeSet[K]
}, K comparable](tasks map[string]T, tags ...K) map[string]T {
	wanted := yathreadsafeset.NewThreadSafeSet(tags...)

	return filterTasks(tasks, func(_ string, task T) bool {
		own := task.Tags()

		return own != nil && own.Intersects(wanted)
	})
}
