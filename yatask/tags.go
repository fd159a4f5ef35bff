package yatask

import "github.com/YaCodeDev/GoYaCodeDevAsync/yathreadsafeset"

// Tags is the conventional tag type: a concurrency-safe set of strings.
type Tags = *yathreadsafeset.ThreadSafeSet[string]

// Simple is a Task labelled with a string and tagged with a string set.
type Simple[D any] = Task[D, string, Tags]

// SimpleGroup is a Group of Simple tasks.
type SimpleGroup[D any] = Group[D, string, Tags]

// SimpleMixedGroup is a MixedGroup of Simple tasks.
type SimpleMixedGroup = MixedGroup[string, Tags]

// NewTags builds a tag set.
func NewTags(values ...string) Tags {
	return yathreadsafeset.NewThreadSafeSet(values...)
}
