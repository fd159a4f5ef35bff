// Package yafsm describes which state transitions are legal. yatask values can
// move from any state to any other; applications that want a stricter
// lifecycle declare it here and check transitions before applying them.
package yafsm

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/YaCodeDev/GoYaCodeDevAsync/yaerrors"
)

// Table is a set of permitted (from, to) pairs. The zero value permits nothing.
// A Table is safe for concurrent reads once fully built.
type Table[S comparable] struct {
	edges    map[S][]S
	wildcard []S
}

// NewTable returns an empty table.
func NewTable[S comparable]() *Table[S] {
	return &Table[S]{
		edges: make(map[S][]S),
	}
}

// Permit allows moving from `from` to each of targets. It returns the table so
// rules can be chained.
//
// Example usage:
//
//	table := yafsm.NewTable[string]().
//	    Permit("pending", "running").
//	    Permit("running", "success", "failure")
func (t *Table[S]) Permit(from S, targets ...S) *Table[S] {
	if t.edges == nil {
		t.edges = make(map[S][]S)
	}

	for _, to := range targets {
		if !slices.Contains(t.edges[from], to) {
			t.edges[from] = append(t.edges[from], to)
		}
	}

	return t
}

// PermitAny allows entering each of targets from every state.
func (t *Table[S]) PermitAny(targets ...S) *Table[S] {
	for _, to := range targets {
		if !slices.Contains(t.wildcard, to) {
			t.wildcard = append(t.wildcard, to)
		}
	}

	return t
}

// Can reports whether moving from `from` to `to` is permitted.
func (t *Table[S]) Can(from S, to S) bool {
	return slices.Contains(t.wildcard, to) || slices.Contains(t.edges[from], to)
}

// Check is Can that reports a refusal as ErrTransitionNotPermitted.
func (t *Table[S]) Check(from S, to S) yaerrors.Error {
	if t.Can(from, to) {
		return nil
	}

	return yaerrors.FromError(
		http.StatusConflict,
		ErrTransitionNotPermitted,
		fmt.Sprintf("[FSM] %v -> %v", from, to),
	)
}

// Targets lists every state reachable from `from` in one step.
func (t *Table[S]) Targets(from S) []S {
	targets := slices.Clone(t.edges[from])

	for _, to := range t.wildcard {
		if !slices.Contains(targets, to) {
			targets = append(targets, to)
		}
	}

	return targets
}
