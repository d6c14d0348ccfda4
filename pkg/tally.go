// Package pkg is a package that provides utilities for covnet.
package pkg

// Tally is a generic insertion-ordered multiset. It counts how many times
// each item has been added while remembering the order in which distinct
// items were first seen, so reports stay stable across runs.
type Tally[T comparable] interface {
	Add(item T)
	Count(item T) int
	Has(item T) bool
	Len() int
	Total() int
	Items() []T
	Range(f func(item T, count int) error) error
}

type tallyImpl[T comparable] struct {
	counts map[T]int
	order  []T
	total  int
}

// NewTally creates an empty Tally.
func NewTally[T comparable]() Tally[T] {
	return &tallyImpl[T]{
		counts: make(map[T]int),
	}
}

// Add implements Tally.
func (t *tallyImpl[T]) Add(item T) {
	if _, ok := t.counts[item]; !ok {
		t.order = append(t.order, item)
	}

	t.counts[item]++
	t.total++
}

// Count implements Tally.
func (t *tallyImpl[T]) Count(item T) int {
	return t.counts[item]
}

// Has implements Tally.
func (t *tallyImpl[T]) Has(item T) bool {
	_, ok := t.counts[item]
	return ok
}

// Len implements Tally.
func (t *tallyImpl[T]) Len() int {
	return len(t.order)
}

// Total implements Tally.
func (t *tallyImpl[T]) Total() int {
	return t.total
}

// Items implements Tally. The returned slice is a copy in first-seen order.
func (t *tallyImpl[T]) Items() []T {
	items := make([]T, len(t.order))
	copy(items, t.order)

	return items
}

// Range implements Tally. Iteration follows first-seen order and stops at
// the first error returned by f.
func (t *tallyImpl[T]) Range(f func(item T, count int) error) error {
	for _, item := range t.order {
		if err := f(item, t.counts[item]); err != nil {
			return err
		}
	}

	return nil
}
