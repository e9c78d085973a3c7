package date

import (
	"iter"
	"slices"
)

type point[T any] struct {
	day   Date
	value T
}

// History is a series of values, at most one per day, kept in chronological
// order. The zero History is empty and ready to use.
type History[T any] struct {
	points []point[T]
}

// NewHistory returns an empty history with room for n days.
func NewHistory[T any](n int) *History[T] {
	return &History[T]{points: make([]point[T], 0, n)}
}

// search returns where day is, or would be inserted.
func (h *History[T]) search(day Date) (int, bool) {
	return slices.BinarySearchFunc(h.points, day, func(p point[T], d Date) int { return p.day.Compare(d) })
}

// Append records value on day, replacing any value already recorded that day.
func (h *History[T]) Append(day Date, value T) *History[T] {
	i, found := h.search(day)
	if found {
		h.points[i].value = value
		return h
	}
	h.points = slices.Insert(h.points, i, point[T]{day, value})
	return h
}

// Len returns the number of days in the history.
func (h *History[T]) Len() int {
	if h == nil {
		return 0
	}
	return len(h.points)
}

// First returns the earliest day and its value, or zero values when empty.
func (h *History[T]) First() (Date, T) {
	if h.Len() == 0 {
		var zero T
		return Date{}, zero
	}
	p := h.points[0]
	return p.day, p.value
}

// Latest returns the last day and its value, or zero values when empty.
func (h *History[T]) Latest() (Date, T) {
	if h.Len() == 0 {
		var zero T
		return Date{}, zero
	}
	p := h.points[len(h.points)-1]
	return p.day, p.value
}

// Get returns the value recorded on day.
func (h *History[T]) Get(day Date) (T, bool) {
	if i, found := h.search(day); found {
		return h.points[i].value, true
	}
	var zero T
	return zero, false
}

// ValueAsOf returns the value recorded on day or, failing that, on the last
// day before it.
func (h *History[T]) ValueAsOf(day Date) (T, bool) {
	i, found := h.search(day)
	switch {
	case found:
		return h.points[i].value, true
	case i > 0:
		return h.points[i-1].value, true
	default:
		var zero T
		return zero, false
	}
}

// Values iterates over days and values in chronological order.
func (h *History[T]) Values() iter.Seq2[Date, T] {
	return func(yield func(Date, T) bool) {
		if h == nil {
			return
		}
		for _, p := range h.points {
			if !yield(p.day, p.value) {
				return
			}
		}
	}
}
