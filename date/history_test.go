package date

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func days[T any](h *History[T]) []Date {
	var res []Date
	for d := range h.Values() {
		res = append(res, d)
	}
	return res
}

func TestHistory_Append(t *testing.T) {
	h := new(History[string])
	d1, d2, d3 := New(2024, 7, 1), New(2025, 1, 1), New(2025, 7, 1)

	assert.Equal(t, 0, h.Len())
	h.Append(d3, "c").Append(d1, "a").Append(d2, "b")
	assert.Equal(t, []Date{d1, d2, d3}, days(h), "out of order appends keep the history sorted")

	h.Append(d2, "replaced")
	assert.Equal(t, 3, h.Len(), "same day overwrites")
	v, ok := h.Get(d2)
	assert.True(t, ok)
	assert.Equal(t, "replaced", v)

	day, v := h.First()
	assert.Equal(t, d1, day)
	assert.Equal(t, "a", v)
	day, v = h.Latest()
	assert.Equal(t, d3, day)
	assert.Equal(t, "c", v)

	_, ok = h.Get(New(2024, 1, 1))
	assert.False(t, ok)
}

func TestHistory_Empty(t *testing.T) {
	var h *History[int]
	assert.Equal(t, 0, h.Len())
	assert.Empty(t, days(h))

	e := NewHistory[int](4)
	day, v := e.Latest()
	assert.True(t, day.IsZero())
	assert.Zero(t, v)
	day, _ = e.First()
	assert.True(t, day.IsZero())
}

func TestValueAsOf(t *testing.T) {
	h := NewHistory[int](3)
	h.Append(New(2025, 1, 10), 10).Append(New(2025, 1, 20), 20)

	_, ok := h.ValueAsOf(New(2025, 1, 1))
	assert.False(t, ok)

	v, ok := h.ValueAsOf(New(2025, 1, 15))
	assert.True(t, ok)
	assert.Equal(t, 10, v)

	v, ok = h.ValueAsOf(New(2025, 1, 20))
	assert.True(t, ok)
	assert.Equal(t, 20, v)

	v, ok = h.ValueAsOf(New(2026, 1, 1))
	assert.True(t, ok)
	assert.Equal(t, 20, v)
}
