package folio

import (
	"testing"
	"time"

	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJsonObjectWriter(t *testing.T) {
	t.Run("empty object", func(t *testing.T) {
		var w jsonObjectWriter
		got, err := w.MarshalJSON()
		require.NoError(t, err)
		assert.Equal(t, "{}", string(got))
	})

	t.Run("keeps field order", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("b", 1).Append("a", "hello")
		got, err := w.MarshalJSON()
		require.NoError(t, err)
		assert.Equal(t, `{"b":1,"a":"hello"}`, string(got))
	})

	t.Run("optional fields", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("a", 0) // a zero value is still added by Append.
		w.Optional("b", "")
		w.Optional("c", decimal.NewFromInt(0))
		w.Optional("d", date.Date{})
		w.Optional("e", date.New(2024, time.July, 1))
		w.Optional("f", []string{})
		w.Optional("g", map[string]int{"x": 1})
		got, err := w.MarshalJSON()
		require.NoError(t, err)
		assert.Equal(t, `{"a":0,"e":"2024-07-01","g":{"x":1}}`, string(got))
	})

	t.Run("marshal error is sticky", func(t *testing.T) {
		var w jsonObjectWriter
		w.Append("f", func() {})
		w.Append("a", 1)
		_, err := w.MarshalJSON()
		assert.Error(t, err)
	})
}
