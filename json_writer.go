package folio

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
)

// jsonObjectWriter builds a JSON object whose keys keep the order they were
// written in. Its zero value is an empty object.
type jsonObjectWriter struct {
	buf []byte
	err error
}

// Append writes key with the JSON encoding of value.
func (w *jsonObjectWriter) Append(key string, value any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	v, err := json.Marshal(value)
	if err != nil {
		w.err = fmt.Errorf("marshaling %q: %w", key, err)
		return w
	}
	if len(w.buf) > 0 {
		w.buf = append(w.buf, ',')
	}
	w.buf = strconv.AppendQuote(w.buf, key)
	w.buf = append(w.buf, ':')
	w.buf = append(w.buf, v...)
	return w
}

// Optional is Append, skipped for empty values: zero values, empty slices and
// empty maps. A value with an IsZero method decides for itself, a zero decimal
// is not the Go zero value.
func (w *jsonObjectWriter) Optional(key string, value any) *jsonObjectWriter {
	if empty(value) {
		return w
	}
	return w.Append(key, value)
}

func empty(value any) bool {
	if z, ok := value.(interface{ IsZero() bool }); ok {
		return z.IsZero()
	}
	v := reflect.ValueOf(value)
	switch {
	case !v.IsValid():
		return true
	case v.Kind() == reflect.Slice, v.Kind() == reflect.Map:
		return v.Len() == 0
	}
	return v.IsZero()
}

// MarshalJSON returns the object, or the first marshaling error.
func (w *jsonObjectWriter) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	res := make([]byte, 0, len(w.buf)+2)
	res = append(res, '{')
	res = append(res, w.buf...)
	return append(res, '}'), nil
}
