package folio

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_String(t *testing.T) {
	tests := []struct {
		m    Money
		want string
	}{
		{M(1234.5, "USD"), "$1,234.50"},
		{M(0.125, "AUD"), "$0.13"},
		{M(-0.125, "AUD"), "-$0.13"},
		{M(10, ""), "10.00"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.m.String())
		})
	}
}

func TestMoney_Round(t *testing.T) {
	assert.Equal(t, "2.68", M(2.675, "USD").Round().Value().String())
	assert.Equal(t, "-2.68", M(-2.675, "USD").Round().Value().String())
	assert.Equal(t, "2.67", M(2.6749, "USD").Round().Value().String())
}

func TestMoney_Add(t *testing.T) {
	assert.True(t, M(1, "USD").Add(M(2, "")).Equal(M(3, "USD")))
	assert.Panics(t, func() { M(1, "USD").Add(M(1, "EUR")) })
}

func TestMoney_JSON(t *testing.T) {
	m, err := ParseMoney("12.3400", "AUD")
	require.NoError(t, err)
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"amount":"12.34","currency":"AUD"}`, string(data))

	var back Money
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, m.Equal(back))

	_, err = ParseMoney("12,34", "AUD")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestMoney_SignedString(t *testing.T) {
	assert.Equal(t, "+$5.00", M(5, "AUD").SignedString())
	assert.Equal(t, "-$5.00", M(-5, "AUD").SignedString())
	assert.Equal(t, "-", M(0, "AUD").SignedString())
}

func TestMoney_Compare(t *testing.T) {
	a, b := M(1, "AUD"), M(2, "AUD")
	assert.True(t, a.LessThan(b))
	assert.True(t, a.LessThanOrEqual(a))
	assert.True(t, b.GreaterThan(a))
	assert.True(t, b.GreaterThanOrEqual(b))
	assert.False(t, a.Equal(M(1, "USD")))
	assert.Equal(t, "7.5", M(15, "AUD").Div(Q(2)).Value().String())
}

func TestQuantity(t *testing.T) {
	q, err := ParseQuantity(" -3.5 ")
	require.NoError(t, err)
	assert.True(t, q.IsNegative())
	assert.True(t, q.Abs().Equal(Q(3.5)))
	assert.True(t, q.Add(Q(uint64(4))).Equal(Q(0.5)))

	data, err := json.Marshal(q)
	require.NoError(t, err)
	assert.Equal(t, `"-3.5"`, string(data))
	var back Quantity
	require.NoError(t, json.Unmarshal([]byte(`12`), &back))
	assert.True(t, back.Equal(Q(12)))

	_, err = ParseQuantity("ten")
	assert.ErrorIs(t, err, ErrValidation)
}
