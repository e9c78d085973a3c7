package date

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRange_Contains(t *testing.T) {
	r := Range{From: New(2023, time.July, 1), To: New(2024, time.June, 30)}
	assert.True(t, r.Contains(New(2023, time.July, 1)))
	assert.True(t, r.Contains(New(2024, time.June, 30)))
	assert.False(t, r.Contains(New(2024, time.July, 1)))
	assert.False(t, r.Contains(New(2023, time.June, 30)))
	assert.Equal(t, 366, r.Days())
	assert.Equal(t, "2023-07-01..2024-06-30", r.String())
}

func TestPeriod_PeriodsPerYear(t *testing.T) {
	want := map[Period]int{Daily: 252, Weekly: 52, Monthly: 12, Quarterly: 4, Yearly: 1}
	for p, n := range want {
		assert.Equal(t, n, p.PeriodsPerYear(), p.String())
	}
}

func TestPeriod_Text(t *testing.T) {
	var p Period
	require.NoError(t, p.UnmarshalText([]byte("Monthly")))
	assert.Equal(t, Monthly, p)

	b, err := Quarterly.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "quarterly", string(b))

	assert.Error(t, p.UnmarshalText([]byte("fortnightly")))

	p, err = ParsePeriod(" Annual ")
	require.NoError(t, err)
	assert.Equal(t, Yearly, p)

	_, err = Period(9).MarshalText()
	assert.Error(t, err)
	assert.Panics(t, func() { Period(9).PeriodsPerYear() })
}
