package cgt

import (
	"time"

	"github.com/etnz/folio/date"
)

// TaxYear returns the Australian tax year of d, named after the calendar year
// it ends in: 2023-07-01 through 2024-06-30 is tax year 2024.
func TaxYear(d date.Date) int {
	if d.Month() >= time.July {
		return d.Year() + 1
	}
	return d.Year()
}

// TaxYearRange returns July 1 to June 30 of the tax year.
func TaxYearRange(year int) date.Range {
	return date.Range{
		From: date.New(year-1, time.July, 1),
		To:   date.New(year, time.July, 1).Add(-1),
	}
}
