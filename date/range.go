package date

// Range is an interval of days, both ends included.
type Range struct{ From, To Date }

// Contains reports whether d is within the range.
func (r Range) Contains(d Date) bool { return !d.Before(r.From) && !d.After(r.To) }

// Days returns the number of days in the range, both ends included.
func (r Range) Days() int { return r.To.DaysSince(r.From) + 1 }

func (r Range) String() string { return r.From.String() + ".." + r.To.String() }
