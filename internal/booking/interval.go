package booking

import (
	"fmt"
	"time"
)

// Interval is a half-open date range [CheckIn, CheckOut) at day granularity.
// A reservation ending on day D and another beginning on day D do not
// overlap: the checkout day is reusable the same day.
type Interval struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// Day truncates t to UTC midnight. All interval arithmetic operates on
// day-truncated values; clock times never participate in exclusivity.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NewInterval builds a day-truncated interval without validating it.
func NewInterval(checkIn, checkOut time.Time) Interval {
	return Interval{CheckIn: Day(checkIn), CheckOut: Day(checkOut)}
}

// Validate rejects malformed intervals. Zero-length stays are not allowed.
func (iv Interval) Validate() error {
	if iv.CheckIn.IsZero() || iv.CheckOut.IsZero() {
		return &ValidationError{Reason: "check-in and check-out dates are required"}
	}
	if !iv.CheckIn.Before(iv.CheckOut) {
		return &ValidationError{Reason: fmt.Sprintf(
			"check-out %s must be after check-in %s",
			iv.CheckOut.Format(dateLayout), iv.CheckIn.Format(dateLayout))}
	}
	return nil
}

// Overlaps is the single overlap primitive for the whole system. Every
// conflict and availability computation routes through it; never re-derive
// the boolean expression at a call site.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(iv.CheckOut)
}

// Contains reports whether the given day falls inside [CheckIn, CheckOut).
func (iv Interval) Contains(day time.Time) bool {
	day = Day(day)
	return !day.Before(iv.CheckIn) && day.Before(iv.CheckOut)
}

// Nights is the stay length in nights.
func (iv Interval) Nights() int {
	return int(iv.CheckOut.Sub(iv.CheckIn).Hours() / 24)
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%s, %s)", iv.CheckIn.Format(dateLayout), iv.CheckOut.Format(dateLayout))
}

const dateLayout = "2006-01-02"
