package booking

import "time"

// DateLayout is the wire format for booking dates.
const DateLayout = "2006-01-02"

// ParseDate parses an ISO-8601 calendar day. The result is midnight
// UTC; bookings are whole-day, so no time component is ever carried.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// today truncates now to midnight UTC for day comparisons.
func today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
