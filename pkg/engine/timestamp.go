package engine

import "time"

// TimestampsEqual compares a backend commit timestamp against a
// client-side time. Distributed SQL backends report nanosecond
// precision while client values are often truncated, so after an
// exact comparison fails the values are compared at second
// resolution in UTC.
func TimestampsEqual(a, b time.Time) bool {
	if a.Equal(b) {
		return true
	}
	return a.UTC().Truncate(time.Second).Equal(b.UTC().Truncate(time.Second))
}
