package models

import "time"

// All timestamps cross the wire as ISO-8601 strings, which is what the
// companion app's frontend parses.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Now returns the current time as a wire timestamp.
func Now() string {
	return Timestamp(time.Now())
}
