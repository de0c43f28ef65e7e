// Package store holds the process-wide in-memory state. Nothing here is
// durable; a restart resets the profile to its seed and empties the
// alert/warning lists.
package store

import "errors"

var ErrNotFound = errors.New("record not found")
