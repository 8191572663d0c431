package state

import "time"

// NewStoreWithRetry creates a store with a custom lock retry interval.
func NewStoreWithRetry(retry time.Duration) *Store {
	return &Store{lockRetry: retry}
}
