package storage

import "errors"

var ErrNotFound = errors.New("key not found")

// KV is the local key/value state. Values are JSON documents.
type KV interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

const (
	KeyUserID          = "user-id"
	KeyTransactions    = "stock-transactions"
	KeyProfiles        = "user-profiles"
	KeyAutoRefresh     = "auto-refresh"
	KeyRefreshInterval = "refresh-interval"
)
