// Package storage provides the key-value stores behind the custom network
// registry. Generated wallets are never written here.
package storage

import "errors"

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("key not found")

// DB is the interface for key-value storage.
type DB interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	Has(key []byte) (bool, error)
	// ForEach calls fn for every key under prefix in ascending key order.
	// The callback receives copies. A non-nil error from fn stops the walk
	// and is returned.
	ForEach(prefix []byte, fn func(key, value []byte) error) error
	Close() error
}

// PrefixDropper is implemented by stores that can remove every key under a
// prefix in one call.
type PrefixDropper interface {
	DropPrefix(prefix []byte) error
}
