package interfaces

import "context"

// KVStore is durable storage of string blobs under string keys. Values
// survive a process restart. There are no transactions across keys.
type KVStore interface {
	// Get returns the value stored under key. ok is false when the key has
	// never been written.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set overwrites the value stored under key
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the underlying storage
	Close() error
}
