package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key is absent from the store.
var ErrNotFound = errors.New("key not found")

// UpdateFunc transforms the current document into its replacement.
// It receives the stored bytes and returns the bytes to write back.
type UpdateFunc func(current []byte) ([]byte, error)

// DocStore is a key-addressed document store. Documents are opaque JSON
// blobs; the typed repositories own their schema.
//
// The store is scan-oriented: there are no secondary indexes, so every
// filtered read walks the full key space under a prefix. This is an O(n)
// cost per query, acceptable at small-to-moderate corpus sizes.
type DocStore interface {
	// Get returns the document at key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Scan returns all documents whose key starts with prefix.
	Scan(ctx context.Context, prefix string) ([][]byte, error)

	// Put inserts or replaces the document at key.
	Put(ctx context.Context, key string, doc []byte) error

	// Update applies fn to the document at key and writes the result back.
	// Returns ErrNotFound when the key is absent. Whether the
	// read-modify-write is atomic depends on the backend; see the backend
	// docs for which ones close the race.
	Update(ctx context.Context, key string, fn UpdateFunc) ([]byte, error)

	// Delete removes the document at key. Reports whether it existed.
	Delete(ctx context.Context, key string) (bool, error)
}
