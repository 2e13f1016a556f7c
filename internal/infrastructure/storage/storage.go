package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when the slot has never been written.
var ErrNotFound = errors.New("storage: slot not found")

// Storage is a single named slot holding an opaque serialized blob.
// The cart store writes the full cart state here after every mutation
// and reads it back once on startup.
type Storage interface {
	// Load returns the current contents of the slot, or ErrNotFound if
	// nothing has been saved yet.
	Load(ctx context.Context) ([]byte, error)

	// Save overwrites the slot with data.
	Save(ctx context.Context, data []byte) error
}
