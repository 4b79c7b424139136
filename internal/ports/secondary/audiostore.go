package secondary

import (
	"context"
	"io"
)

// AudioStore defines the secondary port for recorded-audio blob storage.
//
// Paths are relative to the store's media root and follow the canonical
// layout game-{game}/chain-{chain}/{generation}.wav. Fork branches can
// produce two recordings at the same generation, so Save reports the path
// actually used after collision handling.
type AudioStore interface {
	// Save writes a recording at the requested relative path, deduplicating
	// the name if the path is already taken. Returns the stored path.
	Save(ctx context.Context, relPath string, r io.Reader) (string, error)

	// Open opens a stored recording for reading.
	Open(ctx context.Context, relPath string) (io.ReadCloser, error)

	// Remove deletes a stored recording. Removing a missing path is not an error.
	Remove(ctx context.Context, relPath string) error
}
