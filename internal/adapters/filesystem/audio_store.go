// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/telephone/internal/ports/secondary"
)

// AudioStore implements secondary.AudioStore on the local filesystem.
//
// Recordings live under a single media root in the canonical layout
// game-{game}/chain-{chain}/{generation}.wav. Fork branches can land two
// recordings on the same generation, so Save deduplicates names rather
// than overwrite.
type AudioStore struct {
	mediaRoot string
}

// NewAudioStore creates a new filesystem audio store rooted at mediaRoot.
func NewAudioStore(mediaRoot string) (*AudioStore, error) {
	if mediaRoot == "" {
		return nil, fmt.Errorf("media root is required")
	}
	if err := os.MkdirAll(mediaRoot, 0755); err != nil {
		return nil, fmt.Errorf("failed to create media root: %w", err)
	}
	return &AudioStore{mediaRoot: mediaRoot}, nil
}

// Save writes a recording at relPath, picking an alternate name if the
// path is already taken. Returns the relative path actually used.
func (s *AudioStore) Save(ctx context.Context, relPath string, r io.Reader) (string, error) {
	stored, err := s.availablePath(relPath)
	if err != nil {
		return "", err
	}

	full := filepath.Join(s.mediaRoot, filepath.FromSlash(stored))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return "", fmt.Errorf("failed to create audio directory: %w", err)
	}

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create audio file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(full)
		return "", fmt.Errorf("failed to write audio file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close audio file: %w", err)
	}

	return stored, nil
}

// Open opens a stored recording for reading.
func (s *AudioStore) Open(ctx context.Context, relPath string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.mediaRoot, filepath.FromSlash(relPath)))
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	return f, nil
}

// Remove deletes a stored recording. Removing a missing path is not an error.
func (s *AudioStore) Remove(ctx context.Context, relPath string) error {
	err := os.Remove(filepath.Join(s.mediaRoot, filepath.FromSlash(relPath)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove audio file: %w", err)
	}
	return nil
}

// availablePath returns relPath if unused, otherwise the first
// {stem}-{n}{ext} variant that is.
func (s *AudioStore) availablePath(relPath string) (string, error) {
	candidate := relPath
	ext := filepath.Ext(relPath)
	stem := strings.TrimSuffix(relPath, ext)

	for n := 1; ; n++ {
		full := filepath.Join(s.mediaRoot, filepath.FromSlash(candidate))
		if _, err := os.Stat(full); os.IsNotExist(err) {
			return candidate, nil
		} else if err != nil {
			return "", fmt.Errorf("failed to probe audio path: %w", err)
		}
		candidate = fmt.Sprintf("%s-%d%s", stem, n, ext)
	}
}

// Ensure AudioStore implements the interface
var _ secondary.AudioStore = (*AudioStore)(nil)
