package generator

import "errors"

// Sentinel errors for the generator package
var (
	// ErrEmptyVolume indicates a directory has no recognized asset files
	ErrEmptyVolume = errors.New("no recognized asset files")

	// ErrNotDirectory indicates the batch root is not a directory
	ErrNotDirectory = errors.New("not a directory")
)
