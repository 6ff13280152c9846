// Package tree reconciles the on-disk layout of a lot: it classifies paths,
// renames and merges the lot root and record directories, renames evidence
// assets with the naming rules and extracts zipped lots.
package tree

import "errors"

// Sentinel errors for package tree.
var (
	// ErrDestinationExists is returned when both the old and the new lot roots exist.
	ErrDestinationExists = errors.New("destination lot directory already exists")
	// ErrPathVanished marks a source that disappeared mid-walk. It is treated
	// as already satisfied and never surfaced by Migrate.
	ErrPathVanished = errors.New("path vanished during walk")
	// ErrUnsafeArchivePath is returned for zip entries that would land outside
	// the extraction directory.
	ErrUnsafeArchivePath = errors.New("archive entry escapes destination")
	ErrExpectedDirectory = errors.New("expected directory but got file")
)
