package migrate

import "errors"

var (
	// ErrLotLocked is returned when another process holds the root lock.
	ErrLotLocked = errors.New("lot root is locked by another process")
	// ErrLotNotFound is returned when neither the lot directory nor its
	// archive exists.
	ErrLotNotFound = errors.New("lot not found")
	// ErrManifestChanged marks a manifest whose content differs after a run.
	ErrManifestChanged = errors.New("manifest content changed")
)
