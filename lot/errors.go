package lot

import "errors"

// ErrInvalidIdentifier is returned by Parse for an empty or non-numeric payload.
var ErrInvalidIdentifier = errors.New("invalid lot identifier")
