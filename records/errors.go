// Package records rewrites the delimited infraction records of a lot and
// tallies or edits their terminal infraction codes.
//
// A record is one line of a text file:
//
//	<lot>;<route/date code>[/<year>];<metadata and image names...>;<code>
//
// Manifest files are never read or written by this package.
package records

import "errors"

var (
	// ErrMalformedRecord marks a line with fewer than two fields.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrInvalidCode is returned when an infraction code is not all digits.
	ErrInvalidCode = errors.New("infraction code must be digits")
)
