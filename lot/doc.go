// Package lot models traffic-infraction lot identifiers.
//
// A lot identifier is an optional single letter prefix followed by a numeric
// payload, e.g. "L03313" or "0003313". Identifiers are fixed-width codes, not
// numbers: every comparison and transformation in this package works on the
// decimal string, never on integers, because leading zeros carry meaning.
//
// Derived forms:
//   - FullForm: prefix + payload as typed ("L03313"). Names the lot root directory.
//   - Canonical: payload left-padded to a fixed width, 7 by default ("0003313").
//     Names the record directory and is embedded in every asset name.
//   - Trimmed: payload with leading zeros removed ("3313"). Two identifiers are
//     numerically equal when their trimmed forms match.
//   - Lettered: prefix (or a default letter) + payload padded to the short
//     convention width ("L03313"). Used for legacy letter-prefixed text names.
//
// All functions are pure and deterministic.
package lot
