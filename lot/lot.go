package lot

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultWidth is the canonical padding width of a lot payload.
const DefaultWidth = 7

// ConventionWidth is the digit width used by letter-prefixed names such as "L03313".
const ConventionWidth = 5

// ID is a parsed lot identifier.
type ID struct {
	Prefix string // single letter, empty when the identifier is bare
	Digits string // numeric payload exactly as typed, leading zeros kept
}

// Parse splits raw into prefix and payload. A leading letter becomes the
// prefix; everything after it must be a non-empty run of ASCII digits.
func Parse(raw string) (ID, error) {
	s := strings.TrimSpace(raw)
	var id ID
	if r, size := utf8.DecodeRuneInString(s); size > 0 && unicode.IsLetter(r) {
		id.Prefix = s[:size]
		s = s[size:]
	}
	if s == "" {
		return ID{}, fmt.Errorf("%w: %q has no numeric payload", ErrInvalidIdentifier, raw)
	}
	if !IsDigits(s) {
		return ID{}, fmt.Errorf("%w: %q payload must be digits only", ErrInvalidIdentifier, raw)
	}
	id.Digits = s
	return id, nil
}

// MustParse is Parse for literals known to be valid. It panics on error.
func MustParse(raw string) ID {
	id, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return id
}

// FullForm returns prefix and payload as typed.
func (id ID) FullForm() string {
	return id.Prefix + id.Digits
}

func (id ID) String() string {
	return id.FullForm()
}

// Canonical returns the payload left-padded with zeros to width. A payload
// already at or above width is returned unchanged; padding never truncates.
func (id ID) Canonical(width int) string {
	return Pad(id.Digits, width)
}

// Trimmed returns the payload without leading zeros. An all-zero payload maps to "0".
func (id ID) Trimmed() string {
	return Trim(id.Digits)
}

// Lettered returns the letter-prefixed convention form: the identifier's own
// prefix, or fallback when it has none, followed by the trimmed payload padded
// to width.
func (id ID) Lettered(fallback string, width int) string {
	prefix := id.Prefix
	if prefix == "" {
		prefix = fallback
	}
	return prefix + Pad(id.Trimmed(), width)
}

// HasPrefix reports whether the identifier carries a letter prefix.
func (id ID) HasPrefix() bool {
	return id.Prefix != ""
}

// NumericallyEqual reports whether a and b name the same lot regardless of
// padding or prefix.
func NumericallyEqual(a, b ID) bool {
	return a.Trimmed() == b.Trimmed()
}

// Pad left-pads a digit string with zeros to width.
func Pad(digits string, width int) string {
	if len(digits) >= width {
		return digits
	}
	return strings.Repeat("0", width-len(digits)) + digits
}

// Trim strips leading zeros from a digit string. The empty and all-zero
// strings map to "0".
func Trim(digits string) string {
	t := strings.TrimLeft(digits, "0")
	if t == "" {
		return "0"
	}
	return t
}

// IsDigits reports whether s is a non-empty string of ASCII digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
