package lot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    ID
		wantErr bool
	}{
		{name: "letter prefix", raw: "L03313", want: ID{Prefix: "L", Digits: "03313"}},
		{name: "bare payload", raw: "0003313", want: ID{Digits: "0003313"}},
		{name: "lowercase prefix", raw: "l125", want: ID{Prefix: "l", Digits: "125"}},
		{name: "surrounding space", raw: "  L08685 ", want: ID{Prefix: "L", Digits: "08685"}},
		{name: "empty", raw: "", wantErr: true},
		{name: "prefix only", raw: "L", wantErr: true},
		{name: "two letters", raw: "LX0125", wantErr: true},
		{name: "embedded letter", raw: "L01a25", wantErr: true},
		{name: "sign", raw: "-0125", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidIdentifier), "error should wrap ErrInvalidIdentifier: %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDerivedForms(t *testing.T) {
	tests := []struct {
		raw       string
		full      string
		canonical string
		trimmed   string
		lettered  string
	}{
		{raw: "L03313", full: "L03313", canonical: "0003313", trimmed: "3313", lettered: "L03313"},
		{raw: "03889", full: "03889", canonical: "0003889", trimmed: "3889", lettered: "L03889"},
		{raw: "00126", full: "00126", canonical: "0000126", trimmed: "126", lettered: "L00126"},
		{raw: "0000000", full: "0000000", canonical: "0000000", trimmed: "0", lettered: "L00000"},
		{raw: "L123456789", full: "L123456789", canonical: "123456789", trimmed: "123456789", lettered: "L123456789"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			id := MustParse(tt.raw)
			assert.Equal(t, tt.full, id.FullForm())
			assert.Equal(t, tt.canonical, id.Canonical(DefaultWidth))
			assert.Equal(t, tt.trimmed, id.Trimmed())
			assert.Equal(t, tt.lettered, id.Lettered("L", ConventionWidth))
		})
	}
}

func TestNumericallyEqual(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"L03313", "0003313", true},
		{"3313", "00003313", true},
		{"L03313", "L05453", false},
		{"0", "0000", true},
		{"L00125", "M125", true},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, NumericallyEqual(MustParse(tt.a), MustParse(tt.b)))
		})
	}
}

func TestPadNeverTruncates(t *testing.T) {
	assert.Equal(t, "12345678", Pad("12345678", 7))
	assert.Equal(t, "0000001", Pad("1", 7))
	assert.Equal(t, "0000000", Pad("", 7))
}
