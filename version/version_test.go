package version

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetFullVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		commit  string
		date    string
		want    string
	}{
		{"all injected", "v1.2.0", "abc1234def", "2026-01-01", "v1.2.0 (abc1234, built 2026-01-01)"},
		{"no date", "v1.2.0", "abc1234def", "unknown", "v1.2.0 (abc1234)"},
		{"short commit", "v1.2.0", "abc", "2026-01-01", "v1.2.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldV, oldC, oldD := Version, Commit, Date
			t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })
			Version, Commit, Date = tt.version, tt.commit, tt.date

			assert.Equal(t, tt.want, GetFullVersion())
			assert.Equal(t, "operalote", GetInfo().Package)
		})
	}
}

func TestFprint(t *testing.T) {
	oldV, oldC, oldD := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })
	Version, Commit, Date = "v0.3.0", "0123456789", "2026-10-14"

	var buf bytes.Buffer
	Fprint(&buf, "operalote")
	assert.Equal(t, "operalote version v0.3.0 (0123456, built 2026-10-14)\n"+
		"Package: operalote\nCommit: 0123456789\nBuild Date: 2026-10-14\n", buf.String())
}
