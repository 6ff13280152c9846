package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, 7, c.Width)
	assert.Equal(t, 5, c.ConventionWidth)
	assert.Equal(t, 6, c.SequenceWidth)
	assert.Equal(t, "AITs", c.EvidenceDir)
	assert.Equal(t, "md5sum.txt", c.Manifest)
	assert.Equal(t, ";", c.Delimiter)
	assert.Equal(t, "L00125", c.Placeholder)
	assert.True(t, c.Year.Enabled)
	assert.Equal(t, "2023", c.Year.Value)
	assert.Equal(t, "AVANÇO DE SINAL VERMELHO", c.Describe("6050"))
	assert.Equal(t, "code 1234", c.Describe("1234"))
}

func TestLoad_FileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "operalote.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
width: 8
year:
  enabled: false
log:
  format: json
codes:
  "1234": "TESTE"
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, c.Width)
	assert.False(t, c.Year.Enabled)
	assert.Equal(t, "json", c.Log.Format)
	assert.Equal(t, "TESTE", c.Describe("1234"))
	assert.Equal(t, "md5sum.txt", c.Manifest)

	opts := c.Engine()
	assert.Equal(t, 8, opts.Naming.Width)
	assert.Equal(t, 8, opts.Layout.Width)
	assert.False(t, opts.Records.Year.Enabled)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_SearchPathWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"negative sequence width", func(c *Config) { c.SequenceWidth = -1 }},
		{"empty delimiter", func(c *Config) { c.Delimiter = "" }},
		{"extension without dot", func(c *Config) { c.ImageExt = "jpg" }},
		{"non-digit year", func(c *Config) { c.Year.Value = "20x3" }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
		{"long prefix", func(c *Config) { c.DefaultPrefix = "LT" }},
		{"non-digit code", func(c *Config) { c.Codes = map[string]string{"ab": "x"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			assert.ErrorIs(t, c.Validate(), ErrInvalidConfig)
		})
	}

	t.Run("year disabled allows empty value", func(t *testing.T) {
		c := Default()
		c.Year = Year{}
		assert.NoError(t, c.Validate())
	})
}
