// Package config loads operalote settings from an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/dendrascience/operalote/lot"
	"github.com/dendrascience/operalote/migrate"
	"github.com/dendrascience/operalote/naming"
	"github.com/dendrascience/operalote/records"
	"github.com/dendrascience/operalote/tree"
)

const (
	fileName = "operalote"
	fileType = "yaml"
)

// ErrInvalidConfig wraps every validation failure returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Year controls the suffix appended to the date field of matched records.
type Year struct {
	Enabled bool   `mapstructure:"enabled"`
	Value   string `mapstructure:"value"`
}

// Log selects the logger level and encoding.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Config mirrors the keys of operalote.yaml.
type Config struct {
	Width           int               `mapstructure:"width"`
	ConventionWidth int               `mapstructure:"convention_width"`
	SequenceWidth   int               `mapstructure:"sequence_width"`
	MinRun          int               `mapstructure:"min_run"`
	MinRecordDir    int               `mapstructure:"min_record_dir"`
	EvidenceDir     string            `mapstructure:"evidence_dir"`
	Manifest        string            `mapstructure:"manifest"`
	ImageExt        string            `mapstructure:"image_ext"`
	TextExt         string            `mapstructure:"text_ext"`
	Delimiter       string            `mapstructure:"delimiter"`
	Placeholder     string            `mapstructure:"placeholder"`
	DefaultPrefix   string            `mapstructure:"default_prefix"`
	Year            Year              `mapstructure:"year"`
	Codes           map[string]string `mapstructure:"codes"`
	Log             Log               `mapstructure:"log"`
}

// DefaultCodes describes the infraction codes seen in the field.
var DefaultCodes = map[string]string{
	"5673": "PARADO SOBRE A FAIXA DE PEDESTRE",
	"6050": "AVANÇO DE SINAL VERMELHO",
	"7587": "TRANSITAR EM FAIXA EXCLUSIVA",
}

func setDefaults(v *viper.Viper) {
	n := naming.DefaultOptions()
	l := tree.DefaultLayout()
	v.SetDefault("width", n.Width)
	v.SetDefault("convention_width", n.ConventionWidth)
	v.SetDefault("sequence_width", n.SequenceWidth)
	v.SetDefault("min_run", n.MinRun)
	v.SetDefault("min_record_dir", l.MinRecordDir)
	v.SetDefault("evidence_dir", l.EvidenceDir)
	v.SetDefault("manifest", l.Manifest)
	v.SetDefault("image_ext", n.ImageExt)
	v.SetDefault("text_ext", n.TextExt)
	v.SetDefault("delimiter", ";")
	v.SetDefault("placeholder", n.Placeholder)
	v.SetDefault("default_prefix", n.DefaultPrefix)
	v.SetDefault("year.enabled", true)
	v.SetDefault("year.value", "2023")
	v.SetDefault("codes", DefaultCodes)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Default returns the built-in configuration.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	// Defaults always decode.
	_ = v.Unmarshal(&c)
	return c
}

// Load reads path, or searches for operalote.yaml in the working directory
// and $HOME/.config/operalote when path is empty. A missing file in the
// search path is not an error; an explicit path must exist.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(fileName)
		v.SetConfigType(fileType)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "operalote"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return c, c.Validate()
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf(format, args...))
		}
	}
	check(c.Width >= 1, "width must be positive, got %d", c.Width)
	check(c.ConventionWidth >= 1, "convention_width must be positive, got %d", c.ConventionWidth)
	check(c.SequenceWidth >= 0, "sequence_width must not be negative, got %d", c.SequenceWidth)
	check(c.MinRun >= 1, "min_run must be positive, got %d", c.MinRun)
	check(c.MinRecordDir >= 1, "min_record_dir must be positive, got %d", c.MinRecordDir)
	check(c.EvidenceDir != "", "evidence_dir must be set")
	check(c.Manifest != "", "manifest must be set")
	check(strings.HasPrefix(c.ImageExt, "."), "image_ext must start with a dot, got %q", c.ImageExt)
	check(strings.HasPrefix(c.TextExt, "."), "text_ext must start with a dot, got %q", c.TextExt)
	check(c.Delimiter != "", "delimiter must be set")
	check(len(c.DefaultPrefix) == 1, "default_prefix must be one letter, got %q", c.DefaultPrefix)
	check(!c.Year.Enabled || lot.IsDigits(c.Year.Value), "year.value must be digits, got %q", c.Year.Value)
	check(c.Log.Format == "json" || c.Log.Format == "console", "log.format must be json or console, got %q", c.Log.Format)
	if _, err := zap.ParseAtomicLevel(c.Log.Level); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("log.level: %w", err))
	}
	for code := range c.Codes {
		check(lot.IsDigits(code), "codes key %q is not an infraction code", code)
	}
	if errs != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errs)
	}
	return nil
}

// Engine converts the configuration into migration engine options.
func (c Config) Engine() migrate.Options {
	return migrate.Options{
		Naming: naming.Options{
			Width:           c.Width,
			ConventionWidth: c.ConventionWidth,
			SequenceWidth:   c.SequenceWidth,
			MinRun:          c.MinRun,
			Placeholder:     c.Placeholder,
			DefaultPrefix:   c.DefaultPrefix,
			TextExt:         c.TextExt,
			ImageExt:        c.ImageExt,
		},
		Layout: tree.Layout{
			Width:        c.Width,
			MinRecordDir: c.MinRecordDir,
			EvidenceDir:  c.EvidenceDir,
			Manifest:     c.Manifest,
		},
		Records: records.Config{
			Delimiter: c.Delimiter,
			Year:      records.Year{Enabled: c.Year.Enabled, Value: c.Year.Value},
		},
	}
}

// Describe returns the configured description of an infraction code.
func (c Config) Describe(code string) string {
	if d, ok := c.Codes[code]; ok {
		return d
	}
	return "code " + code
}
