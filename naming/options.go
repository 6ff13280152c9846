package naming

import "github.com/dendrascience/operalote/lot"

// Options are the width and convention constants used by the rule table.
type Options struct {
	Width           int    // canonical payload width
	ConventionWidth int    // digit width of letter-prefixed names
	SequenceWidth   int    // digits in an asset sequence id; 0 disables the echo guard
	MinRun          int    // shortest digit run treated as an embedded identifier
	Placeholder     string // stem of the legacy placeholder text file
	DefaultPrefix   string // letter used when the new lot has no prefix
	TextExt         string
	ImageExt        string
}

// DefaultOptions returns the constants used by lots ingested in the field.
func DefaultOptions() Options {
	return Options{
		Width:           lot.DefaultWidth,
		ConventionWidth: lot.ConventionWidth,
		SequenceWidth:   6,
		MinRun:          5,
		Placeholder:     "L00125",
		DefaultPrefix:   "L",
		TextExt:         ".txt",
		ImageExt:        ".jpg",
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.ConventionWidth <= 0 {
		o.ConventionWidth = d.ConventionWidth
	}
	if o.SequenceWidth < 0 {
		o.SequenceWidth = 0
	}
	if o.MinRun <= 0 {
		o.MinRun = d.MinRun
	}
	if o.DefaultPrefix == "" {
		o.DefaultPrefix = d.DefaultPrefix
	}
	if o.TextExt == "" {
		o.TextExt = d.TextExt
	}
	if o.ImageExt == "" {
		o.ImageExt = d.ImageExt
	}
	return o
}
