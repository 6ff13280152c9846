package naming

import (
	"strings"

	"github.com/dendrascience/operalote/lot"
)

// Normalizer applies the rule table with a fixed set of Options.
type Normalizer struct {
	opts Options
}

// New returns a Normalizer. Zero-valued widths fall back to DefaultOptions.
func New(opts Options) *Normalizer {
	return &Normalizer{opts: opts.withDefaults()}
}

// Options returns the effective options.
func (n *Normalizer) Options() Options {
	return n.opts
}

// Classify returns the first rule in the table that applies to name.
func (n *Normalizer) Classify(name string, old lot.ID) Match {
	for _, r := range table {
		if m, ok := r.match(n.opts, name, old); ok {
			return m
		}
	}
	return Match{Rule: RuleNone}
}

// Matches reports whether name embeds old under any rule.
func (n *Normalizer) Matches(name string, old lot.ID) bool {
	return n.Classify(name, old).Rule != RuleNone
}

// Normalize returns the corrected base name, or name unchanged when no rule applies.
func (n *Normalizer) Normalize(name string, old, to lot.ID) string {
	out, _ := n.NormalizeRule(name, old, to)
	return out
}

// NormalizeRule is Normalize that also reports the deciding rule.
func (n *Normalizer) NormalizeRule(name string, old, to lot.ID) (string, Rule) {
	m := n.Classify(name, old)
	for _, r := range table {
		if r.kind == m.Rule {
			return r.apply(n.opts, name, m, old, to), m.Rule
		}
	}
	return name, RuleNone
}

// IsImage reports whether name carries the configured image extension.
func (n *Normalizer) IsImage(name string) bool {
	return hasExtFold(name, n.opts.ImageExt)
}

// IsText reports whether name carries the configured text extension.
func (n *Normalizer) IsText(name string) bool {
	return hasExtFold(name, n.opts.TextExt)
}

func hasExtFold(name, ext string) bool {
	if ext == "" || len(name) < len(ext) {
		return false
	}
	return strings.EqualFold(name[len(name)-len(ext):], ext)
}

// ReplaceEmbedded rewrites every digit run of s numerically equal to old.
// A run introduced by a word-initial letter keeps the letter and is padded to
// ConventionWidth; any other run becomes canonical(to). Runs shorter than
// MinRun are only touched when they spell old's payload exactly.
func (n *Normalizer) ReplaceEmbedded(s string, old, to lot.ID) string {
	var b strings.Builder
	last := 0
	for _, run := range digitRuns(s) {
		d := s[run.start:run.end]
		if lot.Trim(d) != old.Trimmed() || (run.len() < n.opts.MinRun && d != old.Digits) {
			continue
		}
		b.WriteString(s[last:run.start])
		if lettered(s, run) {
			b.WriteString(lot.Pad(to.Trimmed(), n.opts.ConventionWidth))
		} else {
			b.WriteString(to.Canonical(n.opts.Width))
		}
		last = run.end
	}
	if last == 0 {
		return s
	}
	b.WriteString(s[last:])
	return b.String()
}
