package naming

import (
	"path/filepath"
	"strings"

	"github.com/dendrascience/operalote/lot"
)

// Rule identifies which entry of the rule table decided a name.
type Rule int

// Rules in precedence order. The first rule whose match succeeds wins.
const (
	RuleNone Rule = iota
	RulePlaceholder
	RuleLettered
	RuleBareLotText
	RuleDigitRun
	RuleSubstring
)

var ruleNames = map[Rule]string{
	RuleNone:        "none",
	RulePlaceholder: "placeholder",
	RuleLettered:    "lettered",
	RuleBareLotText: "bare-lot-text",
	RuleDigitRun:    "digit-run",
	RuleSubstring:   "substring",
}

func (r Rule) String() string {
	if s, ok := ruleNames[r]; ok {
		return s
	}
	return "unknown"
}

// Match is the outcome of classifying one base name against the old lot.
// Start and End delimit the bytes of the name the rule replaces.
type Match struct {
	Rule  Rule
	Start int
	End   int
}

type rule struct {
	kind  Rule
	match func(o Options, name string, old lot.ID) (Match, bool)
	apply func(o Options, name string, m Match, old, to lot.ID) string
}

// table is evaluated top to bottom.
var table = []rule{
	{RulePlaceholder, matchPlaceholder, applyPlaceholder},
	{RuleLettered, matchLettered, applyLettered},
	{RuleBareLotText, matchBareLotText, applyBareLotText},
	{RuleDigitRun, matchDigitRun, applyDigitRun},
	{RuleSubstring, matchSubstring, applySubstring},
}

func splitExt(name string) (stem, ext string) {
	ext = filepath.Ext(name)
	return name[:len(name)-len(ext)], ext
}

func matchPlaceholder(o Options, name string, _ lot.ID) (Match, bool) {
	if o.Placeholder == "" {
		return Match{}, false
	}
	stem, ext := splitExt(name)
	if strings.EqualFold(stem, o.Placeholder) && strings.EqualFold(ext, o.TextExt) {
		return Match{Rule: RulePlaceholder, Start: 0, End: len(stem)}, true
	}
	return Match{}, false
}

func applyPlaceholder(o Options, name string, m Match, _, to lot.ID) string {
	return to.Lettered(o.DefaultPrefix, o.ConventionWidth) + name[m.End:]
}

// matchLettered finds a letter that starts a word and is followed by a digit
// run of at least ConventionWidth digits numerically equal to old.
func matchLettered(o Options, name string, old lot.ID) (Match, bool) {
	for _, run := range digitRuns(name) {
		if run.start == 0 || run.len() < o.ConventionWidth {
			continue
		}
		if !lettered(name, run) {
			continue
		}
		if lot.Trim(name[run.start:run.end]) == old.Trimmed() {
			return Match{Rule: RuleLettered, Start: run.start - 1, End: run.end}, true
		}
	}
	return Match{}, false
}

func applyLettered(o Options, name string, m Match, _, to lot.ID) string {
	return name[:m.Start] + to.Lettered(name[m.Start:m.Start+1], o.ConventionWidth) + name[m.End:]
}

func matchBareLotText(o Options, name string, old lot.ID) (Match, bool) {
	stem, ext := splitExt(name)
	if !strings.EqualFold(ext, o.TextExt) || !lot.IsDigits(stem) {
		return Match{}, false
	}
	if lot.Trim(stem) != old.Trimmed() {
		return Match{}, false
	}
	return Match{Rule: RuleBareLotText, Start: 0, End: len(stem)}, true
}

func applyBareLotText(o Options, name string, m Match, _, to lot.ID) string {
	if to.HasPrefix() {
		return to.FullForm() + name[m.End:]
	}
	return to.Canonical(o.Width) + name[m.End:]
}

// matchDigitRun selects the longest run of at least MinRun digits whose value,
// leading zeros stripped, starts with the trimmed old payload.
func matchDigitRun(o Options, name string, old lot.ID) (Match, bool) {
	want := old.Trimmed()
	best := span{-1, -1}
	for _, run := range digitRuns(name) {
		if run.len() < o.MinRun {
			continue
		}
		if !strings.HasPrefix(lot.Trim(name[run.start:run.end]), want) {
			continue
		}
		if run.len() > best.len() {
			best = run
		}
	}
	if best.start < 0 {
		return Match{}, false
	}
	return Match{Rule: RuleDigitRun, Start: best.start, End: best.end}, true
}

func applyDigitRun(o Options, name string, m Match, old, to lot.ID) string {
	trimmed := old.Trimmed()
	remainder := lot.Trim(name[m.Start:m.End])[len(trimmed):]
	remainder = stripEcho(remainder, trimmed, o.SequenceWidth)
	return name[:m.Start] + to.Canonical(o.Width) + remainder + name[m.End:]
}

// stripEcho removes the longest trailing slice of trimmed that the remainder
// starts with, provided at least minLeft digits survive.
func stripEcho(remainder, trimmed string, minLeft int) string {
	for k := min(len(trimmed), len(remainder)); k > 0; k-- {
		if len(remainder)-k < minLeft {
			continue
		}
		if remainder[:k] == trimmed[len(trimmed)-k:] {
			return remainder[k:]
		}
	}
	return remainder
}

func matchSubstring(o Options, name string, old lot.ID) (Match, bool) {
	canon := old.Canonical(o.Width)
	i := strings.Index(name, canon)
	if i < 0 {
		return Match{}, false
	}
	return Match{Rule: RuleSubstring, Start: i, End: i + len(canon)}, true
}

func applySubstring(o Options, name string, m Match, _, to lot.ID) string {
	return name[:m.Start] + to.Canonical(o.Width) + name[m.End:]
}

type span struct {
	start, end int
}

func (s span) len() int {
	return s.end - s.start
}

// digitRuns returns the maximal runs of ASCII digits in s.
func digitRuns(s string) []span {
	var runs []span
	start := -1
	for i := 0; i < len(s); i++ {
		isDigit := s[i] >= '0' && s[i] <= '9'
		switch {
		case isDigit && start < 0:
			start = i
		case !isDigit && start >= 0:
			runs = append(runs, span{start, i})
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, span{start, len(s)})
	}
	return runs
}

// lettered reports whether run is introduced by a letter that starts a word.
func lettered(s string, run span) bool {
	letter := run.start - 1
	if letter < 0 || !isASCIILetter(s[letter]) {
		return false
	}
	return letter == 0 || !isASCIILetter(s[letter-1])
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
