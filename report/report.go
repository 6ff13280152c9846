// Package report records per-item outcomes of a lot migration.
//
// A migration never stops at the first failing file. Every rename, merge,
// collision, malformed record and I/O failure is appended to a Report so the
// caller can inspect partial success deterministically afterwards.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// Kind classifies one outcome.
type Kind string

const (
	Renamed   Kind = "renamed"   // directory or file moved to its new name
	Merged    Kind = "merged"    // directory contents moved into an existing target
	Extracted Kind = "extracted" // lot archive unpacked
	Rewritten Kind = "rewritten" // text file content replaced
	Collision Kind = "collision" // destination file existed, item skipped
	Vanished  Kind = "vanished"  // source already gone, treated as done
	Malformed Kind = "malformed" // record with too few fields
	Failed    Kind = "failed"    // I/O failure, item skipped
)

// Step names the engine stage that produced an entry.
type Step string

const (
	StepExtract     Step = "extract"
	StepRestructure Step = "restructure"
	StepRename      Step = "rename"
	StepRewrite     Step = "rewrite"
	StepEditCodes   Step = "edit-codes"
	StepManifest    Step = "manifest"
)

// Entry is one outcome.
type Entry struct {
	Kind   Kind   `json:"kind"`
	Step   Step   `json:"step"`
	Path   string `json:"path"`
	Target string `json:"target,omitempty"`
	Detail string `json:"detail,omitempty"`
	Err    error  `json:"-"`
}

func (e Entry) String() string {
	s := fmt.Sprintf("%s %s %s", e.Step, e.Kind, e.Path)
	if e.Target != "" {
		s += " -> " + e.Target
	}
	if e.Detail != "" {
		s += " (" + e.Detail + ")"
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Report is the ordered list of outcomes of one run.
type Report struct {
	RunID    string
	From     string
	To       string
	Started  time.Time
	Finished time.Time
	entries  []Entry
}

// New starts a report for a run moving lot from to lot to.
func New(from, to string) *Report {
	return &Report{
		RunID:   uuid.New().String(),
		From:    from,
		To:      to,
		Started: time.Now().UTC(),
	}
}

// Add appends an entry.
func (r *Report) Add(e Entry) {
	r.entries = append(r.entries, e)
}

// Fail records an I/O failure for path.
func (r *Report) Fail(step Step, path string, err error) {
	r.Add(Entry{Kind: Failed, Step: step, Path: path, Err: err})
}

// Finish stamps the completion time.
func (r *Report) Finish() {
	r.Finished = time.Now().UTC()
}

// Len returns the number of entries.
func (r *Report) Len() int {
	return len(r.entries)
}

// Iterate yields entries in insertion order.
func (r *Report) Iterate(yield func(Entry) bool) {
	for _, e := range r.entries {
		if !yield(e) {
			return
		}
	}
}

// Entries returns a copy of the entries of the given kinds, or all entries
// when no kind is given.
func (r *Report) Entries(kinds ...Kind) []Entry {
	var out []Entry
	for _, e := range r.entries {
		if len(kinds) == 0 || hasKind(kinds, e.Kind) {
			out = append(out, e)
		}
	}
	return out
}

// Count returns the number of entries of kind k.
func (r *Report) Count(k Kind) int {
	n := 0
	for _, e := range r.entries {
		if e.Kind == k {
			n++
		}
	}
	return n
}

// Err combines every Failed entry into one error, nil when there are none.
func (r *Report) Err() error {
	var err error
	for _, e := range r.entries {
		if e.Kind != Failed {
			continue
		}
		cause := e.Err
		if cause == nil {
			cause = fmt.Errorf("%s", e.Detail)
		}
		err = multierr.Append(err, fmt.Errorf("%s %s: %w", e.Step, e.Path, cause))
	}
	return err
}

func hasKind(kinds []Kind, k Kind) bool {
	for _, want := range kinds {
		if want == k {
			return true
		}
	}
	return false
}

type jsonEntry struct {
	Entry
	Error string `json:"error,omitempty"`
}

func (r *Report) MarshalJSON() ([]byte, error) {
	entries := make([]jsonEntry, 0, len(r.entries))
	for _, e := range r.entries {
		je := jsonEntry{Entry: e}
		if e.Err != nil {
			je.Error = e.Err.Error()
		}
		entries = append(entries, je)
	}
	return json.Marshal(struct {
		RunID    string      `json:"run_id"`
		From     string      `json:"from"`
		To       string      `json:"to"`
		Started  time.Time   `json:"started"`
		Finished time.Time   `json:"finished"`
		Entries  []jsonEntry `json:"entries"`
	}{r.RunID, r.From, r.To, r.Started, r.Finished, entries})
}

// Save writes the report as JSON to path.
func (r *Report) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
