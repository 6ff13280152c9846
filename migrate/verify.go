package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dendrascience/operalote/lot"
	"github.com/dendrascience/operalote/tree"
)

// Invariant numbers the properties a migrated lot must satisfy.
type Invariant int

const (
	RootName Invariant = iota + 1
	SingleRecordDir
	CanonicalAssets
	ConsistentRecords
)

func (i Invariant) String() string {
	switch i {
	case RootName:
		return "root-name"
	case SingleRecordDir:
		return "single-record-dir"
	case CanonicalAssets:
		return "canonical-assets"
	case ConsistentRecords:
		return "consistent-records"
	default:
		return fmt.Sprintf("invariant(%d)", int(i))
	}
}

// Violation is one broken invariant.
type Violation struct {
	Invariant Invariant
	Path      string
	Detail    string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s: %s", v.Invariant, v.Path, v.Detail)
}

// Verify checks that the lot root/<lotFullForm> is fully migrated: the root
// exists under that name, it has exactly one record directory in canonical
// form, no asset name still needs normalizing, and every record carries the
// canonical lot and references only images that exist.
func (e *Engine) Verify(root, lotFullForm string) ([]Violation, error) {
	id, err := lot.Parse(lotFullForm)
	if err != nil {
		return nil, err
	}
	lotRoot := filepath.Join(root, id.FullForm())
	if !isDir(lotRoot) {
		return []Violation{{RootName, lotRoot, "lot root does not exist"}}, nil
	}

	layout := e.opts.Layout
	canonical := id.Canonical(e.norm.Options().Width)
	var out []Violation

	dirs, err := layout.RecordDirs(lotRoot)
	if err != nil {
		return nil, err
	}
	switch {
	case len(dirs) == 0:
		out = append(out, Violation{SingleRecordDir, lotRoot, "no record directory"})
	case len(dirs) > 1:
		out = append(out, Violation{SingleRecordDir, lotRoot, fmt.Sprintf("%d record directories", len(dirs))})
	}
	for _, d := range dirs {
		if filepath.Base(d) != canonical {
			out = append(out, Violation{SingleRecordDir, d, "want " + canonical})
		}
	}

	assets, err := layout.Files(lotRoot, tree.EvidenceAsset)
	if err != nil {
		return nil, err
	}
	images := make(map[string]bool)
	for _, path := range assets {
		name := filepath.Base(path)
		if e.norm.IsImage(name) {
			images[name] = true
		}
		if want := e.norm.Normalize(name, id, id); want != name {
			out = append(out, Violation{CanonicalAssets, path, "want " + want})
		}
	}

	for _, path := range assets {
		if !e.norm.IsText(path) {
			continue
		}
		vs, err := e.verifyRecords(path, canonical, images)
		if err != nil {
			return nil, err
		}
		out = append(out, vs...)
	}
	return out, nil
}

func (e *Engine) verifyRecords(path, canonical string, images map[string]bool) ([]Violation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	delim := e.opts.Records.Delimiter
	if delim == "" {
		delim = ";"
	}

	var out []Violation
	for i, raw := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		where := fmt.Sprintf("%s:%d", path, i+1)
		fields := strings.Split(raw, delim)
		for j := range fields {
			fields[j] = strings.TrimSpace(fields[j])
		}
		if fields[0] != canonical {
			out = append(out, Violation{ConsistentRecords, where, fmt.Sprintf("lot field %q, want %s", fields[0], canonical)})
		}
		for _, f := range fields[1:] {
			if e.norm.IsImage(f) && !images[f] {
				out = append(out, Violation{ConsistentRecords, where, "missing image " + f})
			}
		}
	}
	return out, nil
}
