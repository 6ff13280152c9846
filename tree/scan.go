package tree

import (
	"io/fs"
	"path/filepath"
)

// Counts tallies the classes found by Scan.
type Counts struct {
	Manifests   int
	RecordDirs  int
	Evidence    int
	Other       int
	EvidenceDir int // directories named like Layout.EvidenceDir
	Bytes       int64
}

// Total returns the number of classified entries.
func (c Counts) Total() int {
	return c.Manifests + c.RecordDirs + c.Evidence + c.Other
}

// Scan classifies every entry below lotRoot.
func (l Layout) Scan(lotRoot string) (Counts, error) {
	l = l.withDefaults()
	var c Counts
	var firstErr error
	walk(lotRoot, func(dir string, entries []fs.DirEntry) []string {
		for _, e := range entries {
			switch l.Classify(e.Name(), e.IsDir()) {
			case Manifest:
				c.Manifests++
			case RecordDirCandidate:
				c.RecordDirs++
			case EvidenceAsset:
				c.Evidence++
				if info, err := e.Info(); err == nil {
					c.Bytes += info.Size()
				}
			default:
				c.Other++
				if e.IsDir() && l.IsEvidenceDir(e.Name()) {
					c.EvidenceDir++
				}
			}
		}
		return subdirs(dir, entries)
	}, func(_ string, err error) {
		if firstErr == nil {
			firstErr = err
		}
	})
	return c, firstErr
}

// RecordDirs returns the paths of the record directory candidates directly
// under lotRoot.
func (l Layout) RecordDirs(lotRoot string) ([]string, error) {
	l = l.withDefaults()
	var out []string
	var firstErr error
	walk(lotRoot, func(dir string, entries []fs.DirEntry) []string {
		for _, e := range entries {
			if e.IsDir() && l.Classify(e.Name(), true) == RecordDirCandidate {
				out = append(out, filepath.Join(dir, e.Name()))
			}
		}
		return nil
	}, func(_ string, err error) {
		firstErr = err
	})
	return out, firstErr
}

// Files returns the paths of every file of the given kind below root, in
// breadth-first order with each directory's entries sorted by name.
func (l Layout) Files(root string, kind Kind) ([]string, error) {
	l = l.withDefaults()
	var out []string
	var firstErr error
	walk(root, func(dir string, entries []fs.DirEntry) []string {
		for _, e := range entries {
			if !e.IsDir() && l.Classify(e.Name(), false) == kind {
				out = append(out, filepath.Join(dir, e.Name()))
			}
		}
		return subdirs(dir, entries)
	}, func(_ string, err error) {
		if firstErr == nil {
			firstErr = err
		}
	})
	return out, firstErr
}
