package tree

import (
	"crypto/sha256"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// HashFile returns the hex SHA-256 of the file at path.
func HashFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s: %w", path, ErrExpectedDirectory)
	}
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// ManifestDigest identifies one manifest file by base name and content.
type ManifestDigest struct {
	Path string
	Name string // lower-cased base name
	Hash string
}

// Key ignores the directory, which directory reconciliation may change.
func (d ManifestDigest) Key() string {
	return d.Name + ":" + d.Hash
}

// HashManifests hashes every manifest under lotRoot. The result is sorted by Key.
func (l Layout) HashManifests(lotRoot string) ([]ManifestDigest, error) {
	l = l.withDefaults()
	var out []ManifestDigest
	var firstErr error
	walk(lotRoot, func(dir string, entries []fs.DirEntry) []string {
		for _, e := range entries {
			if e.IsDir() || l.Classify(e.Name(), false) != Manifest {
				continue
			}
			path := filepath.Join(dir, e.Name())
			hash, err := HashFile(path)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			out = append(out, ManifestDigest{Path: path, Name: strings.ToLower(e.Name()), Hash: hash})
		}
		return subdirs(dir, entries)
	}, func(_ string, err error) {
		if firstErr == nil {
			firstErr = err
		}
	})
	slices.SortFunc(out, func(a, b ManifestDigest) int {
		return strings.Compare(a.Key(), b.Key())
	})
	return out, firstErr
}
