package tree

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dendrascience/operalote/lot"
)

// ExtractArchive unpacks the zip file at archive into dest and returns the
// number of files written. Every entry is checked before anything is written;
// an entry that would land outside dest fails the whole extraction with
// ErrUnsafeArchivePath.
func ExtractArchive(archive, dest string) (int, error) {
	return extract(archive, dest, nil)
}

// ExtractLot is ExtractArchive for the archive of lot old. When every entry
// sits under a single folder naming the lot itself (the lot directory was
// zipped, not its contents), that folder is dropped so dest becomes the lot
// root.
func (l Layout) ExtractLot(archive, dest string, old lot.ID) (int, error) {
	l = l.withDefaults()
	return extract(archive, dest, func(names []string) string {
		return l.lotWrapper(names, old)
	})
}

// lotWrapper returns the top-level folder shared by every entry name when it
// is numerically old, else "". A folder that could itself be the record
// directory is only dropped when a record directory sits beneath it.
func (l Layout) lotWrapper(names []string, old lot.ID) string {
	top := ""
	nested := false
	for _, name := range names {
		first, rest, found := strings.Cut(name, "/")
		if !found || first == "" {
			return ""
		}
		if top == "" {
			top = first
		} else if first != top {
			return ""
		}
		if second, _, dir := strings.Cut(rest, "/"); dir && l.Classify(second, true) == RecordDirCandidate {
			nested = true
		}
	}
	if top == "" {
		return ""
	}
	id, err := lot.Parse(top)
	if err != nil || !lot.NumericallyEqual(id, old) {
		return ""
	}
	if l.Classify(top, true) == RecordDirCandidate && !nested {
		return ""
	}
	return top
}

// extract unpacks archive into dest. When wrapper is set and names a
// top-level folder, that folder is stripped from every entry.
func extract(archive, dest string, wrapper func(names []string) string) (int, error) {
	zrc, err := zip.OpenReader(archive)
	if errors.Is(err, zip.ErrInsecurePath) {
		zrc.Close()
		return 0, fmt.Errorf("%s: %w", archive, ErrUnsafeArchivePath)
	}
	if err != nil {
		return 0, err
	}
	defer zrc.Close()

	dest = filepath.Clean(dest)
	targets := make([]string, len(zrc.File))
	for i, f := range zrc.File {
		target, err := entryTarget(dest, f.Name)
		if err != nil {
			return 0, err
		}
		targets[i] = target
	}

	if wrapper != nil {
		names := make([]string, len(zrc.File))
		for i, f := range zrc.File {
			names[i] = f.Name
		}
		if top := wrapper(names); top != "" {
			for i, name := range names {
				if targets[i], err = entryTarget(dest, strings.TrimPrefix(name, top+"/")); err != nil {
					return 0, err
				}
			}
		}
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return 0, err
	}
	written := 0
	for i, f := range zrc.File {
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(targets[i], 0o755); err != nil {
				return written, err
			}
			continue
		}
		if err := extractFile(f, targets[i]); err != nil {
			return written, fmt.Errorf("extract %s: %w", f.Name, err)
		}
		written++
	}
	return written, nil
}

func entryTarget(dest, name string) (string, error) {
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("%s: %w", name, ErrUnsafeArchivePath)
	}
	target := filepath.Join(dest, filepath.FromSlash(name))
	if target != dest && !strings.HasPrefix(target, dest+string(os.PathSeparator)) {
		return "", fmt.Errorf("%s: %w", name, ErrUnsafeArchivePath)
	}
	return target, nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
