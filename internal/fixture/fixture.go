// Package fixture writes synthetic legacy lots the way the ingestion tooling
// leaves them on disk.
package fixture

import (
	"archive/zip"
	"crypto/md5"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dendrascience/operalote/lot"
)

// Spec describes a lot to generate.
type Spec struct {
	Lot         string   // full form of the lot root, e.g. "L03313"
	RecordDir   string   // record directory name; defaults to the payload padded to 6
	EvidenceDir string   // defaults to "AITs"
	Count       int      // records, each with an "a" and a "b" image; defaults to 3
	Echo        bool     // add the duplicate-digit artifact to image names
	Placeholder bool     // name the record file L00125.txt instead of <Lot>.txt
	Codes       []string // infraction codes, cycled; defaults to 5673, 6050, 7587
	Zip         bool     // leave the lot as <Lot>.zip instead of a directory
	Wrapped     bool     // with Zip, store entries under a top-level <Lot>/ folder
}

// Lot is what Build wrote.
type Lot struct {
	Root       string   // lot directory, or the zip path when Spec.Zip is set
	RecordFile string   // record file path inside the lot directory
	Images     []string // image base names
	Manifest   []byte   // manifest content
}

var defaultCodes = []string{"5673", "6050", "7587"}

func (s Spec) withDefaults() (Spec, lot.ID, error) {
	id, err := lot.Parse(s.Lot)
	if err != nil {
		return s, id, err
	}
	if s.RecordDir == "" {
		s.RecordDir = lot.Pad(id.Trimmed(), 6)
	}
	if s.EvidenceDir == "" {
		s.EvidenceDir = "AITs"
	}
	if s.Count <= 0 {
		s.Count = 3
	}
	if len(s.Codes) == 0 {
		s.Codes = defaultCodes
	}
	return s, id, nil
}

// ImageName returns the legacy name of image seq on side.
func (s Spec) ImageName(embedded string, id lot.ID, seq int, side string) string {
	echo := ""
	if s.Echo {
		t := id.Trimmed()
		echo = t[max(0, len(t)-3):]
	}
	return fmt.Sprintf("%s%s%06d%s.jpg", embedded, echo, seq, side)
}

// Build writes the lot described by s under dir.
func Build(dir string, s Spec) (Lot, error) {
	s, id, err := s.withDefaults()
	if err != nil {
		return Lot{}, err
	}

	lotDir := filepath.Join(dir, id.FullForm())
	recordDir := filepath.Join(lotDir, s.RecordDir)
	evidenceDir := filepath.Join(recordDir, s.EvidenceDir)
	if err := os.MkdirAll(evidenceDir, 0o755); err != nil {
		return Lot{}, err
	}

	var out Lot
	var records, manifest strings.Builder
	for i := 1; i <= s.Count; i++ {
		names := make([]string, 0, 2)
		for _, side := range []string{"a", "b"} {
			name := s.ImageName(s.RecordDir, id, i, side)
			content := fmt.Sprintf("JPEG %s %d %s", id.FullForm(), i, side)
			if err := os.WriteFile(filepath.Join(evidenceDir, name), []byte(content), 0o644); err != nil {
				return Lot{}, err
			}
			fmt.Fprintf(&manifest, "%x  %s\n", md5.Sum([]byte(content)), name)
			names = append(names, name)
		}
		out.Images = append(out.Images, names...)
		code := s.Codes[(i-1)%len(s.Codes)]
		fmt.Fprintf(&records, "%s;R%02d;PLACA ABC%04d;%s;%s;%s\n", s.RecordDir, i, i, names[0], names[1], code)
	}

	out.Manifest = []byte(manifest.String())
	if err := os.WriteFile(filepath.Join(evidenceDir, "md5sum.txt"), out.Manifest, 0o644); err != nil {
		return Lot{}, err
	}

	recordName := id.FullForm() + ".txt"
	if s.Placeholder {
		recordName = "L00125.txt"
	}
	out.RecordFile = filepath.Join(recordDir, recordName)
	if err := os.WriteFile(out.RecordFile, []byte(records.String()), 0o644); err != nil {
		return Lot{}, err
	}

	out.Root = lotDir
	if s.Zip {
		archive := lotDir + ".zip"
		prefix := ""
		if s.Wrapped {
			prefix = id.FullForm() + "/"
		}
		if err := zipDir(lotDir, archive, prefix); err != nil {
			return Lot{}, err
		}
		if err := os.RemoveAll(lotDir); err != nil {
			return Lot{}, err
		}
		out.Root = archive
	}
	return out, nil
}

// zipDir stores the contents of dir in archive with slash-separated paths
// relative to dir, each preceded by prefix.
func zipDir(dir, archive, prefix string) error {
	f, err := os.Create(archive)
	if err != nil {
		return err
	}
	defer f.Close()
	w := zip.NewWriter(f)

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		dst, err := w.Create(prefix + filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		_, err = io.Copy(dst, src)
		return err
	})
	if err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
