package tree

import (
	"strings"

	"github.com/dendrascience/operalote/lot"
)

// Kind is the closed set of path classes the engine distinguishes.
type Kind int

const (
	Other              Kind = iota // hidden entries and directories that are not record directories
	Manifest                       // checksum listing, content never modified
	RecordDirCandidate             // all-digit directory at least MinRecordDir long
	EvidenceAsset                  // any other regular file
)

func (k Kind) String() string {
	switch k {
	case Manifest:
		return "manifest"
	case RecordDirCandidate:
		return "record-dir"
	case EvidenceAsset:
		return "evidence-asset"
	default:
		return "other"
	}
}

// Layout holds the naming conventions of a lot tree.
type Layout struct {
	Width        int    // canonical record directory width
	MinRecordDir int    // minimum length of an all-digit record directory name
	EvidenceDir  string // conventional evidence subdirectory, never renamed
	Manifest     string // checksum listing, matched case-insensitively
}

// DefaultLayout returns the conventions used by the ingestion tooling.
func DefaultLayout() Layout {
	return Layout{
		Width:        lot.DefaultWidth,
		MinRecordDir: 6,
		EvidenceDir:  "AITs",
		Manifest:     "md5sum.txt",
	}
}

func (l Layout) withDefaults() Layout {
	d := DefaultLayout()
	if l.Width <= 0 {
		l.Width = d.Width
	}
	if l.MinRecordDir <= 0 {
		l.MinRecordDir = d.MinRecordDir
	}
	if l.EvidenceDir == "" {
		l.EvidenceDir = d.EvidenceDir
	}
	if l.Manifest == "" {
		l.Manifest = d.Manifest
	}
	return l
}

// Classify names the class of a directory entry. Hidden entries are Other.
func (l Layout) Classify(name string, isDir bool) Kind {
	if name == "" || strings.HasPrefix(name, ".") {
		return Other
	}
	if isDir {
		if len(name) >= l.MinRecordDir && lot.IsDigits(name) {
			return RecordDirCandidate
		}
		return Other
	}
	if l.IsManifest(name) {
		return Manifest
	}
	return EvidenceAsset
}

// IsManifest reports whether name is the manifest file name.
func (l Layout) IsManifest(name string) bool {
	return strings.EqualFold(name, l.Manifest)
}

// IsEvidenceDir reports whether name is the evidence subdirectory name.
func (l Layout) IsEvidenceDir(name string) bool {
	return strings.EqualFold(name, l.EvidenceDir)
}
