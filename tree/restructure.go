package tree

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/dendrascience/operalote/lot"
	"github.com/dendrascience/operalote/report"
)

// Restructurer renames the lot root and reconciles its record directories.
type Restructurer struct {
	layout Layout
	logger *zap.Logger
}

// NewRestructurer returns a Restructurer. A nil logger discards output.
func NewRestructurer(layout Layout, logger *zap.Logger) *Restructurer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Restructurer{layout: layout.withDefaults(), logger: logger}
}

// Migrate moves root/<old> to root/<to>, then reconciles every record
// directory below it to the canonical form of to. It returns the path of the
// lot root. Only a missing lot or a root collision is returned as an error;
// per-directory failures are recorded in rep.
func (r *Restructurer) Migrate(root string, old, to lot.ID, rep *report.Report) (string, error) {
	lotRoot, err := r.RenameRoot(root, old, to, rep)
	if err != nil {
		return "", err
	}
	r.AdoptLooseEvidence(lotRoot, to, rep)
	r.Reconcile(lotRoot, old, to, rep)
	return lotRoot, nil
}

// RenameRoot renames root/<old.FullForm> to root/<to.FullForm>. A lot that
// already carries the new name is accepted as is.
func (r *Restructurer) RenameRoot(root string, old, to lot.ID, rep *report.Report) (string, error) {
	src := filepath.Join(root, old.FullForm())
	dst := filepath.Join(root, to.FullForm())

	srcOK, dstOK := isDir(src), isDir(dst)
	switch {
	case src == dst && dstOK:
		return dst, nil
	case srcOK && dstOK:
		return "", fmt.Errorf("rename %s to %s: %w", src, dst, ErrDestinationExists)
	case dstOK:
		r.logger.Debug("lot root already renamed", zap.String("to", dst))
		return dst, nil
	case !srcOK:
		return "", fmt.Errorf("lot root %s: %w", src, fs.ErrNotExist)
	}

	if err := os.Rename(src, dst); err != nil {
		return "", fmt.Errorf("rename lot root %s: %w", src, err)
	}
	rep.Add(report.Entry{Kind: report.Renamed, Step: report.StepRestructure, Path: src, Target: dst})
	r.logger.Info("renamed lot root", zap.String("from", src), zap.String("to", dst))
	return dst, nil
}

// AdoptLooseEvidence handles lots whose evidence directory sits directly under
// the root with no record directory: the evidence directory and the loose
// files are moved into a new record directory named canonical(to).
func (r *Restructurer) AdoptLooseEvidence(lotRoot string, to lot.ID, rep *report.Report) {
	entries, err := os.ReadDir(lotRoot)
	if err != nil {
		rep.Fail(report.StepRestructure, lotRoot, err)
		return
	}
	var evidence fs.DirEntry
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if r.layout.Classify(e.Name(), true) == RecordDirCandidate {
			return
		}
		if r.layout.IsEvidenceDir(e.Name()) {
			evidence = e
		}
	}
	if evidence == nil {
		return
	}

	recordDir := filepath.Join(lotRoot, to.Canonical(r.layout.Width))
	if err := os.MkdirAll(recordDir, 0o755); err != nil {
		rep.Fail(report.StepRestructure, recordDir, err)
		return
	}
	for _, e := range entries {
		switch {
		case e.IsDir() && e.Name() != evidence.Name():
			continue
		case !e.IsDir() && r.layout.Classify(e.Name(), false) == Other:
			continue
		}
		r.move(filepath.Join(lotRoot, e.Name()), filepath.Join(recordDir, e.Name()), rep)
	}
}

// Reconcile walks the lot breadth first. Every record directory directly
// under the lot root, and every nested all-digit directory numerically equal
// to old or to, is renamed to canonical(to) or merged into an existing one.
func (r *Restructurer) Reconcile(lotRoot string, old, to lot.ID, rep *report.Report) {
	target := to.Canonical(r.layout.Width)

	walk(lotRoot, func(dir string, entries []fs.DirEntry) []string {
		var next []string
		reconciled := false
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			name := e.Name()
			path := filepath.Join(dir, name)
			if name == target || !r.needsReconcile(dir == lotRoot, name, old, to) {
				if name == target {
					reconciled = true
				} else {
					next = append(next, path)
				}
				continue
			}
			r.reconcileDir(path, filepath.Join(dir, target), rep)
			reconciled = true
		}
		if reconciled && isDir(filepath.Join(dir, target)) {
			next = append(next, filepath.Join(dir, target))
		}
		return next
	}, func(dir string, err error) {
		rep.Fail(report.StepRestructure, dir, err)
	})
}

func (r *Restructurer) needsReconcile(top bool, name string, old, to lot.ID) bool {
	if r.layout.Classify(name, true) != RecordDirCandidate {
		return false
	}
	if top {
		return true
	}
	t := lot.Trim(name)
	return t == old.Trimmed() || t == to.Trimmed()
}

func (r *Restructurer) reconcileDir(src, dst string, rep *report.Report) {
	if !exists(dst) {
		r.move(src, dst, rep)
		return
	}
	if !r.merge(src, dst, rep) {
		return
	}
	rep.Add(report.Entry{Kind: report.Merged, Step: report.StepRestructure, Path: src, Target: dst})
	r.logger.Info("merged record directory", zap.String("from", src), zap.String("to", dst))
}

// move renames src to dst, recording the outcome.
func (r *Restructurer) move(src, dst string, rep *report.Report) {
	err := os.Rename(src, dst)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		rep.Add(report.Entry{Kind: report.Vanished, Step: report.StepRestructure, Path: src, Err: ErrPathVanished})
		r.logger.Debug("source vanished", zap.String("from", src))
	case err != nil:
		rep.Fail(report.StepRestructure, src, err)
		r.logger.Warn("rename failed", zap.String("from", src), zap.String("to", dst), zap.Error(err))
	default:
		rep.Add(report.Entry{Kind: report.Renamed, Step: report.StepRestructure, Path: src, Target: dst})
		r.logger.Info("renamed directory entry", zap.String("from", src), zap.String("to", dst))
	}
}

// merge moves every entry of src into dst, overwriting same-named files and
// merging same-named directories, then removes src. It reports whether src
// was fully drained.
func (r *Restructurer) merge(src, dst string, rep *report.Report) bool {
	entries, err := os.ReadDir(src)
	if errors.Is(err, fs.ErrNotExist) {
		rep.Add(report.Entry{Kind: report.Vanished, Step: report.StepRestructure, Path: src, Err: ErrPathVanished})
		return false
	}
	if err != nil {
		rep.Fail(report.StepRestructure, src, err)
		return false
	}

	ok := true
	for _, e := range entries {
		s := filepath.Join(src, e.Name())
		d := filepath.Join(dst, e.Name())
		if e.IsDir() && isDir(d) {
			ok = r.merge(s, d, rep) && ok
			continue
		}
		if exists(d) {
			if err := os.RemoveAll(d); err != nil {
				rep.Fail(report.StepRestructure, d, err)
				ok = false
				continue
			}
			r.logger.Debug("overwriting merge target", zap.String("to", d))
		}
		if err := os.Rename(s, d); err != nil && !errors.Is(err, fs.ErrNotExist) {
			rep.Fail(report.StepRestructure, s, err)
			r.logger.Warn("merge move failed", zap.String("from", s), zap.String("to", d), zap.Error(err))
			ok = false
		}
	}
	if !ok {
		return false
	}
	if err := os.Remove(src); err != nil && !errors.Is(err, fs.ErrNotExist) {
		rep.Fail(report.StepRestructure, src, err)
		return false
	}
	return true
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
