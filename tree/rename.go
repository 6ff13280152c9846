package tree

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/dendrascience/operalote/lot"
	"github.com/dendrascience/operalote/naming"
	"github.com/dendrascience/operalote/report"
)

// Renamer applies the naming rules to every evidence asset of a lot.
type Renamer struct {
	norm   *naming.Normalizer
	layout Layout
	logger *zap.Logger
}

// NewRenamer returns a Renamer. A nil logger discards output.
func NewRenamer(norm *naming.Normalizer, layout Layout, logger *zap.Logger) *Renamer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renamer{norm: norm, layout: layout.withDefaults(), logger: logger}
}

// Run renames every evidence asset under lotRoot whose name embeds old.
// Manifests and hidden files are never renamed.
func (r *Renamer) Run(lotRoot string, old, to lot.ID, rep *report.Report) {
	walk(lotRoot, func(dir string, entries []fs.DirEntry) []string {
		for _, e := range entries {
			if e.IsDir() || r.layout.Classify(e.Name(), false) != EvidenceAsset {
				continue
			}
			name, rule := r.norm.NormalizeRule(e.Name(), old, to)
			if name == e.Name() {
				continue
			}
			r.logger.Debug("name rule",
				zap.String("name", e.Name()),
				zap.Stringer("rule", rule),
				zap.String("result", name))
			r.rename(filepath.Join(dir, e.Name()), filepath.Join(dir, name), rule, rep)
		}
		return subdirs(dir, entries)
	}, func(dir string, err error) {
		rep.Fail(report.StepRename, dir, err)
	})
}

func (r *Renamer) rename(src, dst string, rule naming.Rule, rep *report.Report) {
	renamed, err := PerformRename(src, dst)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		rep.Add(report.Entry{Kind: report.Vanished, Step: report.StepRename, Path: src, Err: ErrPathVanished})
	case err != nil:
		rep.Fail(report.StepRename, src, err)
		r.logger.Warn("rename failed", zap.String("from", src), zap.String("to", dst), zap.Error(err))
	case !renamed:
		rep.Add(report.Entry{Kind: report.Collision, Step: report.StepRename, Path: src, Target: dst})
		r.logger.Warn("destination exists, skipping", zap.String("from", src), zap.String("to", dst))
	default:
		rep.Add(report.Entry{Kind: report.Renamed, Step: report.StepRename, Path: src, Target: dst, Detail: rule.String()})
		r.logger.Info("renamed file", zap.String("from", src), zap.String("to", dst))
	}
}

// PerformRename renames the file at src to dst, creating dst's parent
// directory when absent. If something already exists at dst nothing is
// touched and PerformRename returns false with a nil error.
func PerformRename(src, dst string) (bool, error) {
	if _, err := os.Lstat(src); err != nil {
		return false, err
	}
	if exists(dst) {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return false, fmt.Errorf("create parent of %s: %w", dst, err)
	}
	if err := os.Rename(src, dst); err != nil {
		return false, err
	}
	return true, nil
}
