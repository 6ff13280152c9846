// Package migrate sequences a lot migration: archive extraction, directory
// restructuring, file renaming and record rewriting, in that order. Every
// step is safe to re-run, so an interrupted migration is finished by running
// it again.
package migrate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"go.uber.org/zap"

	"github.com/dendrascience/operalote/lot"
	"github.com/dendrascience/operalote/naming"
	"github.com/dendrascience/operalote/records"
	"github.com/dendrascience/operalote/report"
	"github.com/dendrascience/operalote/tree"
)

// LockName is the advisory lock file created in the root directory.
const LockName = ".operalote.lock"

// Options configures every component of the engine.
type Options struct {
	Naming  naming.Options
	Layout  tree.Layout
	Records records.Config
}

// DefaultOptions returns the field conventions.
func DefaultOptions() Options {
	return Options{
		Naming: naming.DefaultOptions(),
		Layout: tree.DefaultLayout(),
		Records: records.Config{
			Delimiter: ";",
			Year:      records.Year{Enabled: true, Value: "2023"},
		},
	}
}

// Engine runs migrations, tallies and code edits against lots under a root.
type Engine struct {
	opts   Options
	norm   *naming.Normalizer
	logger *zap.Logger
}

// New returns an Engine. A nil logger discards output.
func New(opts Options, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{opts: opts, norm: naming.New(opts.Naming), logger: logger}
}

// Normalizer returns the filename normalizer the engine uses.
func (e *Engine) Normalizer() *naming.Normalizer {
	return e.norm
}

func (e *Engine) lock(root string) (*flock.Flock, error) {
	fl := flock.New(filepath.Join(root, LockName))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", root, err)
	}
	if !locked {
		return nil, fmt.Errorf("%s: %w", root, ErrLotLocked)
	}
	return fl, nil
}

// Migrate moves the lot oldRaw under root to newRaw. Invalid identifiers, a
// missing lot, a held lock and a lot root collision are returned as errors
// before anything is mutated; every other failure is recorded in the report.
func (e *Engine) Migrate(root, oldRaw, newRaw string, year records.Year) (*report.Report, error) {
	old, err := lot.Parse(oldRaw)
	if err != nil {
		return nil, err
	}
	to, err := lot.Parse(newRaw)
	if err != nil {
		return nil, err
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("root %s: %w", root, ErrLotNotFound)
	}

	fl, err := e.lock(root)
	if err != nil {
		return nil, err
	}
	defer fl.Unlock()

	log := e.logger.With(zap.String("from", old.FullForm()), zap.String("to", to.FullForm()))
	rep := report.New(old.FullForm(), to.FullForm())
	defer rep.Finish()

	src := filepath.Join(root, old.FullForm())
	dst := filepath.Join(root, to.FullForm())
	if err := e.extract(root, old, to, rep); err != nil {
		return rep, err
	}
	existing := src
	if !isDir(src) {
		existing = dst
	}
	if !isDir(existing) {
		return rep, fmt.Errorf("%s: %w", old.FullForm(), ErrLotNotFound)
	}

	before, err := e.opts.Layout.HashManifests(existing)
	if err != nil {
		rep.Fail(report.StepManifest, existing, err)
	}

	restructurer := tree.NewRestructurer(e.opts.Layout, log)
	lotRoot, err := restructurer.Migrate(root, old, to, rep)
	if err != nil {
		return rep, err
	}

	tree.NewRenamer(e.norm, e.opts.Layout, log).Run(lotRoot, old, to, rep)

	cfg := e.opts.Records
	cfg.Year = year
	records.NewRewriter(e.norm, e.opts.Layout, cfg, log).Run(lotRoot, old, to, rep)

	after, err := e.opts.Layout.HashManifests(lotRoot)
	if err != nil {
		rep.Fail(report.StepManifest, lotRoot, err)
	}
	e.compareManifests(before, after, rep)

	log.Info("migration finished",
		zap.String("run_id", rep.RunID),
		zap.Int("renamed", rep.Count(report.Renamed)),
		zap.Int("collisions", rep.Count(report.Collision)),
		zap.Int("malformed", rep.Count(report.Malformed)),
		zap.Int("failed", rep.Count(report.Failed)))
	return rep, nil
}

// extract unpacks root/<old>.zip when neither the old nor the new lot
// directory exists.
func (e *Engine) extract(root string, old, to lot.ID, rep *report.Report) error {
	src := filepath.Join(root, old.FullForm())
	if exists(src) || exists(filepath.Join(root, to.FullForm())) {
		return nil
	}
	archive := src + ".zip"
	if !exists(archive) {
		return nil
	}
	n, err := e.opts.Layout.ExtractLot(archive, src, old)
	if err != nil {
		return fmt.Errorf("extract %s: %w", archive, err)
	}
	rep.Add(report.Entry{
		Kind:   report.Extracted,
		Step:   report.StepExtract,
		Path:   archive,
		Target: src,
		Detail: fmt.Sprintf("%d files", n),
	})
	e.logger.Info("extracted lot archive", zap.String("archive", archive), zap.Int("files", n))
	return nil
}

func (e *Engine) compareManifests(before, after []tree.ManifestDigest, rep *report.Report) {
	seen := make(map[string]int, len(after))
	for _, d := range after {
		seen[d.Key()]++
	}
	for _, d := range before {
		if seen[d.Key()] > 0 {
			seen[d.Key()]--
			continue
		}
		rep.Fail(report.StepManifest, d.Path, ErrManifestChanged)
		e.logger.Error("manifest changed", zap.String("path", d.Path))
	}
}

func (e *Engine) lotRoot(root, lotFullForm string) (string, error) {
	id, err := lot.Parse(lotFullForm)
	if err != nil {
		return "", err
	}
	dir := filepath.Join(root, id.FullForm())
	if !isDir(dir) {
		return "", fmt.Errorf("%s: %w", dir, ErrLotNotFound)
	}
	return dir, nil
}

func (e *Engine) codes() *records.Codes {
	return records.NewCodes(e.opts.Layout, e.opts.Records.Delimiter, e.norm.Options().TextExt, e.logger)
}

// Tally counts the infraction codes of the lot root/<lotFullForm>.
func (e *Engine) Tally(root, lotFullForm string) (map[string]int, error) {
	dir, err := e.lotRoot(root, lotFullForm)
	if err != nil {
		return nil, err
	}
	return e.codes().Tally(dir)
}

// BulkEditCodes replaces infraction code from with to across the lot. Files
// that fail are skipped and their errors combined in the returned error.
func (e *Engine) BulkEditCodes(root, lotFullForm, from, to string) (filesChanged, linesChanged int, err error) {
	dir, err := e.lotRoot(root, lotFullForm)
	if err != nil {
		return 0, 0, err
	}
	fl, err := e.lock(root)
	if err != nil {
		return 0, 0, err
	}
	defer fl.Unlock()

	rep := report.New(lotFullForm, lotFullForm)
	filesChanged, linesChanged, err = e.codes().BulkEdit(dir, from, to, rep)
	if err != nil {
		return filesChanged, linesChanged, err
	}
	return filesChanged, linesChanged, rep.Err()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
