package records

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/dendrascience/operalote/lot"
	"github.com/dendrascience/operalote/naming"
	"github.com/dendrascience/operalote/report"
	"github.com/dendrascience/operalote/tree"
)

// Year configures the suffix appended to the route code of matched records.
type Year struct {
	Enabled bool
	Value   string
}

// Suffix returns "/<year>", or "" when disabled.
func (y Year) Suffix() string {
	if !y.Enabled || y.Value == "" {
		return ""
	}
	return "/" + y.Value
}

// Config holds the record format.
type Config struct {
	Delimiter string
	Year      Year
}

// Rewriter rewrites record files so their identifiers and image references
// follow a migration.
type Rewriter struct {
	norm   *naming.Normalizer
	layout tree.Layout
	cfg    Config
	logger *zap.Logger
}

// NewRewriter returns a Rewriter. An empty delimiter means ";".
func NewRewriter(norm *naming.Normalizer, layout tree.Layout, cfg Config, logger *zap.Logger) *Rewriter {
	if cfg.Delimiter == "" {
		cfg.Delimiter = ";"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Rewriter{norm: norm, layout: layout, cfg: cfg, logger: logger}
}

// RewriteLine returns the rewritten form of one record. Blank lines are
// returned unchanged. A record with fewer than two fields still gets its lot
// field replaced and is returned together with ErrMalformedRecord. Whitespace
// around each field is kept.
func (r *Rewriter) RewriteLine(s string, old, to lot.ID) (string, error) {
	if strings.TrimSpace(s) == "" {
		return s, nil
	}
	fields := strings.Split(s, r.cfg.Delimiter)
	first, err := lot.Parse(strings.TrimSpace(fields[0]))
	matched := err == nil && lot.NumericallyEqual(first, old)
	canonical := to.Canonical(r.norm.Options().Width)
	fields[0] = editField(fields[0], func(string) string { return canonical })

	if len(fields) < 2 {
		return fields[0], fmt.Errorf("%q: %w", s, ErrMalformedRecord)
	}

	if suffix := r.cfg.Year.Suffix(); matched && suffix != "" {
		if strings.TrimSpace(fields[1]) == "" {
			fields[1] += suffix
		}
		fields[1] = editField(fields[1], func(f string) string {
			if strings.HasSuffix(f, suffix) {
				return f
			}
			return f + suffix
		})
	}
	for i := 1; i < len(fields); i++ {
		fields[i] = editField(fields[i], func(f string) string {
			switch {
			case r.norm.IsImage(f):
				return r.norm.Normalize(f, old, to)
			case matched:
				return r.norm.ReplaceEmbedded(f, old, to)
			}
			return f
		})
	}
	return strings.Join(fields, r.cfg.Delimiter), nil
}

// editField applies fn to f without its surrounding whitespace, which is put
// back afterwards. Blank fields are returned as they are.
func editField(f string, fn func(string) string) string {
	core := strings.TrimSpace(f)
	if core == "" {
		return f
	}
	i := strings.Index(f, core)
	return f[:i] + fn(core) + f[i+len(core):]
}

// FileResult describes the rewrite of one file.
type FileResult struct {
	Changed   bool
	Lines     int   // lines whose content changed
	Malformed []int // 1-based line numbers
}

// RewriteFile rewrites every record in path. The file is only written when
// its content changes.
func (r *Rewriter) RewriteFile(path string, old, to lot.ID) (FileResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileResult{}, err
	}

	var res FileResult
	lines := splitLines(string(data))
	for i, l := range lines {
		out, err := r.RewriteLine(l.body, old, to)
		if err != nil {
			res.Malformed = append(res.Malformed, i+1)
		}
		if out != l.body {
			lines[i].body = out
			res.Lines++
		}
	}
	content := joinLines(lines)
	if content == string(data) {
		return res, nil
	}
	if err := writeFileAtomic(path, []byte(content)); err != nil {
		return res, err
	}
	res.Changed = true
	return res, nil
}

// Run rewrites every record file under lotRoot, recording outcomes in rep.
func (r *Rewriter) Run(lotRoot string, old, to lot.ID, rep *report.Report) {
	files, err := r.layout.Files(lotRoot, tree.EvidenceAsset)
	if err != nil {
		rep.Fail(report.StepRewrite, lotRoot, err)
	}
	for _, path := range files {
		if !r.norm.IsText(path) {
			continue
		}
		res, err := r.RewriteFile(path, old, to)
		for _, n := range res.Malformed {
			rep.Add(report.Entry{
				Kind:   report.Malformed,
				Step:   report.StepRewrite,
				Path:   path,
				Detail: fmt.Sprintf("line %d", n),
				Err:    ErrMalformedRecord,
			})
			r.logger.Warn("malformed record", zap.String("path", path), zap.Int("line", n))
		}
		if err != nil {
			rep.Fail(report.StepRewrite, path, err)
			r.logger.Warn("rewrite failed", zap.String("path", path), zap.Error(err))
			continue
		}
		if res.Changed {
			rep.Add(report.Entry{
				Kind:   report.Rewritten,
				Step:   report.StepRewrite,
				Path:   path,
				Detail: fmt.Sprintf("%d lines", res.Lines),
			})
			r.logger.Info("rewrote records", zap.String("path", path), zap.Int("lines", res.Lines))
		}
	}
}
