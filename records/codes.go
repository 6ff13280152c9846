package records

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/dendrascience/operalote/lot"
	"github.com/dendrascience/operalote/report"
	"github.com/dendrascience/operalote/tree"
)

// Codes reads and edits the terminal infraction code of every record.
type Codes struct {
	layout  tree.Layout
	delim   string
	textExt string
	logger  *zap.Logger
}

// NewCodes returns a Codes over text files with extension textExt.
func NewCodes(layout tree.Layout, delim, textExt string, logger *zap.Logger) *Codes {
	if delim == "" {
		delim = ";"
	}
	if textExt == "" {
		textExt = ".txt"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Codes{layout: layout, delim: delim, textExt: textExt, logger: logger}
}

func (c *Codes) recordFiles(lotRoot string) ([]string, error) {
	files, err := c.layout.Files(lotRoot, tree.EvidenceAsset)
	var out []string
	for _, f := range files {
		if len(f) >= len(c.textExt) && strings.EqualFold(f[len(f)-len(c.textExt):], c.textExt) {
			out = append(out, f)
		}
	}
	return out, err
}

func (c *Codes) terminal(body string) (fields []string, code string) {
	if strings.TrimSpace(body) == "" {
		return nil, ""
	}
	fields = strings.Split(body, c.delim)
	return fields, strings.TrimSpace(fields[len(fields)-1])
}

// Tally counts the records of each infraction code under lotRoot. Lines whose
// terminal field is not all digits are ignored.
func (c *Codes) Tally(lotRoot string) (map[string]int, error) {
	files, err := c.recordFiles(lotRoot)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			c.logger.Warn("tally read failed", zap.String("path", path), zap.Error(err))
			continue
		}
		for _, l := range splitLines(string(data)) {
			if _, code := c.terminal(l.body); lot.IsDigits(code) {
				counts[code]++
			}
		}
	}
	return counts, nil
}

// BulkEdit replaces the terminal code from with to in every record under
// lotRoot. Files without a matching record are left untouched. Per-file
// failures are recorded in rep when it is non-nil.
func (c *Codes) BulkEdit(lotRoot, from, to string, rep *report.Report) (files, lines int, err error) {
	if !lot.IsDigits(from) || !lot.IsDigits(to) {
		return 0, 0, fmt.Errorf("%q -> %q: %w", from, to, ErrInvalidCode)
	}
	paths, err := c.recordFiles(lotRoot)
	if err != nil {
		return 0, 0, err
	}
	for _, path := range paths {
		n, err := c.editFile(path, from, to)
		if err != nil {
			if rep != nil {
				rep.Fail(report.StepEditCodes, path, err)
			}
			c.logger.Warn("edit codes failed", zap.String("path", path), zap.Error(err))
			continue
		}
		if n == 0 {
			continue
		}
		files++
		lines += n
		if rep != nil {
			rep.Add(report.Entry{
				Kind:   report.Rewritten,
				Step:   report.StepEditCodes,
				Path:   path,
				Detail: fmt.Sprintf("%d lines %s -> %s", n, from, to),
			})
		}
		c.logger.Info("edited codes", zap.String("path", path), zap.Int("lines", n))
	}
	return files, lines, nil
}

func (c *Codes) editFile(path, from, to string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	lines := splitLines(string(data))
	changed := 0
	for i, l := range lines {
		fields, code := c.terminal(l.body)
		if code != from {
			continue
		}
		last := len(fields) - 1
		fields[last] = editField(fields[last], func(string) string { return to })
		lines[i].body = strings.Join(fields, c.delim)
		changed++
	}
	if changed == 0 {
		return 0, nil
	}
	return changed, writeFileAtomic(path, []byte(joinLines(lines)))
}
