package records

import (
	"os"
	"path/filepath"
	"strings"
)

// line is one physical line with its terminator kept apart.
type line struct {
	body string
	eol  string
}

func splitLines(content string) []line {
	var out []line
	for _, raw := range strings.SplitAfter(content, "\n") {
		if raw == "" {
			continue
		}
		body := strings.TrimSuffix(raw, "\n")
		eol := raw[len(body):]
		if strings.HasSuffix(body, "\r") {
			body = body[:len(body)-1]
			eol = "\r" + eol
		}
		out = append(out, line{body: body, eol: eol})
	}
	return out
}

func joinLines(lines []line) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.body)
		b.WriteString(l.eol)
	}
	return b.String()
}

// writeFileAtomic replaces path through a sibling temporary file so an
// interrupted run never leaves a truncated record file.
func writeFileAtomic(path string, data []byte) error {
	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
