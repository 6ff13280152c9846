package tree

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// visitFunc receives a snapshot of dir's listing and returns the
// subdirectories to descend into.
type visitFunc func(dir string, entries []fs.DirEntry) []string

// walk consumes a breadth-first worklist of directories starting at root.
// Each listing is read once before visit mutates anything under it, so renames
// performed by visit never disturb the iteration. Directories that vanish
// before they are listed are skipped. Other listing errors go to onErr.
func walk(root string, visit visitFunc, onErr func(dir string, err error)) {
	queue := []string{root}
	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]

		entries, err := os.ReadDir(dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			if onErr != nil {
				onErr(dir, err)
			}
			continue
		}
		queue = append(queue, visit(dir, entries)...)
	}
}

// subdirs returns the paths of the directory entries in entries.
func subdirs(dir string, entries []fs.DirEntry) []string {
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out
}

// exists reports whether path can be stat'ed without following symlinks.
func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
