// Package discovery expands command-line arguments into container files.
package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Extension is the container suffix accepted from directories and, unless
// allowed otherwise, from explicit file arguments.
const Extension = ".mkv"

// ErrNoFiles is returned when the arguments expand to nothing.
var ErrNoFiles = errors.New("no .mkv files found")

// IsContainer reports whether path carries the .mkv extension.
func IsContainer(path string) bool {
	return strings.EqualFold(filepath.Ext(path), Extension)
}

// Expand resolves args into absolute container paths. Files keep their given
// order; a directory contributes its non-hidden .mkv entries sorted by name
// (subdirectories are not walked). Explicit files without the .mkv extension
// are reported in skipped. Duplicates keep their first position.
func Expand(args []string) (paths []string, skipped []string, err error) {
	seen := make(map[string]struct{}, len(args))
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		paths = append(paths, p)
	}

	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if arg == "" {
			continue
		}
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve %q: %w", arg, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, nil, fmt.Errorf("stat %q: %w", arg, err)
		}
		if !info.IsDir() {
			if IsContainer(abs) {
				add(abs)
			} else {
				skipped = append(skipped, abs)
			}
			continue
		}
		entries, err := listDir(abs)
		if err != nil {
			return nil, nil, err
		}
		for _, entry := range entries {
			add(entry)
		}
	}

	if len(paths) == 0 {
		return nil, skipped, ErrNoFiles
	}
	return paths, skipped, nil
}

func listDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %q: %w", dir, err)
	}
	var out []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || !IsContainer(name) {
			continue
		}
		if !entry.Type().IsRegular() && entry.Type()&fs.ModeSymlink == 0 {
			continue
		}
		out = append(out, filepath.Join(dir, name))
	}
	sort.Strings(out)
	return out, nil
}
