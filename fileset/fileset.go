// Package fileset selects the bundle files an operation works on:
// regular files below a root directory whose root-relative paths match
// Ant-style include patterns and no exclude pattern.
package fileset

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultInclude matches every .properties file below the root.
const DefaultInclude = "**/*.properties"

// Collect walks root and returns the sorted, root-relative slash paths
// of all regular files matching at least one include pattern and no
// exclude pattern. Patterns use doublestar syntax, e.g.
// "i18n/**/*.properties". An empty include list means DefaultInclude.
func Collect(root string, includes, excludes []string) ([]string, error) {
	if len(includes) == 0 {
		includes = []string{DefaultInclude}
	}
	for _, p := range includes {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid include pattern %q", p)
		}
	}
	for _, p := range excludes {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern %q", p)
		}
	}

	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if matchAny(includes, rel) && !matchAny(excludes, rel) {
			out = append(out, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	sort.Strings(out)
	return out, nil
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}
