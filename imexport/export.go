package imexport

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/koppor/kilt/bundle"
	"github.com/koppor/kilt/propfile"
)

// Read parses the given bundle files below rootDir and merges them
// into one content model. files may be absolute or relative to rootDir.
// Source files are not modified.
func Read(rootDir string, files []string, encoding string) (*bundle.Content, error) {
	if rootDir == "" {
		return nil, errors.New("root directory not set")
	}
	rels, err := relativize(rootDir, files)
	if err != nil {
		return nil, err
	}

	content := bundle.NewContent()
	for _, group := range bundle.GroupFiles(rels) {
		for _, lf := range group.Files {
			pf, err := propfile.ParseFile(filepath.Join(rootDir, filepath.FromSlash(lf.Path)), encoding)
			if err != nil {
				return nil, err
			}
			content.AddLanguage(lf.Lang)
			for _, k := range pf.Keys() {
				v, _ := pf.Get(k)
				content.Add(bundle.Key{Bundle: group.Name, Name: k}, bundle.Translation{Lang: lf.Lang, Value: v})
			}
		}
	}
	return content, nil
}

// Export reads the given bundle files below rootDir and writes their
// combined content into table, one row per key. Every language seen
// anywhere in the scan gets a column in every row; a bundle without a
// value for some language leaves that cell empty. The table is saved
// only after all files were read, so a parse failure never leaves a
// half-written target.
func Export(rootDir string, files []string, encoding string, table Table) error {
	if table == nil {
		return errors.New("table not set")
	}
	content, err := Read(rootDir, files, encoding)
	if err != nil {
		return err
	}

	langs := content.Languages()
	for _, key := range content.Keys() {
		trs := make([]bundle.Translation, 0, len(langs))
		for _, lang := range langs {
			v, _ := content.Get(key, lang)
			trs = append(trs, bundle.Translation{Lang: lang, Value: v})
		}
		if err := table.SetRow(key, trs); err != nil {
			return err
		}
	}
	return table.Save()
}

// relativize turns candidate file paths into slash-separated paths
// relative to root. Paths outside the root are rejected.
func relativize(root string, files []string) ([]string, error) {
	out := make([]string, 0, len(files))
	for _, p := range files {
		rel := p
		if filepath.IsAbs(p) {
			r, err := filepath.Rel(root, p)
			if err != nil {
				return nil, fmt.Errorf("file %s is not below root %s: %w", p, root, err)
			}
			rel = r
		}
		rel = filepath.ToSlash(rel)
		if rel == ".." || strings.HasPrefix(rel, "../") {
			return nil, fmt.Errorf("file %s is not below root %s", p, root)
		}
		out = append(out, rel)
	}
	return out, nil
}
