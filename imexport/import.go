package imexport

import (
	"errors"
	"os"

	"github.com/koppor/kilt/bundle"
	"github.com/koppor/kilt/propfile"
)

// fileBuffer is the in-progress state of one target .properties file:
// its parsed content (the existing file when there is one) and the keys
// the table assigned a value to during this run.
type fileBuffer struct {
	path    string
	file    *propfile.File
	existed bool
	touched map[string]bool
}

// bufferIndex maps (bundle, language) to its fileBuffer. Both levels
// keep insertion order so the write phase is deterministic.
type bufferIndex struct {
	root     string
	encoding string

	names  []string
	byName map[string]*languageBuffers
}

type languageBuffers struct {
	langs  []bundle.Language
	byLang map[bundle.Language]*fileBuffer
}

// get returns the buffer for one target file, parsing the existing file
// on first access so later entries for the same file reuse it.
func (ix *bufferIndex) get(name string, lang bundle.Language) (*fileBuffer, error) {
	lb, ok := ix.byName[name]
	if !ok {
		lb = &languageBuffers{byLang: make(map[bundle.Language]*fileBuffer)}
		ix.byName[name] = lb
		ix.names = append(ix.names, name)
	}
	fb, ok := lb.byLang[lang]
	if !ok {
		path := bundle.FileFor(ix.root, name, lang)
		fb = &fileBuffer{path: path, touched: make(map[string]bool)}
		if _, err := os.Stat(path); err == nil {
			pf, err := propfile.ParseFile(path, ix.encoding)
			if err != nil {
				return nil, err
			}
			fb.file = pf
			fb.existed = true
		} else if os.IsNotExist(err) {
			fb.file = propfile.New()
		} else {
			return nil, err
		}
		lb.byLang[lang] = fb
		lb.langs = append(lb.langs, lang)
	}
	return fb, nil
}

// Import distributes the table's rows into per-file buffers and writes
// them below rootDir as <bundle>[_<lang>].properties. A non-empty value
// is always set; an empty value is set only when the key already exists
// in the buffer, so empty cells can clear existing keys but never
// fabricate new ones. Keys present in an existing file that the table
// never assigned get the missing-key action. A buffer that ends up with
// no entries for a file that did not exist is dropped rather than
// written, so unsupported locales never leave empty files behind.
func Import(rootDir string, table Table, encoding string, action propfile.MissingKeyAction) error {
	if rootDir == "" {
		return errors.New("root directory not set")
	}
	if table == nil {
		return errors.New("table not set")
	}
	content, err := table.Content()
	if err != nil {
		return err
	}

	ix := &bufferIndex{
		root:     rootDir,
		encoding: encoding,
		byName:   make(map[string]*languageBuffers),
	}
	for _, key := range content.Keys() {
		for _, tr := range content.Translations(key) {
			fb, err := ix.get(key.Bundle, tr.Lang)
			if err != nil {
				return err
			}
			if tr.Value != "" || fb.file.Has(key.Name) {
				fb.file.Put(key.Name, tr.Value)
				fb.touched[key.Name] = true
			}
		}
	}

	for _, name := range ix.names {
		lb := ix.byName[name]
		for _, lang := range lb.langs {
			fb := lb.byLang[lang]
			if !fb.existed && fb.file.Len() == 0 {
				continue
			}
			fb.applyMissingKeyAction(action)
			if err := fb.file.SaveTo(fb.path, propfile.Options{Encoding: encoding}); err != nil {
				return err
			}
		}
	}
	return nil
}

// applyMissingKeyAction handles the keys of a pre-existing file that
// received no value from the table.
func (fb *fileBuffer) applyMissingKeyAction(action propfile.MissingKeyAction) {
	if action == propfile.DoNothing || !fb.existed {
		return
	}
	for _, k := range fb.file.Keys() {
		if fb.touched[k] {
			continue
		}
		switch action {
		case propfile.Delete:
			fb.file.Remove(k)
		case propfile.Comment:
			fb.file.CommentOut(k)
		}
	}
}
