// Package csvfile reads and writes the translation grid as a CSV file.
//
// The grid matches the XLSX layout: header "Bundle Basename" | "Key" |
// one column per language, one row per bundle key. Quoting and embedded
// newlines follow RFC 4180 via encoding/csv. Unlike a workbook, a CSV
// file carries no formatting, so saving rewrites the whole file; rows
// and columns of an existing file keep their order.
package csvfile

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/koppor/kilt/bundle"
)

const (
	headerBundle = "Bundle Basename"
	headerKey    = "Key"
)

// File is a translation grid backed by a CSV file.
type File struct {
	path    string
	rows    [][]string // data rows, without the header
	langs   []bundle.Language
	langCol map[bundle.Language]int // language → 0-based cell index
	rowOf   map[bundle.Key]int      // key → 0-based index into rows
	content *bundle.Content
}

// Open opens an existing CSV grid. It fails if the file does not exist
// or holds malformed rows.
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	f := newFile(path)
	if err := f.load(data); err != nil {
		return nil, err
	}
	return f, nil
}

// Create opens path for writing: an existing file is loaded and updated,
// otherwise an empty grid is set up.
func Create(path string) (*File, error) {
	if _, err := os.Stat(path); err == nil {
		return Open(path)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return newFile(path), nil
}

func newFile(path string) *File {
	return &File{
		path:    path,
		langCol: make(map[bundle.Language]int),
		rowOf:   make(map[bundle.Key]int),
		content: bundle.NewContent(),
	}
}

func (f *File) load(data []byte) error {
	r := csv.NewReader(bufio.NewReader(bytes.NewReader(stripBOM(data))))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("parsing %s: %w", f.path, err)
	}
	if len(records) == 0 {
		return nil
	}

	header := records[0]
	width := len(header)
	for _, rec := range records[1:] {
		if len(rec) > width {
			width = len(rec)
		}
	}
	for col := 3; col <= width; col++ {
		name := cellAt(header, col)
		if !bundle.ValidLanguage(name) {
			return fmt.Errorf("%s: header column %d: %q is not a language", f.path, col, name)
		}
		lang := bundle.Language(name)
		if _, dup := f.langCol[lang]; dup {
			return fmt.Errorf("%s: header column %d: duplicate language %q", f.path, col, name)
		}
		f.langCol[lang] = col - 1
		f.langs = append(f.langs, lang)
		f.content.AddLanguage(lang)
	}

	for i, rec := range records[1:] {
		row := i + 2
		name, key := cellAt(rec, 1), cellAt(rec, 2)
		if name == "" && key == "" {
			if recordEmpty(rec) {
				continue
			}
			return fmt.Errorf("%s: row %d: missing bundle name and key", f.path, row)
		}
		if name == "" {
			return fmt.Errorf("%s: row %d: missing bundle name", f.path, row)
		}
		if key == "" {
			return fmt.Errorf("%s: row %d: missing key", f.path, row)
		}
		bk := bundle.Key{Bundle: name, Name: key}
		f.rowOf[bk] = len(f.rows)
		f.rows = append(f.rows, padded(rec, 2+len(f.langs)))
		for j, lang := range f.langs {
			f.content.Add(bk, bundle.Translation{Lang: lang, Value: cellAt(rec, 3+j)})
		}
	}
	return nil
}

// cellAt returns the 1-based column's cell, empty beyond the record width.
func cellAt(rec []string, col int) string {
	if col <= len(rec) {
		return rec[col-1]
	}
	return ""
}

func recordEmpty(rec []string) bool {
	for _, c := range rec {
		if c != "" {
			return false
		}
	}
	return true
}

func padded(rec []string, width int) []string {
	out := make([]string, width)
	copy(out, rec)
	return out
}

func stripBOM(b []byte) []byte {
	bom := []byte{0xEF, 0xBB, 0xBF}
	if len(b) >= 3 && bytes.Equal(b[:3], bom) {
		return b[3:]
	}
	return b
}

// Content returns the grid as loaded: one translation per language
// column for every row, empty cells included.
func (f *File) Content() (*bundle.Content, error) {
	return f.content, nil
}

// SetRow writes the translations of one key, appending a new row for
// unknown keys and a new language column for unknown languages.
func (f *File) SetRow(key bundle.Key, trs []bundle.Translation) error {
	idx, ok := f.rowOf[key]
	if !ok {
		idx = len(f.rows)
		f.rowOf[key] = idx
		row := padded([]string{key.Bundle, key.Name}, 2+len(f.langs))
		f.rows = append(f.rows, row)
	}
	for _, tr := range trs {
		col, ok := f.langCol[tr.Lang]
		if !ok {
			col = 2 + len(f.langs)
			f.langCol[tr.Lang] = col
			f.langs = append(f.langs, tr.Lang)
		}
		row := f.rows[idx]
		if col >= len(row) {
			row = padded(row, col+1)
			f.rows[idx] = row
		}
		row[col] = tr.Value
	}
	return nil
}

// Save rewrites the whole CSV file.
func (f *File) Save() error {
	width := 2 + len(f.langs)
	header := padded([]string{headerBundle, headerKey}, width)
	for i, lang := range f.langs {
		header[2+i] = string(lang)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing %s: %w", f.path, err)
	}
	for _, row := range f.rows {
		if err := w.Write(padded(row, width)); err != nil {
			return fmt.Errorf("writing %s: %w", f.path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("writing %s: %w", f.path, err)
	}
	if err := os.WriteFile(f.path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", f.path, err)
	}
	return nil
}

// Close is a no-op; the file is fully read at open time.
func (f *File) Close() error { return nil }
