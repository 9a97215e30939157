// Package xlsfile reads and writes the translation grid as an XLSX
// workbook.
//
// Layout: one sheet, header row "Bundle Basename" | "Key" | one column
// per language (the default language has an empty header and comes
// first), then one row per bundle key. Opening an existing workbook
// keeps its rows, columns, and any formatting a translator applied;
// changed cells are updated in place and new keys or languages are
// appended.
package xlsfile

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/koppor/kilt/bundle"
)

// SheetName is the sheet used in workbooks created by this package.
// When an existing workbook has no such sheet, the first one is used.
const SheetName = "i18n"

const (
	headerBundle = "Bundle Basename"
	headerKey    = "Key"
)

// File is an open translation workbook.
type File struct {
	path    string
	wb      *excelize.File
	sheet   string
	langs   []bundle.Language        // language column order
	langCol map[bundle.Language]int  // language → 1-based column
	rowOf   map[bundle.Key]int       // key → 1-based row
	lastRow int
	content *bundle.Content // snapshot parsed at open time
}

// Open opens an existing workbook and reads the whole grid. It fails if
// the file does not exist or holds malformed rows.
func Open(path string) (*File, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	f := &File{
		path:    path,
		wb:      wb,
		sheet:   pickSheet(wb),
		langCol: make(map[bundle.Language]int),
		rowOf:   make(map[bundle.Key]int),
	}
	if err := f.load(); err != nil {
		wb.Close()
		return nil, err
	}
	return f, nil
}

// Create opens path for writing: an existing workbook is opened and
// updated in place, otherwise a fresh one with an empty grid is set up.
func Create(path string) (*File, error) {
	if _, err := os.Stat(path); err == nil {
		return Open(path)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	wb := excelize.NewFile()
	if err := wb.SetSheetName(wb.GetSheetName(0), SheetName); err != nil {
		wb.Close()
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	f := &File{
		path:    path,
		wb:      wb,
		sheet:   SheetName,
		langCol: make(map[bundle.Language]int),
		rowOf:   make(map[bundle.Key]int),
		lastRow: 1,
		content: bundle.NewContent(),
	}
	if err := f.setCell(1, 1, headerBundle); err != nil {
		wb.Close()
		return nil, err
	}
	if err := f.setCell(2, 1, headerKey); err != nil {
		wb.Close()
		return nil, err
	}
	return f, nil
}

// pickSheet prefers the i18n sheet and falls back to the first one.
func pickSheet(wb *excelize.File) string {
	for _, name := range wb.GetSheetList() {
		if name == SheetName {
			return name
		}
	}
	return wb.GetSheetName(0)
}

// load parses the grid into the language/row indexes and the content
// snapshot.
func (f *File) load() error {
	rows, err := f.wb.GetRows(f.sheet)
	if err != nil {
		return fmt.Errorf("reading %s: %w", f.path, err)
	}
	f.content = bundle.NewContent()

	if len(rows) == 0 {
		// Empty sheet: start a fresh grid.
		f.lastRow = 1
		if err := f.setCell(1, 1, headerBundle); err != nil {
			return err
		}
		return f.setCell(2, 1, headerKey)
	}
	f.lastRow = len(rows)

	// Column count may exceed the header width: a trailing empty header
	// cell (the default language) is trimmed by the reader.
	width := len(rows[0])
	for _, row := range rows[1:] {
		if len(row) > width {
			width = len(row)
		}
	}
	for col := 3; col <= width; col++ {
		name := cellAt(rows[0], col)
		if !bundle.ValidLanguage(name) {
			return fmt.Errorf("%s: header column %d: %q is not a language", f.path, col, name)
		}
		lang := bundle.Language(name)
		if _, dup := f.langCol[lang]; dup {
			return fmt.Errorf("%s: header column %d: duplicate language %q", f.path, col, name)
		}
		f.langCol[lang] = col
		f.langs = append(f.langs, lang)
		f.content.AddLanguage(lang)
	}

	for i, row := range rows[1:] {
		sheetRow := i + 2
		name, key := cellAt(row, 1), cellAt(row, 2)
		if name == "" && key == "" {
			if rowEmpty(row) {
				continue
			}
			return fmt.Errorf("%s: row %d: missing bundle name and key", f.path, sheetRow)
		}
		if name == "" {
			return fmt.Errorf("%s: row %d: missing bundle name", f.path, sheetRow)
		}
		if key == "" {
			return fmt.Errorf("%s: row %d: missing key", f.path, sheetRow)
		}
		bk := bundle.Key{Bundle: name, Name: key}
		f.rowOf[bk] = sheetRow
		for j, lang := range f.langs {
			f.content.Add(bk, bundle.Translation{Lang: lang, Value: cellAt(row, 3+j)})
		}
	}
	return nil
}

// cellAt returns the 1-based column's cell, empty beyond the row width.
func cellAt(row []string, col int) string {
	if col <= len(row) {
		return row[col-1]
	}
	return ""
}

func rowEmpty(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}

// Content returns the grid as parsed when the file was opened: one
// translation per language column for every row, empty cells included.
func (f *File) Content() (*bundle.Content, error) {
	return f.content, nil
}

// SetRow writes the translations of one key, appending a new row for
// unknown keys and a new language column for unknown languages.
func (f *File) SetRow(key bundle.Key, trs []bundle.Translation) error {
	row, ok := f.rowOf[key]
	if !ok {
		f.lastRow++
		row = f.lastRow
		f.rowOf[key] = row
		if err := f.setCell(1, row, key.Bundle); err != nil {
			return err
		}
		if err := f.setCell(2, row, key.Name); err != nil {
			return err
		}
	}
	for _, tr := range trs {
		col, ok := f.langCol[tr.Lang]
		if !ok {
			col = 3 + len(f.langs)
			f.langCol[tr.Lang] = col
			f.langs = append(f.langs, tr.Lang)
			if err := f.setCell(col, 1, string(tr.Lang)); err != nil {
				return err
			}
		}
		if err := f.setCell(col, row, tr.Value); err != nil {
			return err
		}
	}
	return nil
}

func (f *File) setCell(col, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("%s: cell (%d,%d): %w", f.path, col, row, err)
	}
	if err := f.wb.SetCellStr(f.sheet, cell, value); err != nil {
		return fmt.Errorf("%s: writing cell %s: %w", f.path, cell, err)
	}
	return nil
}

// Save writes the workbook to its path.
func (f *File) Save() error {
	if err := f.wb.SaveAs(f.path); err != nil {
		return fmt.Errorf("writing %s: %w", f.path, err)
	}
	return nil
}

// Close releases the workbook without saving.
func (f *File) Close() error {
	return f.wb.Close()
}
