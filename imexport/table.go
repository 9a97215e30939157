// Package imexport converts between per-language .properties resource
// bundles on disk and one consolidated translation table.
//
// Export reads every bundle file into an ordered content model and
// writes one table row per key with one column per language. Import
// distributes table rows into per-file buffers and writes them back,
// never fabricating keys that neither the file nor the table has and
// never creating files that would end up empty. The two directions are
// independent single passes; nothing is cached between calls.
package imexport

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/koppor/kilt/bundle"
	"github.com/koppor/kilt/csvfile"
	"github.com/koppor/kilt/xlsfile"
)

// Table is one consolidated translation grid, regardless of backing
// format. Content returns the grid as read at open time with one
// translation per language column and row, empty cells included. SetRow
// updates or appends the row of one key. Save persists the grid; Close
// releases it without saving.
type Table interface {
	Content() (*bundle.Content, error)
	SetRow(key bundle.Key, trs []bundle.Translation) error
	Save() error
	Close() error
}

// OpenTable opens an existing table for reading, picking the backend by
// file extension.
func OpenTable(path string) (Table, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		return xlsfile.Open(path)
	case ".csv":
		return csvfile.Open(path)
	default:
		return nil, fmt.Errorf("unsupported table format %q (want .xlsx, .xlsm or .csv)", ext)
	}
}

// CreateTable opens an existing table for updating or sets up a new one,
// picking the backend by file extension.
func CreateTable(path string) (Table, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		return xlsfile.Create(path)
	case ".csv":
		return csvfile.Create(path)
	default:
		return nil, fmt.Errorf("unsupported table format %q (want .xlsx, .xlsm or .csv)", ext)
	}
}
