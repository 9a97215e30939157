// Package propfile implements reading and writing of Java .properties files.
//
// Format: one key/value entry per logical line. '=' or ':' (or bare
// whitespace) separates key from value; a trailing backslash continues the
// entry on the next line, whose leading whitespace is skipped. The escapes
// \t \n \f \r \\ and \uXXXX are decoded on read and encoded on write, and
// a backslash neutralises separator characters inside keys. Lines starting
// with '#' or '!' are comments.
//
// The File type keeps every line in document order. Comments, blank lines,
// and untouched entries are written back with their original text, so a
// read/write round trip without changes reproduces the file byte for byte.
// Entries added or changed in memory are re-serialized on write.
package propfile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

// SyntaxError describes a malformed construct in a properties file.
type SyntaxError struct {
	Path string // file path, empty when parsing a byte slice
	Line int    // 1-based physical line where the entry starts
	Msg  string
}

func (e *SyntaxError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
}

// ---------------------------------------------------------------------------
// Missing-key action
// ---------------------------------------------------------------------------

// MissingKeyAction selects what the importer does with keys that exist in
// a file on disk but received no value from the imported table.
type MissingKeyAction int

const (
	// DoNothing leaves such keys untouched.
	DoNothing MissingKeyAction = iota
	// Delete removes them from the file.
	Delete
	// Comment keeps them as comment lines.
	Comment
)

// ParseMissingKeyAction parses the command-line spelling of an action.
func ParseMissingKeyAction(s string) (MissingKeyAction, error) {
	switch strings.ToLower(s) {
	case "", "nothing", "donothing":
		return DoNothing, nil
	case "delete", "remove":
		return Delete, nil
	case "comment":
		return Comment, nil
	}
	return DoNothing, fmt.Errorf("unknown missing-key action %q (want nothing, delete or comment)", s)
}

func (a MissingKeyAction) String() string {
	switch a {
	case Delete:
		return "delete"
	case Comment:
		return "comment"
	default:
		return "nothing"
	}
}

// ---------------------------------------------------------------------------
// File model
// ---------------------------------------------------------------------------

// lineKind classifies each line in the file.
type lineKind int

const (
	lineBlank   lineKind = iota // blank / whitespace-only line
	lineComment                 // comment line (starts with # or !)
	lineEntry                   // key/value entry
)

// line is a single logical line. For entries spanning several physical
// lines (continuations), raw holds all of them joined with '\n'.
type line struct {
	kind  lineKind
	raw   string // original text; authoritative unless dirty
	key   string // decoded key (lineEntry only)
	value string // decoded value (lineEntry only)
	dirty bool   // entry changed in memory, raw is stale
}

// File represents a parsed .properties file.
type File struct {
	// lines stores all lines in document order.
	lines []line
	// index maps key → index in lines for fast lookup.
	index map[string]int
}

// New returns an empty File.
func New() *File {
	return &File{index: make(map[string]int)}
}

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// ParseFile reads and parses a .properties file from disk. encoding is an
// IANA charset name, UTF-8 when empty.
func ParseFile(path, encoding string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	f, err := Parse(data, encoding)
	if err != nil {
		var serr *SyntaxError
		if errors.As(err, &serr) {
			serr.Path = path
		}
		return nil, err
	}
	return f, nil
}

// Parse parses .properties content from a byte slice.
func Parse(data []byte, encoding string) (*File, error) {
	text, err := decodeText(data, encoding)
	if err != nil {
		return nil, err
	}
	f := New()

	// Normalise line endings.
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	rawLines := strings.Split(text, "\n")

	// Drop trailing empty element from a file that ends with \n.
	if len(rawLines) > 0 && rawLines[len(rawLines)-1] == "" {
		rawLines = rawLines[:len(rawLines)-1]
	}

	for i := 0; i < len(rawLines); i++ {
		raw := rawLines[i]
		startLine := i + 1
		trimmed := strings.TrimLeft(raw, " \t\f")

		switch {
		case trimmed == "":
			f.lines = append(f.lines, line{kind: lineBlank, raw: raw})

		case trimmed[0] == '#' || trimmed[0] == '!':
			// A backslash at the end of a comment does not continue it.
			f.lines = append(f.lines, line{kind: lineComment, raw: raw})

		default:
			logical := trimmed
			full := raw
			for endsWithContinuation(logical) {
				logical = logical[:len(logical)-1]
				if i++; i >= len(rawLines) {
					break
				}
				logical += strings.TrimLeft(rawLines[i], " \t\f")
				full += "\n" + rawLines[i]
			}

			rawKey, rawValue := splitEntry(logical)
			key, err := unescape(rawKey)
			if err == nil {
				var value string
				value, err = unescape(rawValue)
				if err == nil {
					f.addParsed(key, value, full)
					continue
				}
			}
			var serr *SyntaxError
			if errors.As(err, &serr) {
				serr.Line = startLine
			}
			return nil, err
		}
	}

	return f, nil
}

// addParsed records one parsed entry, keeping the first occurrence's
// position when the same key appears twice and letting the later value win.
func (f *File) addParsed(key, value, raw string) {
	if key == "" {
		// No key at all ("=value" lines): not addressable, keep verbatim.
		f.lines = append(f.lines, line{kind: lineComment, raw: raw})
		return
	}
	if idx, exists := f.index[key]; exists {
		if f.lines[idx].value != value {
			f.lines[idx].value = value
			f.lines[idx].dirty = true
		}
		return
	}
	f.index[key] = len(f.lines)
	f.lines = append(f.lines, line{kind: lineEntry, raw: raw, key: key, value: value})
}

// endsWithContinuation reports whether a line ends with an odd number of
// backslashes, i.e. the final backslash escapes the line break.
func endsWithContinuation(s string) bool {
	n := 0
	for i := len(s) - 1; i >= 0 && s[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

// splitEntry splits a logical line into raw (still escaped) key and value.
// The key ends at the first unescaped '=', ':' or whitespace; an '=' or ':'
// directly after the key (possibly surrounded by whitespace) is consumed
// as the separator.
func splitEntry(s string) (rawKey, rawValue string) {
	keyLen := 0
	valueStart := len(s)
	hasSep := false
	backslash := false
	for keyLen < len(s) {
		c := s[keyLen]
		if (c == '=' || c == ':') && !backslash {
			valueStart = keyLen + 1
			hasSep = true
			break
		}
		if (c == ' ' || c == '\t' || c == '\f') && !backslash {
			valueStart = keyLen + 1
			break
		}
		if c == '\\' {
			backslash = !backslash
		} else {
			backslash = false
		}
		keyLen++
	}
	for valueStart < len(s) {
		c := s[valueStart]
		if c != ' ' && c != '\t' && c != '\f' {
			if !hasSep && (c == '=' || c == ':') {
				hasSep = true
			} else {
				break
			}
		}
		valueStart++
	}
	return s[:keyLen], s[valueStart:]
}

// unescape decodes backslash escapes. \uXXXX pairs forming a surrogate
// pair are combined into one rune.
func unescape(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			break
		}
		switch s[i] {
		case 'u':
			r, n, err := parseUnicodeEscape(s[i+1:])
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
			i += n
		case 't':
			b.WriteByte('\t')
		case 'n':
			b.WriteByte('\n')
		case 'f':
			b.WriteByte('\f')
		case 'r':
			b.WriteByte('\r')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String(), nil
}

// parseUnicodeEscape decodes the hex digits following \u, consuming a
// second \uXXXX when the two form a surrogate pair. It returns the rune
// and the number of bytes consumed after the 'u'.
func parseUnicodeEscape(s string) (rune, int, error) {
	if len(s) < 4 {
		return 0, 0, &SyntaxError{Msg: `malformed \uxxxx escape`}
	}
	n, err := strconv.ParseUint(s[:4], 16, 32)
	if err != nil {
		return 0, 0, &SyntaxError{Msg: `malformed \uxxxx escape`}
	}
	r := rune(n)
	if utf16.IsSurrogate(r) && len(s) >= 10 && s[4] == '\\' && s[5] == 'u' {
		if n2, err2 := strconv.ParseUint(s[6:10], 16, 32); err2 == nil {
			if combined := utf16.DecodeRune(r, rune(n2)); combined != utf8.RuneError {
				return combined, 10, nil
			}
		}
	}
	return r, 4, nil
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

// Keys returns all keys in document order.
func (f *File) Keys() []string {
	keys := make([]string, 0, len(f.index))
	for _, ln := range f.lines {
		if ln.kind == lineEntry {
			keys = append(keys, ln.key)
		}
	}
	return keys
}

// Len returns the number of entries.
func (f *File) Len() int { return len(f.index) }

// Get returns the value for key and whether it was found.
func (f *File) Get(key string) (string, bool) {
	if idx, ok := f.index[key]; ok {
		return f.lines[idx].value, true
	}
	return "", false
}

// Has reports whether key exists in the file.
func (f *File) Has(key string) bool {
	_, ok := f.index[key]
	return ok
}

// Put sets the value for key. An existing key keeps its position in the
// file; a new key is appended at the end. Setting the value an entry
// already has leaves its original text untouched.
func (f *File) Put(key, value string) {
	if idx, ok := f.index[key]; ok {
		if f.lines[idx].value != value {
			f.lines[idx].value = value
			f.lines[idx].dirty = true
		}
		return
	}
	f.index[key] = len(f.lines)
	f.lines = append(f.lines, line{kind: lineEntry, key: key, value: value, dirty: true})
}

// Remove deletes key and its line. It returns false if the key does not
// exist.
func (f *File) Remove(key string) bool {
	idx, ok := f.index[key]
	if !ok {
		return false
	}
	f.lines = append(f.lines[:idx], f.lines[idx+1:]...)
	f.reindex()
	return true
}

// CommentOut turns the entry for key into a comment line, keeping its
// position. It returns false if the key does not exist.
func (f *File) CommentOut(key string) bool {
	idx, ok := f.index[key]
	if !ok {
		return false
	}
	ln := &f.lines[idx]
	raw := ln.raw
	if ln.dirty || raw == "" {
		raw = serializeEntry(ln.key, ln.value)
	}
	ln.kind = lineComment
	ln.raw = "#" + strings.ReplaceAll(raw, "\n", "\n#")
	ln.key, ln.value, ln.dirty = "", "", false
	delete(f.index, key)
	return true
}

func (f *File) reindex() {
	f.index = make(map[string]int, len(f.index))
	for i, ln := range f.lines {
		if ln.kind == lineEntry {
			f.index[ln.key] = i
		}
	}
}

// ---------------------------------------------------------------------------
// Serialization
// ---------------------------------------------------------------------------

// Options control how a File is written.
type Options struct {
	// Encoding is the IANA charset name of the output, UTF-8 when empty.
	// Runes the charset cannot represent are written as \uXXXX.
	Encoding string
}

// Marshal serialises the file in .properties format and the given charset.
func (f *File) Marshal(encoding string) ([]byte, error) {
	var buf bytes.Buffer
	for _, ln := range f.lines {
		if ln.kind == lineEntry && (ln.dirty || ln.raw == "") {
			buf.WriteString(serializeEntry(ln.key, ln.value))
		} else {
			buf.WriteString(ln.raw)
		}
		buf.WriteByte('\n')
	}
	return encodeText(buf.String(), encoding)
}

// SaveTo serialises the file and writes it to path, creating parent
// directories with 0755 permissions.
func (f *File) SaveTo(path string, opts Options) error {
	data, err := f.Marshal(opts.Encoding)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// serializeEntry renders one entry as "key=value" with all escapes applied.
func serializeEntry(key, value string) string {
	return escapeKey(key) + "=" + escapeValue(value)
}

// escapeKey escapes a key so the separator scan reproduces it exactly:
// backslashes, whitespace, separators and comment markers are protected.
func escapeKey(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\', '=', ':', ' ', '#', '!':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		case '\f':
			b.WriteString(`\f`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// escapeValue escapes a value. Only leading whitespace needs protection
// from the parser's whitespace skipping; separators may appear verbatim.
func escapeValue(s string) string {
	var b strings.Builder
	leading := true
	for _, r := range s {
		if leading && r == ' ' {
			b.WriteString(`\ `)
			continue
		}
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		case '\f':
			b.WriteString(`\f`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
			leading = false
			continue
		}
		leading = false
	}
	return b.String()
}
