package propfile

import (
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// DefaultEncoding is the charset used when none is configured.
const DefaultEncoding = "UTF-8"

// lookupEncoding resolves an IANA charset name ("ISO-8859-1", "UTF-16BE").
// The empty name means UTF-8.
func lookupEncoding(name string) (encoding.Encoding, error) {
	if name == "" || strings.EqualFold(name, "UTF-8") || strings.EqualFold(name, "UTF8") {
		return unicode.UTF8, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("unknown charset %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", name)
	}
	return enc, nil
}

// decodeText converts raw file bytes in the named charset to a Go string.
func decodeText(data []byte, name string) (string, error) {
	enc, err := lookupEncoding(name)
	if err != nil {
		return "", err
	}
	if enc == unicode.UTF8 {
		return string(data), nil
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decoding %s text: %w", name, err)
	}
	return string(out), nil
}

// encodeText converts a Go string to the named charset. Runes the charset
// cannot represent are written as \uXXXX escapes, so no text is ever lost
// to a narrow target charset.
func encodeText(text, name string) ([]byte, error) {
	enc, err := lookupEncoding(name)
	if err != nil {
		return nil, err
	}
	if enc == unicode.UTF8 {
		return []byte(text), nil
	}
	out, err := enc.NewEncoder().Bytes([]byte(text))
	if err == nil {
		return out, nil
	}

	var b strings.Builder
	for _, r := range text {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
			continue
		}
		if _, err := enc.NewEncoder().String(string(r)); err != nil {
			writeUnicodeEscape(&b, r)
		} else {
			b.WriteRune(r)
		}
	}
	out, err = enc.NewEncoder().Bytes([]byte(b.String()))
	if err != nil {
		return nil, fmt.Errorf("encoding %s text: %w", name, err)
	}
	return out, nil
}

// writeUnicodeEscape writes r as one \uXXXX escape, or as a surrogate
// pair of two escapes for runes beyond the basic plane.
func writeUnicodeEscape(b *strings.Builder, r rune) {
	if r > 0xFFFF {
		r1, r2 := utf16.EncodeRune(r)
		fmt.Fprintf(b, "\\u%04X\\u%04X", r1, r2)
		return
	}
	fmt.Fprintf(b, "\\u%04X", r)
}
