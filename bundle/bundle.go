// Package bundle defines the data model shared by the export and import
// directions: languages, bundle keys, translations, and the in-memory
// content built from a scan over resource bundle files.
//
// A resource bundle is a group of .properties files sharing a base name,
// one file per language:
//
//	messages.properties       (default language)
//	messages_de.properties    (German)
//	messages_en_US.properties (US English)
//
// The base name may contain directory separators (e.g. "i18n/messages")
// when bundles live in subdirectories below the root.
package bundle

import (
	"path/filepath"
	"strings"
)

// ---------------------------------------------------------------------------
// Language
// ---------------------------------------------------------------------------

// Language is the locale-variant suffix identifying one file within a
// bundle ("de", "en_US"). The empty Language denotes the default
// (fallback) file, which carries no suffix. Equality and ordering are by
// the literal string.
type Language string

// IsDefault reports whether l is the default language.
func (l Language) IsDefault() bool { return l == "" }

func (l Language) String() string { return string(l) }

// ValidLanguage reports whether s is a well-formed language suffix:
// empty (the default language) or a locale tag like "de" or "en_US".
func ValidLanguage(s string) bool {
	return s == "" || isLangTag(s)
}

// isLangTag checks if a string looks like a locale suffix: a two- or
// three-letter lowercase code, optionally followed by _XX (region).
func isLangTag(s string) bool {
	base, region, hasRegion := strings.Cut(s, "_")
	if len(base) < 2 || len(base) > 3 {
		return false
	}
	for i := 0; i < len(base); i++ {
		if base[i] < 'a' || base[i] > 'z' {
			return false
		}
	}
	if !hasRegion {
		return true
	}
	if len(region) != 2 {
		return false
	}
	return region[0] >= 'A' && region[0] <= 'Z' && region[1] >= 'A' && region[1] <= 'Z'
}

// ---------------------------------------------------------------------------
// Key and Translation
// ---------------------------------------------------------------------------

// Key identifies a single entry: one property key within a named bundle.
// It is a comparable value type usable as a map key.
type Key struct {
	// Bundle is the bundle base name, slash-separated for bundles in
	// subdirectories (e.g. "i18n/messages").
	Bundle string
	// Name is the property key within the bundle.
	Name string
}

func (k Key) String() string { return k.Bundle + "." + k.Name }

// Translation is the value of one key in one language. An empty Value
// means "no localized text for this language", which is distinct from
// the key being absent entirely.
type Translation struct {
	Lang  Language
	Value string
}

// ---------------------------------------------------------------------------
// File naming
// ---------------------------------------------------------------------------

// Ext is the file extension of resource bundle files.
const Ext = ".properties"

// FileFor derives the path of the bundle file for one language:
// <root>/<name>.properties for the default language,
// <root>/<name>_<lang>.properties otherwise. The mapping is injective
// for (name, lang) pairs that differ in either component.
func FileFor(root, name string, lang Language) string {
	file := name
	if !lang.IsDefault() {
		file += "_" + string(lang)
	}
	return filepath.Join(root, filepath.FromSlash(file)+Ext)
}

// SplitFilename splits a bundle file path (relative to the root,
// slash-separated) into bundle base name and language. ok is false when
// the path does not name a .properties file.
//
// The language suffix is the longest trailing _<tag> whose tag looks
// like a locale ("de", "en_US"): "messages_en_US" splits into
// ("messages", "en_US") while "my_bundle" stays one base name.
func SplitFilename(rel string) (name string, lang Language, ok bool) {
	if !strings.HasSuffix(rel, Ext) {
		return "", "", false
	}
	stem := strings.TrimSuffix(rel, Ext)
	if stem == "" {
		return "", "", false
	}

	// Only the final path element can carry a language suffix.
	dir, base := "", stem
	if i := strings.LastIndexByte(stem, '/'); i >= 0 {
		dir, base = stem[:i+1], stem[i+1:]
	}

	for i := 1; i < len(base); i++ {
		if base[i] != '_' {
			continue
		}
		if tag := base[i+1:]; isLangTag(tag) {
			return dir + base[:i], Language(tag), true
		}
	}
	return stem, "", true
}
