package bundle

import "sort"

// Content is the in-memory model built while scanning bundle files:
// for every key the translations found so far, plus the set of
// languages seen anywhere in the scan. Keys keep the order of first
// insertion, so two scans over the same files produce the same grid.
//
// Content is not safe for concurrent use.
type Content struct {
	keys  []Key
	index map[Key]int
	vals  [][]Translation
	langs map[Language]struct{}
}

// NewContent returns an empty Content.
func NewContent() *Content {
	return &Content{
		index: make(map[Key]int),
		langs: make(map[Language]struct{}),
	}
}

// Add records one translation. The first Add of a key fixes its
// position; later Adds for the same key and language append, Get
// returns the last one.
func (c *Content) Add(key Key, tr Translation) {
	c.langs[tr.Lang] = struct{}{}
	i, ok := c.index[key]
	if !ok {
		i = len(c.keys)
		c.index[key] = i
		c.keys = append(c.keys, key)
		c.vals = append(c.vals, nil)
	}
	c.vals[i] = append(c.vals[i], tr)
}

// AddLanguage records a language without any translation, so that a
// file contributing no entries still yields a grid column.
func (c *Content) AddLanguage(lang Language) {
	c.langs[lang] = struct{}{}
}

// Len returns the number of distinct keys.
func (c *Content) Len() int { return len(c.keys) }

// Keys returns all keys in first-insertion order. The slice is shared;
// callers must not modify it.
func (c *Content) Keys() []Key { return c.keys }

// Translations returns all translations recorded for key in insertion
// order. The slice is shared; callers must not modify it.
func (c *Content) Translations(key Key) []Translation {
	i, ok := c.index[key]
	if !ok {
		return nil
	}
	return c.vals[i]
}

// Get returns the value of key in lang. ok is false when the scan saw
// no entry for that pair.
func (c *Content) Get(key Key, lang Language) (value string, ok bool) {
	i, found := c.index[key]
	if !found {
		return "", false
	}
	// Last writer wins when the same file pair was scanned twice.
	for j := len(c.vals[i]) - 1; j >= 0; j-- {
		if c.vals[i][j].Lang == lang {
			return c.vals[i][j].Value, true
		}
	}
	return "", false
}

// Languages returns every language seen in the scan, sorted with the
// default language first.
func (c *Content) Languages() []Language {
	out := make([]Language, 0, len(c.langs))
	for l := range c.langs {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
