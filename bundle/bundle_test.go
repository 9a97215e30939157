package bundle

import (
	"path/filepath"
	"testing"
)

func TestSplitFilename(t *testing.T) {
	tests := []struct {
		rel  string
		name string
		lang Language
		ok   bool
	}{
		{"messages.properties", "messages", "", true},
		{"messages_de.properties", "messages", "de", true},
		{"messages_en_US.properties", "messages", "en_US", true},
		{"messages_ast.properties", "messages", "ast", true},
		{"i18n/messages_fr.properties", "i18n/messages", "fr", true},
		{"deep/sub/dir/labels.properties", "deep/sub/dir/labels", "", true},
		// Underscores that are part of the base name stay there.
		{"my_bundle.properties", "my_bundle", "", true},
		{"my_bundle_de.properties", "my_bundle", "de", true},
		{"my_bundle_de_AT.properties", "my_bundle", "de_AT", true},
		{"errors_messages.properties", "errors_messages", "", true},
		// Suffixes that do not look like a locale are not split off.
		{"messages_DE.properties", "messages_DE", "", true},
		{"messages_d.properties", "messages_d", "", true},
		{"messages_abcd.properties", "messages_abcd", "", true},
		{"messages_en_us.properties", "messages_en_us", "", true},
		// A directory may contain underscores without confusing the split.
		{"some_dir/messages_de.properties", "some_dir/messages", "de", true},
		// Not bundle files at all.
		{"messages.txt", "", "", false},
		{"messages", "", "", false},
		{".properties", "", "", false},
	}
	for _, tt := range tests {
		name, lang, ok := SplitFilename(tt.rel)
		if ok != tt.ok {
			t.Errorf("SplitFilename(%q) ok = %v, want %v", tt.rel, ok, tt.ok)
			continue
		}
		if name != tt.name || lang != tt.lang {
			t.Errorf("SplitFilename(%q) = %q, %q, want %q, %q", tt.rel, name, lang, tt.name, tt.lang)
		}
	}
}

func TestFileFor(t *testing.T) {
	tests := []struct {
		root string
		name string
		lang Language
		want string
	}{
		{"/tmp/res", "messages", "", filepath.FromSlash("/tmp/res/messages.properties")},
		{"/tmp/res", "messages", "de", filepath.FromSlash("/tmp/res/messages_de.properties")},
		{"/tmp/res", "i18n/messages", "en_US", filepath.FromSlash("/tmp/res/i18n/messages_en_US.properties")},
		{"", "messages", "fr", filepath.FromSlash("messages_fr.properties")},
	}
	for _, tt := range tests {
		if got := FileFor(tt.root, tt.name, tt.lang); got != tt.want {
			t.Errorf("FileFor(%q, %q, %q) = %q, want %q", tt.root, tt.name, tt.lang, got, tt.want)
		}
	}
}

func TestFileForSplitRoundTrip(t *testing.T) {
	names := []string{"messages", "my_bundle", "i18n/messages"}
	langs := []Language{"", "de", "en_US"}
	for _, name := range names {
		for _, lang := range langs {
			path := FileFor("", name, lang)
			rel := filepath.ToSlash(path)
			gotName, gotLang, ok := SplitFilename(rel)
			if !ok {
				t.Fatalf("SplitFilename(%q) not ok", rel)
			}
			if gotName != name || gotLang != lang {
				t.Errorf("round trip %q/%q via %q = %q/%q", name, lang, rel, gotName, gotLang)
			}
		}
	}
}

func TestContentKeyOrder(t *testing.T) {
	c := NewContent()
	c.Add(Key{"messages", "b"}, Translation{"", "B"})
	c.Add(Key{"messages", "a"}, Translation{"", "A"})
	c.Add(Key{"labels", "x"}, Translation{"de", "X"})
	c.Add(Key{"messages", "b"}, Translation{"de", "B de"})

	want := []Key{{"messages", "b"}, {"messages", "a"}, {"labels", "x"}}
	keys := c.Keys()
	if len(keys) != len(want) {
		t.Fatalf("got %d keys, want %d", len(keys), len(want))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key %d = %v, want %v", i, keys[i], want[i])
		}
	}
}

func TestContentGet(t *testing.T) {
	c := NewContent()
	k := Key{"messages", "greeting"}
	c.Add(k, Translation{"", "Hello"})
	c.Add(k, Translation{"de", "Hallo"})

	if v, ok := c.Get(k, ""); !ok || v != "Hello" {
		t.Errorf("Get default = %q, %v", v, ok)
	}
	if v, ok := c.Get(k, "de"); !ok || v != "Hallo" {
		t.Errorf("Get de = %q, %v", v, ok)
	}
	if _, ok := c.Get(k, "fr"); ok {
		t.Error("Get fr should report absence")
	}
	if _, ok := c.Get(Key{"messages", "other"}, ""); ok {
		t.Error("Get of unknown key should report absence")
	}

	// A later Add for the same key and language wins.
	c.Add(k, Translation{"de", "Servus"})
	if v, _ := c.Get(k, "de"); v != "Servus" {
		t.Errorf("Get de after overwrite = %q, want %q", v, "Servus")
	}
}

func TestContentLanguages(t *testing.T) {
	c := NewContent()
	c.Add(Key{"m", "k"}, Translation{"fr", "f"})
	c.Add(Key{"m", "k"}, Translation{"", "d"})
	c.Add(Key{"m", "k"}, Translation{"de", "g"})
	c.AddLanguage("en_US")

	got := c.Languages()
	want := []Language{"", "de", "en_US", "fr"}
	if len(got) != len(want) {
		t.Fatalf("got %d languages, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("language %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestGroupFiles(t *testing.T) {
	files := []string{
		"messages_de.properties",
		"labels.properties",
		"messages.properties",
		"README.md",
		"labels_fr.properties",
	}
	groups := GroupFiles(files)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].Name != "messages" || groups[1].Name != "labels" {
		t.Errorf("group order = %q, %q", groups[0].Name, groups[1].Name)
	}
	if len(groups[0].Files) != 2 || groups[0].Files[0].Lang != "de" || groups[0].Files[1].Lang != "" {
		t.Errorf("messages files = %v", groups[0].Files)
	}
	if len(groups[1].Files) != 2 || groups[1].Files[0].Lang != "" || groups[1].Files[1].Lang != "fr" {
		t.Errorf("labels files = %v", groups[1].Files)
	}
}
