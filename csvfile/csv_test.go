package csvfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/koppor/kilt/bundle"
)

func TestCreate_NewGridRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "i18n.csv")

	f, err := Create(path)
	if err != nil {
		t.Fatal(err)
	}
	greeting := bundle.Key{Bundle: "messages", Name: "greeting"}
	if err := f.SetRow(greeting, []bundle.Translation{
		{Lang: "", Value: "Hi"},
		{Lang: "de", Value: "Hallo"},
	}); err != nil {
		t.Fatal(err)
	}
	if err := f.Save(); err != nil {
		t.Fatal(err)
	}

	g, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	c, _ := g.Content()
	if v, _ := c.Get(greeting, ""); v != "Hi" {
		t.Errorf("default = %q", v)
	}
	if v, _ := c.Get(greeting, "de"); v != "Hallo" {
		t.Errorf("de = %q", v)
	}
	langs := c.Languages()
	if len(langs) != 2 || langs[0] != "" || langs[1] != "de" {
		t.Errorf("languages = %v", langs)
	}
}

func TestSave_QuotesSpecialValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "i18n.csv")

	f, err := Create(path)
	if err != nil {
		t.Fatal(err)
	}
	key := bundle.Key{Bundle: "messages", Name: "tricky"}
	value := "first, second\n\"third\""
	f.SetRow(key, []bundle.Translation{{Lang: "", Value: value}})
	if err := f.Save(); err != nil {
		t.Fatal(err)
	}

	g, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	c, _ := g.Content()
	if v, _ := c.Get(key, ""); v != value {
		t.Errorf("value = %q, want %q", v, value)
	}
}

func TestCreate_UpdatesExistingKeepingOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "i18n.csv")

	f, _ := Create(path)
	a := bundle.Key{Bundle: "m", Name: "a"}
	b := bundle.Key{Bundle: "m", Name: "b"}
	f.SetRow(a, []bundle.Translation{{Lang: "", Value: "1"}})
	f.SetRow(b, []bundle.Translation{{Lang: "", Value: "2"}})
	if err := f.Save(); err != nil {
		t.Fatal(err)
	}

	f, err := Create(path)
	if err != nil {
		t.Fatal(err)
	}
	c := bundle.Key{Bundle: "m", Name: "c"}
	f.SetRow(a, []bundle.Translation{{Lang: "de", Value: "eins"}})
	f.SetRow(c, []bundle.Translation{{Lang: "", Value: "3"}})
	if err := f.Save(); err != nil {
		t.Fatal(err)
	}

	g, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	content, _ := g.Content()
	keys := content.Keys()
	if len(keys) != 3 || keys[0] != a || keys[1] != b || keys[2] != c {
		t.Fatalf("keys = %v", keys)
	}
	if v, _ := content.Get(a, "de"); v != "eins" {
		t.Errorf("a de = %q", v)
	}
	if v, _ := content.Get(b, ""); v != "2" {
		t.Errorf("b default = %q", v)
	}
}

func TestOpen_MissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "none.csv")); err == nil {
		t.Fatal("expected error")
	}
}

func TestOpen_RowMissingBundle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	data := "Bundle Basename,Key,de\nmessages,greeting,Hallo\n,orphan,x\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := Open(path)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "row 3") {
		t.Errorf("error should name the row: %v", err)
	}
}

func TestOpen_StripsBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bom.csv")
	data := "\xEF\xBB\xBFBundle Basename,Key,de\nmessages,greeting,Hallo\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	f, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	c, _ := f.Content()
	if v, _ := c.Get(bundle.Key{Bundle: "messages", Name: "greeting"}, "de"); v != "Hallo" {
		t.Errorf("value = %q", v)
	}
}

func TestOpen_DefaultLanguageColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.csv")
	data := "Bundle Basename,Key,,de\nmessages,greeting,Hi,Hallo\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	f, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	c, _ := f.Content()
	key := bundle.Key{Bundle: "messages", Name: "greeting"}
	if v, _ := c.Get(key, ""); v != "Hi" {
		t.Errorf("default = %q", v)
	}
	if v, _ := c.Get(key, "de"); v != "Hallo" {
		t.Errorf("de = %q", v)
	}
}
