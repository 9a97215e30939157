package fileset

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func touch(t *testing.T, root, rel string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("k=v\n"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestCollect_DefaultInclude(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "messages.properties")
	touch(t, root, "messages_de.properties")
	touch(t, root, "sub/labels_fr.properties")
	touch(t, root, "notes.txt")

	got, err := Collect(root, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"messages.properties",
		"messages_de.properties",
		"sub/labels_fr.properties",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Collect = %v, want %v", got, want)
	}
}

func TestCollect_ExcludesWin(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "messages.properties")
	touch(t, root, "messages_de.properties")
	touch(t, root, "sub/labels_de.properties")

	got, err := Collect(root, nil, []string{"**/*_de.properties"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"messages.properties"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Collect = %v, want %v", got, want)
	}
}

func TestCollect_ScopedInclude(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "messages.properties")
	touch(t, root, "i18n/labels.properties")
	touch(t, root, "i18n/deep/more.properties")

	got, err := Collect(root, []string{"i18n/**/*.properties"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"i18n/deep/more.properties", "i18n/labels.properties"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Collect = %v, want %v", got, want)
	}
}

func TestCollect_InvalidPattern(t *testing.T) {
	if _, err := Collect(t.TempDir(), []string{"["}, nil); err == nil {
		t.Error("invalid include should be rejected")
	}
	if _, err := Collect(t.TempDir(), nil, []string{"["}); err == nil {
		t.Error("invalid exclude should be rejected")
	}
}

func TestCollect_MissingRoot(t *testing.T) {
	if _, err := Collect(filepath.Join(t.TempDir(), "nope"), nil, nil); err == nil {
		t.Error("missing root should be an error")
	}
}
