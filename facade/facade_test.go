package facade

import (
	"strings"
	"testing"

	"github.com/koppor/kilt/bundle"
)

func TestGenerate(t *testing.T) {
	b := Bundle{
		Package: "i18n",
		Name:    "messages",
		Keys: []Key{
			{Name: "greeting", Examples: []bundle.Translation{
				{Lang: "", Value: "Hi"},
				{Lang: "de", Value: "Hallo"},
			}},
			{Name: "farewell", Examples: []bundle.Translation{
				{Lang: "de", Value: "Tschüss"},
			}},
			{Name: "app.title"},
		},
	}

	var sb strings.Builder
	if err := Generate(&sb, b); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	want := `// Code generated by kilt. DO NOT EDIT.

package i18n

// Messages identifies one entry of the "messages" resource bundle.
type Messages string

// MessagesBasename is the resource bundle base name of Messages keys.
const MessagesBasename = "messages"

// Basename returns the resource bundle base name.
func (k Messages) Basename() string { return MessagesBasename }

// Key returns the property key within the bundle.
func (k Messages) Key() string { return string(k) }

const (
	// MessagesGreeting is the bundle entry "greeting".
	//
	// Examples:
	//	default: "Hi"
	//	de: "Hallo"
	MessagesGreeting Messages = "greeting"

	// MessagesFarewell is the bundle entry "farewell".
	//
	// Examples:
	//	de: "Tschüss"
	MessagesFarewell Messages = "farewell"

	// MessagesAppTitle is the bundle entry "app.title".
	MessagesAppTitle Messages = "app.title"
)
`
	if got := sb.String(); got != want {
		t.Errorf("generated source mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestGenerate_NoKeys(t *testing.T) {
	var sb strings.Builder
	if err := Generate(&sb, Bundle{Package: "i18n", Name: "labels"}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	got := sb.String()
	if strings.Contains(got, "const (") {
		t.Errorf("output for empty bundle contains a const block:\n%s", got)
	}
	if !strings.HasSuffix(got, "func (k Labels) Key() string { return string(k) }\n") {
		t.Errorf("output does not end with the Key method:\n%s", got)
	}
}

func TestGenerate_CollidingIdentifiers(t *testing.T) {
	b := Bundle{
		Package: "i18n",
		Name:    "messages",
		Keys:    []Key{{Name: "a.b"}, {Name: "a_b"}, {Name: "a b"}},
	}
	var sb strings.Builder
	if err := Generate(&sb, b); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	got := sb.String()
	for _, line := range []string{
		"MessagesAB Messages = \"a.b\"",
		"MessagesAB2 Messages = \"a_b\"",
		"MessagesAB3 Messages = \"a b\"",
	} {
		if !strings.Contains(got, line) {
			t.Errorf("output is missing %q:\n%s", line, got)
		}
	}
}

func TestGenerate_Preconditions(t *testing.T) {
	var sb strings.Builder
	if err := Generate(&sb, Bundle{Name: "messages"}); err == nil {
		t.Error("Generate without a package name did not fail")
	}
	if err := Generate(&sb, Bundle{Package: "i18n"}); err == nil {
		t.Error("Generate without a bundle name did not fail")
	}
}

func TestTypeName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"messages", "Messages"},
		{"my_bundle", "MyBundle"},
		{"dialog.buttons", "DialogButtons"},
		{"i18n/messages", "I18NMessages"},
		{"8ball", "Bundle8Ball"},
		{"", "Bundle"},
		{"---", "Bundle"},
	}
	for _, tt := range tests {
		if got := TypeName(tt.name); got != tt.want {
			t.Errorf("TypeName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"messages", "messages.go"},
		{"i18n/messages", "i18n_messages.go"},
		{"My-Bundle", "my_bundle.go"},
		{"errors_messages", "errors_messages.go"},
	}
	for _, tt := range tests {
		if got := FileName(tt.name); got != tt.want {
			t.Errorf("FileName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
