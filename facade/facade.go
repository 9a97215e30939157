// Package facade generates typed Go accessors for resource bundles: one
// source file per bundle with a string-based key type and one constant
// per key, documented with its known translations. The generated code is
// self-contained and does not import this tool.
package facade

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"
	"unicode"

	"github.com/koppor/kilt/bundle"
)

// Key is one bundle entry to generate a constant for.
type Key struct {
	Name     string
	Examples []bundle.Translation
}

// Bundle describes one generated source file.
type Bundle struct {
	// Package is the Go package name of the generated file.
	Package string
	// Name is the bundle base name ("i18n/messages").
	Name string
	// Keys in the order their constants are emitted.
	Keys []Key
}

var fileTemplate = template.Must(template.New("facade").Parse(
	`// Code generated by kilt. DO NOT EDIT.

package {{.Package}}

// {{.Type}} identifies one entry of the {{printf "%q" .Name}} resource bundle.
type {{.Type}} string

// {{.Type}}Basename is the resource bundle base name of {{.Type}} keys.
const {{.Type}}Basename = {{printf "%q" .Name}}

// Basename returns the resource bundle base name.
func (k {{.Type}}) Basename() string { return {{.Type}}Basename }

// Key returns the property key within the bundle.
func (k {{.Type}}) Key() string { return string(k) }
{{if .Consts}}
const (
{{- range $i, $c := .Consts}}
{{if $i}}
{{end}}	// {{$c.Ident}} is the bundle entry {{printf "%q" $c.Key}}.
{{- if $c.Examples}}
	//
	// Examples:
{{- range $c.Examples}}
	//	{{.}}
{{- end}}
{{- end}}
	{{$c.Ident}} {{$.Type}} = {{printf "%q" $c.Key}}
{{- end}}
)
{{end}}`))

type fileView struct {
	Package string
	Type    string
	Name    string
	Consts  []constView
}

type constView struct {
	Ident    string
	Key      string
	Examples []string
}

// Generate renders the accessor source for one bundle.
func Generate(w io.Writer, b Bundle) error {
	if b.Package == "" {
		return fmt.Errorf("bundle %s: package name not set", b.Name)
	}
	if b.Name == "" {
		return fmt.Errorf("bundle name not set")
	}

	view := fileView{
		Package: b.Package,
		Type:    TypeName(b.Name),
		Name:    b.Name,
	}
	seen := make(map[string]int)
	for _, k := range b.Keys {
		ident := view.Type + identifier(k.Name, "Key")
		seen[ident]++
		if n := seen[ident]; n > 1 {
			ident += strconv.Itoa(n)
		}
		cv := constView{Ident: ident, Key: k.Name}
		for _, tr := range k.Examples {
			label := "default"
			if !tr.Lang.IsDefault() {
				label = string(tr.Lang)
			}
			cv.Examples = append(cv.Examples, fmt.Sprintf("%s: %q", label, tr.Value))
		}
		view.Consts = append(view.Consts, cv)
	}
	if err := fileTemplate.Execute(w, view); err != nil {
		return fmt.Errorf("rendering facade for %s: %w", b.Name, err)
	}
	return nil
}

// TypeName derives the exported Go type name for a bundle base name:
// "i18n/messages" becomes I18NMessages.
func TypeName(name string) string {
	return identifier(name, "Bundle")
}

// FileName derives the generated file's name for a bundle base name:
// "i18n/messages" becomes i18n_messages.go.
func FileName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String() + ".go"
}

// identifier squeezes s into an exported Go identifier, title-casing
// after every dropped separator. fallback prefixes a result that would
// otherwise start with a digit or be empty.
func identifier(s, fallback string) string {
	var b strings.Builder
	upper := true
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			if upper {
				r = unicode.ToUpper(r)
				upper = false
			}
			b.WriteRune(r)
		case unicode.IsDigit(r):
			if b.Len() == 0 {
				b.WriteString(fallback)
			}
			b.WriteRune(r)
			upper = true
		default:
			upper = true
		}
	}
	if b.Len() == 0 {
		return fallback
	}
	return b.String()
}
