// Package config loads project-wide defaults for kilt from a
// .kilt.yaml or kilt.properties file in the working directory.
// Command-line flags override anything configured here.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/koppor/kilt/propfile"
)

// YAMLName is the preferred config file name.
const YAMLName = ".kilt.yaml"

// PropertiesName is the alternative flat key=value config file name.
// When both files exist, YAMLName wins.
const PropertiesName = "kilt.properties"

// ---------------------------------------------------------------------------
// Schema
// ---------------------------------------------------------------------------

// Config is the on-disk configuration. Zero values mean "not set";
// the CLI applies its own defaults for anything left empty.
type Config struct {
	// Root is the resource root directory the bundle files live under.
	Root string `yaml:"root,omitempty"`
	// Includes are doublestar patterns selecting bundle files below Root.
	Includes []string `yaml:"includes,omitempty"`
	// Excludes are doublestar patterns removing files matched by Includes.
	Excludes []string `yaml:"excludes,omitempty"`
	// Encoding is the IANA charset name for reading and writing bundle files.
	Encoding string `yaml:"encoding,omitempty"`
	// Table is the XLSX or CSV file exported to and imported from.
	Table string `yaml:"table,omitempty"`
	// MissingKeyAction: "nothing", "delete" or "comment".
	MissingKeyAction string `yaml:"missing_key_action,omitempty"`
	// Facade holds the code generator options.
	Facade Facade `yaml:"facade,omitempty"`

	// Source is the path of the file this config was loaded from.
	Source string `yaml:"-"`
}

// Facade configures the generated accessor sources.
type Facade struct {
	// Output is the directory generated files are written to.
	Output string `yaml:"output,omitempty"`
	// Package is the Go package name of the generated files.
	Package string `yaml:"package,omitempty"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the configuration from dir. It prefers .kilt.yaml and
// falls back to kilt.properties. Returns nil if neither file exists.
func Load(dir string) (*Config, error) {
	yamlPath := filepath.Join(dir, YAMLName)
	if _, err := os.Stat(yamlPath); err == nil {
		return loadYAML(yamlPath)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading %s: %w", yamlPath, err)
	}

	propsPath := filepath.Join(dir, PropertiesName)
	if _, err := os.Stat(propsPath); err == nil {
		return loadProperties(propsPath)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading %s: %w", propsPath, err)
	}

	return nil, nil
}

func loadYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	c.Source = path
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &c, nil
}

func loadProperties(path string) (*Config, error) {
	pf, err := propfile.ParseFile(path, propfile.DefaultEncoding)
	if err != nil {
		return nil, err
	}

	c := Config{Source: path}
	for _, key := range pf.Keys() {
		value, _ := pf.Get(key)
		switch key {
		case "root":
			c.Root = value
		case "includes":
			c.Includes = splitList(value)
		case "excludes":
			c.Excludes = splitList(value)
		case "encoding":
			c.Encoding = value
		case "table":
			c.Table = value
		case "missing_key_action":
			c.MissingKeyAction = value
		case "facade.output":
			c.Facade.Output = value
		case "facade.package":
			c.Facade.Package = value
		default:
			return nil, fmt.Errorf("%s: unsupported key %q", path, key)
		}
	}

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &c, nil
}

func (c *Config) validate() error {
	if _, err := propfile.ParseMissingKeyAction(c.MissingKeyAction); err != nil {
		return err
	}
	return nil
}

// splitList splits a comma-separated option value, trimming whitespace
// around each element and dropping empty ones.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
