// kilt converts Java .properties resource bundles to a translator
// spreadsheet and back.
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/koppor/kilt/bundle"
	"github.com/koppor/kilt/config"
	"github.com/koppor/kilt/facade"
	"github.com/koppor/kilt/fileset"
	"github.com/koppor/kilt/i18n"
	"github.com/koppor/kilt/imexport"
	"github.com/koppor/kilt/langmeta"
	"github.com/koppor/kilt/propfile"
	"github.com/spf13/cobra"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

func logDebug(format string, args ...any) {
	if !verbose {
		return
	}
	fmt.Fprintf(os.Stderr, colorBlue+"[DEBUG]"+colorReset+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Global flag
// ---------------------------------------------------------------------------

var verbose bool

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "kilt",
		Short: "Keep Java .properties bundles and a translation table in sync",
		Long: `kilt converts Java .properties resource bundles into one tabular file
(XLSX or CSV) for translators and folds the edited table back into the
bundle files afterwards. Bundle files keep their comments, blank lines
and entry order; existing tables keep their translator formatting.

Commands:
  export   Collect bundle files into the translation table
  import   Write table contents back into the bundle files
  facade   Generate Go accessor sources for bundle keys
  status   Show bundles, languages and translation coverage

Configuration defaults are read from .kilt.yaml or kilt.properties in
the working directory; explicit flags always win.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global persistent flag, inherited by all subcommands
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable detailed logging")

	root.AddCommand(
		newExportCmd(),
		newImportCmd(),
		newFacadeCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")

	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version (display version information)
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("kilt version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}

	return cmd
}

// ---------------------------------------------------------------------------
// Configuration merging
// ---------------------------------------------------------------------------

// loadConfig reads .kilt.yaml / kilt.properties from the working
// directory. A missing file yields an empty config so the setting
// lookups below stay nil-safe.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(".")
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return &config.Config{}, nil
	}
	logDebug(i18n.T("Using configuration from %s"), cfg.Source)
	return cfg, nil
}

// stringSetting resolves one option: an explicitly set flag wins over
// the config file, which wins over the flag's default.
func stringSetting(cmd *cobra.Command, flag, flagVal, cfgVal string) string {
	if !cmd.Flags().Changed(flag) && cfgVal != "" {
		return cfgVal
	}
	return flagVal
}

func listSetting(cmd *cobra.Command, flag string, flagVal, cfgVal []string) []string {
	if !cmd.Flags().Changed(flag) && len(cfgVal) > 0 {
		return cfgVal
	}
	return flagVal
}

// addSelectionFlags registers the flags shared by every command that
// scans the resource root for bundle files.
func addSelectionFlags(cmd *cobra.Command, root *string, includes, excludes *[]string, encoding *string) {
	cmd.Flags().StringVarP(root, "root", "r", ".", "Resource root directory the bundle files live under")
	cmd.Flags().StringArrayVarP(includes, "include", "i", nil,
		`Pattern selecting bundle files below the root (repeatable, default "`+fileset.DefaultInclude+`")`)
	cmd.Flags().StringArrayVarP(excludes, "exclude", "e", nil,
		"Pattern excluding files matched by --include (repeatable)")
	cmd.Flags().StringVar(encoding, "encoding", propfile.DefaultEncoding,
		"Charset for reading and writing bundle files")
}

// ---------------------------------------------------------------------------
// export (bundles -> table)
// ---------------------------------------------------------------------------

func newExportCmd() *cobra.Command {
	var (
		root     string
		includes []string
		excludes []string
		encoding string
		table    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export resource bundles to a translation table",
		Long: `Collect the .properties files below the resource root and write one row
per bundle key into the table, one column per language. The default
language (no file suffix) occupies the first language column.

An existing table is updated in place: rows and columns keep their
positions and translator formatting, new keys and languages are
appended. Supported table formats: .xlsx, .xlsm, .csv.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			root = stringSetting(cmd, "root", root, cfg.Root)
			includes = listSetting(cmd, "include", includes, cfg.Includes)
			excludes = listSetting(cmd, "exclude", excludes, cfg.Excludes)
			encoding = stringSetting(cmd, "encoding", encoding, cfg.Encoding)
			table = stringSetting(cmd, "table", table, cfg.Table)

			return runExport(root, includes, excludes, encoding, table)
		},
	}

	addSelectionFlags(cmd, &root, &includes, &excludes, &encoding)
	cmd.Flags().StringVarP(&table, "table", "x", "i18n.xlsx", "The table file to export to")

	return cmd
}

func runExport(root string, includes, excludes []string, encoding, table string) error {
	files, err := fileset.Collect(root, includes, excludes)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		logWarning(i18n.T("No bundle files found below %s"), root)
		return nil
	}

	logDebug("root=%s includes=%v excludes=%v encoding=%s", root, includes, excludes, encoding)
	logInfo(i18n.N("Exporting %d bundle file to %s", "Exporting %d bundle files to %s", len(files)),
		len(files), table)

	if dir := filepath.Dir(table); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	tbl, err := imexport.CreateTable(table)
	if err != nil {
		return err
	}
	defer tbl.Close()

	if err := imexport.Export(root, files, encoding, tbl); err != nil {
		return err
	}

	logSuccess(i18n.T("Export complete"))
	return nil
}

// ---------------------------------------------------------------------------
// import (table -> bundles)
// ---------------------------------------------------------------------------

func newImportCmd() *cobra.Command {
	var (
		root     string
		encoding string
		table    string
		action   string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import the translation table back into resource bundles",
		Long: `Write the table's rows back into the .properties files below the
resource root. Existing files keep their comments, blank lines, entry
order and the formatting of untouched entries; missing files are
created as needed. An empty cell never fabricates a new key but does
clear the value of an existing one.

Keys present in a file but absent from the table are handled per
--missing-key-action: "nothing" leaves them alone, "delete" removes
them, "comment" comments them out.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			root = stringSetting(cmd, "root", root, cfg.Root)
			encoding = stringSetting(cmd, "encoding", encoding, cfg.Encoding)
			table = stringSetting(cmd, "table", table, cfg.Table)
			action = stringSetting(cmd, "missing-key-action", action, cfg.MissingKeyAction)

			missing, err := propfile.ParseMissingKeyAction(action)
			if err != nil {
				return err
			}
			return runImport(root, table, encoding, missing)
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", ".", "Resource root directory the bundle files are written under")
	cmd.Flags().StringVarP(&table, "table", "x", "i18n.xlsx", "The table file to import from")
	cmd.Flags().StringVar(&encoding, "encoding", propfile.DefaultEncoding, "Charset for reading and writing bundle files")
	cmd.Flags().StringVar(&action, "missing-key-action", "nothing",
		"What to do with keys missing from the table: nothing, delete or comment")

	return cmd
}

func runImport(root, table, encoding string, action propfile.MissingKeyAction) error {
	logInfo(i18n.T("Importing %s into %s"), table, root)

	tbl, err := imexport.OpenTable(table)
	if err != nil {
		return err
	}
	defer tbl.Close()

	if err := imexport.Import(root, tbl, encoding, action); err != nil {
		return err
	}

	logSuccess(i18n.T("Import complete"))
	return nil
}

// ---------------------------------------------------------------------------
// facade (bundles -> generated Go accessors)
// ---------------------------------------------------------------------------

func newFacadeCmd() *cobra.Command {
	var (
		root     string
		includes []string
		excludes []string
		encoding string
		output   string
		pkg      string
	)

	cmd := &cobra.Command{
		Use:   "facade",
		Short: "Generate Go accessor sources for bundle keys",
		Long: `Generate one Go source file per bundle exposing its keys as typed
constants, so code referencing a key cannot drift from the bundle
files. Each constant's doc comment lists the known translations.

The generated files are self-contained and carry a
"Code generated ... DO NOT EDIT." header.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			root = stringSetting(cmd, "root", root, cfg.Root)
			includes = listSetting(cmd, "include", includes, cfg.Includes)
			excludes = listSetting(cmd, "exclude", excludes, cfg.Excludes)
			encoding = stringSetting(cmd, "encoding", encoding, cfg.Encoding)
			output = stringSetting(cmd, "output", output, cfg.Facade.Output)
			pkg = stringSetting(cmd, "package", pkg, cfg.Facade.Package)

			return runFacade(root, includes, excludes, encoding, output, pkg)
		},
	}

	addSelectionFlags(cmd, &root, &includes, &excludes, &encoding)
	cmd.Flags().StringVarP(&output, "output", "o", "generated", "Directory the generated sources are written to")
	cmd.Flags().StringVar(&pkg, "package", "i18n", "Package name of the generated sources")

	return cmd
}

func runFacade(root string, includes, excludes []string, encoding, output, pkg string) error {
	files, err := fileset.Collect(root, includes, excludes)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		logWarning(i18n.T("No bundle files found below %s"), root)
		return nil
	}

	logInfo(i18n.N("Found %d bundle file below %s", "Found %d bundle files below %s", len(files)),
		len(files), root)

	content, err := imexport.Read(root, files, encoding)
	if err != nil {
		return err
	}

	langs := content.Languages()
	var order []string
	byBundle := make(map[string][]facade.Key)
	for _, key := range content.Keys() {
		if _, ok := byBundle[key.Bundle]; !ok {
			order = append(order, key.Bundle)
		}
		var examples []bundle.Translation
		for _, lang := range langs {
			if v, ok := content.Get(key, lang); ok && v != "" {
				examples = append(examples, bundle.Translation{Lang: lang, Value: v})
			}
		}
		byBundle[key.Bundle] = append(byBundle[key.Bundle], facade.Key{Name: key.Name, Examples: examples})
	}

	// Distinct bundles may normalize to the same file name; refuse
	// rather than silently overwrite one with the other.
	fileOf := make(map[string]string, len(order))
	for _, name := range order {
		fname := facade.FileName(name)
		if prev, ok := fileOf[fname]; ok {
			return fmt.Errorf("bundles %s and %s both map to facade file %s", prev, name, fname)
		}
		fileOf[fname] = name
	}

	if err := os.MkdirAll(output, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", output, err)
	}

	for _, name := range order {
		var buf bytes.Buffer
		if err := facade.Generate(&buf, facade.Bundle{Package: pkg, Name: name, Keys: byBundle[name]}); err != nil {
			return err
		}
		path := filepath.Join(output, facade.FileName(name))
		if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		logSuccess(i18n.T("Generated %s"), path)
	}

	logInfo(i18n.N("Generated %d facade file", "Generated %d facade files", len(order)), len(order))
	return nil
}

// ---------------------------------------------------------------------------
// status (read-only: bundles and coverage)
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	var (
		root     string
		includes []string
		excludes []string
		encoding string
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show bundles, languages and translation coverage",
		Long: `Scan the resource root and report the bundles found, the languages
present and how much of the key set each language covers. Does not
modify any files.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			root = stringSetting(cmd, "root", root, cfg.Root)
			includes = listSetting(cmd, "include", includes, cfg.Includes)
			excludes = listSetting(cmd, "exclude", excludes, cfg.Excludes)
			encoding = stringSetting(cmd, "encoding", encoding, cfg.Encoding)

			return runStatus(root, includes, excludes, encoding)
		},
	}

	addSelectionFlags(cmd, &root, &includes, &excludes, &encoding)

	return cmd
}

func runStatus(root string, includes, excludes []string, encoding string) error {
	files, err := fileset.Collect(root, includes, excludes)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		logWarning(i18n.T("No bundle files found below %s"), root)
		return nil
	}

	content, err := imexport.Read(root, files, encoding)
	if err != nil {
		return err
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		absRoot = root
	}

	keyCount := make(map[string]int)
	var bundles []string
	for _, key := range content.Keys() {
		if keyCount[key.Bundle] == 0 {
			bundles = append(bundles, key.Bundle)
		}
		keyCount[key.Bundle]++
	}

	fmt.Fprintf(os.Stderr, "\n%sResource Bundles%s\n", colorBlue, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	fmt.Fprintf(os.Stderr, "  Root:     %s\n", absRoot)
	fmt.Fprintf(os.Stderr, "  Files:    %d\n", len(files))
	fmt.Fprintf(os.Stderr, "  Bundles:  %d\n", len(bundles))
	fmt.Fprintf(os.Stderr, "  Keys:     %d\n", content.Len())
	fmt.Fprintln(os.Stderr)
	for _, name := range bundles {
		fmt.Fprintf(os.Stderr, "  %-32s %d keys\n", name, keyCount[name])
	}

	total := content.Len()
	langs := content.Languages()

	fmt.Fprintf(os.Stderr, "\n%sTranslation Coverage%s\n", colorBlue, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	fmt.Fprintf(os.Stderr, "%-8s %-26s %6s  %s\n", "Lang", "Name", "Keys", "Coverage")
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))

	for _, lang := range langs {
		filled := 0
		for _, key := range content.Keys() {
			if v, ok := content.Get(key, lang); ok && v != "" {
				filled++
			}
		}
		percent := 0
		if total > 0 {
			percent = filled * 100 / total
		}

		code := string(lang)
		if lang.IsDefault() {
			code = "-"
		}
		meta := langmeta.Resolve(string(lang))
		name := meta.Name
		if meta.Flag != "" {
			name += " " + meta.Flag
		}
		fmt.Fprintf(os.Stderr, "%-8s %-26s %6d  %s\n", code, name, filled, progressBar(percent, 20))
	}
	fmt.Fprintln(os.Stderr)

	return nil
}

// ---------------------------------------------------------------------------
// Output helpers
// ---------------------------------------------------------------------------

// progressBar renders a fixed-width colored bar for a 0-100 percentage.
func progressBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := percent * width / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	color := colorGreen
	if percent < 50 {
		color = colorRed
	} else if percent < 100 {
		color = colorYellow
	}
	return fmt.Sprintf("%s%s%s %3d%%", color, bar, colorReset, percent)
}
