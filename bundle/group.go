package bundle

// LangFile is one file of a bundle: its language and its path relative
// to the scan root (slash-separated).
type LangFile struct {
	Lang Language
	Path string
}

// BundleFiles groups the files of one resource bundle.
type BundleFiles struct {
	// Name is the bundle base name, slash-separated.
	Name  string
	Files []LangFile
}

// GroupFiles groups relative file paths by bundle base name. Bundles
// appear in the order their first file appears in files; within a
// bundle the files keep their input order. Paths that do not name a
// .properties file are skipped.
func GroupFiles(files []string) []BundleFiles {
	var out []BundleFiles
	index := make(map[string]int)
	for _, f := range files {
		name, lang, ok := SplitFilename(f)
		if !ok {
			continue
		}
		i, seen := index[name]
		if !seen {
			i = len(out)
			index[name] = i
			out = append(out, BundleFiles{Name: name})
		}
		out[i].Files = append(out[i].Files, LangFile{Lang: lang, Path: f})
	}
	return out
}
