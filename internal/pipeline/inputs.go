package pipeline

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/ppiankov/wordgauge/internal/model"
)

// expandPaths resolves files and directories to a list of files. Directories
// are walked recursively and filtered by extension; an empty extension list
// accepts every regular file. Paths that cannot be read become failures.
func expandPaths(paths []string, extensions []string) ([]string, []model.Failure) {
	var files []string
	var failures []model.Failure
	seen := make(map[string]bool)

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			failures = append(failures, model.Failure{Item: path, Stage: "input", Error: err.Error()})
			continue
		}

		if !info.IsDir() {
			add(path)
			continue
		}

		var found []string
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				failures = append(failures, model.Failure{Item: p, Stage: "input", Error: err.Error()})
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				if p != path && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if d.Type().IsRegular() && hasExtension(p, extensions) {
				found = append(found, p)
			}
			return nil
		})
		if err != nil {
			failures = append(failures, model.Failure{Item: path, Stage: "input", Error: err.Error()})
		}

		slices.Sort(found)
		for _, f := range found {
			add(f)
		}
	}

	return files, failures
}

func hasExtension(path string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

func isHTMLFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return true
	}
	return false
}

// runReportName is the base name of the run report in the output directory
const runReportName = "run"

// slugger derives unique output file names within one run. The run report's
// name is reserved so no input can overwrite it.
type slugger struct {
	used map[string]bool
}

func newSlugger() *slugger {
	return &slugger{used: map[string]bool{runReportName: true}}
}

func (s *slugger) next(name string) string {
	base := sanitizeFilename(name)
	slug := base
	for n := 2; s.used[slug]; n++ {
		slug = base + "-" + strconv.Itoa(n)
	}
	s.used[slug] = true
	return slug
}

// sanitizeFilename lowercases name and keeps letters and digits, joining
// everything else into single hyphens
func sanitizeFilename(name string) string {
	var b strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			hyphen = false
			continue
		}
		if !hyphen && b.Len() > 0 {
			b.WriteByte('-')
			hyphen = true
		}
	}

	slug := strings.TrimSuffix(b.String(), "-")

	// Limit length without splitting a rune
	if runes := []rune(slug); len(runes) > 80 {
		slug = strings.TrimSuffix(string(runes[:80]), "-")
	}
	if slug == "" {
		slug = "document"
	}
	return slug
}
