package prompt

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Entry is a template found in one of the prompt directories
type Entry struct {
	Name string // Relative path without extension, slash separated (e.g., "foo/bar")
	Dir  string // Directory the template was found in
}

// List recursively scans the prompt directories for templates, sorted by name.
// A name found in several directories is reported once, from the directory
// that Find would use.
func List(fs afero.Fs, promptDirs []string, logger *zap.SugaredLogger) []Entry {
	found := make(map[string]string)

	for _, promptDir := range promptDirs {
		if ok, _ := afero.DirExists(fs, promptDir); !ok {
			logger.Debugw("Prompt directory does not exist", "dir", promptDir)
			continue
		}

		err := afero.Walk(fs, promptDir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() || !strings.HasSuffix(info.Name(), fileExt) {
				return nil
			}

			relPath, err := filepath.Rel(promptDir, path)
			if err != nil {
				return nil
			}
			name := filepath.ToSlash(strings.TrimSuffix(relPath, fileExt))

			if existingDir, exists := found[name]; exists {
				logger.Debugw("Prompt found in multiple directories", "prompt", name, "shadowed", existingDir, "dir", promptDir)
			}
			found[name] = promptDir
			return nil
		})
		if err != nil {
			logger.Warnw("Error walking prompt directory", "dir", promptDir, "error", err)
		}
	}

	entries := make([]Entry, 0, len(found))
	for name, dir := range found {
		entries = append(entries, Entry{Name: name, Dir: dir})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}
