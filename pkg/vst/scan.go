package vst

import (
	"io/fs"
	"path/filepath"
	"runtime"
	"strings"
)

// scanExts are the names picked up while scanning a plugin directory.
var scanExts = []string{".vst3", ".component", ".au", ".so"}

func hasPluginExt(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range scanExts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// ListPlugins walks root recursively and returns the plugin binaries
// found under it. Bundle directories are resolved to their inner binary
// and skipped for descent; bundles with no resolvable binary are omitted.
func ListPlugins(root string) ([]string, error) {
	return listPlugins(root, runtime.GOOS)
}

func listPlugins(root, goos string) ([]string, error) {
	var plugins []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root || !hasPluginExt(d.Name()) {
			return nil
		}

		if d.IsDir() {
			if resolved := resolveBundle(path, goos); resolved != "" {
				plugins = append(plugins, resolved)
			}
			return filepath.SkipDir
		}

		plugins = append(plugins, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return plugins, nil
}
