// Package vst locates plugin binaries on disk: resolving bundle
// directories to the inner binary, picking platform default install
// directories and scanning directory trees for plugins.
package vst

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// bundleExt is the bundle directory extension handled by the resolver.
const bundleExt = ".vst3"

// binaryExts are file extensions accepted as a plugin binary as-is.
var binaryExts = map[string]bool{
	".so":        true,
	".vst3":      true,
	".dll":       true,
	".component": true,
	".au":        true,
}

// bundle layout per platform: subdirectories inside the bundle to search,
// and the binary extensions expected there.
var bundleLayouts = map[string]struct {
	subdirs []string
	exts    []string
}{
	"windows": {subdirs: []string{"Contents/x86_64-win"}, exts: []string{".vst3", ".dll"}},
	"darwin":  {subdirs: []string{"Contents/MacOS"}, exts: []string{".component", ".vst3"}},
	"linux":   {subdirs: []string{"Contents/x86_64-linux", "Contents/x86_64"}, exts: []string{".so", ".vst3"}},
}

// ResolveBundle maps a user-supplied path to the concrete binary to load.
// A regular file with a recognized extension is returned unchanged. A
// .vst3 bundle directory is searched for a binary in the platform's
// internal layout: first one named after the bundle, then the first file
// with a recognized extension. The empty string means nothing was found;
// callers treat that as "use the path as given", not as an error.
func ResolveBundle(path string) string {
	return resolveBundle(path, runtime.GOOS)
}

func resolveBundle(path, goos string) string {
	info, err := os.Stat(path)
	if err != nil {
		return ""
	}

	if !info.IsDir() {
		if binaryExts[strings.ToLower(filepath.Ext(path))] {
			return path
		}
		return ""
	}

	if !strings.HasSuffix(strings.ToLower(path), bundleExt) {
		return ""
	}

	layout, ok := bundleLayouts[goos]
	if !ok {
		return ""
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for _, sub := range layout.subdirs {
		dir := filepath.Join(path, filepath.FromSlash(sub))
		if _, err := os.Stat(dir); err != nil {
			continue
		}

		// Prefer a binary named after the bundle.
		for _, ext := range layout.exts {
			candidate := filepath.Join(dir, base+ext)
			if fi, err := os.Stat(candidate); err == nil && !fi.IsDir() {
				return candidate
			}
		}

		// Otherwise take the first binary with an expected extension.
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, ext := range layout.exts {
			for _, e := range entries {
				if e.IsDir() {
					continue
				}
				if strings.HasSuffix(strings.ToLower(e.Name()), ext) {
					return filepath.Join(dir, e.Name())
				}
			}
		}
	}

	return ""
}

// linuxPluginDirs are checked in order; the first existing one wins.
func linuxPluginDirs(home string) []string {
	return []string{
		"/usr/lib/vst3",
		"/usr/local/lib/vst3",
		filepath.Join(home, ".vst3"),
	}
}

// DefaultPluginDir returns the conventional plugin install directory for
// the current platform. On Linux it falls back through common candidates
// and returns the first one even if none exist.
func DefaultPluginDir() string {
	home, _ := os.UserHomeDir()
	return defaultPluginDir(runtime.GOOS, home)
}

func defaultPluginDir(goos, home string) string {
	switch goos {
	case "windows":
		return "C:/Program Files/Common Files/VST3"
	case "darwin":
		return "/Library/Audio/Plug-Ins/VST3"
	case "linux":
		dirs := linuxPluginDirs(home)
		for _, dir := range dirs {
			if _, err := os.Stat(dir); err == nil {
				return dir
			}
		}
		return dirs[0]
	}
	return "/"
}
