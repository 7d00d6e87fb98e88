package vst

import (
	"os"
	"path/filepath"
	"testing"
)

// makeBundle lays out a fake .vst3 bundle under dir and returns its path.
func makeBundle(t *testing.T, dir, name, subdir string, binaries ...string) string {
	t.Helper()
	bundle := filepath.Join(dir, name)
	inner := filepath.Join(bundle, filepath.FromSlash(subdir))
	if err := os.MkdirAll(inner, 0755); err != nil {
		t.Fatal(err)
	}
	for _, bin := range binaries {
		if err := os.WriteFile(filepath.Join(inner, bin), []byte{0x7f}, 0644); err != nil {
			t.Fatal(err)
		}
	}
	return bundle
}

func TestResolveBundlePlainFile(t *testing.T) {
	dir := t.TempDir()

	so := filepath.Join(dir, "synth.so")
	if err := os.WriteFile(so, []byte{0x7f}, 0644); err != nil {
		t.Fatal(err)
	}
	if got := resolveBundle(so, "linux"); got != so {
		t.Errorf("resolveBundle(%q) = %q, want unchanged", so, got)
	}

	txt := filepath.Join(dir, "readme.txt")
	if err := os.WriteFile(txt, []byte("hi"), 0644); err != nil {
		t.Fatal(err)
	}
	if got := resolveBundle(txt, "linux"); got != "" {
		t.Errorf("resolveBundle(%q) = %q, want empty", txt, got)
	}

	if got := resolveBundle(filepath.Join(dir, "missing.so"), "linux"); got != "" {
		t.Errorf("resolveBundle(missing path) = %q, want empty", got)
	}
}

func TestResolveBundleLinuxLayout(t *testing.T) {
	dir := t.TempDir()
	bundle := makeBundle(t, dir, "Surge.vst3", "Contents/x86_64-linux", "plugin.so")

	want := filepath.Join(bundle, "Contents", "x86_64-linux", "plugin.so")
	if got := resolveBundle(bundle, "linux"); got != want {
		t.Errorf("resolveBundle() = %q, want %q", got, want)
	}
}

func TestResolveBundlePrefersBaseName(t *testing.T) {
	dir := t.TempDir()
	bundle := makeBundle(t, dir, "Surge.vst3", "Contents/x86_64-linux", "aaa.so", "Surge.so")

	want := filepath.Join(bundle, "Contents", "x86_64-linux", "Surge.so")
	if got := resolveBundle(bundle, "linux"); got != want {
		t.Errorf("resolveBundle() = %q, want %q", got, want)
	}
}

func TestResolveBundleAltLinuxSubdir(t *testing.T) {
	dir := t.TempDir()
	bundle := makeBundle(t, dir, "Dexed.vst3", "Contents/x86_64", "Dexed.vst3")

	want := filepath.Join(bundle, "Contents", "x86_64", "Dexed.vst3")
	if got := resolveBundle(bundle, "linux"); got != want {
		t.Errorf("resolveBundle() = %q, want %q", got, want)
	}
}

func TestResolveBundleEmpty(t *testing.T) {
	dir := t.TempDir()
	bundle := filepath.Join(dir, "Empty.vst3")
	if err := os.MkdirAll(bundle, 0755); err != nil {
		t.Fatal(err)
	}
	if got := resolveBundle(bundle, "linux"); got != "" {
		t.Errorf("resolveBundle(empty bundle) = %q, want empty", got)
	}
}

func TestResolveBundleWindowsLayout(t *testing.T) {
	dir := t.TempDir()
	bundle := makeBundle(t, dir, "Vital.vst3", "Contents/x86_64-win", "Vital.vst3")

	want := filepath.Join(bundle, "Contents", "x86_64-win", "Vital.vst3")
	if got := resolveBundle(bundle, "windows"); got != want {
		t.Errorf("resolveBundle() = %q, want %q", got, want)
	}
}

func TestResolveBundleDarwinLayout(t *testing.T) {
	dir := t.TempDir()
	bundle := makeBundle(t, dir, "Diva.vst3", "Contents/MacOS", "Diva.component")

	want := filepath.Join(bundle, "Contents", "MacOS", "Diva.component")
	if got := resolveBundle(bundle, "darwin"); got != want {
		t.Errorf("resolveBundle() = %q, want %q", got, want)
	}
}

func TestDefaultPluginDir(t *testing.T) {
	if got := defaultPluginDir("windows", ""); got != "C:/Program Files/Common Files/VST3" {
		t.Errorf("windows default = %q", got)
	}
	if got := defaultPluginDir("darwin", ""); got != "/Library/Audio/Plug-Ins/VST3" {
		t.Errorf("darwin default = %q", got)
	}
	if got := defaultPluginDir("plan9", ""); got != "/" {
		t.Errorf("unknown platform default = %q, want sentinel root", got)
	}

	// A linux home dir containing .vst3 wins over the fallback when the
	// system directories are absent; either way the result must be one
	// of the documented candidates.
	home := t.TempDir()
	if err := os.MkdirAll(filepath.Join(home, ".vst3"), 0755); err != nil {
		t.Fatal(err)
	}
	got := defaultPluginDir("linux", home)
	candidates := linuxPluginDirs(home)
	found := false
	for _, c := range candidates {
		if got == c {
			found = true
		}
	}
	if !found {
		t.Errorf("linux default = %q, not one of %v", got, candidates)
	}
}

func TestListPlugins(t *testing.T) {
	root := t.TempDir()

	// Plain binary at the top level.
	loose := filepath.Join(root, "mono.so")
	if err := os.WriteFile(loose, []byte{0x7f}, 0644); err != nil {
		t.Fatal(err)
	}

	// Resolvable bundle in a subdirectory.
	sub := filepath.Join(root, "vendor")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	bundle := makeBundle(t, sub, "Poly.vst3", "Contents/x86_64-linux", "Poly.so")

	// Empty bundle should be omitted.
	if err := os.MkdirAll(filepath.Join(root, "Broken.vst3"), 0755); err != nil {
		t.Fatal(err)
	}

	// Unrelated file should be ignored.
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	plugins, err := listPlugins(root, "linux")
	if err != nil {
		t.Fatalf("listPlugins() failed: %v", err)
	}

	want := map[string]bool{
		loose: true,
		filepath.Join(bundle, "Contents", "x86_64-linux", "Poly.so"): true,
	}
	if len(plugins) != len(want) {
		t.Fatalf("got %d plugins %v, want %d", len(plugins), plugins, len(want))
	}
	for _, p := range plugins {
		if !want[p] {
			t.Errorf("unexpected plugin %q", p)
		}
	}
}
