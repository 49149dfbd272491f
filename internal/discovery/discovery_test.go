package discovery_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"mkvcleaver/internal/discovery"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestExpand(t *testing.T) {
	root := t.TempDir()
	season := filepath.Join(root, "season")
	for _, name := range []string{"ep02.mkv", "ep01.MKV", ".partial.mkv", "notes.txt", "nested/ep99.mkv"} {
		touch(t, filepath.Join(season, name))
	}
	extra := filepath.Join(root, "special.mkv")
	touch(t, extra)
	text := filepath.Join(root, "readme.txt")
	touch(t, text)

	paths, skipped, err := discovery.Expand([]string{extra, season, filepath.Join(season, "ep02.mkv"), text})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	want := []string{
		extra,
		filepath.Join(season, "ep01.MKV"),
		filepath.Join(season, "ep02.mkv"),
	}
	if !reflect.DeepEqual(paths, want) {
		t.Fatalf("paths:\n got %v\nwant %v", paths, want)
	}
	if !reflect.DeepEqual(skipped, []string{text}) {
		t.Fatalf("skipped = %v", skipped)
	}
}

func TestExpandRelativePaths(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.mkv"))
	t.Chdir(root)

	paths, _, err := discovery.Expand([]string{"a.mkv"})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if !filepath.IsAbs(paths[0]) || filepath.Base(paths[0]) != "a.mkv" {
		t.Fatalf("expected absolute path, got %v", paths)
	}
}

func TestExpandErrors(t *testing.T) {
	if _, _, err := discovery.Expand([]string{t.TempDir()}); !errors.Is(err, discovery.ErrNoFiles) {
		t.Fatalf("expected ErrNoFiles for empty dir, got %v", err)
	}
	if _, _, err := discovery.Expand([]string{filepath.Join(t.TempDir(), "nope.mkv")}); err == nil {
		t.Fatal("expected stat error for missing file")
	}
}
