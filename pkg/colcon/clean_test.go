package colcon

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestClean(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "build", "pkg_a", "Makefile"))
	touch(t, filepath.Join(root, "build", "COLCON_IGNORE"))
	touch(t, filepath.Join(root, "build", "compile_commands.json"))
	touch(t, filepath.Join(root, "build", ".built_by"))
	touch(t, filepath.Join(root, "install", "setup.bash"))
	touch(t, filepath.Join(root, "install", ".cache", "data"))

	stats, err := Clean(root)
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}

	for _, kept := range []string{
		filepath.Join(root, "build", "COLCON_IGNORE"),
		filepath.Join(root, "build", "compile_commands.json"),
		filepath.Join(root, "build", ".built_by"),
		filepath.Join(root, "install", ".cache", "data"),
	} {
		if _, err := os.Stat(kept); err != nil {
			t.Errorf("%s was removed", kept)
		}
	}
	for _, gone := range []string{
		filepath.Join(root, "build", "pkg_a"),
		filepath.Join(root, "install", "setup.bash"),
	} {
		if _, err := os.Stat(gone); err == nil {
			t.Errorf("%s survived the clean", gone)
		}
	}

	if stats.RemovedDirs != 1 {
		t.Errorf("RemovedDirs = %d, want 1", stats.RemovedDirs)
	}
	if stats.RemovedFiles != 1 {
		t.Errorf("RemovedFiles = %d, want 1", stats.RemovedFiles)
	}
	if stats.Preserved != 4 {
		t.Errorf("Preserved = %d, want 4", stats.Preserved)
	}
}

func TestClean_NoBuildOrInstall(t *testing.T) {
	if _, err := Clean(t.TempDir()); err == nil {
		t.Error("Clean without build/install directories succeeded")
	}
}

func TestClean_OnlyBuildDir(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "build", "stamp"))

	if _, err := Clean(root); err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "build", "stamp")); err == nil {
		t.Error("build/stamp survived the clean")
	}
}
