package colcon

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/colcontools/wsman/pkg/errors"
)

// preservedFiles are kept at the top level of build/ and install/
// during a clean. COLCON_IGNORE markers and clangd databases survive
// so editors and colcon keep working after the clean.
var preservedFiles = map[string]bool{
	"COLCON_IGNORE":         true,
	"compile_commands.json": true,
	".built_by":             true,
}

// preservedDirTokens skip IDE and cache directories during a clean.
var preservedDirTokens = []string{".cache", ".idea"}

// CleanStats reports what a clean removed.
type CleanStats struct {
	RemovedFiles int `json:"removed_files" bson:"removed_files"`
	RemovedDirs  int `json:"removed_dirs" bson:"removed_dirs"`
	Preserved    int `json:"preserved" bson:"preserved"`
}

// Clean empties the build and install directories of a workspace while
// preserving marker files. At least one of the two directories must
// exist.
func Clean(root string) (*CleanStats, error) {
	if err := errors.ValidateWorkspaceRoot(root); err != nil {
		return nil, err
	}

	buildDir := filepath.Join(root, "build")
	installDir := filepath.Join(root, "install")

	_, buildErr := os.Stat(buildDir)
	_, installErr := os.Stat(installDir)
	if buildErr != nil && installErr != nil {
		return nil, errors.New(errors.ErrCodeFileNotFound, "neither build nor install directory found in %s", root)
	}

	stats := &CleanStats{}
	for _, dir := range []string{buildDir, installDir} {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		if err := removeContents(dir, stats); err != nil {
			return stats, errors.Wrap(errors.ErrCodeInternal, err, "clean failed in %s", dir)
		}
	}
	return stats, nil
}

func removeContents(dir string, stats *CleanStats) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		if hasPreservedToken(path) {
			stats.Preserved++
			continue
		}

		if entry.IsDir() {
			if err := os.RemoveAll(path); err != nil {
				return err
			}
			stats.RemovedDirs++
			continue
		}

		if preservedFiles[entry.Name()] {
			stats.Preserved++
			continue
		}
		if err := os.Remove(path); err != nil {
			return err
		}
		stats.RemovedFiles++
	}
	return nil
}

func hasPreservedToken(path string) bool {
	for _, token := range preservedDirTokens {
		if strings.Contains(path, token) {
			return true
		}
	}
	return false
}
