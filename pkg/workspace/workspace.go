// Package workspace discovers colcon packages under a workspace root and
// computes per-package disk usage.
package workspace

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/colcontools/wsman/pkg/errors"
	"github.com/colcontools/wsman/pkg/ros/manifest"
)

// SourceDir is the workspace subdirectory scanned for packages.
const SourceDir = "src"

// Package is a colcon package discovered in a workspace.
type Package struct {
	Name         string   `json:"name" bson:"name"`
	Path         string   `json:"path" bson:"path"`
	ManifestPath string   `json:"manifest_path" bson:"manifest_path"`
	Deps         []string `json:"deps" bson:"deps"`
}

// Workspace holds the result of scanning a workspace root.
type Workspace struct {
	Root     string             `json:"root" bson:"root"`
	Packages map[string]Package `json:"packages" bson:"packages"`

	// Skipped lists manifest paths that could not be parsed. The scan
	// continues past them so one broken package.xml doesn't hide the rest.
	Skipped []string `json:"skipped,omitempty" bson:"skipped,omitempty"`
}

// Scan walks <root>/src and collects every directory containing a package.xml.
// Directories below a package manifest are not descended into.
func Scan(root string) (*Workspace, error) {
	if err := errors.ValidateWorkspaceRoot(root); err != nil {
		return nil, err
	}

	srcDir := filepath.Join(root, SourceDir)
	info, err := os.Stat(srcDir)
	if err != nil || !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidWorkspace, "workspace has no src directory: %s", root)
	}

	ws := &Workspace{Root: root, Packages: make(map[string]Package)}

	err = filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtree: skip it, keep scanning.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}

		manifestPath := filepath.Join(path, manifest.Filename)
		if _, err := os.Stat(manifestPath); err != nil {
			return nil
		}

		m, err := manifest.ParseFile(manifestPath)
		if err != nil {
			ws.Skipped = append(ws.Skipped, manifestPath)
			return filepath.SkipDir
		}

		ws.Packages[m.Name] = Package{
			Name:         m.Name,
			Path:         path,
			ManifestPath: manifestPath,
			Deps:         m.Deps,
		}
		return filepath.SkipDir
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "workspace scan failed")
	}

	return ws, nil
}

// Names returns the package names in sorted order.
func (w *Workspace) Names() []string {
	names := make([]string, 0, len(w.Packages))
	for name := range w.Packages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DepMap returns name -> declared dependencies for every package,
// suitable for building a dependency graph.
func (w *Workspace) DepMap() map[string][]string {
	deps := make(map[string][]string, len(w.Packages))
	for name, pkg := range w.Packages {
		deps[name] = pkg.Deps
	}
	return deps
}

// Lookup returns the package with the given name.
func (w *Workspace) Lookup(name string) (Package, error) {
	pkg, ok := w.Packages[name]
	if !ok {
		return Package{}, errors.New(errors.ErrCodePackageNotFound, "package not found in workspace: %s", name)
	}
	return pkg, nil
}
