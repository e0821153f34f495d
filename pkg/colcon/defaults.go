package colcon

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/colcontools/wsman/pkg/errors"
)

// DefaultsFilename is the per-workspace colcon defaults file.
const DefaultsFilename = "colcon_defaults.yaml"

// Defaults mirrors the "build" verb section of a colcon defaults file.
type Defaults struct {
	Build BuildDefaults `yaml:"build"`
}

// BuildDefaults holds the build verb flags colcon reads from defaults.
type BuildDefaults struct {
	SymlinkInstall  bool     `yaml:"symlink-install,omitempty"`
	ParallelWorkers int      `yaml:"parallel-workers,omitempty"`
	CMakeArgs       []string `yaml:"cmake-args,omitempty"`
}

// DefaultsPath returns the defaults file location for a workspace root.
func DefaultsPath(root string) string {
	return filepath.Join(root, DefaultsFilename)
}

// LoadDefaults reads a colcon defaults file. A missing file yields
// zero-valued defaults without error.
func LoadDefaults(path string) (*Defaults, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Defaults{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "failed to read colcon defaults")
	}

	var d Defaults
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "malformed colcon defaults file")
	}
	return &d, nil
}

// SaveDefaults writes a colcon defaults file.
func SaveDefaults(path string, d *Defaults) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "failed to encode colcon defaults")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "failed to write colcon defaults")
	}
	return nil
}

// DefaultsFromOptions converts build options into persistable defaults.
func DefaultsFromOptions(opts BuildOptions) *Defaults {
	d := &Defaults{
		Build: BuildDefaults{
			SymlinkInstall:  opts.SymlinkInstall,
			ParallelWorkers: opts.Workers(),
		},
	}
	if opts.BuildType == BuildTypeRelease || opts.BuildType == BuildTypeDebug {
		d.Build.CMakeArgs = []string{"-DCMAKE_BUILD_TYPE=" + opts.BuildType}
	}
	return d
}
