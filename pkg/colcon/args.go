// Package colcon drives the colcon build tool: command construction,
// process supervision with live log streaming, and workspace cleaning.
package colcon

import (
	"runtime"
	"strconv"

	"github.com/colcontools/wsman/pkg/errors"
)

// Build types that map to a CMAKE_BUILD_TYPE flag. Any other value
// (including "auto") leaves the choice to colcon.
const (
	BuildTypeAuto    = "auto"
	BuildTypeRelease = "Release"
	BuildTypeDebug   = "Debug"
)

// BuildOptions parameterize a colcon build invocation.
type BuildOptions struct {
	SymlinkInstall  bool     `json:"symlink_install" bson:"symlink_install"`
	ParallelWorkers int      `json:"parallel_workers" bson:"parallel_workers"`
	BuildType       string   `json:"build_type" bson:"build_type"`
	Packages        []string `json:"packages" bson:"packages"`
}

// Workers returns the parallel worker count, defaulting to the CPU count.
func (o BuildOptions) Workers() int {
	if o.ParallelWorkers > 0 {
		return o.ParallelWorkers
	}
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return 8
}

// Args returns the full colcon argument vector, starting with "colcon".
func (o BuildOptions) Args() ([]string, error) {
	if len(o.Packages) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no packages selected for build")
	}
	for _, pkg := range o.Packages {
		if err := errors.ValidatePackageName(pkg); err != nil {
			return nil, err
		}
	}

	args := []string{"colcon", "build"}
	if o.SymlinkInstall {
		args = append(args, "--symlink-install")
	}
	args = append(args, "--parallel-workers", strconv.Itoa(o.Workers()))
	if o.BuildType == BuildTypeRelease || o.BuildType == BuildTypeDebug {
		args = append(args, "--cmake-args", "-DCMAKE_BUILD_TYPE="+o.BuildType)
	}
	args = append(args, "--packages-select")
	args = append(args, o.Packages...)
	return args, nil
}
