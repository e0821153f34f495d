package colcon

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefaults_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultsFilename)

	want := &Defaults{
		Build: BuildDefaults{
			SymlinkInstall:  true,
			ParallelWorkers: 6,
			CMakeArgs:       []string{"-DCMAKE_BUILD_TYPE=Release"},
		},
	}
	if err := SaveDefaults(path, want); err != nil {
		t.Fatalf("SaveDefaults: %v", err)
	}

	got, err := LoadDefaults(path)
	if err != nil {
		t.Fatalf("LoadDefaults: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LoadDefaults = %+v, want %+v", got, want)
	}
}

func TestLoadDefaults_Missing(t *testing.T) {
	got, err := LoadDefaults(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadDefaults: %v", err)
	}
	if !reflect.DeepEqual(got, &Defaults{}) {
		t.Errorf("LoadDefaults on missing file = %+v, want zero value", got)
	}
}

func TestDefaultsFromOptions(t *testing.T) {
	d := DefaultsFromOptions(BuildOptions{
		SymlinkInstall:  true,
		ParallelWorkers: 4,
		BuildType:       BuildTypeDebug,
	})
	if !d.Build.SymlinkInstall {
		t.Error("SymlinkInstall not carried over")
	}
	if d.Build.ParallelWorkers != 4 {
		t.Errorf("ParallelWorkers = %d, want 4", d.Build.ParallelWorkers)
	}
	if !reflect.DeepEqual(d.Build.CMakeArgs, []string{"-DCMAKE_BUILD_TYPE=Debug"}) {
		t.Errorf("CMakeArgs = %v", d.Build.CMakeArgs)
	}

	if args := DefaultsFromOptions(BuildOptions{BuildType: BuildTypeAuto}).Build.CMakeArgs; args != nil {
		t.Errorf("auto build type produced CMakeArgs %v", args)
	}
}
