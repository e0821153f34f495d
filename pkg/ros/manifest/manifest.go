// Package manifest parses ROS package.xml files.
//
// A package.xml (REP-140 / REP-149) declares a package's name and its
// dependencies across several tags. This package extracts the name and the
// de-duplicated union of all dependency kinds; version constraints and
// export sections are ignored because workspace-level dependency analysis
// only needs identifiers.
package manifest

import (
	"encoding/xml"
	"os"
	"sort"
	"strings"

	"github.com/colcontools/wsman/pkg/errors"
)

// Filename is the manifest file name that marks a package root.
const Filename = "package.xml"

// Manifest is the parsed result for a single package.xml.
type Manifest struct {
	Name string   // Declared package name, trimmed
	Path string   // Path the manifest was read from
	Deps []string // Distinct dependency identifiers, sorted
}

// packageXML mirrors the subset of the package.xml schema we care about.
// run_depend is the REP-140 legacy alias for exec_depend and is folded in.
type packageXML struct {
	Name           string         `xml:"name"`
	Depend         []simpleDepend `xml:"depend"`
	BuildDepend    []simpleDepend `xml:"build_depend"`
	BuildExportDep []simpleDepend `xml:"build_export_depend"`
	ExecDepend     []simpleDepend `xml:"exec_depend"`
	RunDepend      []simpleDepend `xml:"run_depend"`
	TestDepend     []simpleDepend `xml:"test_depend"`
}

type simpleDepend struct {
	Value string `xml:",chardata"`
}

// ParseFile reads and parses a package.xml from disk.
// A malformed document or a missing <name> element yields an
// ErrCodeInvalidManifest error; callers scanning a workspace should skip
// the package and continue.
func ParseFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, err
	}
	m.Path = path
	return m, nil
}

// Parse parses package.xml content.
func Parse(data []byte) (*Manifest, error) {
	var pkg packageXML
	if err := xml.Unmarshal(data, &pkg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "malformed package.xml")
	}

	name := strings.TrimSpace(pkg.Name)
	if name == "" {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "package.xml has no <name> element")
	}

	seen := make(map[string]bool)
	var deps []string
	collect := func(kinds ...[]simpleDepend) {
		for _, kind := range kinds {
			for _, d := range kind {
				v := strings.TrimSpace(d.Value)
				if v == "" || seen[v] {
					continue
				}
				seen[v] = true
				deps = append(deps, v)
			}
		}
	}
	collect(pkg.Depend, pkg.BuildDepend, pkg.BuildExportDep, pkg.ExecDepend, pkg.RunDepend, pkg.TestDepend)
	sort.Strings(deps)

	return &Manifest{Name: name, Deps: deps}, nil
}

// DepSet returns the dependency identifiers as a set.
func (m *Manifest) DepSet() map[string]bool {
	set := make(map[string]bool, len(m.Deps))
	for _, d := range m.Deps {
		set[d] = true
	}
	return set
}
