package catalog

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/xcode-links/xcache/internal/release"
)

// SimulatorManifest lists the simulator runtimes attached to each locally
// installed Xcode.
//
//	xcodes:
//	  - version: "11.3"
//	    simulators:
//	      - name: iOS 13.2 Simulator
//	        source: https://devimages-cdn.apple.com/.../iOS_13.2.dmg
type SimulatorManifest struct {
	Xcodes []InstalledXcode `yaml:"xcodes"`
}

// InstalledXcode is one installed Xcode and its downloadable runtimes.
type InstalledXcode struct {
	Version    string           `yaml:"version"`
	Simulators []SimulatorEntry `yaml:"simulators"`
}

// SimulatorEntry is a single downloadable runtime.
type SimulatorEntry struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version,omitempty"`
	Source  string `yaml:"source"`
}

// ParseSimulators decodes a manifest and flattens it into images in
// manifest order. Entries without a source are skipped.
func ParseSimulators(data []byte) ([]release.SimulatorImage, error) {
	var m SimulatorManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing simulator manifest: %w", err)
	}

	var out []release.SimulatorImage
	for _, x := range m.Xcodes {
		for _, s := range x.Simulators {
			if s.Source == "" {
				continue
			}
			out = append(out, release.NewSimulatorImage(s.Name, s.Version, s.Source))
		}
	}
	return out, nil
}

// LoadSimulators reads and parses the manifest at path.
func LoadSimulators(path string) ([]release.SimulatorImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading simulator manifest %s: %w", path, err)
	}
	return ParseSimulators(data)
}
