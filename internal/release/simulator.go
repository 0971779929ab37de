package release

import (
	"strings"

	"github.com/xcode-links/xcache/internal/version"
)

// SimulatorImage is a simulator runtime attached to an installed Xcode,
// e.g. "iOS 13.2 Simulator".
type SimulatorImage struct {
	Name    string
	Version version.Version
	Source  string
}

// NewSimulatorImage builds an image from its display name and download URL.
// When ver is empty the version is read from the token after the platform
// tag.
func NewSimulatorImage(name, ver, source string) SimulatorImage {
	name = strings.TrimSpace(name)
	if ver == "" {
		if fields := strings.Fields(name); len(fields) > 1 {
			ver = fields[1]
		}
	}
	return SimulatorImage{
		Name:    name,
		Version: version.Parse(ver),
		Source:  source,
	}
}

// Platform returns the first whitespace-delimited token of the name
// ("iOS", "tvOS", "watchOS").
func (s SimulatorImage) Platform() string {
	fields := strings.Fields(s.Name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Label is the human-readable identifier printed per item.
func (s SimulatorImage) Label() string {
	return s.Name
}

func (s SimulatorImage) String() string {
	return s.Name + " -- " + s.Source
}
