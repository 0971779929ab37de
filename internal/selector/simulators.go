package selector

import (
	"sort"

	"github.com/xcode-links/xcache/internal/release"
	"github.com/xcode-links/xcache/internal/version"
)

// SimulatorOptions controls SelectSimulators.
type SimulatorOptions struct {
	// Floors maps a platform tag ("iOS") to its minimum version. Images whose
	// tag has no floor are dropped.
	Floors         map[string]version.Version
	FamilySegments int
	KeepPerFamily  int
}

// SelectSimulators filters images by their platform floor, collapses
// duplicates of the same source URL, keeps the newest KeepPerFamily images of
// every platform family and orders the result by platform, then version
// descending.
func SelectSimulators(images []release.SimulatorImage, opts SimulatorOptions) []release.SimulatorImage {
	o := Options{FamilySegments: opts.FamilySegments, KeepPerFamily: opts.KeepPerFamily}.withDefaults()

	var eligible []release.SimulatorImage
	for _, img := range images {
		floor, ok := opts.Floors[img.Platform()]
		if !ok || !img.Version.AtLeast(floor) {
			continue
		}
		eligible = append(eligible, img)
	}

	sortByPlatform(eligible)
	eligible = dedupeBySource(eligible)

	out := topPerFamily(eligible, func(img release.SimulatorImage) string {
		return img.Platform() + " " + version.FamilyKey(img.Version, o.FamilySegments)
	}, func(img release.SimulatorImage) version.Version {
		return img.Version
	}, o.KeepPerFamily)

	sortByPlatform(out)
	return out
}

func sortByPlatform(images []release.SimulatorImage) {
	sort.SliceStable(images, func(i, j int) bool {
		pi, pj := images[i].Platform(), images[j].Platform()
		if pi != pj {
			return pi < pj
		}
		return images[j].Version.Less(images[i].Version)
	})
}

// dedupeBySource keeps the first image for every source URL.
func dedupeBySource(images []release.SimulatorImage) []release.SimulatorImage {
	seen := make(map[string]bool, len(images))
	out := make([]release.SimulatorImage, 0, len(images))
	for _, img := range images {
		if seen[img.Source] {
			continue
		}
		seen[img.Source] = true
		out = append(out, img)
	}
	return out
}
