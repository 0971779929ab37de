package orchestrator

import (
	"net/url"
	"path"
	"path/filepath"

	"github.com/xcode-links/xcache/internal/release"
)

// ReleaseItems turns selected releases into authenticated download items.
// With an empty outputDir the payload is discarded.
func ReleaseItems(releases []release.Release, outputDir string) []Item {
	items := make([]Item, 0, len(releases))
	for _, r := range releases {
		items = append(items, Item{
			Label:       r.Label(),
			URL:         r.URL,
			Destination: destination(outputDir, r.Path),
			NeedsCookie: true,
		})
	}
	return items
}

// SimulatorItems turns simulator images into anonymous download items.
func SimulatorItems(images []release.SimulatorImage, outputDir string) []Item {
	items := make([]Item, 0, len(images))
	for _, img := range images {
		name := img.Source
		if u, err := url.Parse(img.Source); err == nil {
			name = u.Path
		}
		items = append(items, Item{
			Label:       img.Label(),
			URL:         img.Source,
			Destination: destination(outputDir, name),
		})
	}
	return items
}

func destination(outputDir, remotePath string) string {
	if outputDir == "" {
		return ""
	}
	base := path.Base(remotePath)
	if base == "." || base == "/" {
		return ""
	}
	return filepath.Join(outputDir, base)
}
