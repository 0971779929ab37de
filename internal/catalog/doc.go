// Package catalog adapts the Apple developer download catalog into release
// values. It decodes and validates the listDownloads response, scrapes the
// download page for pre-release builds the catalog does not list yet, and
// loads the simulator runtime manifest for installed Xcodes.
package catalog
