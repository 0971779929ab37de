// Package selector picks the "current" releases out of a catalog: for every
// minor-version family it keeps the newest few builds at or above a floor.
// Simulator runtimes use per-platform floors and are deduplicated by source.
//
// Ties between equal versions are broken by input order: stable sorts keep
// the first-seen entry ahead of later ones, so repeated runs over the same
// input return the same list.
package selector
