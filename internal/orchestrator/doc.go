// Package orchestrator drives the transfer engine over a selection, one item
// at a time and in the order given. A failed item is logged and skipped; only
// a configuration error (no usable downloader) stops the run.
package orchestrator
