// Package platform smooths over filesystem permission differences between
// Unix and Windows. Files holding session secrets are written owner-only on
// Unix; on Windows permission bits are ignored.
package platform
