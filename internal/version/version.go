package version

import (
	"strconv"
	"strings"
)

// DefaultFamilySegments is the number of leading segments that identify a
// minor-version family ("10.1" for 10.1.2).
const DefaultFamilySegments = 2

// Version is an ordered tuple of non-negative integer segments.
// The zero value is the Minimum sentinel.
type Version struct {
	segments []uint64
	raw      string
}

// Minimum is the sentinel every malformed version collapses to. It compares
// equal to "0" and less than or equal to every valid version.
var Minimum = Version{}

// Parse reads the first whitespace-delimited token of s as a dotted version.
// "10.1 beta 2" parses as 10.1. Input that is not purely dotted digits yields
// Minimum instead of an error.
func Parse(s string) Version {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Minimum
	}
	token := strings.TrimPrefix(fields[0], "v")

	parts := strings.Split(token, ".")
	segments := make([]uint64, 0, len(parts))
	for _, p := range parts {
		if p == "" || !isDigits(p) {
			return Minimum
		}
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return Minimum
		}
		segments = append(segments, n)
	}
	return Version{segments: segments, raw: token}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Valid reports whether v came from a well-formed version string.
func (v Version) Valid() bool {
	return len(v.segments) > 0
}

// Segment returns the i-th segment, or 0 past the end.
func (v Version) Segment(i int) uint64 {
	if i < 0 || i >= len(v.segments) {
		return 0
	}
	return v.segments[i]
}

// String returns the version as it was written, or "0" for Minimum.
func (v Version) String() string {
	if !v.Valid() {
		return "0"
	}
	return v.raw
}

// Compare returns -1, 0, or 1. Shorter versions are zero-padded, so 9.4
// equals 9.4.0.
func Compare(a, b Version) int {
	n := len(a.segments)
	if len(b.segments) > n {
		n = len(b.segments)
	}
	for i := 0; i < n; i++ {
		x, y := a.Segment(i), b.Segment(i)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
	}
	return 0
}

// Compare returns the ordering of v relative to other.
func (v Version) Compare(other Version) int { return Compare(v, other) }

// Less reports whether v sorts before other.
func (v Version) Less(other Version) bool { return Compare(v, other) < 0 }

// Equal reports whether v and other are the same version after padding.
func (v Version) Equal(other Version) bool { return Compare(v, other) == 0 }

// AtLeast reports whether v >= floor.
func (v Version) AtLeast(floor Version) bool { return Compare(v, floor) >= 0 }

// FamilyKey returns the first n segments of v, zero-padded to n and joined
// with dots. n below 1 falls back to DefaultFamilySegments.
func FamilyKey(v Version, n int) string {
	if n < 1 {
		n = DefaultFamilySegments
	}
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = strconv.FormatUint(v.Segment(i), 10)
	}
	return strings.Join(parts, ".")
}
