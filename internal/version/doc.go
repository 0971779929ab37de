// Package version implements the dotted-integer version values used to order
// Xcode releases and simulator runtimes. Parsing never fails: malformed input
// collapses to the Minimum sentinel so that every comparison stays total.
package version
