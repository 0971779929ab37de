// Package cli defines the Cobra command tree for the xcache CLI. Each file in
// this package registers one top-level command (list, fetch, simulators,
// config, version) with the root command. Commands resolve settings, build
// the session and engine, and delegate selection and transfers to the
// internal packages; they only handle flags and output formatting.
package cli
