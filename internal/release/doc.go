// Package release holds the value objects that flow from the catalog adapter
// through the selector to the orchestrator: Xcode releases and the simulator
// runtime images attached to installed Xcodes. Values are built once and never
// mutated.
package release
