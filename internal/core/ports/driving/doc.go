// Package driving defines the interfaces the core exposes to callers:
// the search dispatcher and the statistics services. The CLI and any
// future API layer depend on these, not on the service types directly.
package driving
