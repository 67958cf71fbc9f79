// Package engine is the composition root of pairloop. It loads the YAML
// configuration, applies environment overrides, resolves an immutable
// RunConfig, builds the reasoning-engine backend and tool registry, and runs
// conversations. Frontends observe activity through an EventBus and never
// wire lower-level packages themselves.
package engine
