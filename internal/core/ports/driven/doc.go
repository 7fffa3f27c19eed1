// Package driven defines the interfaces the core consumes: the durable
// stores, the survey source registry, the external spatial search engine,
// and the per-job message channel. Adapters implement these interfaces;
// the core never imports an adapter.
package driven
