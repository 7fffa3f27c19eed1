// Package memory provides in-memory implementations of the storage
// ports. They back service tests and ephemeral tooling runs; the SQLite
// adapter is the durable store.
package memory
