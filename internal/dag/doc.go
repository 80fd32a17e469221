// Package dag is a small, concurrency-safe directed acyclic graph keyed by
// string IDs. It records which code sections depend on which, rejects cycles,
// and derives a deterministic topological order that the section catalogue
// checks its canonical assembly order against.
package dag
