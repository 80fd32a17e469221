package dag

import "sync"

// Graph is a collection of nodes and their dependencies, representing a DAG.
// All operations on the graph are concurrency-safe.
type Graph struct {
	mutex sync.RWMutex
	nodes map[string]*node
	// order records insertion order so that every query that walks the graph
	// returns a deterministic result.
	order []string
}

// node is un-exported so callers interact with the graph through string IDs.
type node struct {
	id         string
	seq        int
	deps       map[string]*node
	dependents map[string]*node
}
