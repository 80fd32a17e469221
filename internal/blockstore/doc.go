// Package blockstore holds the latest successfully generated code block per
// section, and the last generation error of sections that failed.
//
// # Concurrency Model
//
// Section tasks of one pass write disjoint keys, and the assembler or the
// status server may read while a pass is running. The memory store uses
// sync.Map for that pattern: a small stable key space with values replaced
// wholesale.
//
// A failed section never overwrites its block. Readers keep seeing the last
// good content, marked stale by the recorded error.
package blockstore
