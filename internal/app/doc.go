// Package app contains the core application logic. It wires the scene
// loader, dirty tracker, orchestrator and assembler together, runs the
// one-shot and watch lifecycles and serves generation status over HTTP,
// decoupled from any specific entrypoint like a CLI.
package app
