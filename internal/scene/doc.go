/*
Package scene holds the editor-side description of a simulation: raw entities
as the canvas produces them and the global simulation parameters.

# Purpose

Generators never read a live store. Callers hand the engine a *Snapshot, and
the orchestrator clones it once per pass so a concurrently mutating editor
cannot leak half-applied edits into generated code.

# Entities

An Entity is intentionally loose. Besides a handful of common fields (ID, kind
and legacy type tags, position, orientation, visibility) every kind-specific
or legacy field lives in an Attributes bag. The typed accessors on Attributes
never panic; they report whether the key held a usable value, which is what
the normalizer needs to apply its fallback rules.

# Diff

Diff compares two snapshots and returns the sections whose inputs changed.
It is the bridge between "the scene file changed" and the dirty tracker.
*/
package scene
