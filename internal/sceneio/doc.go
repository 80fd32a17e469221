// Package sceneio reads scene files into snapshots.
//
// A scene can be written as HCL, YAML or JSON. All three describe the same
// document: an optional title, an optional params object and the entity
// collections geometries, sources, boundaries, lattices and regions. Every
// entity has an id, a kind and optionally a type, pos, orientation, name and
// invisible flag; any other field goes into the entity's attribute bag
// unchanged, for the normalizer to interpret.
//
// In HCL each entity is a labelled block and the label is its id:
//
//	title = "Ring resonator"
//
//	params {
//	  cellSize   = { x = 16, y = 8 }
//	  resolution = 20
//	}
//
//	geometry "ring" {
//	  kind     = "cylinder"
//	  pos      = { x = 0, y = 0 }
//	  radius   = 2
//	  material = "Silicon"
//	}
//
// HCL expressions may use the constant pi, the functions abs, ceil, floor,
// max, min, pow, signum, sqrt, sin, cos, tan, rad, format, lower and upper,
// and values from locals blocks:
//
//	locals {
//	  period = 0.5
//	  radius = local.period * 0.3
//	}
//
// A directory is loaded by merging every scene file below it in path order.
// The entities of all files are concatenated; title and params come from the
// last file that sets them.
package sceneio
