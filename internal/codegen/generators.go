package codegen

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/meepgen/internal/blockstore"
	"github.com/vk/meepgen/internal/scene"
	"github.com/vk/meepgen/internal/section"
)

// Generator produces the block of one section from a snapshot. Generators
// are pure: the same snapshot always yields byte-identical content.
type Generator func(ctx context.Context, snap *scene.Snapshot) (blockstore.CodeBlock, error)

var generators = map[section.Section]Generator{
	section.Initialization: Initialization,
	section.Materials:      Materials,
	section.Geometries:     Geometries,
	section.Lattices:       Lattices,
	section.Sources:        Sources,
	section.Boundaries:     Boundaries,
	section.Regions:        Regions,
	section.Simulation:     Simulation,
}

// For returns the generator of s.
func For(s section.Section) (Generator, bool) {
	g, ok := generators[s]
	return g, ok
}

// Generate runs the generator of s. Every failure it returns is a
// *GenerationError.
func Generate(ctx context.Context, s section.Section, snap *scene.Snapshot) (blockstore.CodeBlock, error) {
	gen, ok := For(s)
	if !ok {
		return blockstore.CodeBlock{}, generationError(s, nil, "unknown section %q", string(s))
	}
	if snap == nil {
		return blockstore.CodeBlock{}, generationError(s, nil, "no scene snapshot")
	}
	block, err := gen(ctx, snap)
	if err != nil {
		var ge *GenerationError
		if errors.As(err, &ge) {
			return blockstore.CodeBlock{}, err
		}
		return blockstore.CodeBlock{}, generationError(s, err, "generator failed")
	}
	return block, nil
}

// finish turns an emitter into the block of s.
func finish(s section.Section, e *emitter, imports ...string) (blockstore.CodeBlock, error) {
	if e.err != nil {
		return blockstore.CodeBlock{}, generationError(s, e.err, "cannot format value")
	}
	return blockstore.CodeBlock{
		Section:      s,
		Label:        s.Label(),
		Content:      e.String(),
		Imports:      imports,
		Dependencies: s.Dependencies(),
	}, nil
}

// open starts a section with its banner and a blank line.
func open(s section.Section) *emitter {
	e := &emitter{}
	e.line(Banner(s.Label()))
	e.blank()
	return e
}

// entityComment labels an emitted object with the entity's name or ID.
func entityComment(e scene.Entity) string {
	if e.Name != "" && e.Name != e.ID {
		return fmt.Sprintf("%s (%s)", e.Name, e.ID)
	}
	return e.ID
}
