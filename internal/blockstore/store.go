package blockstore

import (
	"context"
	"sync"

	"github.com/vk/meepgen/internal/section"
)

// CodeBlock is the output of one successful section generation. It is
// created whole by its generator and never mutated afterwards.
type CodeBlock struct {
	Section section.Section
	Label   string
	Content string
	// Imports lists the external imports the block declares.
	Imports []string
	// Dependencies lists the sections whose names the block refers to.
	Dependencies []section.Section
}

// Store is the code block registry.
//
// Implementations must be safe for concurrent use; writes for different
// sections may happen at the same time.
type Store interface {
	// Put replaces the block of block.Section and clears its error.
	Put(ctx context.Context, block CodeBlock) error
	// Get returns the latest block of s.
	Get(ctx context.Context, s section.Section) (CodeBlock, bool, error)
	// SetError records the failure of s without touching its block.
	SetError(ctx context.Context, s section.Section, err error) error
	// Error returns the last recorded failure of s, nil when the latest
	// generation succeeded.
	Error(ctx context.Context, s section.Section) (error, error)
}

// Memory is the in-memory Store.
type Memory struct {
	blocks sync.Map // section.Section -> CodeBlock
	errors sync.Map // section.Section -> error
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty registry.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Put(ctx context.Context, block CodeBlock) error {
	m.blocks.Store(block.Section, block)
	m.errors.Delete(block.Section)
	return nil
}

func (m *Memory) Get(ctx context.Context, s section.Section) (CodeBlock, bool, error) {
	v, ok := m.blocks.Load(s)
	if !ok {
		return CodeBlock{}, false, nil
	}
	return v.(CodeBlock), true, nil
}

func (m *Memory) SetError(ctx context.Context, s section.Section, err error) error {
	if err == nil {
		m.errors.Delete(s)
		return nil
	}
	m.errors.Store(s, err)
	return nil
}

func (m *Memory) Error(ctx context.Context, s section.Section) (error, error) {
	v, ok := m.errors.Load(s)
	if !ok {
		return nil, nil
	}
	return v.(error), nil
}

// Blocks returns the stored blocks in canonical section order, skipping
// sections that have never generated.
func Blocks(ctx context.Context, st Store) ([]CodeBlock, error) {
	out := make([]CodeBlock, 0, section.Count())
	for _, s := range section.All() {
		b, ok, err := st.Get(ctx, s)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, b)
		}
	}
	return out, nil
}
