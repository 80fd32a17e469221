package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/meepgen/internal/scene"
)

func TestUnindent(t *testing.T) {
	got := Unindent(`
		geometry "a" {
		  radius = 1
		}
	`)
	assert.Equal(t, "geometry \"a\" {\n  radius = 1\n}\n", got)
}

func TestWriteFiles(t *testing.T) {
	dir := WriteFiles(t, map[string]string{
		"a.json":        `{}`,
		"nested/b.yaml": "title: x",
	})
	data, err := os.ReadFile(filepath.Join(dir, "nested", "b.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "title: x\n", string(data))
}

func TestScene(t *testing.T) {
	s := Scene(
		Rectangle("wg", 4, 0.5),
		ContinuousSource("src", 1, At(-3, 0)),
		PMLBoundary("pml", 1),
		FluxRegion("flux", 0, 2, Hidden()),
	)
	require.NoError(t, s.Validate())
	assert.Len(t, s.Geometries, 1)
	assert.Len(t, s.Sources, 1)
	assert.Equal(t, scene.Vec2{X: -3}, s.Sources[0].Pos)
	assert.Len(t, s.Boundaries, 1)
	require.Len(t, s.Regions, 1)
	assert.True(t, s.Regions[0].Invisible)
}
