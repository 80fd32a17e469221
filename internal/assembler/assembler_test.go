package assembler

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/meepgen/internal/blockstore"
	"github.com/vk/meepgen/internal/codegen"
	"github.com/vk/meepgen/internal/ctxlog"
	"github.com/vk/meepgen/internal/scene"
	"github.com/vk/meepgen/internal/section"
)

func TestAssembleUsesCanonicalOrder(t *testing.T) {
	ctx := context.Background()
	st := blockstore.NewMemory()
	all := section.All()
	for i := len(all) - 1; i >= 0; i-- {
		require.NoError(t, st.Put(ctx, blockstore.CodeBlock{Section: all[i], Content: "# " + string(all[i]) + "\n"}))
	}

	text, err := Assemble(ctx, st)
	require.NoError(t, err)
	var want []string
	for _, s := range all {
		want = append(want, "# "+string(s))
	}
	assert.Equal(t, strings.Join(want, "\n\n\n")+"\n", text)

	missing, err := Missing(ctx, st)
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestAssembleEmptyAndPartial(t *testing.T) {
	ctx := context.Background()
	st := blockstore.NewMemory()
	text, err := Assemble(ctx, st)
	require.NoError(t, err)
	assert.Empty(t, text)

	require.NoError(t, st.Put(ctx, blockstore.CodeBlock{Section: section.Sources, Content: "sources = []"}))
	missing, err := Missing(ctx, st)
	require.NoError(t, err)
	assert.Len(t, missing, section.Count()-1)
	assert.NotContains(t, missing, section.Sources)
}

func TestExportFileOfGeneratedScript(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())
	st := blockstore.NewMemory()
	snap := scene.New()
	for _, s := range section.All() {
		b, err := codegen.Generate(ctx, s, snap)
		require.NoError(t, err)
		require.NoError(t, st.Put(ctx, b))
	}

	path := filepath.Join(t.TempDir(), "out.py")
	require.NoError(t, ExportFile(ctx, path, st))
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	text := string(data)
	prev := -1
	for _, s := range section.All() {
		idx := strings.Index(text, codegen.Banner(s.Label()))
		require.GreaterOrEqual(t, idx, 0, s)
		assert.Greater(t, idx, prev, s)
		prev = idx
	}
	assert.True(t, strings.HasPrefix(text, codegen.Banner("Initialization")))

	var buf strings.Builder
	require.NoError(t, Export(ctx, &buf, st))
	assert.Equal(t, text, buf.String())
}

func TestExportFilename(t *testing.T) {
	cases := map[string]string{
		"Ring Resonator":          "ring_resonator.py",
		"  Photonic--Crystal v2 ": "photonic_crystal_v2.py",
		"Étude de cavité":         "etude_de_cavite.py",
		"":                        DefaultFilename,
		"???":                     DefaultFilename,
		"光子晶体":                    DefaultFilename,
	}
	for in, want := range cases {
		assert.Equal(t, want, ExportFilename(in), "title %q", in)
	}
}
