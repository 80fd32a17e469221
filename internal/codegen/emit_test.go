package codegen

import (
	"math"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBanner(t *testing.T) {
	for _, title := range []string{"Initialization", "Simulation Assembly", "X"} {
		b := Banner(title)
		assert.Equal(t, bannerWidth, utf8.RuneCountInString(b), title)
	}
	assert.Equal(t, "# "+repeat("─", 33)+" GEOMETRIES "+repeat("─", 33), Banner("Geometries"))
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}

func TestFormatFloat(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{1, "1"},
		{0.5, "0.5"},
		{-3.25, "-3.25"},
		{math.Copysign(0, -1), "0"},
		{1.000293, "1.000293"},
		{1e-6, "0.000001"},
		{1e-15, "1e-15"},
		{4.5e-12, "4.5e-12"},
		{1e20, "100000000000000000000"},
		{1e21, "1e+21"},
		{math.Inf(1), "mp.inf"},
		{math.Inf(-1), "-mp.inf"},
	}
	for _, tc := range cases {
		got, err := FormatFloat(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "FormatFloat(%v)", tc.in)
	}

	_, err := FormatFloat(math.NaN())
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestEmitterCall(t *testing.T) {
	e := &emitter{}
	var args kwargs
	args.add("a", "1")
	args.add("b", "2")
	e.call("    ", "x.append(f(", args, "))")
	e.call("", "y = g(", nil, ")")
	assert.Equal(t, "    x.append(f(\n        a=1,\n        b=2\n    ))\ny = g()", e.String())
	assert.Equal(t, "f(a=1, b=2)", inline("f", args))
}

func TestEmitterErrorSticks(t *testing.T) {
	e := &emitter{}
	assert.Equal(t, "nan", e.num(math.NaN()))
	e.num(1)
	assert.ErrorIs(t, e.err, ErrNonFinite)
}
