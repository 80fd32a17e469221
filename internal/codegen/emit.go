package codegen

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/vk/meepgen/internal/meep"
)

const bannerWidth = 80

// Banner returns the separator line that opens a section, the upper-cased
// title centered in a run of box-drawing dashes.
func Banner(title string) string {
	t := " " + strings.ToUpper(title) + " "
	dashes := bannerWidth - 2 - utf8.RuneCountInString(t)
	if dashes < 2 {
		dashes = 2
	}
	left := dashes / 2
	return "# " + strings.Repeat("─", left) + t + strings.Repeat("─", dashes-left)
}

// FormatFloat renders v the way the editor displays numbers: shortest
// round-trip decimal, exponent form outside [1e-6, 1e21), and mp.inf for
// infinities. NaN has no Python literal and is an error.
func FormatFloat(v float64) (string, error) {
	switch {
	case math.IsNaN(v):
		return "", ErrNonFinite
	case math.IsInf(v, 1):
		return "mp.inf", nil
	case math.IsInf(v, -1):
		return "-mp.inf", nil
	case v == 0:
		return "0", nil
	}
	abs := math.Abs(v)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	}
	return strconv.FormatFloat(v, 'e', -1, 64), nil
}

// kwarg is one keyword argument of a Python call.
type kwarg struct {
	key, val string
}

type kwargs []kwarg

func (k *kwargs) add(key, val string) {
	*k = append(*k, kwarg{key, val})
}

// emitter accumulates lines of Python. The first formatting failure sticks;
// later writes are still accepted so callers check err once at the end.
type emitter struct {
	lines []string
	err   error
}

func (e *emitter) line(s string) {
	e.lines = append(e.lines, s)
}

func (e *emitter) linef(format string, args ...any) {
	e.lines = append(e.lines, fmt.Sprintf(format, args...))
}

func (e *emitter) blank() {
	e.lines = append(e.lines, "")
}

func (e *emitter) comment(s string) {
	e.lines = append(e.lines, "# "+s)
}

func (e *emitter) num(v float64) string {
	s, err := FormatFloat(v)
	if err != nil {
		if e.err == nil {
			e.err = err
		}
		return "nan"
	}
	return s
}

func (e *emitter) vec(v meep.Vector3) string {
	return fmt.Sprintf("mp.Vector3(%s, %s, %s)", e.num(v.X), e.num(v.Y), e.num(v.Z))
}

func (e *emitter) vecList(vs []meep.Vector3) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = e.vec(v)
	}
	return out
}

// call writes head, the keyword arguments one per line indented by
// indent+4 spaces, and tail. Without arguments it writes head+tail.
func (e *emitter) call(indent, head string, args kwargs, tail string) {
	if len(args) == 0 {
		e.line(indent + head + tail)
		return
	}
	e.line(indent + head)
	for i, a := range args {
		sep := ","
		if i == len(args)-1 {
			sep = ""
		}
		e.linef("%s    %s=%s%s", indent, a.key, a.val, sep)
	}
	e.line(indent + tail)
}

// inline renders name(k=v, ...) on one line.
func inline(name string, args kwargs) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.key + "=" + a.val
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}

func (e *emitter) String() string {
	return strings.Join(e.lines, "\n")
}

func direction(d meep.Direction) string {
	return "mp." + string(d)
}

func side(s meep.Side) string {
	return "mp." + string(s)
}

func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
