package materials

import (
	"strings"
	"unicode"
)

// IsRawExpression reports whether ref is a literal medium constructor such as
// "mp.Medium(epsilon=12)" rather than a catalogue key. Raw expressions are
// emitted verbatim at their use site and never defined in the materials
// section.
func IsRawExpression(ref string) bool {
	r := strings.TrimSpace(ref)
	return strings.HasPrefix(r, "mp.") || strings.ContainsAny(r, "()")
}

// Reference returns the Python expression that refers to ref: "" for the
// default material, the raw expression itself, or the catalogue variable.
func Reference(ref string) string {
	r := strings.TrimSpace(ref)
	switch {
	case r == "":
		return ""
	case IsRawExpression(r):
		return r
	default:
		return VarName(r)
	}
}

// VarName converts a material key to a snake_case Python identifier.
// Acronyms stay together: "GalliumArsenide" becomes gallium_arsenide and
// "ITO" becomes ito.
func VarName(key string) string {
	runes := []rune(strings.TrimSpace(key))
	var b strings.Builder
	lastUnderscore := true
	for i, r := range runes {
		switch {
		case unicode.IsUpper(r):
			prevLower := i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]))
			nextLower := i > 0 && i+1 < len(runes) && unicode.IsUpper(runes[i-1]) && unicode.IsLower(runes[i+1])
			if (prevLower || nextLower) && !lastUnderscore {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			lastUnderscore = false
		case r < unicode.MaxASCII && (unicode.IsLower(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	name := strings.TrimRight(b.String(), "_")
	if name == "" {
		return "material"
	}
	if unicode.IsDigit(rune(name[0])) || isPythonKeyword(name) {
		name = "material_" + name
	}
	return name
}

var pythonKeywords = map[string]bool{
	"and": true, "as": true, "assert": true, "async": true, "await": true,
	"break": true, "class": true, "continue": true, "def": true, "del": true,
	"elif": true, "else": true, "except": true, "finally": true, "for": true,
	"from": true, "global": true, "if": true, "import": true, "in": true,
	"is": true, "lambda": true, "nonlocal": true, "not": true, "or": true,
	"pass": true, "raise": true, "return": true, "try": true, "while": true,
	"with": true, "yield": true, "mp": true, "np": true,
}

func isPythonKeyword(s string) bool { return pythonKeywords[s] }
