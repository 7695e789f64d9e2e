package names

import (
	"strings"
	"unicode"
)

// Go reserved words.
var reservedWords = map[string]bool{
	"break":       true,
	"case":        true,
	"chan":        true,
	"const":       true,
	"continue":    true,
	"default":     true,
	"defer":       true,
	"else":        true,
	"fallthrough": true,
	"for":         true,
	"func":        true,
	"go":          true,
	"goto":        true,
	"if":          true,
	"import":      true,
	"interface":   true,
	"map":         true,
	"package":     true,
	"range":       true,
	"return":      true,
	"select":      true,
	"struct":      true,
	"switch":      true,
	"type":        true,
	"var":         true,
}

// Predeclared identifiers that a generated type must not shadow.
var predeclaredTypes = map[string]bool{
	"any":        true,
	"bool":       true,
	"byte":       true,
	"comparable": true,
	"complex128": true,
	"complex64":  true,
	"error":      true,
	"float32":    true,
	"float64":    true,
	"int":        true,
	"int16":      true,
	"int32":      true,
	"int64":      true,
	"int8":       true,
	"rune":       true,
	"string":     true,
	"uint":       true,
	"uint16":     true,
	"uint32":     true,
	"uint64":     true,
	"uint8":      true,
	"uintptr":    true,
}

// escapeReservedWord escapes a reserved word by appending an underscore.
func escapeReservedWord(name string) string {
	if reservedWords[name] {
		return name + "_"
	}
	return name
}

// CleanName makes name a valid Go identifier. Invalid characters become
// underscores, a leading digit is prefixed with X, and reserved words get a
// trailing underscore.
func CleanName(name string) string {
	if name == "" {
		return "X"
	}

	var result strings.Builder
	for i, r := range name {
		if i == 0 && unicode.IsDigit(r) {
			result.WriteRune('X')
		}
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			result.WriteRune(r)
		} else {
			result.WriteRune('_')
		}
	}

	return escapeReservedWord(result.String())
}

// cleanTypeName is CleanName plus protection against shadowing predeclared types.
func cleanTypeName(name string) string {
	name = CleanName(name)
	if predeclaredTypes[name] {
		return name + "_"
	}
	return name
}

// cleanFlagName reduces name to lower-case letters, digits and single dashes.
func cleanFlagName(name string) string {
	var result strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			result.WriteRune(r)
			dash = false
			continue
		}
		if !dash && result.Len() > 0 {
			result.WriteRune('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(result.String(), "-")
	if out == "" {
		return "x"
	}
	return out
}

// cleanPackageName reduces name to a lower-case Go package identifier.
func cleanPackageName(name string) string {
	var result strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			result.WriteRune(r)
		}
	}
	out := result.String()
	if out == "" {
		return "api"
	}
	if out[0] >= '0' && out[0] <= '9' {
		out = "api" + out
	}
	return escapeReservedWord(out)
}
