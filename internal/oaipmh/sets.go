package oaipmh

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Set categories used as prefixes in hierarchical set specs.
const (
	CategoryItemSet = "itemset"
	CategoryType    = "type"
)

// stripDiacritics removes combining marks after canonical decomposition, so
// "télédétection" becomes "teledetection".
var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// ligatures maps the few characters NFD does not decompose to their base
// letter.
var ligatures = strings.NewReplacer(
	"æ", "a", "œ", "o", "ø", "o", "þ", "t", "ð", "d", "ß", "s", "đ", "d", "ł", "l",
)

// CleanSetString converts free text into a set spec: lower case, spaces as
// underscores, diacritics transliterated. The second return value is false
// when disallowed characters remain; such values cannot be exposed as sets
// and the caller must skip them rather than emit a malformed spec.
func CleanSetString(raw string) (string, bool) {
	s := strings.ReplaceAll(strings.ToLower(raw), " ", "_")
	s = ligatures.Replace(s)
	if stripped, _, err := transform.String(stripDiacritics, s); err == nil {
		s = stripped
	}
	if s == "" || !isCleanSetSpec(s) {
		return "", false
	}
	return s, true
}

// isCleanSetSpec reports whether s contains only [A-Za-z0-9_.-].
func isCleanSetSpec(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '.' || r == '-':
		default:
			return false
		}
	}
	return true
}

// QualifySetSpec prefixes the spec with its category in hierarchical mode;
// flat specs pass through unchanged.
func QualifySetSpec(flat bool, category, spec string) string {
	if flat {
		return spec
	}
	return category + ":" + spec
}

// SplitSetSpec separates the category prefix from a hierarchical set
// argument. Flat specs have no category.
func SplitSetSpec(flat bool, spec string) (category, rest string) {
	if flat {
		return "", spec
	}
	category, rest, found := strings.Cut(spec, ":")
	if !found {
		return spec, ""
	}
	return category, rest
}

// UnspaceSetValue reverses the space mangling of CleanSetString for lookups
// that need the original wording (titles, type names, vocabulary values).
func UnspaceSetValue(spec string) string {
	return strings.ReplaceAll(spec, "_", " ")
}
