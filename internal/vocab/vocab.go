// Package vocab implements the vocabulary mapping pipeline used to
// normalize, translate and complete the values of one metadata term,
// following the Europeana and BnF exposure recommendations.
package vocab

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/dc_type.yaml
var dcTypeTable []byte

// Value is one language-tagged text. An empty Lang means untagged.
type Value struct {
	Lang string `yaml:"lang"`
	Text string `yaml:"text"`
}

// Entry is one canonical vocabulary entry: its per-language texts, the
// spelling corrections feeding into it, the allowed translation directions
// and the extra values emitted around it.
type Entry struct {
	// Replace maps raw full values to their corrected form. An empty
	// correction removes the value.
	Replace map[string]string `yaml:"replace"`
	// Translate maps language to the canonical text in that language.
	Translate map[string]string `yaml:"translate"`
	// LangPairs restricts translation targets per source language. A
	// source language with no entry translates into every configured
	// language.
	LangPairs map[string][]string `yaml:"langpairs"`
	Prepend   []Value             `yaml:"prepend"`
	Append    []Value             `yaml:"append"`
}

// term holds the mapping for one metadata term.
type term struct {
	// Case lists the case transforms per language, applied in order to
	// raw values before matching.
	Case    map[string][]string `yaml:"case"`
	Entries []Entry             `yaml:"entries"`
}

// Table is the full mapping table, loaded once at startup and read-only
// afterwards.
type Table struct {
	Terms map[string]*term `yaml:"terms"`
	// languages per term, insertion order of first appearance.
	languages map[string][]string
}

// Load parses the embedded mapping table.
func Load() (*Table, error) {
	return Parse(dcTypeTable)
}

// Parse builds a table from YAML data.
func Parse(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("vocab: parse mapping table: %w", err)
	}
	t.languages = make(map[string][]string)
	for name, tm := range t.Terms {
		seen := make(map[string]bool)
		for _, e := range tm.Entries {
			for _, lang := range []string{"eng", "fre"} {
				if _, ok := e.Translate[lang]; ok && !seen[lang] {
					seen[lang] = true
					t.languages[name] = append(t.languages[name], lang)
				}
			}
			for lang := range e.Translate {
				if !seen[lang] {
					seen[lang] = true
					t.languages[name] = append(t.languages[name], lang)
				}
			}
		}
	}
	return &t, nil
}

// HasTerm reports whether the table maps the given term.
func (t *Table) HasTerm(name string) bool {
	_, ok := t.Terms[name]
	return ok
}

// Pipeline applies a mapping table to raw values.
type Pipeline struct {
	table *Table
	// defaultLanguage tags untranslated values and sorts first among
	// translations. Empty disables tagging.
	defaultLanguage string
}

func NewPipeline(table *Table, defaultLanguage string) *Pipeline {
	return &Pipeline{table: table, defaultLanguage: defaultLanguage}
}

// HasTerm reports whether the pipeline's table maps the given term.
func (p *Pipeline) HasTerm(name string) bool {
	return p.table.HasTerm(name)
}

// languageOrder returns the term's languages with the default language
// first, mirroring the scan order used for matching.
func (p *Pipeline) languageOrder(name string) []string {
	langs := p.table.languages[name]
	if p.defaultLanguage == "" {
		return langs
	}
	ordered := []string{p.defaultLanguage}
	for _, l := range langs {
		if l != p.defaultLanguage {
			ordered = append(ordered, l)
		}
	}
	return ordered
}

// Apply runs the full pipeline for one term: normalize, translate,
// deduplicate. Unmapped terms and unmatched values pass through tagged with
// the default language. The result preserves input order; an empty input
// yields an empty output.
func (p *Pipeline) Apply(name string, raw []string) []Value {
	tm, ok := p.table.Terms[name]
	if !ok {
		out := make([]Value, 0, len(raw))
		for _, v := range raw {
			out = append(out, Value{Lang: p.defaultLanguage, Text: v})
		}
		return dedupe(out)
	}

	values := p.normalize(tm, raw)

	var out []Value
	for _, v := range values {
		out = append(out, p.translate(name, tm, v)...)
	}
	return dedupe(out)
}

// normalize applies the default language's case transforms and the
// full-value replacements, dropping duplicates and removed values.
func (p *Pipeline) normalize(tm *term, raw []string) []string {
	values := make([]string, 0, len(raw))
	for _, v := range raw {
		for _, c := range tm.Case[p.defaultLanguage] {
			v = applyCase(c, v)
		}
		values = append(values, v)
	}

	seen := make(map[string]bool)
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, e := range tm.Entries {
			if repl, ok := e.Replace[v]; ok {
				v = repl
				break
			}
		}
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// translate emits the language-tagged group for one value: the matched
// text, its permitted translations, and the entry's prepend and append
// values. The scan is language-major with the default language first, and
// first entry wins within a language.
func (p *Pipeline) translate(name string, tm *term, value string) []Value {
	for _, lang := range p.languageOrder(name) {
		for i := range tm.Entries {
			e := &tm.Entries[i]
			text, ok := e.Translate[lang]
			if !ok || !strings.EqualFold(text, value) {
				continue
			}

			group := []Value{{Lang: lang, Text: text}}
			if targets, restricted := e.LangPairs[lang]; restricted {
				for _, target := range targets {
					if t, ok := e.Translate[target]; ok {
						group = append(group, Value{Lang: target, Text: t})
					}
				}
			} else {
				for _, other := range p.languageOrder(name) {
					if other == lang {
						continue
					}
					if t, ok := e.Translate[other]; ok {
						group = append(group, Value{Lang: other, Text: t})
					}
				}
			}

			if p.defaultLanguage != "" {
				group = stableSortDefaultFirst(group, p.defaultLanguage)
			}

			out := make([]Value, 0, len(e.Prepend)+len(group)+len(e.Append))
			out = append(out, e.Prepend...)
			out = append(out, group...)
			out = append(out, e.Append...)
			return out
		}
	}
	return []Value{{Lang: p.defaultLanguage, Text: value}}
}

// stableSortDefaultFirst moves default-language pairs before all others,
// keeping relative order otherwise.
func stableSortDefaultFirst(values []Value, lang string) []Value {
	out := make([]Value, 0, len(values))
	for _, v := range values {
		if v.Lang == lang {
			out = append(out, v)
		}
	}
	for _, v := range values {
		if v.Lang != lang {
			out = append(out, v)
		}
	}
	return out
}

// dedupe collapses repeated (language, lowercased text) pairs, keeping the
// first occurrence.
func dedupe(values []Value) []Value {
	seen := make(map[string]bool, len(values))
	out := values[:0:0]
	for _, v := range values {
		key := v.Lang + "\x00" + strings.ToLower(v.Text)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}

// Synonyms returns the mapped companion texts for one raw set value: the
// permitted translations of the first matching entry plus its appended
// generic values. The empty result means the value is unmapped.
func (p *Pipeline) Synonyms(name, value string) []Value {
	tm, ok := p.table.Terms[name]
	if !ok {
		return nil
	}
	for _, lang := range p.languageOrder(name) {
		for i := range tm.Entries {
			e := &tm.Entries[i]
			text, ok := e.Translate[lang]
			if !ok || !strings.EqualFold(text, value) {
				continue
			}
			var out []Value
			if targets, restricted := e.LangPairs[lang]; restricted {
				for _, target := range targets {
					if t, ok := e.Translate[target]; ok {
						out = append(out, Value{Lang: target, Text: t})
					}
				}
			} else {
				for _, other := range p.languageOrder(name) {
					if other == lang {
						continue
					}
					if t, ok := e.Translate[other]; ok {
						out = append(out, Value{Lang: other, Text: t})
					}
				}
			}
			out = append(out, e.Append...)
			return dedupe(out)
		}
	}
	return nil
}

// SearchValues returns the raw source texts that expose the given value as
// a synonym, for resolving a harvested set argument back to stored values.
// The comparison is case-insensitive.
func (p *Pipeline) SearchValues(name, value string) []string {
	tm, ok := p.table.Terms[name]
	if !ok {
		return nil
	}
	lower := strings.ToLower(value)
	var out []string
	seen := make(map[string]bool)
	for _, lang := range p.languageOrder(name) {
		for i := range tm.Entries {
			text, ok := tm.Entries[i].Translate[lang]
			if !ok || seen[text] {
				continue
			}
			for _, s := range p.Synonyms(name, text) {
				if strings.ToLower(s.Text) == lower {
					seen[text] = true
					out = append(out, text)
					break
				}
			}
		}
	}
	return out
}

// applyCase runs one named case transform.
func applyCase(name, s string) string {
	switch name {
	case "lower":
		return strings.ToLower(s)
	case "upper":
		return strings.ToUpper(s)
	case "ucfirst":
		return upperFirst(s)
	case "titleize":
		words := strings.Fields(s)
		for i, w := range words {
			words[i] = upperFirst(strings.ToLower(w))
		}
		return strings.Join(words, " ")
	}
	return s
}

func upperFirst(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
