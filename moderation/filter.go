// Package moderation masks blocked words in message text before it is stored.
package moderation

import (
	"strings"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Filter matches blocked words on a folded form of the text, so spacing,
// punctuation, case and leet spelling ("b.4.d") do not hide them.
// A nil *Filter leaves text untouched.
type Filter struct {
	machine     *goahocorasick.Machine
	replacement rune
}

// folded is the searchable form of a text. origin[i] is the index in the
// original runes of folded rune i.
type folded struct {
	runes  []rune
	origin []int
}

// NewFilter returns nil when words holds nothing to match.
func NewFilter(words []string, replacement rune) (*Filter, error) {
	patterns := make([][]rune, 0, len(words))
	for _, word := range words {
		if p := fold([]rune(strings.TrimSpace(word))).runes; len(p) > 0 {
			patterns = append(patterns, p)
		}
	}
	if len(patterns) == 0 {
		return nil, nil
	}

	machine := new(goahocorasick.Machine)
	if err := machine.Build(patterns); err != nil {
		return nil, err
	}
	return &Filter{machine: machine, replacement: replacement}, nil
}

// Apply masks every matched word, rune for rune, including the noise inside it.
func (f *Filter) Apply(text string) string {
	if f == nil || text == "" {
		return text
	}
	original := []rune(text)
	searchable := fold(original)
	if len(searchable.runes) == 0 {
		return text
	}

	terms := f.machine.MultiPatternSearch(searchable.runes, false)
	if len(terms) == 0 {
		return text
	}
	for _, term := range terms {
		start, end := term.Pos, term.Pos+len(term.Word)
		if start < 0 || end > len(searchable.origin) {
			continue
		}
		for i := searchable.origin[start]; i <= searchable.origin[end-1]; i++ {
			original[i] = f.replacement
		}
	}
	return string(original)
}

func fold(runes []rune) folded {
	out := folded{runes: make([]rune, 0, len(runes)), origin: make([]int, 0, len(runes))}
	for i, r := range runes {
		r = unleet(r)
		if unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r) {
			continue
		}
		out.runes = append(out.runes, unicode.ToLower(r))
		out.origin = append(out.origin, i)
	}
	return out
}

func unleet(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}
