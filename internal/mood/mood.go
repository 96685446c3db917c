package mood

import (
	_ "embed"
	"strings"
	"sync"
	"unicode"

	"github.com/kljensen/snowball/english"
)

//go:embed imperatives.txt
var imperativesTxt string

//go:embed blacklist.txt
var blacklistTxt string

type table struct {
	// stem -> accepted base forms
	forms     map[string]map[string]struct{}
	blacklist map[string]struct{}
}

var loadTable = sync.OnceValue(func() *table {
	t := &table{
		forms:     make(map[string]map[string]struct{}),
		blacklist: make(map[string]struct{}),
	}
	for _, w := range words(imperativesTxt) {
		for _, form := range append(inflections(w), w) {
			stem := english.Stem(form, true)
			if t.forms[stem] == nil {
				t.forms[stem] = make(map[string]struct{})
			}
			t.forms[stem][w] = struct{}{}
		}
	}
	for _, w := range words(blacklistTxt) {
		t.blacklist[w] = struct{}{}
	}
	return t
})

func words(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, strings.ToLower(line))
	}
	return out
}

// inflections guesses the -s, -ed and -ing forms of a base verb. Stemming
// does not always fold them back onto the base's stem ("added" -> "ad"),
// so their stems are indexed too.
func inflections(base string) []string {
	stem := base
	if strings.HasSuffix(base, "e") {
		stem = strings.TrimSuffix(base, "e")
	}
	out := []string{base + "s", base + "es", stem + "ed", stem + "ing"}
	if n := len(base); n >= 3 && !isVowel(base[n-1]) && isVowel(base[n-2]) && !isVowel(base[n-3]) {
		doubled := base + base[n-1:]
		out = append(out, doubled+"ed", doubled+"ing")
	}
	return out
}

func isVowel(b byte) bool {
	return strings.IndexByte("aeiou", b) >= 0
}

// IsImperative reports whether word is a verb in the imperative mood.
//
// known is false when the word's stem is not a recognised verb; callers
// treat that as passing.
func IsImperative(word string) (imperative, known bool) {
	w := strings.ToLower(strings.TrimFunc(word, func(r rune) bool {
		return !unicode.IsLetter(r)
	}))
	if w == "" {
		return false, false
	}

	t := loadTable()
	if _, ok := t.blacklist[w]; ok {
		return false, true
	}
	forms, ok := t.forms[english.Stem(w, true)]
	if !ok {
		return false, false
	}
	_, imperative = forms[w]
	return imperative, true
}
