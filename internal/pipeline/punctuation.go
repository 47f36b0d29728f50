package pipeline

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"framesrt/internal/config"
)

type wordPair struct {
	first, second string
}

// lexicon is the lookup form of config.Lexicon. Prepositions, articles and
// phrase pairs are stored case-folded; stand-alone words keep their case.
type lexicon struct {
	terminal      string
	prepositions  map[string]struct{}
	articles      map[string]struct{}
	phrases       map[wordPair]struct{}
	standAlone    map[string]struct{}
	capitalExempt map[string]struct{}
	fold          cases.Caser
}

func newLexicon(src config.Lexicon) *lexicon {
	lx := &lexicon{
		terminal:      src.TerminalPunct,
		prepositions:  make(map[string]struct{}, len(src.Prepositions)),
		articles:      make(map[string]struct{}, len(src.Articles)),
		phrases:       make(map[wordPair]struct{}, len(src.Phrases)),
		standAlone:    make(map[string]struct{}, len(src.StandAlone)),
		capitalExempt: make(map[string]struct{}, len(src.CapitalExempt)),
		fold:          cases.Fold(),
	}
	for _, w := range src.Prepositions {
		lx.prepositions[lx.fold.String(w)] = struct{}{}
	}
	for _, w := range src.Articles {
		lx.articles[lx.fold.String(w)] = struct{}{}
	}
	for _, p := range src.Phrases {
		if len(p) != 2 {
			continue
		}
		lx.phrases[wordPair{lx.fold.String(p[0]), lx.fold.String(p[1])}] = struct{}{}
	}
	for _, w := range src.StandAlone {
		lx.standAlone[w] = struct{}{}
	}
	for _, w := range src.CapitalExempt {
		lx.capitalExempt[w] = struct{}{}
	}
	return lx
}

// endsWithTerminal reports whether the last rune of text is terminal punctuation.
func (lx *lexicon) endsWithTerminal(text string) bool {
	if text == "" {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(text)
	return strings.ContainsRune(lx.terminal, r)
}

// stripTerminal removes every trailing terminal punctuation rune.
func (lx *lexicon) stripTerminal(text string) string {
	return strings.TrimRight(text, lx.terminal)
}

func (lx *lexicon) isFunctionWord(folded string) bool {
	if _, ok := lx.prepositions[folded]; ok {
		return true
	}
	_, ok := lx.articles[folded]
	return ok
}

func (lx *lexicon) isPhrase(first, second string) bool {
	_, ok := lx.phrases[wordPair{first, second}]
	return ok
}

func (lx *lexicon) isStandAlone(stripped string) bool {
	_, ok := lx.standAlone[stripped]
	return ok
}

// startsSentence reports whether a capitalized word looks like the start of
// a new sentence or a proper noun.
func (lx *lexicon) startsSentence(text, stripped string) bool {
	r, _ := utf8.DecodeRuneInString(text)
	if r == utf8.RuneError || !unicode.IsUpper(r) {
		return false
	}
	_, exempt := lx.capitalExempt[stripped]
	return !exempt
}
