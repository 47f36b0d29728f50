package pipeline

import (
	"testing"

	"framesrt/internal/config"
)

func TestEndsWithTerminal(t *testing.T) {
	lx := newLexicon(config.DefaultLexicon())
	tests := []struct {
		text string
		want bool
	}{
		{"done.", true},
		{"really?", true},
		{"wait!", true},
		{"first,", true},
		{"so;", true},
		{"note:", true},
		{"and—", true},
		{"then–", true},
		{"well-", true},
		{"word", false},
		{"mid.dle", false},
		{"", false},
		{"quote\"", false},
	}
	for _, tt := range tests {
		if got := lx.endsWithTerminal(tt.text); got != tt.want {
			t.Errorf("endsWithTerminal(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestStripTerminal(t *testing.T) {
	lx := newLexicon(config.DefaultLexicon())
	tests := map[string]string{
		"done.":   "done",
		"what?!":  "what",
		"end...":  "end",
		"plain":   "plain",
		"a-b":     "a-b",
		"—":       "",
		"Judge,":  "Judge",
		"résumé.": "résumé",
	}
	for in, want := range tests {
		if got := lx.stripTerminal(in); got != want {
			t.Errorf("stripTerminal(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLexiconLookups(t *testing.T) {
	lx := newLexicon(config.DefaultLexicon())

	if !lx.isFunctionWord(lx.fold.String("The")) {
		t.Error("folded article should be a function word")
	}
	if !lx.isFunctionWord("into") {
		t.Error("preposition should be a function word")
	}
	if lx.isFunctionWord("cat") {
		t.Error("noun should not be a function word")
	}
	if !lx.isPhrase(lx.fold.String("KIND"), "of") {
		t.Error("phrase pairs should match after folding")
	}
	if lx.isPhrase("of", "kind") {
		t.Error("phrase pairs are ordered")
	}
	if !lx.isStandAlone("Judge") || lx.isStandAlone("judge") {
		t.Error("stand-alone words are case-sensitive")
	}
}

func TestStartsSentence(t *testing.T) {
	lx := newLexicon(config.DefaultLexicon())
	tests := []struct {
		text string
		want bool
	}{
		{"Then", true},
		{"Émile", true},
		{"I", false},
		{"I.", false},
		{"then", false},
		{"42", false},
	}
	for _, tt := range tests {
		if got := lx.startsSentence(tt.text, lx.stripTerminal(tt.text)); got != tt.want {
			t.Errorf("startsSentence(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestNewLexicon_SkipsMalformedPairs(t *testing.T) {
	src := config.DefaultLexicon()
	src.Phrases = [][]string{{"only"}, {"as", "well", "as"}, {"at", "all"}}
	lx := newLexicon(src)
	if len(lx.phrases) != 1 || !lx.isPhrase("at", "all") {
		t.Errorf("phrases = %v, want only at/all", lx.phrases)
	}
}
