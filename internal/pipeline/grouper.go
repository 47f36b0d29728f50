package pipeline

import (
	"unicode/utf8"

	"framesrt/internal/config"
)

// mergeRule identifies which rule decided a pairwise grouping.
type mergeRule int

const (
	ruleTerminalPunctuation mergeRule = iota
	ruleFunctionWord
	ruleKnownPhrase
	ruleStandAlone
	ruleEmphasis
	ruleGapTooLarge
	ruleSentenceStart
	ruleShortWords
	ruleDefault
)

// PhraseGrouper groups adjacent words into one- or two-word phrases.
type PhraseGrouper struct {
	clock          FrameClock
	lex            *lexicon
	separator      string
	maxGapMS       float64
	prepositionGap float64
	shortRunes     int
}

// NewPhraseGrouper builds a grouper from settings and a frame clock.
// A PhraseGrouper must not be shared between goroutines.
func NewPhraseGrouper(clock FrameClock, settings *config.SubtitleSettings) *PhraseGrouper {
	return &PhraseGrouper{
		clock:          clock,
		lex:            newLexicon(settings.Lexicon),
		separator:      settings.Separator,
		maxGapMS:       settings.MaxGapMS,
		prepositionGap: settings.PrepositionGapMS,
		shortRunes:     settings.ShortWordRunes,
	}
}

// Group walks words once, deciding at each index whether the word merges
// with the one after it. Every word lands in exactly one group, in order.
func (g *PhraseGrouper) Group(words []Word) []Group {
	if len(words) == 0 {
		return nil
	}

	groups := make([]Group, 0, len(words))
	i := 0
	for i < len(words) {
		current := words[i]
		if i+1 < len(words) {
			next := words[i+1]
			if merge, _ := g.shouldMerge(i, current, next); merge {
				groups = append(groups, Group{
					Text:          current.Text + g.separator + next.Text,
					StartMS:       current.StartMS,
					EndMS:         next.EndMS,
					OriginalStart: current.StartMS,
					OriginalEnd:   next.EndMS,
					WordCount:     2,
				})
				i += 2
				continue
			}
		}
		groups = append(groups, Group{
			Text:          current.Text,
			StartMS:       current.StartMS,
			EndMS:         current.EndMS,
			OriginalStart: current.StartMS,
			OriginalEnd:   current.EndMS,
			WordCount:     1,
		})
		i++
	}
	return groups
}

// shouldMerge evaluates the rule chain for the word at index and its
// successor. The first rule that applies decides.
func (g *PhraseGrouper) shouldMerge(index int, current, next Word) (bool, mergeRule) {
	lx := g.lex
	currentClean := lx.stripTerminal(current.Text)
	nextClean := lx.stripTerminal(next.Text)
	currentFolded := lx.fold.String(currentClean)
	nextFolded := lx.fold.String(nextClean)
	gap := next.StartMS - current.EndMS

	if lx.endsWithTerminal(current.Text) {
		return false, ruleTerminalPunctuation
	}

	if lx.isFunctionWord(currentFolded) {
		nextEmphasized := next.Duration() > g.clock.EmphasisMS*2
		return gap < g.prepositionGap && !nextEmphasized, ruleFunctionWord
	}

	if lx.isPhrase(currentFolded, nextFolded) {
		return true, ruleKnownPhrase
	}

	if lx.isStandAlone(currentClean) {
		return false, ruleStandAlone
	}

	if current.Duration() > g.clock.EmphasisMS || next.Duration() > g.clock.EmphasisMS {
		return false, ruleEmphasis
	}

	if gap > g.maxGapMS {
		return false, ruleGapTooLarge
	}

	if index > 0 && lx.startsSentence(next.Text, nextClean) {
		return false, ruleSentenceStart
	}

	if utf8.RuneCountInString(currentClean) < g.shortRunes && utf8.RuneCountInString(nextClean) < g.shortRunes {
		return true, ruleShortWords
	}

	return false, ruleDefault
}

// GroupStats summarizes the shape of a grouping.
type GroupStats struct {
	Groups       int
	TwoWord      int
	SingleWord   int
	WordsCovered int
}

// SummarizeGroups counts one- and two-word groups.
func SummarizeGroups(groups []Group) GroupStats {
	stats := GroupStats{Groups: len(groups)}
	for _, grp := range groups {
		if grp.WordCount == 2 {
			stats.TwoWord++
		} else {
			stats.SingleWord++
		}
		stats.WordsCovered += grp.WordCount
	}
	return stats
}
