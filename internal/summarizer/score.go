package summarizer

import (
	"strings"

	"docsum/internal/domain"
)

const (
	leadSentences    = 3
	leadBonus        = 2
	keyPhraseBonus   = 3
	minSentenceWords = 5
	maxSentenceWords = 25
)

// keyPhrases are matched as plain substrings, so "key" also hits "keyword".
var keyPhrases = []string{
	"important", "key", "main", "primary", "essential", "critical", "significant", "conclusion", "summary", "result", "finding",
}

// Score computes the additive heuristic score of a single sentence.
func Score(s domain.Sentence, freq *FrequencyTable) int {
	score := 0
	for _, w := range s.Words {
		score += freq.Count(w)
	}
	if s.Index < leadSentences {
		score += leadBonus
	}
	lower := strings.ToLower(s.Text)
	for _, phrase := range keyPhrases {
		if strings.Contains(lower, phrase) {
			score += keyPhraseBonus
		}
	}
	switch n := len(s.Words); {
	case n < minSentenceWords:
		score--
	case n > maxSentenceWords:
		score--
	}
	return score
}

// ScoreAll scores sentences in document order.
func ScoreAll(sentences []domain.Sentence, freq *FrequencyTable) []domain.ScoredSentence {
	out := make([]domain.ScoredSentence, len(sentences))
	for i, s := range sentences {
		out[i] = domain.ScoredSentence{Sentence: s, Score: Score(s, freq)}
	}
	return out
}
