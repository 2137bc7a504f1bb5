package summarizer

import (
	"sort"
	"strings"

	"docsum/internal/domain"
	"docsum/internal/normalizer"
)

const (
	// MaxKeywords is how many ranked words are considered for keywords.
	MaxKeywords = 8
	// MinKeywordLength is the shortest word kept as a keyword.
	MinKeywordLength = 4
	// MaxKeySentences caps Result.SummarySentences.
	MaxKeySentences = 4
)

// HeuristicSummarizer ranks sentences by term frequency, position and key phrases.
type HeuristicSummarizer struct {
	highlighter Highlighter
}

// New creates a summarizer that renders HTML keyword markers.
func New() *HeuristicSummarizer {
	return &HeuristicSummarizer{highlighter: HTMLHighlighter}
}

// NewWithHighlighter creates a summarizer with a custom keyword renderer.
func NewWithHighlighter(h Highlighter) *HeuristicSummarizer {
	return &HeuristicSummarizer{highlighter: h}
}

// Summarize never fails; text without qualifying sentences yields a summary of ".".
func (s *HeuristicSummarizer) Summarize(text string, length domain.Length) domain.Result {
	tok := normalizer.Tokenize(text)
	freq := BuildFrequencies(tok.Words)
	selected := Select(ScoreAll(tok.Sentences, freq), length.Count())
	keywords := Keywords(freq)

	texts := make([]string, len(selected))
	for i, sc := range selected {
		texts[i] = sc.Text
	}
	base := strings.Join(texts, ". ") + "."

	key := texts
	if len(key) > MaxKeySentences {
		key = key[:MaxKeySentences]
	}
	return domain.Result{
		SummaryText:       s.highlighter.Highlight(base, keywords),
		TopWords:          keywords,
		SummarySentences:  append([]string{}, key...),
		SelectedSentences: texts,
	}
}

// Select orders sentences by score descending and keeps the first n.
// Equal scores keep document order.
func Select(scored []domain.ScoredSentence, n int) []domain.ScoredSentence {
	ranked := append([]domain.ScoredSentence(nil), scored...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	if n > len(ranked) {
		n = len(ranked)
	}
	if n < 0 {
		n = 0
	}
	return ranked[:n]
}

// Keywords takes the MaxKeywords most frequent words and then drops the ones
// shorter than MinKeywordLength. Filtering after the cut can return fewer
// keywords even when longer words exist further down the ranking.
func Keywords(freq *FrequencyTable) []string {
	ranked := freq.Ranked()
	if len(ranked) > MaxKeywords {
		ranked = ranked[:MaxKeywords]
	}
	out := make([]string, 0, len(ranked))
	for _, wc := range ranked {
		if len(wc.Word) >= MinKeywordLength {
			out = append(out, wc.Word)
		}
	}
	return out
}
