package summarizer

import (
	"sort"

	"docsum/internal/domain"
)

// FrequencyTable counts non stop-word occurrences across a document.
// It remembers first-occurrence order so that ranking ties are deterministic.
type FrequencyTable struct {
	counts map[string]int
	order  []string
}

// BuildFrequencies counts every word that is not a stop word.
func BuildFrequencies(words []string) *FrequencyTable {
	t := &FrequencyTable{counts: make(map[string]int)}
	for _, w := range words {
		if IsStopword(w) {
			continue
		}
		if _, seen := t.counts[w]; !seen {
			t.order = append(t.order, w)
		}
		t.counts[w]++
	}
	return t
}

// Count returns the occurrences of word, 0 when absent.
func (t *FrequencyTable) Count(word string) int { return t.counts[word] }

// Len returns the number of distinct words.
func (t *FrequencyTable) Len() int { return len(t.order) }

// Ranked returns the entries sorted by count descending, ties in first-occurrence order.
func (t *FrequencyTable) Ranked() []domain.WordCount {
	out := make([]domain.WordCount, len(t.order))
	for i, w := range t.order {
		out[i] = domain.WordCount{Word: w, Count: t.counts[w]}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

var stopwords = func() map[string]struct{} {
	words := []string{
		"the", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with", "by", "is", "are", "was", "were", "be", "been", "have", "has", "had", "do", "does", "did", "will", "would", "could", "should", "may", "might", "can", "this", "that", "these", "those", "a", "an",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()

// IsStopword reports whether word is in the fixed stop-word set.
func IsStopword(word string) bool {
	_, ok := stopwords[word]
	return ok
}
