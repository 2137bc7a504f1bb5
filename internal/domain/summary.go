package domain

import "strings"

// Length is a named bucket mapping to a target sentence count.
type Length string

const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

// Lengths lists the tiers in display order.
var Lengths = []Length{LengthShort, LengthMedium, LengthLong}

// ParseLength maps a user supplied tier name to a Length. Unknown values fall back to short.
func ParseLength(s string) Length {
	switch Length(strings.ToLower(strings.TrimSpace(s))) {
	case LengthMedium:
		return LengthMedium
	case LengthLong:
		return LengthLong
	default:
		return LengthShort
	}
}

// Count returns the number of sentences requested by the tier.
func (l Length) Count() int {
	switch l {
	case LengthMedium:
		return 6
	case LengthLong:
		return 10
	default:
		return 3
	}
}

// Next cycles through the tiers.
func (l Length) Next() Length {
	for i, v := range Lengths {
		if v == l {
			return Lengths[(i+1)%len(Lengths)]
		}
	}
	return LengthShort
}

// Sentence is a retained span of the document.
type Sentence struct {
	Text  string
	Index int
	Words []string
}

// ScoredSentence pairs a sentence with its heuristic score.
type ScoredSentence struct {
	Sentence
	Score int
}

// WordCount is a frequency table entry.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Result is the output of one summarization call.
type Result struct {
	// SummaryText is the joined selection with keyword markers.
	SummaryText string `json:"summaryText"`
	// TopWords holds at most 8 keywords ordered by frequency.
	TopWords []string `json:"topWords"`
	// SummarySentences holds the first 4 selected sentences, unhighlighted.
	SummarySentences []string `json:"summarySentences"`
	// SelectedSentences holds every selected sentence, unhighlighted.
	SelectedSentences []string `json:"selectedSentences"`
}
