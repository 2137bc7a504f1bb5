package normalizer

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"docsum/internal/domain"
)

// MinSentenceLength is the trimmed length a sentence must exceed to be kept.
const MinSentenceLength = 10

var (
	// ASCII whitespace, vertical tab, Unicode separators and the BOM.
	whitespaceRe = regexp.MustCompile(`[\s\v\p{Z}\x{FEFF}]+`)
	terminalRe   = regexp.MustCompile(`[.!?]+`)
	wordRe       = regexp.MustCompile(`\b[a-z]{3,}\b`)
)

// Clean collapses whitespace runs into single spaces and trims the result.
func Clean(text string) string {
	return strings.Trim(whitespaceRe.ReplaceAllString(text, " "), " ")
}

// Words lowercases text and returns every word of three or more ASCII letters.
func Words(text string) []string {
	return wordRe.FindAllString(strings.ToLower(text), -1)
}

// Sentences splits cleaned text on terminal punctuation. Pieces whose trimmed
// length is MinSentenceLength characters or less are dropped.
func Sentences(cleaned string) []domain.Sentence {
	var out []domain.Sentence
	for _, piece := range terminalRe.Split(cleaned, -1) {
		text := strings.Trim(piece, " ")
		if utf8.RuneCountInString(text) <= MinSentenceLength {
			continue
		}
		out = append(out, domain.Sentence{
			Text:  text,
			Index: len(out),
			Words: Words(text),
		})
	}
	return out
}

// Tokenized is the normalizer output consumed by the summarizer.
type Tokenized struct {
	Text      string
	Sentences []domain.Sentence
	Words     []string
}

// Tokenize runs Clean, Sentences and Words over raw extracted text.
func Tokenize(raw string) Tokenized {
	cleaned := Clean(raw)
	return Tokenized{
		Text:      cleaned,
		Sentences: Sentences(cleaned),
		Words:     Words(cleaned),
	}
}
