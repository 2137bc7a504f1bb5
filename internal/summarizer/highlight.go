package summarizer

import (
	"regexp"
	"strings"
)

// Highlighter wraps whole-word keyword occurrences in a single left-to-right
// scan, so a marker is never matched again by a later keyword.
type Highlighter struct {
	// Wrap renders one matched word. match keeps its original case, keyword is lowercase.
	Wrap func(match, keyword string) string
	// Escape is applied to the text between matches. Nil leaves it untouched.
	Escape func(string) string
}

// HTMLHighlighter produces <mark> markup. Text between markers only has its
// angle brackets escaped, so stripping the tags leaves quotes, apostrophes and
// ampersands as written.
var HTMLHighlighter = Highlighter{Wrap: markKeyword, Escape: EscapeMarkup}

// Literal entity text is escaped too, keeping UnescapeMarkup an exact inverse.
var (
	markupEscaper   = strings.NewReplacer("&lt;", "&amp;lt;", "&gt;", "&amp;gt;", "&amp;", "&amp;amp;", "<", "&lt;", ">", "&gt;")
	markupUnescaper = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&amp;", "&")
)

// EscapeMarkup escapes angle brackets and any text that already reads as one
// of the three entities it produces.
func EscapeMarkup(s string) string { return markupEscaper.Replace(s) }

// UnescapeMarkup reverses EscapeMarkup.
func UnescapeMarkup(s string) string { return markupUnescaper.Replace(s) }

func markKeyword(match, keyword string) string {
	return `<mark class="keyword" data-keyword="` + keyword + `">` + match + `</mark>`
}

// Highlight returns text with every word whose lowercase form is in keywords wrapped.
// Word boundaries follow the ASCII word class [A-Za-z0-9_].
func (h Highlighter) Highlight(text string, keywords []string) string {
	escape := h.Escape
	if escape == nil {
		escape = func(s string) string { return s }
	}
	if len(keywords) == 0 || h.Wrap == nil {
		return escape(text)
	}
	set := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		set[strings.ToLower(k)] = struct{}{}
	}

	var b strings.Builder
	b.Grow(len(text))
	plain := 0
	for i := 0; i < len(text); {
		if !isWordByte(text[i]) {
			i++
			continue
		}
		j := i
		for j < len(text) && isWordByte(text[j]) {
			j++
		}
		kw := strings.ToLower(text[i:j])
		if _, ok := set[kw]; ok {
			b.WriteString(escape(text[plain:i]))
			b.WriteString(h.Wrap(text[i:j], kw))
			plain = j
		}
		i = j
	}
	b.WriteString(escape(text[plain:]))
	return b.String()
}

func isWordByte(c byte) bool {
	return c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

var tagRe = regexp.MustCompile(`<[^>]*>?`)

// StripTags removes every <...> tag. For text without angle brackets or entity
// sequences this alone recovers the unhighlighted summary.
func StripTags(markup string) string {
	return tagRe.ReplaceAllString(markup, "")
}

// PlainText strips markup tags and reverses EscapeMarkup, recovering the
// unhighlighted summary for clipboard export.
func PlainText(markup string) string {
	return UnescapeMarkup(StripTags(markup))
}
