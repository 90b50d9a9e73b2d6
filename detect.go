package toon

import (
	"encoding/json"
	"strings"
)

// htmlTags is the tag vocabulary used to tell HTML apart from generic XML.
// Markup whose root tag is not in this set (and that carries no <html> or
// <!DOCTYPE marker) is treated as XML.
var htmlTags = map[string]bool{
	"html": true, "head": true, "body": true, "div": true, "span": true,
	"p": true, "a": true, "ul": true, "ol": true, "li": true,
	"table": true, "tr": true, "td": true, "th": true, "thead": true,
	"tbody": true, "form": true, "input": true, "button": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"img": true, "br": true, "hr": true, "script": true, "style": true,
	"title": true, "meta": true, "link": true, "section": true,
	"article": true, "header": true, "footer": true, "nav": true,
	"main": true, "strong": true, "em": true, "b": true, "i": true,
	"pre": true, "code": true, "label": true, "select": true,
	"option": true, "textarea": true,
}

// Detect guesses the source format of raw text. It never fails: ambiguous or
// empty input returns FormatUnknown. Detection is a pure function of the text
// and does not consult any Config; the delimiter used for the tabular check
// is inferred from the text itself.
func Detect(text string) Format {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return FormatUnknown
	}

	switch trimmed[0] {
	case '{', '[':
		// Brace-shaped text must actually be JSON; '{not valid json}' is not.
		if json.Valid([]byte(trimmed)) {
			return FormatJSON
		}
		return FormatUnknown
	case '<':
		if looksLikeHTML(trimmed) {
			return FormatHTML
		}
		return FormatXML
	}

	if looksDelimited(trimmed) {
		return FormatCSV
	}
	return FormatUnknown
}

// looksLikeHTML reports whether markup text carries an HTML marker or opens
// with a well-known HTML tag.
func looksLikeHTML(text string) bool {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "<!doctype") || strings.Contains(lower, "<html") {
		return true
	}
	return htmlTags[firstTagName(lower)]
}

// firstTagName extracts the name of the first element tag, skipping the XML
// declaration and comments.
func firstTagName(text string) string {
	for i := 0; i < len(text); {
		open := strings.IndexByte(text[i:], '<')
		if open < 0 {
			return ""
		}
		i += open + 1
		if i >= len(text) {
			return ""
		}
		switch text[i] {
		case '?', '!':
			// Declaration or comment, move past it.
			end := strings.IndexByte(text[i:], '>')
			if end < 0 {
				return ""
			}
			i += end + 1
			continue
		}
		j := i
		for j < len(text) && isTagNameByte(text[j]) {
			j++
		}
		return text[i:j]
	}
	return ""
}

func isTagNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' || c == '-' || c == '_'
}

// looksDelimited reports whether text reads as delimiter-separated rows: one
// of the candidate delimiters appears in every non-empty line with a
// consistent count, across at least two lines.
func looksDelimited(text string) bool {
	lines := nonEmptyLines(text)
	if len(lines) < 2 {
		return false
	}

	for _, delim := range []rune{',', '\t', '|'} {
		if consistentDelimiterCount(lines, delim) {
			return true
		}
	}
	return false
}

func nonEmptyLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

// consistentDelimiterCount checks that delim occurs at least once per line
// and the same number of times in every line, ignoring quoted CSV sections.
func consistentDelimiterCount(lines []string, delim rune) bool {
	want := -1
	for _, line := range lines {
		n := countUnquoted(line, delim)
		if n == 0 {
			return false
		}
		if want == -1 {
			want = n
		} else if n != want {
			return false
		}
	}
	return true
}

// countUnquoted counts occurrences of delim outside double-quoted sections,
// so `"John, Doe",Developer` counts one comma.
func countUnquoted(line string, delim rune) int {
	n := 0
	inQuotes := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == delim && !inQuotes:
			n++
		}
	}
	return n
}
