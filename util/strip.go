package util

import (
	"strings"

	"golang.org/x/net/html"
)

// StripHTML removes all tags from the input, decodes entities and collapses
// whitespace.
func StripHTML(input string) string {
	if input == "" {
		return ""
	}

	tokenizer := html.NewTokenizerFragment(strings.NewReader(input), "body")

	var text = &strings.Builder{}
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break // assuming tokenizer.Err() == io.EOF
		}
		if tt == html.TextToken {
			text.Write(tokenizer.Text()) // entities are decoded here
		}
	}

	return strings.Join(strings.Fields(text.String()), " ")
}

// PreviewText strips the input and truncates it to maxRunes, appending an
// ellipsis. It does not split a word if a space exists within the last fifth
// of the window. It is UTF8-safe.
func PreviewText(input string, maxRunes int) string {

	var plain = StripHTML(input)

	var runes = []rune(plain)
	if len(runes) <= maxRunes {
		return plain
	}

	var lastSpace = -1
	for i, r := range runes[:maxRunes] {
		if r == ' ' {
			lastSpace = i
		}
	}
	if lastSpace > maxRunes*8/10 {
		return string(runes[:lastSpace]) + "..."
	}
	return string(runes[:maxRunes]) + "..."
}
