package parser

import (
	"strings"

	"github.com/chriserin/rmd/internal/markdown"
)

// closeIndex returns the absolute index of the token closing tokens[open]:
// the first later token of the matching close type at the same level.
// When there is none it returns len(tokens), which callers treat as
// "through the end of the stream".
func closeIndex(tokens []markdown.Token, open int) (int, error) {
	closeType := tokens[open].CloseType()
	if closeType == "" {
		return 0, invariantf(lineOf(tokens[open]), "expected open token, got %s instead", tokens[open].Type)
	}
	level := tokens[open].Level
	for i := open + 1; i < len(tokens); i++ {
		if tokens[i].Type == closeType && tokens[i].Level == level {
			return i, nil
		}
	}
	return len(tokens), nil
}

// skipText returns the index of the first token at or after i that is not
// a text token whose content satisfies blank.
func skipText(tokens []markdown.Token, i int, blank func(string) bool) int {
	for i < len(tokens) && tokens[i].Type == "text" && blank(tokens[i].Content) {
		i++
	}
	return i
}

func isEmpty(s string) bool {
	return s == ""
}

func isWhitespace(s string) bool {
	return strings.TrimSpace(s) == ""
}

// serialize turns inline tokens back into literal text. Tokens without
// content contribute their markup.
func serialize(tokens []markdown.Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		if t.Content != "" {
			sb.WriteString(t.Content)
		} else {
			sb.WriteString(t.Markup)
		}
	}
	return sb.String()
}

// lineOf returns the 1-based first line of t, or 0 when t carries no map.
func lineOf(t markdown.Token) int {
	if t.Map == nil {
		return 0
	}
	return t.Map.Start + 1
}

func isList(typ string) bool {
	return typ == "bullet_list_open" || typ == "ordered_list_open"
}
