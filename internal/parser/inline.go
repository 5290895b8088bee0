package parser

import "strings"

type label int

const (
	labelTags label = iota + 1
	labelYields
)

// peekLabeled reports whether the next block is a paragraph made of a
// single emphasis span (tags) or strong span (yields), and returns the
// span's text. It never moves the cursor.
func (s *state) peekLabeled() (label, string, bool) {
	if len(s.tokens)-s.pos < 3 ||
		s.tokens[s.pos].Type != "paragraph_open" ||
		s.tokens[s.pos+1].Type != "inline" ||
		s.tokens[s.pos+2].Type != "paragraph_close" {
		return 0, "", false
	}

	toks := s.tok.Emphasis(s.tokens[s.pos+1].Content)
	i := skipText(toks, 0, isEmpty)
	if i >= len(toks) {
		return 0, "", false
	}

	var kind label
	switch toks[i].Type {
	case "em_open":
		kind = labelTags
	case "strong_open":
		kind = labelYields
	default:
		return 0, "", false
	}

	end, err := closeIndex(toks, i)
	if err != nil {
		return 0, "", false
	}
	if rest := skipText(toks, min(end+1, len(toks)), isEmpty); rest < len(toks) {
		return 0, "", false
	}
	return kind, serialize(toks[i+1 : end]), true
}

// leadingAmount splits a leading emphasis span off paragraph text. found is
// false when text does not start with emphasis; rest is then all of text.
func (s *state) leadingAmount(text string) (amount string, found bool, rest string, err error) {
	toks := s.tok.Emphasis(text)
	i := skipText(toks, 0, isEmpty)
	if i >= len(toks) || toks[i].Type != "em_open" {
		return "", false, serialize(toks), nil
	}

	end, err := closeIndex(toks, i)
	if err != nil {
		return "", false, "", err
	}
	return serialize(toks[i+1 : end]), true, serialize(toks[min(end+1, len(toks)):]), nil
}

// wrappingLink returns the target and text of a link spanning all of text,
// ignoring surrounding whitespace. Anything else leaves text as the name.
func (s *state) wrappingLink(text string) (link, name string, err error) {
	toks := s.tok.Links(text)
	i := skipText(toks, 0, isWhitespace)
	if i >= len(toks) || toks[i].Type != "link_open" {
		return "", text, nil
	}

	end, err := closeIndex(toks, i)
	if err != nil {
		return "", "", err
	}
	if rest := skipText(toks, min(end+1, len(toks)), isWhitespace); rest < len(toks) {
		return "", text, nil
	}

	var sb strings.Builder
	for _, t := range toks[i+1 : end] {
		sb.WriteString(t.Content)
	}
	return toks[i].Href, sb.String(), nil
}
