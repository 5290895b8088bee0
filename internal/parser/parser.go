package parser

import (
	"strings"

	"github.com/chriserin/rmd/internal/markdown"
)

// Tokenizer produces the token streams the parser consumes: block tokens
// for a whole document, and on-demand inline tokens for paragraph text.
type Tokenizer interface {
	Blocks(src string) []markdown.Token
	Emphasis(fragment string) []markdown.Token
	Links(fragment string) []markdown.Token
}

// Parser parses RecipeMD documents. It holds no per-document state and is
// safe for concurrent use.
type Parser struct {
	tok Tokenizer
}

// New returns a Parser reading tokens from tok.
func New(tok Tokenizer) *Parser {
	return &Parser{tok: tok}
}

var defaultParser = New(markdown.Goldmark{})

// Parse parses a RecipeMD document using the goldmark tokenizer.
func Parse(src string) (*Recipe, error) {
	return defaultParser.Parse(src)
}

// Parse parses a RecipeMD document. Any grammar violation aborts the whole
// parse with a *ParseError; no partial recipe is returned.
func (p *Parser) Parse(src string) (*Recipe, error) {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	s := &state{
		tok:    p.tok,
		lines:  strings.Split(src, "\n"),
		tokens: p.tok.Blocks(src),
	}

	title, err := s.parseTitle()
	if err != nil {
		return nil, err
	}
	description, err := s.parseDescription()
	if err != nil {
		return nil, err
	}
	tags, yields, err := s.parseTagsAndYields()
	if err != nil {
		return nil, err
	}

	if t := s.peek(); t != nil && t.Type == "hr" {
		s.pos++
	} else {
		return nil, invalidf(s.line(), "expected hr before ingredient list, got %s instead", describe(t))
	}

	ingredients, groups, err := s.parseIngredientSection()
	if err != nil {
		return nil, err
	}

	if t := s.peek(); t != nil {
		if t.Type != "hr" {
			return nil, invalidf(s.line(), "expected hr before instructions, got %s instead", describe(t))
		}
		s.pos++
	}

	instructions, err := s.blocksWhile(func() bool { return true }, -1)
	if err != nil {
		return nil, err
	}

	return &Recipe{
		Title:            title,
		Description:      description,
		Tags:             tags,
		Yields:           yields,
		Ingredients:      ingredients,
		IngredientGroups: groups,
		Instructions:     instructions,
	}, nil
}

// state is the working state of a single parse: an immutable token arena,
// a cursor into it and the source lines for verbatim spans.
type state struct {
	tok    Tokenizer
	lines  []string
	tokens []markdown.Token
	pos    int
}

func (s *state) peek() *markdown.Token {
	if s.pos >= len(s.tokens) {
		return nil
	}
	return &s.tokens[s.pos]
}

func (s *state) peekType() string {
	if t := s.peek(); t != nil {
		return t.Type
	}
	return ""
}

func (s *state) next() (markdown.Token, bool) {
	t := s.peek()
	if t == nil {
		return markdown.Token{}, false
	}
	s.pos++
	return *t, true
}

// line returns the 1-based source line of the token under the cursor.
func (s *state) line() int {
	if t := s.peek(); t != nil {
		return lineOf(*t)
	}
	return 0
}

func describe(t *markdown.Token) string {
	if t == nil {
		return "end of document"
	}
	return t.Type
}

func (s *state) parseTitle() (string, error) {
	line := s.line()
	open, ok := s.next()
	if !ok || open.Type != "heading_open" {
		return "", invalidf(line, "title (heading_open with level h1) required, got %s instead", describe(tokenOrNil(open, ok)))
	}
	if open.HeadingLevel() != 1 {
		return "", invalidf(line, "title (heading_open with level h1) required, got level %s instead", open.Tag)
	}

	content, ok := s.next()
	if !ok || content.Type != "inline" {
		return "", invariantf(line, "expected heading content, got %s instead", describe(tokenOrNil(content, ok)))
	}
	closing, ok := s.next()
	if !ok || closing.Type != "heading_close" {
		return "", invariantf(line, "expected heading_close, got %s instead", describe(tokenOrNil(closing, ok)))
	}

	title := strings.TrimSpace(content.Content)
	if title == "" {
		return "", invalidf(line, "title must not be empty")
	}
	return title, nil
}

func tokenOrNil(t markdown.Token, ok bool) *markdown.Token {
	if !ok {
		return nil
	}
	return &t
}

func (s *state) parseDescription() (string, error) {
	return s.blocksWhile(func() bool {
		if s.peekType() == "hr" {
			return false
		}
		_, _, ok := s.peekLabeled()
		return !ok
	}, -1)
}

func (s *state) parseTagsAndYields() ([]string, []Amount, error) {
	var tags []string
	var yields []Amount
	var seenTags, seenYields bool

	for {
		kind, content, ok := s.peekLabeled()
		if !ok {
			return tags, yields, nil
		}
		switch kind {
		case labelTags:
			if seenTags {
				return nil, nil, invalidf(s.line(), "tags may not be specified multiple times")
			}
			seenTags = true
			for _, tag := range splitList(content) {
				tags = append(tags, strings.TrimSpace(tag))
			}
		case labelYields:
			if seenYields {
				return nil, nil, invalidf(s.line(), "yields may not be specified multiple times")
			}
			seenYields = true
			for _, y := range splitList(content) {
				yields = append(yields, ParseAmount(y))
			}
		}
		s.pos += 3
	}
}

// splitList splits on commas, except a comma between two digits, which is
// a decimal separator ("1,5 l").
func splitList(s string) []string {
	runes := []rune(s)
	var parts []string
	last := 0
	for i, r := range runes {
		if r != ',' {
			continue
		}
		if i > 0 && i+1 < len(runes) && isDigit(runes[i-1]) && isDigit(runes[i+1]) {
			continue
		}
		parts = append(parts, string(runes[last:i]))
		last = i + 1
	}
	return append(parts, string(runes[last:]))
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// blocksWhile consumes whole blocks while cond holds and returns the source
// text they span, starting at line start when start >= 0. It returns ""
// when no block was consumed.
func (s *state) blocksWhile(cond func() bool, start int) (string, error) {
	end := -1
	for s.pos < len(s.tokens) && cond() {
		open, err := s.consumeBlock()
		if err != nil {
			return "", err
		}
		if open.Map == nil {
			return "", invariantf(0, "cannot map %s token to source", open.Type)
		}
		if start < 0 {
			start = open.Map.Start
		}
		end = open.Map.End
	}
	if start < 0 || end < 0 {
		return "", nil
	}
	end = min(end, len(s.lines))
	if start >= end {
		return "", nil
	}
	return strings.Join(s.lines[start:end], "\n"), nil
}

// consumeBlock advances past the block under the cursor, including all of
// its nested tokens, and returns its first token.
func (s *state) consumeBlock() (markdown.Token, error) {
	open := s.tokens[s.pos]
	if open.CloseType() == "" {
		s.pos++
		return open, nil
	}
	end, err := closeIndex(s.tokens, s.pos)
	if err != nil {
		return markdown.Token{}, err
	}
	s.pos = min(end+1, len(s.tokens))
	return open, nil
}
