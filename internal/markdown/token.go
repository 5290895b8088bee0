// Package markdown turns Markdown text into flat, typed token streams.
//
// Container constructs are represented by a "<kind>_open" / "<kind>_close"
// token pair at the same nesting level; leaf constructs are a single
// self-closing token. Block tokens carry the source lines they span.
package markdown

import "strings"

// Nesting describes how a token changes the nesting level.
type Nesting int

const (
	Closing     Nesting = -1
	SelfClosing Nesting = 0
	Opening     Nesting = 1
)

// LineRange is a half-open range [Start, End) of 0-based source lines.
type LineRange struct {
	Start int
	End   int
}

// Token is a single block or inline token.
type Token struct {
	Type    string // e.g. "paragraph_open", "inline", "hr", "em_close", "text"
	Tag     string // e.g. "h2", "p", "ul", "em", "a"
	Nesting Nesting
	Level   int
	Content string
	Markup  string
	Href    string     // link_open only
	Map     *LineRange // block tokens only
}

// CloseType returns the type of the token that closes t, or "" when t is
// not an opening token.
func (t Token) CloseType() string {
	if t.Nesting != Opening || !strings.HasSuffix(t.Type, "_open") {
		return ""
	}
	return strings.TrimSuffix(t.Type, "_open") + "_close"
}

// HeadingLevel returns the numeric level of a heading token ("h3" -> 3),
// or 0 when t is not a heading token.
func (t Token) HeadingLevel() int {
	if len(t.Tag) != 2 || t.Tag[0] != 'h' || t.Tag[1] < '1' || t.Tag[1] > '6' {
		return 0
	}
	return int(t.Tag[1] - '0')
}
