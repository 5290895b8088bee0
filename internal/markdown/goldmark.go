package markdown

import (
	"fmt"
	"sort"
	"strings"

	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Goldmark tokenizes Markdown with goldmark. The zero value is ready to use
// and safe for concurrent use.
type Goldmark struct{}

var (
	// Block structure only. Without the link reference transformer,
	// reference definitions stay ordinary paragraphs.
	blockParser = parser.NewParser(
		parser.WithBlockParsers(parser.DefaultBlockParsers()...),
	)
	emphasisParser = parser.NewParser(
		parser.WithBlockParsers(util.Prioritized(parser.NewParagraphParser(), 1000)),
		parser.WithInlineParsers(util.Prioritized(parser.NewEmphasisParser(), 500)),
	)
	linkParser = parser.NewParser(
		parser.WithBlockParsers(util.Prioritized(parser.NewParagraphParser(), 1000)),
		parser.WithInlineParsers(util.Prioritized(parser.NewLinkParser(), 200)),
	)
)

// Blocks returns the block tokens of src. Paragraph and heading text is
// carried unparsed in "inline" tokens.
func (Goldmark) Blocks(src string) []Token {
	source := []byte(src)
	root := blockParser.Parse(text.NewReader(source))

	b := &blockBuilder{
		source: source,
		lines:  strings.Split(src, "\n"),
	}
	for i, c := range source {
		if c == '\n' {
			b.newlines = append(b.newlines, i)
		}
	}
	b.children(root, 0, 0)
	return b.tokens
}

// Emphasis returns the inline tokens of fragment, recognizing only
// emphasis and strong emphasis.
func (Goldmark) Emphasis(fragment string) []Token {
	return inlineTokens(emphasisParser, fragment)
}

// Links returns the inline tokens of fragment, recognizing only links.
func (Goldmark) Links(fragment string) []Token {
	return inlineTokens(linkParser, fragment)
}

type blockBuilder struct {
	source   []byte
	lines    []string
	newlines []int
	tokens   []Token
}

// lineAt returns the 0-based line holding the byte at offset.
func (b *blockBuilder) lineAt(offset int) int {
	return sort.SearchInts(b.newlines, offset)
}

func (b *blockBuilder) emit(t Token) {
	b.tokens = append(b.tokens, t)
}

// children emits every block child of parent and returns the line after
// the last one, or cursor when there are none.
func (b *blockBuilder) children(parent gmast.Node, level, cursor int) int {
	end := cursor
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		end = b.block(n, level, end)
	}
	return end
}

func (b *blockBuilder) block(n gmast.Node, level, cursor int) int {
	switch node := n.(type) {
	case *gmast.Heading:
		r := b.leafRange(n, cursor)
		if r.End < len(b.lines) && isSetextUnderline(b.lines[r.End]) &&
			!strings.HasPrefix(strings.TrimSpace(b.lines[r.Start]), "#") {
			r.End++
		}
		tag := fmt.Sprintf("h%d", node.Level)
		markup := strings.Repeat("#", node.Level)
		b.emit(Token{Type: "heading_open", Tag: tag, Nesting: Opening, Level: level, Markup: markup, Map: &r})
		b.emit(Token{Type: "inline", Level: level + 1, Content: b.inlineContent(n), Map: &r})
		b.emit(Token{Type: "heading_close", Tag: tag, Nesting: Closing, Level: level, Markup: markup})
		return r.End

	case *gmast.Paragraph, *gmast.TextBlock:
		r := b.leafRange(n, cursor)
		b.emit(Token{Type: "paragraph_open", Tag: "p", Nesting: Opening, Level: level, Map: &r})
		b.emit(Token{Type: "inline", Level: level + 1, Content: b.inlineContent(n), Map: &r})
		b.emit(Token{Type: "paragraph_close", Tag: "p", Nesting: Closing, Level: level})
		return r.End

	case *gmast.ThematicBreak:
		r := b.scanRange(cursor)
		b.emit(Token{Type: "hr", Tag: "hr", Nesting: SelfClosing, Level: level, Markup: "---", Map: &r})
		return r.End

	case *gmast.FencedCodeBlock:
		r := b.leafRange(n, cursor)
		if node.Info != nil {
			r.Start = b.lineAt(node.Info.Segment.Start)
		} else if n.Lines() != nil && n.Lines().Len() > 0 {
			r.Start--
		}
		if r.End <= r.Start {
			r.End = r.Start + 1
		}
		if r.End < len(b.lines) && isFence(b.lines[r.End]) {
			r.End++
		}
		b.emit(Token{Type: "fence", Tag: "code", Nesting: SelfClosing, Level: level, Content: b.rawContent(n), Markup: "```", Map: &r})
		return r.End

	case *gmast.CodeBlock:
		r := b.leafRange(n, cursor)
		b.emit(Token{Type: "code_block", Tag: "code", Nesting: SelfClosing, Level: level, Content: b.rawContent(n), Map: &r})
		return r.End

	case *gmast.HTMLBlock:
		r := b.leafRange(n, cursor)
		content := b.rawContent(n)
		if node.HasClosure() {
			r.End = b.lineAt(node.ClosureLine.Start) + 1
			content += string(node.ClosureLine.Value(b.source))
		}
		b.emit(Token{Type: "html_block", Nesting: SelfClosing, Level: level, Content: content, Map: &r})
		return r.End

	case *gmast.List:
		kind, tag := "bullet_list", "ul"
		if node.IsOrdered() {
			kind, tag = "ordered_list", "ol"
		}
		return b.container(n, kind, tag, string(node.Marker), level, cursor)

	case *gmast.ListItem:
		markup := ""
		if list, ok := n.Parent().(*gmast.List); ok {
			markup = string(list.Marker)
		}
		return b.container(n, "list_item", "li", markup, level, cursor)

	case *gmast.Blockquote:
		return b.container(n, "blockquote", "blockquote", ">", level, cursor)

	default:
		kind := snakeKind(n.Kind().String())
		if n.HasChildren() {
			return b.container(n, kind, "", "", level, cursor)
		}
		r := b.leafRange(n, cursor)
		b.emit(Token{Type: kind, Nesting: SelfClosing, Level: level, Content: b.rawContent(n), Map: &r})
		return r.End
	}
}

func (b *blockBuilder) container(n gmast.Node, kind, tag, markup string, level, cursor int) int {
	idx := len(b.tokens)
	b.emit(Token{Type: kind + "_open", Tag: tag, Nesting: Opening, Level: level, Markup: markup})

	first := len(b.tokens)
	end := b.children(n, level+1, cursor)

	var r LineRange
	if len(b.tokens) > first && b.tokens[first].Map != nil {
		r = LineRange{Start: b.tokens[first].Map.Start, End: end}
	} else {
		r = b.scanRange(cursor)
	}
	b.tokens[idx].Map = &r

	b.emit(Token{Type: kind + "_close", Tag: tag, Nesting: Closing, Level: level, Markup: markup})
	return r.End
}

// leafRange maps the line segments of n to source lines. Nodes without
// segments are located by scanning forward from cursor.
func (b *blockBuilder) leafRange(n gmast.Node, cursor int) LineRange {
	lines := n.Lines()
	if lines == nil || lines.Len() == 0 {
		return b.scanRange(cursor)
	}
	first, last := lines.At(0), lines.At(lines.Len()-1)
	stop := last.Stop - 1
	if stop < last.Start {
		stop = last.Start
	}
	return LineRange{Start: b.lineAt(first.Start), End: b.lineAt(stop) + 1}
}

// scanRange returns the first non-blank line at or after cursor.
func (b *blockBuilder) scanRange(cursor int) LineRange {
	start := cursor
	for start < len(b.lines) && strings.TrimSpace(b.lines[start]) == "" {
		start++
	}
	if start >= len(b.lines) {
		return LineRange{Start: len(b.lines), End: len(b.lines)}
	}
	return LineRange{Start: start, End: start + 1}
}

// inlineContent joins the text lines of a paragraph or heading.
func (b *blockBuilder) inlineContent(n gmast.Node) string {
	lines := n.Lines()
	if lines == nil {
		return ""
	}
	parts := make([]string, 0, lines.Len())
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		line := strings.TrimRight(string(seg.Value(b.source)), "\r\n")
		parts = append(parts, strings.TrimLeft(line, " \t"))
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

func (b *blockBuilder) rawContent(n gmast.Node) string {
	var sb strings.Builder
	lines := n.Lines()
	if lines == nil {
		return ""
	}
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(b.source))
	}
	return sb.String()
}

func isSetextUnderline(line string) bool {
	t := strings.TrimSpace(line)
	if t == "" {
		return false
	}
	return strings.Trim(t, "=") == "" || strings.Trim(t, "-") == ""
}

func isFence(line string) bool {
	t := strings.TrimSpace(line)
	return strings.HasPrefix(t, "```") || strings.HasPrefix(t, "~~~")
}

// snakeKind turns a goldmark kind name ("DefinitionList") into a token
// kind ("definition_list").
func snakeKind(name string) string {
	var sb strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				sb.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

type inlineBuilder struct {
	source []byte
	tokens []Token
}

func inlineTokens(p parser.Parser, fragment string) []Token {
	source := []byte(fragment)
	root := p.Parse(text.NewReader(source))

	ib := &inlineBuilder{source: source}
	for para := root.FirstChild(); para != nil; para = para.NextSibling() {
		if para != root.FirstChild() {
			ib.tokens = append(ib.tokens, Token{Type: "text", Content: "\n\n"})
		}
		ib.children(para, 0)
	}
	return ib.tokens
}

func (ib *inlineBuilder) emit(t Token) {
	ib.tokens = append(ib.tokens, t)
}

func (ib *inlineBuilder) children(parent gmast.Node, level int) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *gmast.Text:
			content := string(node.Segment.Value(ib.source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				content += "\n"
			}
			ib.emit(Token{Type: "text", Level: level, Content: content})

		case *gmast.String:
			ib.emit(Token{Type: "text", Level: level, Content: string(node.Value)})

		case *gmast.Emphasis:
			kind := "em"
			if node.Level >= 2 {
				kind = "strong"
			}
			markup := strings.Repeat(string(ib.delimiter(node)), node.Level)
			ib.emit(Token{Type: kind + "_open", Tag: kind, Nesting: Opening, Level: level, Markup: markup})
			ib.children(node, level+1)
			ib.emit(Token{Type: kind + "_close", Tag: kind, Nesting: Closing, Level: level, Markup: markup})

		case *gmast.Link:
			ib.emit(Token{Type: "link_open", Tag: "a", Nesting: Opening, Level: level, Href: string(node.Destination)})
			ib.children(node, level+1)
			ib.emit(Token{Type: "link_close", Tag: "a", Nesting: Closing, Level: level})

		default:
			ib.children(n, level)
		}
	}
}

// delimiter recovers the emphasis character ('*' or '_') from the source
// byte preceding the first text inside n.
func (ib *inlineBuilder) delimiter(n gmast.Node) byte {
	for c := n.FirstChild(); c != nil; c = c.FirstChild() {
		t, ok := c.(*gmast.Text)
		if !ok {
			continue
		}
		if s := t.Segment.Start; s > 0 && (ib.source[s-1] == '*' || ib.source[s-1] == '_') {
			return ib.source[s-1]
		}
		break
	}
	return '*'
}
