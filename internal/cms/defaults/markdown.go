package defaults

import (
	"fmt"
	"slices"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/vineai/website/internal/cms"
)

var markdown = goldmark.New()

// parseBlocks converts a markdown post body into portable-text blocks. Quotes become intro
// blocks, headings become h2 and every other paragraph is a normal block.
func parseBlocks(source []byte) []cms.Block {
	doc := markdown.Parser().Parse(text.NewReader(source))
	b := &blockBuilder{source: source}
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			b.add(cms.StyleH2, node)
		case *ast.Blockquote:
			for p := node.FirstChild(); p != nil; p = p.NextSibling() {
				b.add(cms.StyleBlockquote, p)
			}
		case *ast.List:
			for item := node.FirstChild(); item != nil; item = item.NextSibling() {
				for p := item.FirstChild(); p != nil; p = p.NextSibling() {
					b.add(cms.StyleNormal, p)
				}
			}
		case *ast.Paragraph, *ast.TextBlock:
			b.add(cms.StyleNormal, node)
		}
	}
	return b.blocks
}

type blockBuilder struct {
	source []byte
	blocks []cms.Block
	spans  int

	current *cms.Block
}

func (b *blockBuilder) add(style string, n ast.Node) {
	block := cms.Block{
		Key:      fmt.Sprintf("b%d", len(b.blocks)+1),
		Type:     "block",
		Style:    style,
		Children: []cms.Span{},
		MarkDefs: []cms.MarkDef{},
	}
	b.current = &block
	b.inline(n, nil)
	b.current = nil
	if len(block.Children) == 0 {
		return
	}
	b.blocks = append(b.blocks, block)
}

func (b *blockBuilder) inline(n ast.Node, marks []string) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch node := child.(type) {
		case *ast.Text:
			value := node.Segment.Value(b.source)
			if !slices.Contains(marks, "code") {
				value = unescape(value)
			}
			b.appendText(string(value), marks)
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.appendText(" ", marks)
			}
		case *ast.String:
			b.appendText(string(node.Value), marks)
		case *ast.CodeSpan:
			b.inline(node, withMark(marks, "code"))
		case *ast.Emphasis:
			mark := "em"
			if node.Level >= 2 {
				mark = "strong"
			}
			b.inline(node, withMark(marks, mark))
		case *ast.Link:
			b.inline(node, withMark(marks, b.linkKey(string(node.Destination))))
		case *ast.AutoLink:
			href := string(node.URL(b.source))
			b.appendText(string(node.Label(b.source)), withMark(marks, b.linkKey(href)))
		default:
			b.inline(node, marks)
		}
	}
}

func (b *blockBuilder) linkKey(href string) string {
	key := fmt.Sprintf("%sl%d", b.current.Key, len(b.current.MarkDefs)+1)
	b.current.MarkDefs = append(b.current.MarkDefs, cms.MarkDef{Key: key, Type: "link", Href: href})
	return key
}

// appendText extends the previous span when it carries the same marks.
func (b *blockBuilder) appendText(value string, marks []string) {
	if value == "" {
		return
	}
	children := b.current.Children
	if n := len(children); n > 0 && slices.Equal(children[n-1].Marks, marks) {
		children[n-1].Text += value
		return
	}
	b.spans++
	if marks == nil {
		marks = []string{}
	}
	b.current.Children = append(children, cms.Span{
		Key:   fmt.Sprintf("s%d", b.spans),
		Type:  "span",
		Text:  value,
		Marks: slices.Clone(marks),
	})
}

func withMark(marks []string, mark string) []string {
	out := make([]string, 0, len(marks)+1)
	out = append(out, marks...)
	return append(out, mark)
}

func unescape(value []byte) []byte {
	value = util.UnescapePunctuations(value)
	value = util.ResolveNumericReferences(value)
	return util.ResolveEntityNames(value)
}
