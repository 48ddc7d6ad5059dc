package cms

import (
	"html"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var blockPolicy = newBlockPolicy()

func newBlockPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("p", "h2")
	p.RequireNoFollowOnLinks(false)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

var decorators = map[string]string{
	"strong": "strong",
	"em":     "em",
	"code":   "code",
}

// RenderBlocks renders portable-text blocks as sanitised HTML. Unknown block types are skipped
// and unknown styles render as paragraphs.
func RenderBlocks(blocks []Block) template.HTML {
	var b strings.Builder
	for _, block := range blocks {
		if block.Type != blockType {
			continue
		}
		openTag, closeTag := blockTags(block.Style)
		b.WriteString(openTag)
		links := make(map[string]string, len(block.MarkDefs))
		for _, def := range block.MarkDefs {
			if def.Type == linkType && def.Href != "" {
				links[def.Key] = def.Href
			}
		}
		for _, span := range block.Children {
			writeSpan(&b, span, links)
		}
		b.WriteString(closeTag)
		b.WriteByte('\n')
	}
	return template.HTML(blockPolicy.Sanitize(b.String()))
}

func blockTags(style string) (string, string) {
	switch style {
	case StyleH2:
		return "<h2>", "</h2>"
	case StyleBlockquote:
		return `<p class="article-intro">`, "</p>"
	default:
		return "<p>", "</p>"
	}
}

func writeSpan(b *strings.Builder, span Span, links map[string]string) {
	var closers []string
	for _, mark := range span.Marks {
		if tag, ok := decorators[mark]; ok {
			b.WriteString("<" + tag + ">")
			closers = append(closers, "</"+tag+">")
			continue
		}
		if href, ok := links[mark]; ok {
			b.WriteString(`<a href="` + html.EscapeString(href) + `">`)
			closers = append(closers, "</a>")
		}
	}
	b.WriteString(html.EscapeString(span.Text))
	for i := len(closers) - 1; i >= 0; i-- {
		b.WriteString(closers[i])
	}
}

// PlainText joins the text of every block, separated by blank lines.
func PlainText(blocks []Block) string {
	parts := make([]string, 0, len(blocks))
	for _, block := range blocks {
		if block.Type != blockType {
			continue
		}
		var sb strings.Builder
		for _, span := range block.Children {
			sb.WriteString(span.Text)
		}
		if text := strings.TrimSpace(sb.String()); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n")
}
