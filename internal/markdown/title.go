package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ExtractTitle parses a markdown body and returns the text of the first
// heading. Manifest entries without an explicit title fall back to this.
//
// This is an analysis API; it does not re-render markdown.
func ExtractTitle(body []byte) (string, bool) {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))

	var title string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if heading, ok := n.(*gmast.Heading); ok {
			title = headingText(heading, body)
			return gmast.WalkStop, nil
		}
		return gmast.WalkContinue, nil
	})

	title = strings.TrimSpace(title)
	return title, title != ""
}

func headingText(heading *gmast.Heading, body []byte) string {
	var sb strings.Builder
	for child := heading.FirstChild(); child != nil; child = child.NextSibling() {
		if textNode, ok := child.(*gmast.Text); ok {
			sb.Write(textNode.Segment.Value(body))
			continue
		}
		// Inline code, emphasis etc. contribute their text content.
		sb.Write(nodeText(child, body))
	}
	return sb.String()
}

func nodeText(n gmast.Node, body []byte) []byte {
	var out []byte
	_ = gmast.Walk(n, func(node gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if textNode, ok := node.(*gmast.Text); ok {
			out = append(out, textNode.Segment.Value(body)...)
		}
		return gmast.WalkContinue, nil
	})
	return out
}
