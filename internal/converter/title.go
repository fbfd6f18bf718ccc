package converter

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ExtractTitle returns the text of the first level-one heading of a converted
// document, falling back to the first heading of any level.
// Returns "" when the document has no heading.
func ExtractTitle(content []byte) string {
	doc := goldmark.New().Parser().Parse(text.NewReader(content))

	var first, h1 *ast.Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if first == nil {
			first = heading
		}
		if heading.Level == 1 {
			h1 = heading
			return ast.WalkStop, nil
		}
		return ast.WalkSkipChildren, nil
	})

	switch {
	case h1 != nil:
		return nodeText(h1, content)
	case first != nil:
		return nodeText(first, content)
	default:
		return ""
	}
}

// nodeText concatenates the text segments below n.
func nodeText(n ast.Node, source []byte) string {
	var buf bytes.Buffer

	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if textNode, ok := child.(*ast.Text); ok {
			buf.Write(textNode.Segment.Value(source))
			if textNode.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		} else if child.HasChildren() {
			buf.WriteString(nodeText(child, source))
		}
	}

	return strings.TrimSpace(buf.String())
}
