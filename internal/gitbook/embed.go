package gitbook

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// embedPattern matches the opening {% embed url="..." %} tag.
	embedPattern = regexp.MustCompile(`(?s)\{%\sembed\surl="(.+?)"\s%\}`)

	// endEmbedPattern matches every closing tag, paired or not.
	endEmbedPattern = regexp.MustCompile(`\{%\sendembed\s%\}`)
)

// RewriteEmbedURLs turns embeds into links whose label and target are the URL
// and removes all {% endembed %} markers.
func RewriteEmbedURLs(content string) string {
	out, _ := rewriteEmbedURLs(nil, content)
	return out
}

func rewriteEmbedURLs(doc *Document, content string) (string, error) {
	replaced := content
	n := 0

	for _, m := range embedPattern.FindAllStringSubmatch(content, -1) {
		url := m[1]
		replaced = strings.Replace(replaced, m[0], fmt.Sprintf("[%s](%s)", url, url), 1)
		n++
	}

	replaced = endEmbedPattern.ReplaceAllLiteralString(replaced, "")

	if doc != nil {
		doc.count(ConstructEmbed, n)
	}
	return replaced, nil
}
