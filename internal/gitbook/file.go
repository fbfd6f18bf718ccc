package gitbook

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/leonardomso/gbconv/internal/asset"
)

// filePattern matches {% file src="..." %}.
var filePattern = regexp.MustCompile(`(?s)\{%\sfile\ssrc="(.+?)"\s%\}`)

// RewriteFileLinks relocates each locally referenced file into doc.AssetDir
// and replaces the tag with [name](assets/name).
// Tags pointing at absolute URLs are left exactly as they are.
func RewriteFileLinks(doc *Document, content string) (string, error) {
	replaced := content
	n := 0

	for _, m := range filePattern.FindAllStringSubmatch(content, -1) {
		name, remote, err := doc.relocate(m[1])
		if err != nil {
			return "", err
		}
		if remote {
			continue
		}

		replaced = strings.Replace(replaced, m[0], fmt.Sprintf("[%s](%s)", name, asset.Link(name)), 1)
		n++
	}

	doc.count(ConstructFile, n)
	return replaced, nil
}
