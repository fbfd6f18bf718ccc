package gitbook

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/leonardomso/gbconv/internal/asset"
)

// imagePattern has two alternatives tried left to right at each position:
// a figure-wrapped image with an empty caption (group 1), then a bare
// image tag (group 2). The alt attribute is matched lazily up to the first '>'.
var imagePattern = regexp.MustCompile(
	`(?s)<figure><img\ssrc="(.+?)"\salt=".+?><figcaption></figcaption></figure>` +
		`|<img\ssrc="(.+?)"\salt=".+?>`,
)

// RewriteImages relocates each locally referenced image into doc.AssetDir
// and replaces the tag with ![image](assets/name).
// Images pointing at absolute URLs are left exactly as they are.
func RewriteImages(doc *Document, content string) (string, error) {
	replaced := content
	n := 0

	for _, idx := range imagePattern.FindAllStringSubmatchIndex(content, -1) {
		span := content[idx[0]:idx[1]]
		src := imageSource(content, idx)

		name, remote, err := doc.relocate(src)
		if err != nil {
			return "", err
		}
		if remote {
			continue
		}

		replaced = strings.Replace(replaced, span, fmt.Sprintf("![image](%s)", asset.Link(name)), 1)
		n++
	}

	doc.count(ConstructImage, n)
	return replaced, nil
}

// imageSource returns whichever src group participated in the match.
func imageSource(content string, idx []int) string {
	for g := 1; g <= 2; g++ {
		if start := idx[2*g]; start >= 0 {
			return content[start:idx[2*g+1]]
		}
	}
	return ""
}
