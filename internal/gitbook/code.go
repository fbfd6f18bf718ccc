package gitbook

import (
	"regexp"
	"strings"
)

// codePattern matches {% code lang="go" %}BODY{% endcode %}.
// The attribute is captured by shape only and discarded.
var codePattern = regexp.MustCompile(`(?s)\{%\scode\s\w+?="\w+?"\s%}(.+?)\{%\sendcode\s%\}`)

// RewriteCode strips code block markers and keeps the body verbatim.
func RewriteCode(content string) string {
	out, _ := rewriteCode(nil, content)
	return out
}

func rewriteCode(doc *Document, content string) (string, error) {
	replaced := content
	n := 0

	for _, m := range codePattern.FindAllStringSubmatch(content, -1) {
		replaced = strings.Replace(replaced, m[0], m[1], 1)
		n++
	}

	if doc != nil {
		doc.count(ConstructCode, n)
	}
	return replaced, nil
}
