package gitbook

import (
	"regexp"
	"strings"
)

// hintPattern matches {% hint style="info" %}BODY{% endhint %}.
var hintPattern = regexp.MustCompile(`(?s)\{%\shint\sstyle="\w+?"\s%\}(.+?)\{%\sendhint\s%\}`)

// quotePrefix starts every line of a rewritten hint.
const quotePrefix = "> "

// RewriteHints turns hints into blockquotes, one "> " prefix per body line.
func RewriteHints(content string) string {
	out, _ := rewriteHints(nil, content)
	return out
}

func rewriteHints(doc *Document, content string) (string, error) {
	replaced := content
	n := 0

	for _, m := range hintPattern.FindAllStringSubmatch(content, -1) {
		replaced = strings.Replace(replaced, m[0], blockquote(m[1]), 1)
		n++
	}

	if doc != nil {
		doc.count(ConstructHint, n)
	}
	return replaced, nil
}

// blockquote prefixes every line of body with "> " and joins them with "\n".
func blockquote(body string) string {
	lines := splitLines(body)
	for i, line := range lines {
		lines[i] = quotePrefix + line
	}
	return strings.Join(lines, "\n")
}

// splitLines splits s on "\n". A final terminator does not start an extra
// empty line, and a "\r" before "\n" is dropped.
//
//	"a\nb\n"  -> ["a", "b"]
//	"\na\n\n" -> ["", "a", ""]
func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
