package gitbook

import (
	"regexp"
	"strings"
)

var (
	// tabsPattern matches an outer {% tabs %}...{% endtabs %} block.
	tabsPattern = regexp.MustCompile(`(?s)\{%\stabs\s%\}(.+?)\{%\sendtabs\s%\}`)

	// tabPattern matches one {% tab title="Go" %}BODY{% endtab %} inside a tabs block.
	// Titles are word characters only.
	tabPattern = regexp.MustCompile(`(?s)\{%\stab\stitle="(\w+?)"\s%\}(.+?)\{%\sendtab\s%\}`)
)

// Outer markers removed once every inner tab has been rewritten.
const (
	tabsOpenLine  = "{% tabs %}\n"
	tabsCloseLine = "{% endtabs %}\n"
)

// RewriteTabs turns every tab into a "### Using <title>" section and strips
// the outer tabs markers.
func RewriteTabs(content string) string {
	out, _ := rewriteTabs(nil, content)
	return out
}

func rewriteTabs(doc *Document, content string) (string, error) {
	replaced := content
	n := 0

	for _, outer := range tabsPattern.FindAllStringSubmatch(content, -1) {
		for _, tab := range tabPattern.FindAllStringSubmatch(outer[1], -1) {
			title, body := tab[1], tab[2]
			replaced = strings.Replace(replaced, tab[0], "### Using "+title+"\n"+body, 1)
			n++
		}
	}

	replaced = strings.ReplaceAll(replaced, tabsOpenLine, "")
	replaced = strings.ReplaceAll(replaced, tabsCloseLine, "")

	if doc != nil {
		doc.count(ConstructTabs, n)
	}
	return replaced, nil
}
