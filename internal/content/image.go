package content

import (
	"strings"

	"golang.org/x/net/html"
)

// FirstImageURL returns the src attribute of the first <img> tag found in
// markup, or "" when there is none. srcset candidates are ignored.
func FirstImageURL(markup string) string {
	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "img" || !hasAttr {
				continue
			}
			for {
				key, val, more := z.TagAttr()
				if string(key) == "src" {
					return string(val)
				}
				if !more {
					break
				}
			}
		}
	}
}
