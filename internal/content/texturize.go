package content

import (
	"regexp"
	"strings"
)

// Elements whose text must never be texturized. Tracked with a depth
// counter so differently named suppression elements may nest.
var noTexturizeTags = map[string]struct{}{
	"pre":    {},
	"code":   {},
	"kbd":    {},
	"style":  {},
	"script": {},
	"tt":     {},
}

var (
	apostropheRe   = regexp.MustCompile(`(\w)'(\w)`)
	openSingleRe   = regexp.MustCompile(`(^|[\s(\[{<])'`)
	openDoubleRe   = regexp.MustCompile(`(^|[\s(\[{<])"`)
	numericRangeRe = regexp.MustCompile(`([0-9])--([0-9])`)
)

// Texturize applies typographic beautification to the text portions of a
// markup fragment: directional quotes, en/em dashes and ellipses. Markup
// itself passes through untouched, as does any text inside a
// no-texturize element.
func Texturize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	depth := 0

	for i := 0; i < len(s); {
		if s[i] == '<' {
			end := strings.IndexByte(s[i:], '>')
			if end < 0 {
				b.WriteString(s[i:])
				break
			}
			tag := s[i : i+end+1]
			name, closing, selfClosing := parseTag(tag)
			if _, ok := noTexturizeTags[name]; ok && !selfClosing {
				if closing {
					if depth > 0 {
						depth--
					}
				} else {
					depth++
				}
			}
			b.WriteString(tag)
			i += end + 1
			continue
		}

		next := strings.IndexByte(s[i:], '<')
		var text string
		if next < 0 {
			text = s[i:]
			i = len(s)
		} else {
			text = s[i : i+next]
			i += next
		}
		if depth > 0 {
			b.WriteString(text)
		} else {
			b.WriteString(texturizeText(text))
		}
	}

	return b.String()
}

func texturizeText(t string) string {
	t = strings.ReplaceAll(t, "...", "…")

	// Dashes. A spaced double hyphen becomes an em dash with its spaces
	// preserved; an unspaced one becomes an en dash only between digits,
	// so punycode labels like xn--domain stay intact.
	t = strings.ReplaceAll(t, "---", "—")
	t = strings.ReplaceAll(t, " -- ", " — ")
	t = numericRangeRe.ReplaceAllString(t, "$1–$2")

	// Quotes: word-internal apostrophes first, then opening quotes after
	// whitespace or an opening bracket, then everything left closes.
	t = apostropheRe.ReplaceAllString(t, "$1’$2")
	t = openSingleRe.ReplaceAllString(t, "$1‘")
	t = strings.ReplaceAll(t, "'", "’")
	t = openDoubleRe.ReplaceAllString(t, "$1“")
	t = strings.ReplaceAll(t, `"`, "”")

	return t
}

// parseTag reports the lowercase element name of a raw "<...>" token and
// whether it is a closing or self-closing tag.
func parseTag(tag string) (name string, closing, selfClosing bool) {
	inner := strings.TrimSuffix(strings.TrimPrefix(tag, "<"), ">")
	inner = strings.TrimSpace(inner)
	if strings.HasPrefix(inner, "/") {
		closing = true
		inner = strings.TrimSpace(inner[1:])
	}
	if strings.HasSuffix(inner, "/") {
		selfClosing = true
		inner = strings.TrimSpace(strings.TrimSuffix(inner, "/"))
	}
	if idx := strings.IndexAny(inner, " \t\n\r"); idx >= 0 {
		inner = inner[:idx]
	}
	return strings.ToLower(inner), closing, selfClosing
}
