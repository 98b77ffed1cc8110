package content

import (
	"html"
	"strings"
)

// Strip removes markup from s and returns decoded plain text. CDATA
// sections are unwrapped and their contents stripped in turn instead of
// being discarded with the surrounding brackets.
func Strip(s string) string {
	return strings.TrimSpace(html.UnescapeString(stripTags(s)))
}

func stripTags(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); {
		if s[i] != '<' {
			b.WriteByte(s[i])
			i++
			continue
		}

		if strings.HasPrefix(s[i:], "<![CDATA[") {
			inner := s[i+len("<![CDATA["):]
			end := strings.Index(inner, "]]>")
			if end < 0 {
				// Unterminated section: keep what it wraps.
				b.WriteString(stripTags(inner))
				return b.String()
			}
			b.WriteString(stripTags(inner[:end]))
			i += len("<![CDATA[") + end + len("]]>")
			continue
		}

		if strings.HasPrefix(s[i:], "<!--") {
			end := strings.Index(s[i+4:], "-->")
			if end < 0 {
				return b.String()
			}
			i += 4 + end + 3
			continue
		}

		close := strings.IndexByte(s[i:], '>')
		if close < 0 {
			return b.String()
		}
		i += close + 1
	}

	return b.String()
}
