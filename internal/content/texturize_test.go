package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTexturize_Dashes(t *testing.T) {
	assert.Equal(t, "Pages 5–10", Texturize("Pages 5--10"))
	assert.Equal(t, "xn--domain.com", Texturize("xn--domain.com"))
	assert.Equal(t, "Hello — world", Texturize("Hello -- world"))
	assert.Equal(t, "a—b", Texturize("a---b"))
}

func TestTexturize_Ellipsis(t *testing.T) {
	assert.Equal(t, "wait…", Texturize("wait..."))
}

func TestTexturize_DoubleQuotes(t *testing.T) {
	assert.Equal(t, "“hello”", Texturize(`"hello"`))
	assert.Equal(t, "say “hi” now", Texturize(`say "hi" now`))
}

func TestTexturize_SingleQuotesAndApostrophes(t *testing.T) {
	assert.Equal(t, "it’s", Texturize("it's"))
	assert.Equal(t, "‘quoted’", Texturize("'quoted'"))
}

func TestTexturize_SkipsNoTexturizeTags(t *testing.T) {
	in := `<p>a -- b</p><pre>c -- d</pre>`
	want := "<p>a — b</p><pre>c -- d</pre>"
	assert.Equal(t, want, Texturize(in))
}

func TestTexturize_NestedSuppressionTags(t *testing.T) {
	// A naive boolean would re-enable texturizing when the inner
	// element closes; the depth counter must not.
	in := `<pre>x<code>1--2</code> still 3--4 raw</pre> now 5--6`
	want := "<pre>x<code>1--2</code> still 3--4 raw</pre> now 5–6"
	assert.Equal(t, want, Texturize(in))
}

func TestTexturize_SelfClosingSuppressionTagIgnored(t *testing.T) {
	assert.Equal(t, "a 5–6 b<code/> 7–8", Texturize("a 5--6 b<code/> 7--8"))
}

func TestTexturize_MarkupAttributesUntouched(t *testing.T) {
	in := `<a href="https://example.com/a--b">5--6</a>`
	want := "<a href=\"https://example.com/a--b\">5–6</a>"
	assert.Equal(t, want, Texturize(in))
}
