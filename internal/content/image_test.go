package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstImageURL(t *testing.T) {
	markup := `<p>text</p><img srcset="a.jpg 1x" src="https://example.com/pic.jpg"><img src="second.jpg">`
	assert.Equal(t, "https://example.com/pic.jpg", FirstImageURL(markup))
}

func TestFirstImageURL_None(t *testing.T) {
	assert.Equal(t, "", FirstImageURL("<p>no pictures here</p>"))
	assert.Equal(t, "", FirstImageURL(""))
}

func TestFirstImageURL_IgnoresSrcsetOnly(t *testing.T) {
	assert.Equal(t, "", FirstImageURL(`<img srcset="a.jpg 1x, b.jpg 2x">`))
}
