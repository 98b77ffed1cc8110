package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Format
	}{
		{"rss", `<?xml version="1.0"?><rss version="2.0"><channel></channel></rss>`, FormatRSS},
		{"rss with bom and whitespace", "\xef\xbb\xbf\n  <rss version=\"2.0\"></rss>", FormatRSS},
		{"atom", `<feed xmlns="http://www.w3.org/2005/Atom"></feed>`, FormatAtom},
		{"xml but neither", `<html><body></body></html>`, FormatUnknown},
		{"jsonfeed by version", `{"version": "https://jsonfeed.org/version/1.1", "items": []}`, FormatJSONFeed},
		{"jsonfeed by items", `{"items": []}`, FormatJSONFeed},
		{"json object but not a feed", `{"kind": "something"}`, FormatUnknown},
		{"broken json still classified", `{"version": "https://jsonfeed.org/version/1",`, FormatJSONFeed},
		{"social listing pair", `[{"kind": "Listing"}, {"kind": "Listing"}]`, FormatSocialAPI},
		{"json array but not listings", `[1, 2]`, FormatUnknown},
		{"empty json array", `[]`, FormatUnknown},
		{"broken listing json still classified", `[{"kind": "Listing"},`, FormatSocialAPI},
		{"plain text", `hello there`, FormatUnknown},
		{"empty", ``, FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect([]byte(tt.data)))
		})
	}
}

func TestParse_DispatchesRSS(t *testing.T) {
	data := `<rss version="2.0"><channel><item><guid>g1</guid><title>Hello</title></item></channel></rss>`
	articles, err := Parse([]byte(data), "https://example.com/feed.xml")
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "g1", articles[0].GUID)
}

func TestParse_DispatchesJSONFeed(t *testing.T) {
	data := `{"version": "https://jsonfeed.org/version/1.1", "items": [{"id": "j1", "title": "Hi"}]}`
	articles, err := Parse([]byte(data), "https://example.com/feed.json")
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "j1", articles[0].GUID)
}

func TestParse_DispatchesSocialThread(t *testing.T) {
	data := `[
		{"kind": "Listing", "data": {"children": [{"kind": "t3", "data": {
			"name": "t3_abc", "author": "op", "subreddit": "golang",
			"permalink": "/r/golang/comments/abc/x/", "title": "T", "created_utc": 1630918200
		}}]}},
		{"kind": "Listing", "data": {"children": []}}
	]`
	articles, err := Parse([]byte(data), "https://www.reddit.com/r/golang/comments/abc/x/.json")
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "t3_abc", articles[0].GUID)
	require.NotNil(t, articles[0].Community)
	assert.Equal(t, "golang", *articles[0].Community)
}

func TestParse_UnknownFormat(t *testing.T) {
	_, err := Parse([]byte("plain text, no feed here"), "https://example.com/x")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestParse_JSONButNotAFeed(t *testing.T) {
	_, err := Parse([]byte(`{"kind": "something"}`), "https://example.com/x")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestParse_JSONArrayButNotListings(t *testing.T) {
	_, err := Parse([]byte(`[1, 2]`), "https://example.com/x")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestParse_MalformedClaimedFormat(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"truncated xml", `<rss version="2.0"><channel><item></rss>`},
		{"truncated json feed", `{"version": "https://jsonfeed.org/version/1",`},
		{"broken listing pair", `[{"kind": "Listing"}]`},
		{"truncated listing json", `[{"kind": "Listing"},`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), "https://example.com/x")
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "rss", FormatRSS.String())
	assert.Equal(t, "atom", FormatAtom.String())
	assert.Equal(t, "jsonfeed", FormatJSONFeed.String())
	assert.Equal(t, "socialapi", FormatSocialAPI.String())
	assert.Equal(t, "unknown", FormatUnknown.String())
}
