package jsonfeed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `{
	"version": "https://jsonfeed.org/version/1.1",
	"title": "Example Blog",
	"items": [
		{
			"id": "item-1",
			"url": "https://example.com/posts/1",
			"external_url": "https://elsewhere.example/article",
			"title": "Linked &amp; titled",
			"content_html": "<p>Rich <b>body</b> with <img src=\"https://example.com/pic.jpg\"></p>",
			"summary": "A short summary",
			"date_published": "2021-09-06T08:30:00Z",
			"authors": [{"name": "Alice"}, {"name": "Bob"}]
		},
		{
			"id": "item-2",
			"url": "https://example.com/posts/2",
			"content_text": "Plain body",
			"image": "https://example.com/cover2.jpg",
			"date_modified": "2021-10-01T00:00:00+02:00",
			"author": {"name": "Carol"}
		},
		{
			"url": "https://example.com/posts/3",
			"title": "No id"
		},
		{
			"title": "No id and no url either"
		}
	]
}`

func TestParse_JSONFeed(t *testing.T) {
	articles, err := Parse([]byte(sampleFeed))
	require.NoError(t, err)
	// The identifier-less, link-less item is dropped.
	require.Len(t, articles, 3)

	first := articles[0]
	assert.Equal(t, "item-1", first.GUID)
	// external_url wins over the item's own permalink.
	assert.Equal(t, "https://elsewhere.example/article", first.URL)
	assert.Equal(t, "Linked & titled", first.Title)
	assert.Equal(t, "A short summary", first.Summary)
	assert.Equal(t, "Rich body with", first.BodyText)
	require.NotNil(t, first.ImageURL)
	assert.Equal(t, "https://example.com/pic.jpg", *first.ImageURL)
	require.NotNil(t, first.Author)
	assert.Equal(t, "Alice", *first.Author)
	require.NotNil(t, first.PublishedAt)
	assert.Equal(t, time.Date(2021, 9, 6, 8, 30, 0, 0, time.UTC), first.PublishedAt.UTC())

	second := articles[1]
	assert.Equal(t, "https://example.com/posts/2", second.URL)
	assert.Equal(t, "Plain body", second.BodyText)
	// Without a summary the body text stands in.
	assert.Equal(t, "Plain body", second.Summary)
	require.NotNil(t, second.ImageURL)
	assert.Equal(t, "https://example.com/cover2.jpg", *second.ImageURL)
	require.NotNil(t, second.Author)
	assert.Equal(t, "Carol", *second.Author)
	// date_published is absent; date_modified stands in. The parsed time
	// keeps the +02:00 offset from the document.
	require.NotNil(t, second.PublishedAt)
	assert.Equal(t, time.October, second.PublishedAt.Month())
	assert.True(t, second.PublishedAt.Equal(time.Date(2021, 9, 30, 22, 0, 0, 0, time.UTC)))

	third := articles[2]
	// No explicit identifier: the url stands in.
	assert.Equal(t, "https://example.com/posts/3", third.GUID)
}

func TestParse_ItemsWithoutVersion(t *testing.T) {
	articles, err := Parse([]byte(`{"items": [{"id": "x", "title": "Versionless"}]}`))
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "x", articles[0].GUID)
}

func TestParse_NotAFeed(t *testing.T) {
	_, err := Parse([]byte(`{"kind": "something", "data": {}}`))
	assert.ErrorIs(t, err, ErrNotJSONFeed)
}

func TestParse_InvalidJSON(t *testing.T) {
	_, err := Parse([]byte(`{"version": "https://jsonfeed.org/version/1",`))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotJSONFeed)
}
