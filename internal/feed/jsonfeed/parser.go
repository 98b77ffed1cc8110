// Package jsonfeed parses JSON Feed 1.0/1.1 documents.
package jsonfeed

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"feedsync/internal/content"
	"feedsync/internal/domain"
)

// ErrNotJSONFeed marks a syntactically valid JSON document that lacks
// the JSON Feed shape; it must not be accepted silently.
var ErrNotJSONFeed = errors.New("not a JSON Feed document")

const versionPrefix = "https://jsonfeed.org/version/"

type document struct {
	Version string `json:"version"`
	Title   string `json:"title"`
	Items   []item `json:"items"`
}

type item struct {
	ID            string   `json:"id"`
	URL           string   `json:"url"`
	ExternalURL   string   `json:"external_url"`
	Title         string   `json:"title"`
	ContentHTML   string   `json:"content_html"`
	ContentText   string   `json:"content_text"`
	Summary       string   `json:"summary"`
	Image         string   `json:"image"`
	BannerImage   string   `json:"banner_image"`
	DatePublished string   `json:"date_published"`
	DateModified  string   `json:"date_modified"`
	Authors       []author `json:"authors"`
	Author        *author  `json:"author"` // 1.0 form
}

type author struct {
	Name string `json:"name"`
}

// Parse decodes a JSON Feed document into canonical records.
func Parse(data []byte) ([]domain.Article, error) {
	var probe struct {
		Version string          `json:"version"`
		Items   json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if !strings.HasPrefix(probe.Version, versionPrefix) && probe.Items == nil {
		return nil, ErrNotJSONFeed
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode json feed: %w", err)
	}

	articles := make([]domain.Article, 0, len(doc.Items))
	for i := range doc.Items {
		if a, ok := parseItem(&doc.Items[i]); ok {
			articles = append(articles, a)
		}
	}
	return articles, nil
}

func parseItem(it *item) (domain.Article, bool) {
	// Link-blog sources point readers somewhere else: the external URL
	// wins over the item's own permalink.
	link := it.ExternalURL
	if link == "" {
		link = it.URL
	}

	guid := it.ID
	if guid == "" {
		guid = it.URL
	}
	if guid == "" {
		return domain.Article{}, false
	}

	bodyText := it.ContentText
	if bodyText == "" {
		bodyText = content.Strip(it.ContentHTML)
	}
	rich := it.ContentHTML
	if rich == "" {
		rich = it.ContentText
	}

	summary := it.Summary
	if summary == "" {
		summary = bodyText
	}

	a := domain.Article{
		GUID:     guid,
		Title:    content.Strip(it.Title),
		URL:      link,
		Summary:  content.Strip(summary),
		BodyText: bodyText,
		BodyHTML: content.Texturize(rich),
	}

	img := it.Image
	if img == "" {
		img = it.BannerImage
	}
	if img == "" {
		img = content.FirstImageURL(it.ContentHTML)
	}
	if img != "" {
		a.ImageURL = &img
	}

	if name := itemAuthor(it); name != "" {
		a.Author = &name
	}

	for _, raw := range []string{it.DatePublished, it.DateModified} {
		if raw == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			a.PublishedAt = &t
			break
		}
	}

	return a, true
}

func itemAuthor(it *item) string {
	if len(it.Authors) > 0 {
		return strings.TrimSpace(it.Authors[0].Name)
	}
	if it.Author != nil {
		return strings.TrimSpace(it.Author.Name)
	}
	return ""
}
