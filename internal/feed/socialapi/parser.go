// Package socialapi parses the JSON thread pages served by reddit-style
// community sites: an ordered pair of listings, posts first, comments
// second.
package socialapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/thoas/go-funk"

	"feedsync/internal/content"
	"feedsync/internal/domain"
)

type listing struct {
	Kind string      `json:"kind"`
	Data listingData `json:"data"`
}

type listingData struct {
	Children []child `json:"children"`
}

type child struct {
	Kind string    `json:"kind"`
	Data childData `json:"data"`
}

type childData struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Author       string  `json:"author"`
	Subreddit    string  `json:"subreddit"`
	Permalink    string  `json:"permalink"`
	CreatedUTC   float64 `json:"created_utc"`
	Score        int     `json:"score"`
	NumComments  int     `json:"num_comments"`
	Title        string  `json:"title"`
	Selftext     string  `json:"selftext"`
	SelftextHTML string  `json:"selftext_html"`
	Body         string  `json:"body"`
	BodyHTML     string  `json:"body_html"`

	// Replies is "" for a leaf comment and a nested listing otherwise.
	Replies json.RawMessage `json:"replies"`
}

// ParseThread decodes a listing pair into the thread root and its full
// comment tree.
func ParseThread(data []byte) (*domain.Thread, error) {
	var listings []listing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, fmt.Errorf("decode listing pair: %w", err)
	}
	if len(listings) < 2 {
		return nil, errors.New("expected a post listing and a comment listing")
	}
	if len(listings[0].Data.Children) == 0 {
		return nil, errors.New("post listing has no children")
	}

	root := listings[0].Data.Children[0]
	post := root.Data

	body := post.SelftextHTML
	if body == "" {
		body = post.Selftext
	}

	thread := &domain.Thread{
		ID:         ThreadID(root.Data.Name, post.Permalink),
		Author:     post.Author,
		Community:  post.Subreddit,
		Permalink:  absolutePermalink(post.Permalink),
		CreatedAt:  time.Unix(int64(post.CreatedUTC), 0).UTC(),
		Score:      post.Score,
		ReplyCount: post.NumComments,
		Title:      content.Strip(post.Title),
		BodyText:   content.Strip(body),
		BodyHTML:   body,
	}
	thread.Comments = commentTree(listings[1].Data.Children, post.Author)

	return thread, nil
}

// commentTree walks a comment listing recursively. The original-poster
// flag is recomputed at every node against the root author captured once;
// an ancestor's flag never propagates.
func commentTree(children []child, rootAuthor string) []domain.CommentNode {
	replies := funk.Filter(children, func(c child) bool {
		return c.Kind == "t1"
	}).([]child)

	var nodes []domain.CommentNode
	for _, c := range replies {
		d := c.Data
		node := domain.CommentNode{
			ID:               d.ID,
			Author:           d.Author,
			BodyText:         content.Strip(d.Body),
			BodyHTML:         d.BodyHTML,
			Score:            d.Score,
			CreatedAt:        time.Unix(int64(d.CreatedUTC), 0).UTC(),
			IsOriginalPoster: d.Author != "" && d.Author == rootAuthor,
		}
		if nested, ok := nestedListing(d.Replies); ok {
			node.Replies = commentTree(nested.Data.Children, rootAuthor)
		}
		nodes = append(nodes, node)
	}
	return nodes
}

func nestedListing(raw json.RawMessage) (*listing, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var l listing
	if err := json.Unmarshal(trimmed, &l); err != nil {
		return nil, false
	}
	return &l, true
}

func absolutePermalink(p string) string {
	if len(p) > 0 && p[0] == '/' {
		return "https://www.reddit.com" + p
	}
	return p
}

// ThreadArticle maps a thread root onto the canonical record shape so
// thread pages flow through the same pipeline as feed entries.
func ThreadArticle(t *domain.Thread) domain.Article {
	a := domain.Article{
		GUID:        t.ID,
		Title:       t.Title,
		URL:         t.Permalink,
		Summary:     t.BodyText,
		BodyText:    t.BodyText,
		BodyHTML:    t.BodyHTML,
		PublishedAt: &t.CreatedAt,
		ThreadURL:   &t.Permalink,
	}
	if a.GUID == "" {
		a.GUID = t.Permalink
	}
	if t.Author != "" {
		a.Author = &t.Author
	}
	if t.Community != "" {
		a.Community = &t.Community
	}
	if t.ID != "" {
		a.ThreadID = &t.ID
	}
	return a
}
