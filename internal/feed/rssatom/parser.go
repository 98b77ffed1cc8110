// Package rssatom parses RSS 2.0 and Atom documents with an explicit
// event-driven state machine: an element stack where each open element
// accumulates its own character data, so text split across several
// chunks (escaped markup, CDATA runs) is concatenated before it is
// interpreted.
package rssatom

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"

	"feedsync/internal/content"
	"feedsync/internal/domain"
	"feedsync/internal/feed/socialapi"
)

const (
	nsContent = "http://purl.org/rss/1.0/modules/content/"
	nsDC      = "http://purl.org/dc/elements/1.1/"
	nsITunes  = "http://www.itunes.com/dtds/podcast-1.0.dtd"
	nsMedia   = "http://search.yahoo.com/mrss/"
)

// Parse decodes an RSS 2.0 or Atom document into canonical records.
// sourceURL is the feed's own address, used for community-feed
// augmentation.
func Parse(data []byte, sourceURL string) ([]domain.Article, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel
	dec.Entity = xml.HTMLEntity

	p := &parser{sourceURL: sourceURL}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			p.open(t)
		case xml.CharData:
			p.text(t)
		case xml.EndElement:
			p.close(t)
		}
	}
	return p.articles, nil
}

type frame struct {
	name xml.Name
	text []byte
}

// item collects the raw field candidates of one entry; nothing is
// interpreted until the element closes and all text has arrived.
type item struct {
	title       string
	description string
	encoded     string
	atomSummary string
	atomContent string
	guid        string
	link        string
	author      string
	pubDate     string
	published   string
	updated     string

	mediaImage     string
	enclosureImage string
	itemImage      string

	audioURL    string
	audioType   string
	durationRaw string
}

type parser struct {
	sourceURL string
	stack     []frame
	feedImage string
	item      *item
	articles  []domain.Article
}

func (p *parser) open(se xml.StartElement) {
	p.stack = append(p.stack, frame{name: se.Name})

	if isItemElement(se.Name) {
		p.item = &item{}
		return
	}
	if p.item != nil {
		p.openItemChild(se)
		return
	}
	if isITunes(se.Name) && se.Name.Local == "image" && p.feedImage == "" {
		p.feedImage = attr(se, "href")
	}
}

func (p *parser) openItemChild(se xml.StartElement) {
	it := p.item
	switch {
	case se.Name.Local == "enclosure":
		p.recordEnclosure(attr(se, "url"), attr(se, "type"))

	case isMedia(se.Name) && se.Name.Local == "content":
		if it.mediaImage == "" {
			medium := attr(se, "medium")
			if medium == "image" || strings.HasPrefix(attr(se, "type"), "image/") {
				it.mediaImage = attr(se, "url")
			}
		}

	case isMedia(se.Name) && se.Name.Local == "thumbnail":
		if it.mediaImage == "" {
			it.mediaImage = attr(se, "url")
		}

	case isITunes(se.Name) && se.Name.Local == "image":
		if it.itemImage == "" {
			it.itemImage = attr(se, "href")
		}

	case se.Name.Local == "link":
		// Atom links carry their target as an attribute.
		href := attr(se, "href")
		if href == "" {
			return
		}
		rel := attr(se, "rel")
		switch rel {
		case "", "alternate":
			if it.link == "" {
				it.link = href
			}
		case "enclosure":
			p.recordEnclosure(href, attr(se, "type"))
		}
	}
}

func (p *parser) recordEnclosure(url, mimeType string) {
	if url == "" {
		return
	}
	it := p.item
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		if it.enclosureImage == "" {
			it.enclosureImage = url
		}
	case strings.HasPrefix(mimeType, "audio/"):
		if it.audioURL == "" {
			it.audioURL = url
			it.audioType = mimeType
		}
	}
	// video/* enclosures are neither images nor playable audio.
}

func (p *parser) text(cd xml.CharData) {
	if len(p.stack) == 0 {
		return
	}
	top := &p.stack[len(p.stack)-1]
	top.text = append(top.text, cd...)
}

func (p *parser) close(ee xml.EndElement) {
	if len(p.stack) == 0 {
		return
	}
	text := string(p.stack[len(p.stack)-1].text)
	p.stack = p.stack[:len(p.stack)-1]

	if isItemElement(ee.Name) {
		if p.item != nil {
			if a, ok := p.finish(); ok {
				p.articles = append(p.articles, a)
			}
			p.item = nil
		}
		return
	}

	if p.item != nil {
		p.closeItemChild(ee.Name, text)
		return
	}

	// RSS channel image: <image><url>...</url></image>.
	if ee.Name.Local == "url" && p.topIs("image") && p.feedImage == "" {
		p.feedImage = strings.TrimSpace(text)
	}
}

func (p *parser) closeItemChild(name xml.Name, text string) {
	it := p.item
	direct := len(p.stack) > 0 && isItemElement(p.stack[len(p.stack)-1].name)

	switch {
	case isContentNS(name) && name.Local == "encoded":
		it.encoded = text
	case isDC(name) && name.Local == "creator":
		it.author = text
	case isITunes(name) && name.Local == "duration":
		it.durationRaw = text
	case name.Local == "name" && p.topIs("author"):
		it.author = text
	}

	if !direct {
		return
	}

	switch name.Local {
	case "title":
		it.title = text
	case "description":
		it.description = text
	case "summary":
		it.atomSummary = text
	case "content":
		if !isMedia(name) {
			it.atomContent = text
		}
	case "guid", "id":
		it.guid = strings.TrimSpace(text)
	case "link":
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			it.link = trimmed
		}
	case "pubDate":
		it.pubDate = text
	case "published":
		it.published = text
	case "updated":
		it.updated = text
	}
}

func (p *parser) finish() (domain.Article, bool) {
	it := p.item

	baseDesc := it.description
	if baseDesc == "" {
		baseDesc = it.atomSummary
	}
	rich := it.encoded
	if rich == "" {
		rich = it.atomContent
	}
	if rich == "" {
		rich = baseDesc
	}

	a := domain.Article{
		Title:    content.Strip(it.title),
		URL:      strings.TrimSpace(it.link),
		Summary:  content.Strip(baseDesc),
		BodyText: content.Strip(rich),
		BodyHTML: content.Texturize(rich),
	}

	a.GUID = it.guid
	if a.GUID == "" {
		a.GUID = a.URL
	}
	if a.GUID == "" {
		// Nothing to deduplicate on.
		return domain.Article{}, false
	}

	if author := content.Strip(it.author); author != "" {
		a.Author = &author
	}

	for _, raw := range []string{it.pubDate, it.published, it.updated} {
		if raw == "" {
			continue
		}
		if t, ok := parseDate(raw); ok {
			a.PublishedAt = &t
			break
		}
	}

	if img := p.resolveImage(it); img != "" {
		a.ImageURL = &img
	}

	if it.audioURL != "" {
		audioURL, audioType := it.audioURL, it.audioType
		a.AudioURL = &audioURL
		a.AudioMIMEType = &audioType
		a.AudioDuration = ParseDuration(it.durationRaw)
	}

	if socialapi.IsCommunityFeedURL(p.sourceURL) {
		if c := socialapi.CommunityFromURL(p.sourceURL); c != "" {
			a.Community = &c
		}
		if a.URL != "" {
			threadURL := a.URL
			a.ThreadURL = &threadURL
		}
		if id := socialapi.ThreadID(it.guid, a.URL); id != "" {
			a.ThreadID = &id
		}
	}

	return a, true
}

// resolveImage applies the image priority order: media module, image
// enclosure, episode image, feed image, then the first <img> scanned out
// of the text fields.
func (p *parser) resolveImage(it *item) string {
	for _, candidate := range []string{it.mediaImage, it.enclosureImage, it.itemImage, p.feedImage} {
		if candidate != "" {
			return candidate
		}
	}
	for _, markup := range []string{it.description, it.encoded, it.atomContent, it.atomSummary} {
		if src := content.FirstImageURL(markup); src != "" {
			return src
		}
	}
	return ""
}

func attr(se xml.StartElement, local string) string {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return strings.TrimSpace(a.Value)
		}
	}
	return ""
}

func (p *parser) topIs(local string) bool {
	return len(p.stack) > 0 && p.stack[len(p.stack)-1].name.Local == local
}

func isItemElement(n xml.Name) bool {
	return n.Local == "item" || n.Local == "entry"
}

func isMedia(n xml.Name) bool {
	return n.Space == nsMedia || n.Space == "media"
}

func isITunes(n xml.Name) bool {
	return n.Space == nsITunes || n.Space == "itunes"
}

func isDC(n xml.Name) bool {
	return n.Space == nsDC || n.Space == "dc"
}

func isContentNS(n xml.Name) bool {
	return n.Space == nsContent || n.Space == "content"
}
