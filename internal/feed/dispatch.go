// Package feed sniffs raw payload bytes and dispatches them to the
// matching parser.
package feed

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"

	"feedsync/internal/domain"
	"feedsync/internal/feed/jsonfeed"
	"feedsync/internal/feed/rssatom"
	"feedsync/internal/feed/socialapi"
)

var (
	// ErrUnknownFormat: the bytes match no known feed shape.
	ErrUnknownFormat = errors.New("unrecognized feed format")
	// ErrMalformed: the bytes claim a known format but are not well formed.
	ErrMalformed = errors.New("malformed feed document")
)

// Format identifies the wire format of a payload.
type Format int

const (
	FormatUnknown Format = iota
	FormatRSS
	FormatAtom
	FormatJSONFeed
	FormatSocialAPI
)

func (f Format) String() string {
	switch f {
	case FormatRSS:
		return "rss"
	case FormatAtom:
		return "atom"
	case FormatJSONFeed:
		return "jsonfeed"
	case FormatSocialAPI:
		return "socialapi"
	default:
		return "unknown"
	}
}

// Detect sniffs the first non-whitespace byte of data and classifies the
// payload. A payload that claims a JSON shape but is not decodable is
// still classified so the matching parser can report it as malformed;
// decodable JSON of the wrong shape is unknown.
func Detect(data []byte) Format {
	trimmed := bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	trimmed = bytes.TrimLeft(trimmed, " \t\r\n")
	if len(trimmed) == 0 {
		return FormatUnknown
	}

	switch trimmed[0] {
	case '<':
		switch xmlRoot(trimmed) {
		case "rss":
			return FormatRSS
		case "feed":
			return FormatAtom
		}
		return FormatUnknown
	case '[':
		var probe []struct {
			Kind string `json:"kind"`
		}
		if err := json.Unmarshal(trimmed, &probe); err != nil {
			if json.Valid(trimmed) {
				// Well-formed JSON array, but not listing-shaped.
				return FormatUnknown
			}
			return FormatSocialAPI
		}
		if len(probe) > 0 && probe[0].Kind == "Listing" {
			return FormatSocialAPI
		}
		return FormatUnknown
	case '{':
		var probe struct {
			Version string          `json:"version"`
			Items   json.RawMessage `json:"items"`
		}
		if err := json.Unmarshal(trimmed, &probe); err != nil {
			return FormatJSONFeed
		}
		if strings.HasPrefix(probe.Version, "https://jsonfeed.org/version/") || probe.Items != nil {
			return FormatJSONFeed
		}
		return FormatUnknown
	}
	return FormatUnknown
}

// Parse converts a raw payload into canonical records. Social thread
// pages map to a single record for the thread root; callers needing the
// comment tree use socialapi.ParseThread directly.
func Parse(data []byte, sourceURL string) ([]domain.Article, error) {
	switch Detect(data) {
	case FormatRSS, FormatAtom:
		articles, err := rssatom.Parse(data, sourceURL)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		return articles, nil

	case FormatJSONFeed:
		articles, err := jsonfeed.Parse(data)
		if errors.Is(err, jsonfeed.ErrNotJSONFeed) {
			return nil, fmt.Errorf("%w: %w", ErrUnknownFormat, err)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		return articles, nil

	case FormatSocialAPI:
		thread, err := socialapi.ParseThread(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		return []domain.Article{socialapi.ThreadArticle(thread)}, nil

	default:
		return nil, ErrUnknownFormat
	}
}

func xmlRoot(data []byte) string {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return ""
		}
		if se, ok := tok.(xml.StartElement); ok {
			return se.Name.Local
		}
	}
}
