package domain

import "time"

// Article is the canonical, format-independent record every parser
// produces. Records are transient: they are rebuilt on every sync and
// discarded once persisted (or dropped when the GUID is already known).
type Article struct {
	GUID        string     `json:"guid"`
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Summary     string     `json:"summary"`
	BodyText    string     `json:"body_text"`
	BodyHTML    string     `json:"body_html"`
	ImageURL    *string    `json:"image_url,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Author      *string    `json:"author,omitempty"`

	// Audio enclosure, present only when the source declares an
	// audio/* MIME type.
	AudioURL      *string `json:"audio_url,omitempty"`
	AudioMIMEType *string `json:"audio_mime_type,omitempty"`
	AudioDuration *int    `json:"audio_duration,omitempty"` // seconds

	// Community-source metadata.
	Community *string `json:"community,omitempty"`
	ThreadURL *string `json:"thread_url,omitempty"`
	ThreadID  *string `json:"thread_id,omitempty"`
}
