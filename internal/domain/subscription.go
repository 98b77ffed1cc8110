package domain

import "time"

// Subscription is a persisted feed source. The sync engine is its only
// writer: it updates the cache validators, the last-fetch timestamp and,
// after a permanent redirect, the URL itself.
type Subscription struct {
	ID            int64      `db:"id"`
	URL           string     `db:"url"`
	Title         string     `db:"title"`
	Category      string     `db:"category"`
	LastFetchedAt *time.Time `db:"last_fetched_at"`
	ETag          string     `db:"etag"`
	LastModified  string     `db:"last_modified"`
}
