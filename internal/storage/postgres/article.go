package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"feedsync/internal/domain"
)

// ArticleStore persists canonical records and per-subscription cache
// metadata.
type ArticleStore struct {
	db *sqlx.DB
}

func NewArticleStore(db *sqlx.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

// ExistingIdentifiers returns the set of GUIDs already stored for a
// subscription.
func (s *ArticleStore) ExistingIdentifiers(ctx context.Context, sub *domain.Subscription) (map[string]struct{}, error) {
	rows, err := executor(ctx, s.db).QueryContext(ctx,
		"SELECT guid FROM articles WHERE subscription_id = $1", sub.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]struct{})
	for rows.Next() {
		var guid string
		if err := rows.Scan(&guid); err != nil {
			return nil, err
		}
		result[guid] = struct{}{}
	}
	return result, rows.Err()
}

// InsertArticle stores one canonical record. The (subscription_id, guid)
// key makes repeated inserts of the same record harmless, which keeps
// crashed or abandoned syncs safe to retry.
func (s *ArticleStore) InsertArticle(ctx context.Context, a *domain.Article, sub *domain.Subscription) error {
	query := `
		INSERT INTO articles (
			subscription_id, guid, title, url, summary, body_text, body_html,
			image_url, published_at, author,
			audio_url, audio_mime_type, audio_duration,
			community, thread_url, thread_id
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
		)
		ON CONFLICT (subscription_id, guid) DO NOTHING`

	_, err := executor(ctx, s.db).ExecContext(ctx, query,
		sub.ID,
		a.GUID,
		a.Title,
		a.URL,
		a.Summary,
		a.BodyText,
		a.BodyHTML,
		a.ImageURL,
		a.PublishedAt,
		a.Author,
		a.AudioURL,
		a.AudioMIMEType,
		a.AudioDuration,
		a.Community,
		a.ThreadURL,
		a.ThreadID,
	)
	return err
}

// UpdateSourceCacheMetadata records the validator pair and the fetch
// time, and rewrites the stored URL when a permanent redirect was
// observed. The in-memory subscription is kept in step with the row.
func (s *ArticleStore) UpdateSourceCacheMetadata(ctx context.Context, sub *domain.Subscription, etag, lastModified, newURL string) error {
	now := time.Now().UTC()
	url := sub.URL
	if newURL != "" {
		url = newURL
	}

	_, err := executor(ctx, s.db).ExecContext(ctx, `
		UPDATE subscriptions
		SET etag = $1, last_modified = $2, url = $3, last_fetched_at = $4
		WHERE id = $5`,
		etag, lastModified, url, now, sub.ID,
	)
	if err != nil {
		return err
	}

	sub.ETag = etag
	sub.LastModified = lastModified
	sub.URL = url
	sub.LastFetchedAt = &now
	return nil
}

// Save is a no-op: writes commit per transaction. It exists for stores
// that buffer mutations until an explicit save point.
func (s *ArticleStore) Save(ctx context.Context) error {
	return nil
}
