package postgres

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jmoiron/sqlx"

	"feedsync/internal/domain"
)

type SubscriptionStore struct {
	db *sqlx.DB
}

func NewSubscriptionStore(db *sqlx.DB) *SubscriptionStore {
	return &SubscriptionStore{db: db}
}

func (s *SubscriptionStore) List(ctx context.Context) ([]domain.Subscription, error) {
	var subs []domain.Subscription
	err := s.db.SelectContext(ctx, &subs, `
		SELECT id, url, title, category, last_fetched_at, etag, last_modified
		FROM subscriptions
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return subs, nil
}

// Add stores a new subscription. The URL is validated for
// well-formedness only; its content is not interpreted here.
func (s *SubscriptionStore) Add(ctx context.Context, feedURL, title, category string) (*domain.Subscription, error) {
	parsed, err := url.ParseRequestURI(feedURL)
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("invalid feed url %q", feedURL)
	}

	sub := &domain.Subscription{
		URL:      feedURL,
		Title:    title,
		Category: category,
	}
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO subscriptions (url, title, category)
		VALUES ($1, $2, $3)
		RETURNING id`,
		feedURL, title, category,
	).Scan(&sub.ID)
	if err != nil {
		return nil, err
	}
	return sub, nil
}
