package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"feedsync/internal/domain"
	"feedsync/internal/fetch"
)

// Fetcher performs one conditional GET for a source URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string, opts fetch.Options) (*fetch.Result, error)
}

// ArticleStore is the persistence collaborator for canonical records and
// per-source cache metadata. Save is the commit point for stores that
// buffer writes; a store committing per transaction may treat it as a
// no-op.
type ArticleStore interface {
	ExistingIdentifiers(ctx context.Context, sub *domain.Subscription) (map[string]struct{}, error)
	InsertArticle(ctx context.Context, article *domain.Article, sub *domain.Subscription) error
	UpdateSourceCacheMetadata(ctx context.Context, sub *domain.Subscription, etag, lastModified, newURL string) error
	Save(ctx context.Context) error
}

// SubscriptionStore manages the persisted feed sources.
type SubscriptionStore interface {
	List(ctx context.Context) ([]domain.Subscription, error)
	Add(ctx context.Context, url, title, category string) (*domain.Subscription, error)
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Publisher receives every newly inserted canonical record.
type Publisher interface {
	Publish(ctx context.Context, article *domain.Article, sub *domain.Subscription) error
	Close() error
}
