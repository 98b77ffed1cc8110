package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"feedsync/internal/config"
	"feedsync/internal/domain"
	"feedsync/internal/feed"
	"feedsync/internal/feed/socialapi"
	"feedsync/internal/fetch"
)

// Engine orchestrates fetch, parse, dedup and persist for every
// subscribed source. Sources sync independently and concurrently; all
// store mutations go through one serialized write path.
type Engine struct {
	fetcher   Fetcher
	store     ArticleStore
	subs      SubscriptionStore
	txManager TransactionManager
	publisher Publisher
	logger    *slog.Logger
	cfg       config.SyncConfig

	now func() time.Time

	writeMu sync.Mutex

	mu       sync.Mutex
	inflight map[int64]struct{}
	lastSync time.Time

	syncingAll atomic.Bool
}

func NewEngine(
	fetcher Fetcher,
	store ArticleStore,
	subs SubscriptionStore,
	txManager TransactionManager,
	publisher Publisher,
	logger *slog.Logger,
	cfg config.SyncConfig,
) *Engine {
	return &Engine{
		fetcher:   fetcher,
		store:     store,
		subs:      subs,
		txManager: txManager,
		publisher: publisher,
		logger:    logger.With("component", "sync"),
		cfg:       cfg,
		now:       time.Now,
		inflight:  make(map[int64]struct{}),
	}
}

// SyncSource syncs one subscription and returns the newly inserted
// canonical records. A duplicate request while a sync for the same
// subscription is active is a no-op, not a queued retry.
func (e *Engine) SyncSource(ctx context.Context, sub *domain.Subscription) ([]domain.Article, error) {
	if !e.begin(sub.ID) {
		e.logger.Debug("sync already in progress", "subscription_id", sub.ID)
		return nil, nil
	}
	defer e.end(sub.ID)

	start := e.now()
	logger := e.logger.With("subscription_id", sub.ID, "url", sub.URL)

	res, err := e.fetcher.Fetch(ctx, sub.URL, fetch.Options{
		ETag:         sub.ETag,
		LastModified: sub.LastModified,
		Header:       e.headerFor(sub),
	})
	if err != nil {
		syncErrors.WithLabelValues(errorKind(err)).Inc()
		return nil, fmt.Errorf("fetch %s: %w", sub.URL, err)
	}

	var newURL string
	if res.PermanentRedirect && res.FinalURL != "" && res.FinalURL != sub.URL {
		logger.Info("permanent redirect observed", "new_url", res.FinalURL)
		newURL = res.FinalURL
	}

	if !res.WasModified {
		logger.Debug("source not modified")
		if err := e.commit(ctx, nil, sub, res, newURL); err != nil {
			syncErrors.WithLabelValues(errorKind(err)).Inc()
			return nil, err
		}
		e.markSynced()
		logStats(logger, domain.SyncStats{
			SubscriptionID: sub.ID,
			NotModified:    true,
			Duration:       e.now().Sub(start),
		})
		return nil, nil
	}

	articles, err := feed.Parse(res.Body, sub.URL)
	if err != nil {
		syncErrors.WithLabelValues(errorKind(err)).Inc()
		return nil, fmt.Errorf("parse %s: %w", sub.URL, err)
	}
	if len(articles) == 0 {
		// A valid feed with zero records is not an error.
		logger.Info("feed parsed to zero records")
	}

	existing, err := e.store.ExistingIdentifiers(ctx, sub)
	if err != nil {
		syncErrors.WithLabelValues(errorKind(err)).Inc()
		return nil, fmt.Errorf("load existing identifiers: %w", err)
	}

	fresh := dedupe(articles, existing)

	if err := e.commit(ctx, fresh, sub, res, newURL); err != nil {
		syncErrors.WithLabelValues(errorKind(err)).Inc()
		return nil, err
	}
	articlesInserted.Add(float64(len(fresh)))

	stats := domain.SyncStats{
		SubscriptionID: sub.ID,
		Fetched:        len(articles),
		New:            len(fresh),
		Skipped:        len(articles) - len(fresh),
	}

	if e.publisher != nil {
		for i := range fresh {
			if err := e.publisher.Publish(ctx, &fresh[i], sub); err != nil {
				logger.Warn("publish failed", "guid", fresh[i].GUID, "error", err)
				stats.Errors++
				continue
			}
			stats.Published++
		}
	}

	e.markSynced()
	stats.Duration = e.now().Sub(start)
	logStats(logger, stats)
	return fresh, nil
}

func logStats(logger *slog.Logger, st domain.SyncStats) {
	logger.Info("sync completed",
		"fetched", st.Fetched,
		"new", st.New,
		"skipped", st.Skipped,
		"published", st.Published,
		"publish_errors", st.Errors,
		"not_modified", st.NotModified,
		"duration", st.Duration,
	)
}

// commit runs the serialized write path: insert the fresh records, then
// record the validators, the fetch time and, after a permanent redirect,
// the rewritten URL, all inside one transaction.
func (e *Engine) commit(ctx context.Context, fresh []domain.Article, sub *domain.Subscription, res *fetch.Result, newURL string) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	err := e.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		for i := range fresh {
			if err := e.store.InsertArticle(txCtx, &fresh[i], sub); err != nil {
				return fmt.Errorf("insert article %s: %w", fresh[i].GUID, err)
			}
		}
		return e.store.UpdateSourceCacheMetadata(txCtx, sub, res.ETag, res.LastModified, newURL)
	})
	if err != nil {
		return fmt.Errorf("persist sync results: %w", err)
	}
	return e.store.Save(ctx)
}

// SyncAll syncs every subscription concurrently and returns the
// aggregate count of newly inserted records. A pass that is already
// running makes a duplicate call a no-op. One source's failure never
// aborts another source's sync.
func (e *Engine) SyncAll(ctx context.Context) (int, error) {
	if !e.syncingAll.CompareAndSwap(false, true) {
		e.logger.Debug("sync-all already running")
		return 0, nil
	}
	defer e.syncingAll.Store(false)

	subs, err := e.subs.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list subscriptions: %w", err)
	}

	var wg sync.WaitGroup
	var total atomic.Int64
	for i := range subs {
		wg.Add(1)
		go func(sub *domain.Subscription) {
			defer wg.Done()
			inserted, err := e.SyncSource(ctx, sub)
			if err != nil {
				e.logger.Error("source sync failed",
					"url", sub.URL,
					"kind", errorKind(err),
					"error", err,
				)
				return
			}
			total.Add(int64(len(inserted)))
		}(&subs[i])
	}
	wg.Wait()

	return int(total.Load()), nil
}

// NeedsSync reports whether the most recent successful sync is older
// than the staleness threshold.
func (e *Engine) NeedsSync() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.lastSync.IsZero() {
		return true
	}
	return e.now().Sub(e.lastSync) > e.cfg.StalenessThreshold
}

// LastSyncedAt returns the timestamp of the most recent successful sync
// across all sources, or nil when none has completed yet.
func (e *Engine) LastSyncedAt() *time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.lastSync.IsZero() {
		return nil
	}
	t := e.lastSync
	return &t
}

func (e *Engine) begin(id int64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.inflight[id]; ok {
		return false
	}
	e.inflight[id] = struct{}{}
	return true
}

func (e *Engine) end(id int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.inflight, id)
}

func (e *Engine) markSynced() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSync = e.now()
}

func (e *Engine) headerFor(sub *domain.Subscription) http.Header {
	h := http.Header{}
	ua := e.cfg.UserAgent
	if socialapi.IsCommunityFeedURL(sub.URL) {
		ua = e.cfg.SocialUserAgent
	}
	if ua != "" {
		h.Set("User-Agent", ua)
	}
	return h
}

// dedupe drops records whose GUID is already persisted, plus duplicates
// within the payload itself.
func dedupe(articles []domain.Article, existing map[string]struct{}) []domain.Article {
	var fresh []domain.Article
	seen := make(map[string]struct{}, len(articles))
	for _, a := range articles {
		if _, ok := existing[a.GUID]; ok {
			continue
		}
		if _, ok := seen[a.GUID]; ok {
			continue
		}
		seen[a.GUID] = struct{}{}
		fresh = append(fresh, a)
	}
	return fresh
}

func errorKind(err error) string {
	var statusErr *fetch.StatusError
	var netErr net.Error
	switch {
	case errors.As(err, &statusErr):
		return "http"
	case errors.Is(err, feed.ErrUnknownFormat):
		return "format"
	case errors.Is(err, feed.ErrMalformed):
		return "malformed"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.As(err, &netErr):
		return "network"
	default:
		// Store and transaction failures end up here.
		return "storage"
	}
}
