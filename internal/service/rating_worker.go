package service

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/LaGGgggg/SkyLibrary/internal/repository"
)

// RatingWorker listens for PostgreSQL NOTIFY on the 'rating_changes'
// channel and batches aggregate reconciliation. A burst of ratings against
// one media item within the batch window triggers a single recompute. The
// running totals are already adjusted transactionally on each write; the
// worker corrects any drift and drops stale cache entries.
type RatingWorker struct {
	pool    *pgxpool.Pool
	ratings *repository.RatingRepo
	cache   *CacheService
	window  time.Duration
	log     zerolog.Logger

	mu      sync.Mutex
	pending map[int64]struct{} // media IDs waiting for reconciliation
}

// NewRatingWorker creates a rating reconciliation worker.
func NewRatingWorker(pool *pgxpool.Pool, ratings *repository.RatingRepo, cache *CacheService, log zerolog.Logger) *RatingWorker {
	return &RatingWorker{
		pool:    pool,
		ratings: ratings,
		cache:   cache,
		window:  5 * time.Second,
		log:     log,
		pending: make(map[int64]struct{}),
	}
}

// Start listens for rating_changes notifications until the context ends,
// reconnecting with a delay after listen failures.
func (w *RatingWorker) Start(ctx context.Context) {
	w.log.Info().Dur("batch_window", w.window).Msg("rating-worker: starting")

	for {
		if err := w.listenLoop(ctx); err != nil {
			if ctx.Err() != nil {
				w.log.Info().Msg("rating-worker: stopping")
				return
			}
			w.log.Warn().Err(err).Msg("rating-worker: listen error, reconnecting in 5s")
			select {
			case <-time.After(5 * time.Second):
			case <-ctx.Done():
				w.log.Info().Msg("rating-worker: stopping")
				return
			}
		}
	}
}

// listenLoop acquires a dedicated connection, LISTENs on rating_changes
// and collects notified media IDs for the batch flusher.
func (w *RatingWorker) listenLoop(ctx context.Context) error {
	conn, err := w.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, "LISTEN rating_changes")
	if err != nil {
		return err
	}
	w.log.Info().Msg("rating-worker: listening on rating_changes")

	flushCtx, flushCancel := context.WithCancel(ctx)
	defer flushCancel()
	go w.flushLoop(flushCtx)

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}

		mediaID, ok := parseMediaID(notification.Payload)
		if !ok {
			continue
		}

		w.mu.Lock()
		w.pending[mediaID] = struct{}{}
		w.mu.Unlock()
	}
}

func parseMediaID(payload string) (int64, bool) {
	if payload == "" {
		return 0, false
	}
	var id int64
	for _, r := range payload {
		if r < '0' || r > '9' {
			return 0, false
		}
		id = id*10 + int64(r-'0')
	}
	return id, id > 0
}

// flushLoop periodically drains the pending set.
func (w *RatingWorker) flushLoop(ctx context.Context) {
	ticker := time.NewTicker(w.window)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.flush(ctx)
		case <-ctx.Done():
			// Final flush before exit
			w.flush(context.Background())
			return
		}
	}
}

// flush drains the pending set, recomputes each media's aggregate from the
// rating rows and invalidates its cache entry.
func (w *RatingWorker) flush(ctx context.Context) {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	batch := w.pending
	w.pending = make(map[int64]struct{})
	w.mu.Unlock()

	reconciled := 0
	for mediaID := range batch {
		if err := w.ratings.Recompute(ctx, mediaID); err != nil {
			w.log.Error().Err(err).Int64("media_id", mediaID).Msg("rating-worker: recompute failed")
			continue
		}

		if w.cache != nil {
			if err := w.cache.InvalidateMedia(ctx, mediaID); err != nil {
				w.log.Warn().Err(err).Int64("media_id", mediaID).Msg("rating-worker: cache invalidate failed")
			}
		}

		reconciled++
	}

	if reconciled > 0 {
		w.log.Debug().Int("reconciled", reconciled).Int("notified", len(batch)).Msg("rating-worker: batch complete")
	}
}
