package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RatingRepo struct {
	pool *pgxpool.Pool
}

func NewRatingRepo(pool *pgxpool.Pool) *RatingRepo {
	return &RatingRepo{pool: pool}
}

// Upsert stores a user's 1-5 rating for a media item. A resubmission
// updates the value in place; exactly one row per (media, user) pair ever
// exists. The denormalized aggregate on the media row is adjusted in the
// same transaction, then the rating worker is notified for cache
// invalidation.
func (r *RatingRepo) Upsert(ctx context.Context, mediaID, userID int64, rating int16) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Check the media exists before anything else.
	var exists bool
	err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM media WHERE id = $1)`, mediaID).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return pgx.ErrNoRows
	}

	var old int16
	err = tx.QueryRow(ctx, `
		SELECT rating FROM media_ratings WHERE media_id = $1 AND user_id = $2`,
		mediaID, userID).Scan(&old)
	isNew := err == pgx.ErrNoRows
	if err != nil && !isNew {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO media_ratings (media_id, user_id, rating)
		VALUES ($1, $2, $3)
		ON CONFLICT (media_id, user_id) DO UPDATE
		SET rating = EXCLUDED.rating, pub_date = NOW()`,
		mediaID, userID, rating)
	if err != nil {
		return err
	}

	if isNew {
		_, err = tx.Exec(ctx, `
			UPDATE media SET rating_sum = rating_sum + $1, rating_count = rating_count + 1
			WHERE id = $2`,
			rating, mediaID)
	} else {
		_, err = tx.Exec(ctx, `
			UPDATE media SET rating_sum = rating_sum + $1 - $2
			WHERE id = $3`,
			rating, old, mediaID)
	}
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `SELECT pg_notify('rating_changes', $1::text)`, mediaID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Recompute rebuilds a media item's aggregate columns from the rating rows.
// The rating worker runs this to correct any drift in the running totals.
func (r *RatingRepo) Recompute(ctx context.Context, mediaID int64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE media m
		SET rating_sum = agg.sum, rating_count = agg.count
		FROM (
			SELECT COALESCE(SUM(rating), 0) AS sum, COUNT(*) AS count
			FROM media_ratings
			WHERE media_id = $1
		) agg
		WHERE m.id = $1`,
		mediaID)
	return err
}
