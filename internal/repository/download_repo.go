package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DownloadRepo struct {
	pool *pgxpool.Pool
}

func NewDownloadRepo(pool *pgxpool.Pool) *DownloadRepo {
	return &DownloadRepo{pool: pool}
}

// Record marks a download event for the (media, user) pair and bumps the
// media download counter. The unique constraint is the dedup mechanism: a
// repeat attempt returns ErrAlreadyDownloaded and leaves the counter alone.
func (r *DownloadRepo) Record(ctx context.Context, mediaID, userID int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO media_downloads (media_id, user_id) VALUES ($1, $2)`,
		mediaID, userID)
	if err != nil {
		if isUniqueViolation(err, "media_downloads_media_id_user_id_key") {
			return ErrAlreadyDownloaded
		}
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE media SET download_count = download_count + 1 WHERE id = $1`,
		mediaID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}
