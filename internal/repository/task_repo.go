package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/LaGGgggg/SkyLibrary/internal/model"
)

type TaskRepo struct {
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo {
	return &TaskRepo{pool: pool}
}

// FindByModerator returns the moderator's outstanding task, if any.
func (r *TaskRepo) FindByModerator(ctx context.Context, moderatorID int64) (*model.ModeratorTask, error) {
	var t model.ModeratorTask
	err := r.pool.QueryRow(ctx, `
		SELECT id, media_id, user_who_added_id, create_date
		FROM moderator_tasks
		WHERE user_who_added_id = $1`,
		moderatorID).Scan(&t.ID, &t.MediaID, &t.UserWhoAdded, &t.CreateDate)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Claim assigns the oldest pending media item to the moderator as an
// exclusive task. The candidate row is locked with FOR UPDATE SKIP LOCKED
// so two moderators claiming at once each get a different item (or
// ErrNoPendingMedia); the unique constraints on moderator_tasks remain the
// backstop and surface as ErrTaskConflict.
func (r *TaskRepo) Claim(ctx context.Context, moderatorID int64) (*model.ModeratorTask, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var mediaID int64
	err = tx.QueryRow(ctx, `
		SELECT m.id
		FROM media m
		WHERE m.active = 0
		  AND NOT EXISTS (SELECT 1 FROM moderator_tasks t WHERE t.media_id = m.id)
		ORDER BY m.pub_date ASC, m.id ASC
		LIMIT 1
		FOR UPDATE SKIP LOCKED`).Scan(&mediaID)
	if err == pgx.ErrNoRows {
		return nil, ErrNoPendingMedia
	}
	if err != nil {
		return nil, err
	}

	var t model.ModeratorTask
	err = tx.QueryRow(ctx, `
		INSERT INTO moderator_tasks (media_id, user_who_added_id)
		VALUES ($1, $2)
		RETURNING id, media_id, user_who_added_id, create_date`,
		mediaID, moderatorID).Scan(&t.ID, &t.MediaID, &t.UserWhoAdded, &t.CreateDate)
	if err != nil {
		if isUniqueViolation(err, "") {
			return nil, ErrTaskConflict
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &t, nil
}

// Decide deletes the moderator's task for the media item and applies the
// verdict's state transition as one atomic unit. Returns pgx.ErrNoRows if
// the moderator does not hold a task for that media.
func (r *TaskRepo) Decide(ctx context.Context, moderatorID, mediaID int64, newState int16) error {
	if newState != model.MediaActive && newState != model.MediaNotValid {
		return fmt.Errorf("invalid moderation target state: %d", newState)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		DELETE FROM moderator_tasks
		WHERE user_who_added_id = $1 AND media_id = $2`,
		moderatorID, mediaID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	_, err = tx.Exec(ctx, `UPDATE media SET active = $1 WHERE id = $2`, newState, mediaID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}
