package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/LaGGgggg/SkyLibrary/internal/model"
)

type CommentRepo struct {
	pool *pgxpool.Pool
}

func NewCommentRepo(pool *pgxpool.Pool) *CommentRepo {
	return &CommentRepo{pool: pool}
}

const commentColumns = `c.id, c.target_type, c.target_id, c.user_who_added_id, u.username,
	c.content, c.pub_date,
	COALESCE((SELECT SUM(vote) FROM comment_ratings cr WHERE cr.comment_id = c.id), 0)`

func scanComment(row pgx.Row) (*model.Comment, error) {
	var c model.Comment
	var targetType string
	err := row.Scan(
		&c.ID, &targetType, &c.Target.ID, &c.UserWhoAdded, &c.Username,
		&c.Content, &c.PubDate, &c.Rating,
	)
	if err != nil {
		return nil, err
	}
	c.Target.Type = model.TargetType(targetType)
	return &c, nil
}

// Create inserts a comment pointing at the given target.
func (r *CommentRepo) Create(ctx context.Context, c *model.Comment) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO comments (target_type, target_id, user_who_added_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, pub_date`,
		string(c.Target.Type), c.Target.ID, c.UserWhoAdded, c.Content,
	).Scan(&c.ID, &c.PubDate)
}

// FindByID returns a single comment with its signed vote sum.
func (r *CommentRepo) FindByID(ctx context.Context, id int64) (*model.Comment, error) {
	return scanComment(r.pool.QueryRow(ctx, `
		SELECT `+commentColumns+`
		FROM comments c
		JOIN users u ON u.id = c.user_who_added_id
		WHERE c.id = $1`, id))
}

// ListByTarget returns the direct children of a target, newest first.
func (r *CommentRepo) ListByTarget(ctx context.Context, target model.TargetRef) ([]model.Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+commentColumns+`
		FROM comments c
		JOIN users u ON u.id = c.user_who_added_id
		WHERE c.target_type = $1 AND c.target_id = $2
		ORDER BY c.pub_date DESC, c.id DESC`,
		string(target.Type), target.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, *c)
	}
	return comments, rows.Err()
}

// LastPostTime returns the timestamp of the user's most recent comment,
// or the zero time if they have never commented.
func (r *CommentRepo) LastPostTime(ctx context.Context, userID int64) (time.Time, error) {
	var last time.Time
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(MAX(pub_date), 'epoch'::timestamptz)
		FROM comments
		WHERE user_who_added_id = $1`,
		userID).Scan(&last)
	return last, err
}

// VoteAction describes what a vote submission does to the stored row.
type VoteAction int

const (
	VoteInsert  VoteAction = iota // no prior vote: store the new one
	VoteRemove                    // same sign resubmitted: toggle off
	VoteReplace                   // opposite sign: swap the stored vote
)

// DecideVoteAction resolves the toggle semantics for a vote submission
// given the existing stored vote (nil when none). Resubmitting the same
// sign removes the vote; the opposite sign replaces it, moving the net
// rating by two.
func DecideVoteAction(existing *int16, submitted int16) VoteAction {
	switch {
	case existing == nil:
		return VoteInsert
	case *existing == submitted:
		return VoteRemove
	default:
		return VoteReplace
	}
}

// SubmitVote applies an up/down vote with toggle semantics in one
// transaction and returns the comment's new signed rating plus whether the
// submission removed an existing vote.
func (r *CommentRepo) SubmitVote(ctx context.Context, commentID, userID int64, vote int16) (newRating int64, removed bool, err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, false, err
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM comments WHERE id = $1)`, commentID).Scan(&exists)
	if err != nil {
		return 0, false, err
	}
	if !exists {
		return 0, false, pgx.ErrNoRows
	}

	var existing *int16
	var stored int16
	err = tx.QueryRow(ctx, `
		SELECT vote FROM comment_ratings WHERE comment_id = $1 AND user_id = $2`,
		commentID, userID).Scan(&stored)
	if err == nil {
		existing = &stored
	} else if err != pgx.ErrNoRows {
		return 0, false, err
	}

	switch DecideVoteAction(existing, vote) {
	case VoteInsert:
		_, err = tx.Exec(ctx, `
			INSERT INTO comment_ratings (comment_id, user_id, vote) VALUES ($1, $2, $3)`,
			commentID, userID, vote)
	case VoteRemove:
		removed = true
		_, err = tx.Exec(ctx, `
			DELETE FROM comment_ratings WHERE comment_id = $1 AND user_id = $2`,
			commentID, userID)
	case VoteReplace:
		_, err = tx.Exec(ctx, `
			UPDATE comment_ratings SET vote = $1, pub_date = NOW()
			WHERE comment_id = $2 AND user_id = $3`,
			vote, commentID, userID)
	}
	if err != nil {
		return 0, false, err
	}

	err = tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(vote), 0) FROM comment_ratings WHERE comment_id = $1`,
		commentID).Scan(&newRating)
	if err != nil {
		return 0, false, err
	}

	return newRating, removed, tx.Commit(ctx)
}
