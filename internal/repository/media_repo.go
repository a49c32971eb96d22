package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/LaGGgggg/SkyLibrary/internal/model"
)

type MediaRepo struct {
	pool *pgxpool.Pool
}

func NewMediaRepo(pool *pgxpool.Pool) *MediaRepo {
	return &MediaRepo{pool: pool}
}

const mediaColumns = `m.id, m.title, m.description, m.author, m.pub_date,
	m.user_who_added_id, m.active, m.file_key, m.cover_key,
	m.rating_sum, m.rating_count, m.download_count`

func scanMedia(row pgx.Row) (*model.Media, error) {
	var m model.Media
	err := row.Scan(
		&m.ID, &m.Title, &m.Description, &m.Author, &m.PubDate,
		&m.UserWhoAdded, &m.Active, &m.FileKey, &m.CoverKey,
		&m.RatingSum, &m.RatingCount, &m.DownloadCount,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a media row in the in-moderation state together with its
// tag associations, as one transaction.
func (r *MediaRepo) Create(ctx context.Context, m *model.Media, tagIDs []int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO media (title, description, author, user_who_added_id, active, file_key, cover_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, pub_date`,
		m.Title, m.Description, m.Author, m.UserWhoAdded, model.MediaInModeration, m.FileKey, m.CoverKey,
	).Scan(&m.ID, &m.PubDate)
	if err != nil {
		return translateMediaErr(err)
	}
	m.Active = model.MediaInModeration

	for _, tagID := range tagIDs {
		_, err = tx.Exec(ctx, `INSERT INTO media_to_tags (media_id, tag_id) VALUES ($1, $2)`, m.ID, tagID)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Update applies an owner edit and resets the lifecycle state to
// in-moderation. Tag associations are replaced wholesale.
func (r *MediaRepo) Update(ctx context.Context, m *model.Media, tagIDs []int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE media
		SET title = $1, description = $2, author = $3, cover_key = $4, active = $5
		WHERE id = $6`,
		m.Title, m.Description, m.Author, m.CoverKey, model.MediaInModeration, m.ID,
	)
	if err != nil {
		return translateMediaErr(err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	m.Active = model.MediaInModeration

	_, err = tx.Exec(ctx, `DELETE FROM media_to_tags WHERE media_id = $1`, m.ID)
	if err != nil {
		return err
	}
	for _, tagID := range tagIDs {
		_, err = tx.Exec(ctx, `INSERT INTO media_to_tags (media_id, tag_id) VALUES ($1, $2)`, m.ID, tagID)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func translateMediaErr(err error) error {
	switch {
	case isUniqueViolation(err, "media_title_key"):
		return ErrDuplicateTitle
	case isUniqueViolation(err, "media_description_key"):
		return ErrDuplicateDescription
	default:
		return err
	}
}

// FindByID returns a media row with its tags.
func (r *MediaRepo) FindByID(ctx context.Context, id int64) (*model.Media, error) {
	m, err := scanMedia(r.pool.QueryRow(ctx, `SELECT `+mediaColumns+` FROM media m WHERE m.id = $1`, id))
	if err != nil {
		return nil, err
	}
	m.Tags, err = r.tagsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Search runs the assembled filter query and loads tags per result.
func (r *MediaRepo) Search(ctx context.Context, filter *MediaFilter) ([]model.Media, error) {
	query, args := filter.Build()

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.Media
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range results {
		results[i].Tags, err = r.tagsFor(ctx, results[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

func (r *MediaRepo) tagsFor(ctx context.Context, mediaID int64) ([]model.Tag, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT t.id, t.name_en, t.name_ru, t.help_text_en, t.help_text_ru, t.user_who_added_id
		FROM media_tags t
		JOIN media_to_tags mt ON mt.tag_id = t.id
		WHERE mt.media_id = $1
		ORDER BY t.name_en`,
		mediaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []model.Tag
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.NameEn, &t.NameRu, &t.HelpTextEn, &t.HelpTextRu, &t.UserWhoAdded); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// Stats returns catalog-wide counters for the stats endpoint.
func (r *MediaRepo) Stats(ctx context.Context) (*model.StatsResponse, error) {
	var s model.StatsResponse
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM media),
			(SELECT COUNT(*) FROM media WHERE active = 1),
			(SELECT COUNT(*) FROM media WHERE active = 0),
			(SELECT COUNT(*) FROM comments),
			(SELECT COUNT(*) FROM users),
			(SELECT COALESCE(SUM(download_count), 0) FROM media)`,
	).Scan(&s.TotalMedia, &s.ActiveMedia, &s.PendingMedia, &s.TotalComments, &s.TotalUsers, &s.TotalDownloads)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
