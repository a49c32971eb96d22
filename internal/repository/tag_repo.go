package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/LaGGgggg/SkyLibrary/internal/model"
)

type TagRepo struct {
	pool *pgxpool.Pool
}

func NewTagRepo(pool *pgxpool.Pool) *TagRepo {
	return &TagRepo{pool: pool}
}

// List returns all tags ordered by English name.
func (r *TagRepo) List(ctx context.Context) ([]model.Tag, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name_en, name_ru, help_text_en, help_text_ru, user_who_added_id
		FROM media_tags
		ORDER BY name_en`)
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

// Create inserts a user-submitted tag.
func (r *TagRepo) Create(ctx context.Context, t *model.Tag) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO media_tags (name_en, name_ru, help_text_en, help_text_ru, user_who_added_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		t.NameEn, t.NameRu, t.HelpTextEn, t.HelpTextRu, t.UserWhoAdded,
	).Scan(&t.ID)
}

// CountByIDs reports how many of the given tag IDs exist. Used to reject
// media submissions referencing unknown tags.
func (r *TagRepo) CountByIDs(ctx context.Context, ids []int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM media_tags WHERE id = ANY($1)`,
		ids).Scan(&count)
	return count, err
}
