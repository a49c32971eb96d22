package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/LaGGgggg/SkyLibrary/internal/model"
)

type ReportRepo struct {
	pool *pgxpool.Pool
}

func NewReportRepo(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

// Create files a report and its type associations in one transaction.
// The unique constraint on (user, target_type, target_id) enforces the
// one-report-per-target rule.
func (r *ReportRepo) Create(ctx context.Context, rep *model.Report) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO reports (target_type, target_id, user_who_added_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, pub_date`,
		string(rep.Target.Type), rep.Target.ID, rep.UserWhoAdded, rep.Content,
	).Scan(&rep.ID, &rep.PubDate)
	if err != nil {
		if isUniqueViolation(err, "reports_user_target_key") {
			return ErrDuplicateReport
		}
		return err
	}

	for _, typeID := range rep.TypeIDs {
		_, err = tx.Exec(ctx, `INSERT INTO report_to_types (report_id, type_id) VALUES ($1, $2)`, rep.ID, typeID)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// LastReportTime returns the timestamp of the user's most recent report,
// or the zero time if they have never reported.
func (r *ReportRepo) LastReportTime(ctx context.Context, userID int64) (time.Time, error) {
	var last time.Time
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(MAX(pub_date), 'epoch'::timestamptz)
		FROM reports
		WHERE user_who_added_id = $1`,
		userID).Scan(&last)
	return last, err
}

// ListTypes returns all report types ordered by English name.
func (r *ReportRepo) ListTypes(ctx context.Context) ([]model.ReportType, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name_en, name_ru, help_text_en, help_text_ru, user_who_added_id
		FROM report_types
		ORDER BY name_en`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []model.ReportType
	for rows.Next() {
		var t model.ReportType
		if err := rows.Scan(&t.ID, &t.NameEn, &t.NameRu, &t.HelpTextEn, &t.HelpTextRu, &t.UserWhoAdded); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

// CreateType inserts a user-submitted report type.
func (r *ReportRepo) CreateType(ctx context.Context, t *model.ReportType) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO report_types (name_en, name_ru, help_text_en, help_text_ru, user_who_added_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		t.NameEn, t.NameRu, t.HelpTextEn, t.HelpTextRu, t.UserWhoAdded,
	).Scan(&t.ID)
}
