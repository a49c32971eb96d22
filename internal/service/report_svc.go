package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/LaGGgggg/SkyLibrary/internal/event"
	"github.com/LaGGgggg/SkyLibrary/internal/model"
	"github.com/LaGGgggg/SkyLibrary/internal/repository"
)

// minReportInterval is the per-user write rate limit for reports.
const minReportInterval = 30 * time.Second

var (
	ErrReportTooSoon = errors.New("wait at least 30 seconds between reports")
	ErrReportEmpty   = errors.New("report content is empty")
)

// reportStore is the report repository surface the service depends on,
// an interface for the same reason as commentStore.
type reportStore interface {
	Create(ctx context.Context, rep *model.Report) error
	LastReportTime(ctx context.Context, userID int64) (time.Time, error)
	ListTypes(ctx context.Context) ([]model.ReportType, error)
	CreateType(ctx context.Context, t *model.ReportType) error
}

// commentFinder resolves comment rows for target existence checks.
type commentFinder interface {
	FindByID(ctx context.Context, id int64) (*model.Comment, error)
}

// ReportService files abuse reports against media items and comments.
type ReportService struct {
	repo     reportStore
	media    mediaFinder
	comments commentFinder
	events   event.Publisher
	now      func() time.Time
}

func NewReportService(repo *repository.ReportRepo, media *repository.MediaRepo, comments *repository.CommentRepo, events event.Publisher) *ReportService {
	return &ReportService{repo: repo, media: media, comments: comments, events: events, now: time.Now}
}

// Create files a report. A user may report a given target once; repeat
// submissions fail with a duplicate validation error, and reports are rate
// limited to one per 30 seconds per user.
func (s *ReportService) Create(ctx context.Context, userID int64, target model.TargetRef, content string, typeIDs []int64) (*model.Report, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrReportEmpty
	}

	last, err := s.repo.LastReportTime(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.now().Sub(last) < minReportInterval {
		return nil, ErrReportTooSoon
	}

	if err := s.resolveTarget(ctx, target); err != nil {
		return nil, err
	}

	rep := &model.Report{
		Target:       target,
		UserWhoAdded: userID,
		Content:      content,
		TypeIDs:      typeIDs,
	}
	if err := s.repo.Create(ctx, rep); err != nil {
		return nil, err
	}

	_ = s.events.TargetReported(ctx, target)
	return rep, nil
}

// resolveTarget verifies the reported row exists. The switch is exhaustive
// over the target types; anything else is a validation failure.
func (s *ReportService) resolveTarget(ctx context.Context, target model.TargetRef) error {
	switch target.Type {
	case model.TargetMedia:
		_, err := s.media.FindByID(ctx, target.ID)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrTargetNotFound
		}
		return err
	case model.TargetComment:
		_, err := s.comments.FindByID(ctx, target.ID)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrTargetNotFound
		}
		return err
	default:
		return ErrTargetNotFound
	}
}

// ListTypes returns the report type catalog.
func (s *ReportService) ListTypes(ctx context.Context) ([]model.ReportType, error) {
	return s.repo.ListTypes(ctx)
}

// CreateType adds a user-submitted report type.
func (s *ReportService) CreateType(ctx context.Context, userID int64, name, nameRu, helpText, helpTextRu string) (*model.ReportType, error) {
	t := &model.ReportType{
		NameEn:       strings.TrimSpace(name),
		NameRu:       strings.TrimSpace(nameRu),
		HelpTextEn:   strings.TrimSpace(helpText),
		HelpTextRu:   strings.TrimSpace(helpTextRu),
		UserWhoAdded: userID,
	}
	if t.NameEn == "" {
		return nil, errors.New("report type name is required")
	}
	if err := s.repo.CreateType(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}
