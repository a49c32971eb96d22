package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/LaGGgggg/SkyLibrary/internal/event"
	"github.com/LaGGgggg/SkyLibrary/internal/model"
	"github.com/LaGGgggg/SkyLibrary/internal/repository"
)

// fakeReportStore backs the report service with in-memory state. createErr,
// when set, is returned from Create to simulate constraint failures.
type fakeReportStore struct {
	lastReport time.Time
	created    []model.Report
	createErr  error
}

func (f *fakeReportStore) Create(_ context.Context, rep *model.Report) error {
	if f.createErr != nil {
		return f.createErr
	}
	rep.ID = int64(len(f.created) + 1)
	f.created = append(f.created, *rep)
	return nil
}

func (f *fakeReportStore) LastReportTime(context.Context, int64) (time.Time, error) {
	return f.lastReport, nil
}

func (f *fakeReportStore) ListTypes(context.Context) ([]model.ReportType, error) {
	return nil, nil
}

func (f *fakeReportStore) CreateType(context.Context, *model.ReportType) error {
	return nil
}

func testReportService(store *fakeReportStore, media *fakeMediaFinder, comments *fakeCommentStore, at time.Time) *ReportService {
	return &ReportService{
		repo:     store,
		media:    media,
		comments: comments,
		events:   event.NewPublisher("", zerolog.Nop()),
		now:      func() time.Time { return at },
	}
}

func TestReportService_Create_RateLimit(t *testing.T) {
	now := time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC)
	media := &fakeMediaFinder{media: map[int64]model.Media{7: {ID: 7}}}

	tests := []struct {
		name       string
		lastReport time.Time
		wantErr    error
	}{
		{"29s after previous report", now.Add(-29 * time.Second), ErrReportTooSoon},
		{"31s after previous report", now.Add(-31 * time.Second), nil},
		{"first report ever", time.Time{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeReportStore{lastReport: tt.lastReport}
			svc := testReportService(store, media, &fakeCommentStore{}, now)

			_, err := svc.Create(context.Background(), 1, model.MediaRef(7), "spam", nil)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				if len(store.created) != 0 {
					t.Error("rejected report must not be stored")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(store.created) != 1 {
				t.Errorf("got %d stored reports, want 1", len(store.created))
			}
		})
	}
}

func TestReportService_Create_EmptyContent(t *testing.T) {
	now := time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC)
	media := &fakeMediaFinder{media: map[int64]model.Media{7: {ID: 7}}}
	svc := testReportService(&fakeReportStore{}, media, &fakeCommentStore{}, now)

	_, err := svc.Create(context.Background(), 1, model.MediaRef(7), "  \n ", nil)
	if !errors.Is(err, ErrReportEmpty) {
		t.Errorf("err = %v, want ErrReportEmpty", err)
	}
}

func TestReportService_Create_TargetMustExist(t *testing.T) {
	now := time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC)
	media := &fakeMediaFinder{media: map[int64]model.Media{7: {ID: 7}}}
	comments := &fakeCommentStore{comments: map[int64]model.Comment{3: {ID: 3}}}

	tests := []struct {
		name    string
		target  model.TargetRef
		wantErr error
	}{
		{"existing media", model.MediaRef(7), nil},
		{"missing media", model.MediaRef(8), ErrTargetNotFound},
		{"existing comment", model.CommentRef(3), nil},
		{"missing comment", model.CommentRef(4), ErrTargetNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := testReportService(&fakeReportStore{}, media, comments, now)

			rep, err := svc.Create(context.Background(), 1, tt.target, "abusive", []int64{2})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rep.Target != tt.target {
				t.Errorf("stored target = %+v, want %+v", rep.Target, tt.target)
			}
		})
	}
}

func TestReportService_Create_DuplicateSurfaces(t *testing.T) {
	now := time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC)
	media := &fakeMediaFinder{media: map[int64]model.Media{7: {ID: 7}}}
	store := &fakeReportStore{createErr: repository.ErrDuplicateReport}
	svc := testReportService(store, media, &fakeCommentStore{}, now)

	_, err := svc.Create(context.Background(), 1, model.MediaRef(7), "again", nil)
	if !errors.Is(err, repository.ErrDuplicateReport) {
		t.Errorf("err = %v, want ErrDuplicateReport", err)
	}
}
