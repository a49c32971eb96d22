package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/LaGGgggg/SkyLibrary/internal/model"
)

// fakeReplyLister serves reply lists from a map keyed by parent comment ID.
type fakeReplyLister struct {
	replies map[int64][]model.Comment
}

func (f *fakeReplyLister) ListByTarget(_ context.Context, target model.TargetRef) ([]model.Comment, error) {
	return f.replies[target.ID], nil
}

// fakeCommentStore backs the comment service with in-memory state.
type fakeCommentStore struct {
	fakeReplyLister
	comments map[int64]model.Comment
	lastPost time.Time
	created  []model.Comment
}

func (f *fakeCommentStore) Create(_ context.Context, c *model.Comment) error {
	c.ID = int64(len(f.created) + 1)
	f.created = append(f.created, *c)
	return nil
}

func (f *fakeCommentStore) FindByID(_ context.Context, id int64) (*model.Comment, error) {
	c, ok := f.comments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &c, nil
}

func (f *fakeCommentStore) LastPostTime(context.Context, int64) (time.Time, error) {
	return f.lastPost, nil
}

func (f *fakeCommentStore) SubmitVote(context.Context, int64, int64, int16) (int64, bool, error) {
	return 0, false, nil
}

// fakeMediaFinder resolves media IDs from a fixed set.
type fakeMediaFinder struct {
	media map[int64]model.Media
}

func (f *fakeMediaFinder) FindByID(_ context.Context, id int64) (*model.Media, error) {
	m, ok := f.media[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &m, nil
}

func testCommentService(store *fakeCommentStore, media *fakeMediaFinder, at time.Time) *CommentService {
	return &CommentService{repo: store, media: media, now: func() time.Time { return at }}
}

func comment(id int64) model.Comment {
	return model.Comment{ID: id}
}

func TestCommentService_Create_ContentRules(t *testing.T) {
	now := time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC)
	media := &fakeMediaFinder{media: map[int64]model.Media{7: {ID: 7}}}

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"empty", "", ErrCommentEmpty},
		{"whitespace only", " \n\t ", ErrCommentEmpty},
		// Multi-byte runes: the limit counts characters, not bytes.
		{"at limit", strings.Repeat("д", model.MaxCommentLen), nil},
		{"one over limit", strings.Repeat("д", model.MaxCommentLen+1), ErrCommentTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeCommentStore{lastPost: now.Add(-time.Minute)}
			svc := testCommentService(store, media, now)

			c, err := svc.Create(context.Background(), 1, model.MediaRef(7), tt.content)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				if len(store.created) != 0 {
					t.Error("rejected comment must not be stored")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.ID == 0 || len(store.created) != 1 {
				t.Errorf("comment not stored: id = %d, created = %d", c.ID, len(store.created))
			}
		})
	}
}

func TestCommentService_Create_RateLimit(t *testing.T) {
	now := time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC)
	media := &fakeMediaFinder{media: map[int64]model.Media{7: {ID: 7}}}

	tests := []struct {
		name     string
		lastPost time.Time
		wantErr  error
	}{
		{"29s after previous comment", now.Add(-29 * time.Second), ErrPostTooSoon},
		{"31s after previous comment", now.Add(-31 * time.Second), nil},
		{"first comment ever", time.Time{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeCommentStore{lastPost: tt.lastPost}
			svc := testCommentService(store, media, now)

			_, err := svc.Create(context.Background(), 1, model.MediaRef(7), "nice upload")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCommentService_Create_TargetMustExist(t *testing.T) {
	now := time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC)
	media := &fakeMediaFinder{media: map[int64]model.Media{7: {ID: 7}}}

	tests := []struct {
		name    string
		target  model.TargetRef
		wantErr error
	}{
		{"existing media", model.MediaRef(7), nil},
		{"missing media", model.MediaRef(8), ErrTargetNotFound},
		{"existing parent comment", model.CommentRef(3), nil},
		{"missing parent comment", model.CommentRef(4), ErrTargetNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeCommentStore{comments: map[int64]model.Comment{3: {ID: 3}}}
			svc := testCommentService(store, media, now)

			c, err := svc.Create(context.Background(), 1, tt.target, "  reply text  ")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.Target != tt.target {
				t.Errorf("stored target = %+v, want %+v", c.Target, tt.target)
			}
			if c.Content != "reply text" {
				t.Errorf("content = %q, want trimmed %q", c.Content, "reply text")
			}
		})
	}
}

func TestFlattenThread_Empty(t *testing.T) {
	lister := &fakeReplyLister{replies: map[int64][]model.Comment{}}

	nodes, err := flattenThread(context.Background(), lister, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(nodes) != 0 {
		t.Errorf("got %d nodes, want 0", len(nodes))
	}
}

func TestFlattenThread_PreOrderDepthFirst(t *testing.T) {
	// Thread shape (siblings listed newest first, as the store returns them):
	//   1
	//   ├── 11
	//   │   └── 111
	//   └── 12
	//   2
	lister := &fakeReplyLister{replies: map[int64][]model.Comment{
		1:  {comment(11), comment(12)},
		11: {comment(111)},
	}}

	nodes, err := flattenThread(context.Background(), lister, []model.Comment{comment(1), comment(2)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantIDs := []int64{1, 11, 111, 12, 2}
	wantDepths := []int{0, 1, 2, 1, 0}

	if len(nodes) != len(wantIDs) {
		t.Fatalf("got %d nodes, want %d", len(nodes), len(wantIDs))
	}
	for i, n := range nodes {
		if n.ID != wantIDs[i] {
			t.Errorf("node %d: id = %d, want %d", i, n.ID, wantIDs[i])
		}
		if n.Depth != wantDepths[i] {
			t.Errorf("node %d: depth = %d, want %d", i, n.Depth, wantDepths[i])
		}
	}
}

func TestFlattenThread_SubtreeBeforeNextSibling(t *testing.T) {
	// A deep subtree under the newest root must be fully emitted before the
	// older sibling root appears.
	lister := &fakeReplyLister{replies: map[int64][]model.Comment{
		5:  {comment(51)},
		51: {comment(511)},
	}}

	nodes, err := flattenThread(context.Background(), lister, []model.Comment{comment(5), comment(6)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantIDs := []int64{5, 51, 511, 6}
	for i, n := range nodes {
		if n.ID != wantIDs[i] {
			t.Errorf("node %d: id = %d, want %d", i, n.ID, wantIDs[i])
		}
	}
}

func TestFlattenThread_CycleDetected(t *testing.T) {
	lister := &fakeReplyLister{replies: map[int64][]model.Comment{
		1: {comment(2)},
		2: {comment(1)},
	}}

	_, err := flattenThread(context.Background(), lister, []model.Comment{comment(1)})
	if !errors.Is(err, ErrMalformedThread) {
		t.Errorf("err = %v, want ErrMalformedThread", err)
	}
}

func TestFlattenThread_DepthLimit(t *testing.T) {
	// Chain far past the cap: comment i has a single reply i+1.
	replies := make(map[int64][]model.Comment)
	for i := int64(1); i < 200; i++ {
		replies[i] = []model.Comment{comment(i + 1)}
	}
	lister := &fakeReplyLister{replies: replies}

	_, err := flattenThread(context.Background(), lister, []model.Comment{comment(1)})
	if !errors.Is(err, ErrMalformedThread) {
		t.Errorf("err = %v, want ErrMalformedThread", err)
	}
}

func TestFlattenThread_DepthAtLimitAllowed(t *testing.T) {
	replies := make(map[int64][]model.Comment)
	for i := int64(1); i <= maxThreadDepth; i++ {
		replies[i] = []model.Comment{comment(i + 1)}
	}
	lister := &fakeReplyLister{replies: replies}

	nodes, err := flattenThread(context.Background(), lister, []model.Comment{comment(1)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(nodes) != maxThreadDepth+1 {
		t.Errorf("got %d nodes, want %d", len(nodes), maxThreadDepth+1)
	}
	if last := nodes[len(nodes)-1]; last.Depth != maxThreadDepth {
		t.Errorf("last depth = %d, want %d", last.Depth, maxThreadDepth)
	}
}
