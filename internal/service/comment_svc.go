package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/LaGGgggg/SkyLibrary/internal/model"
	"github.com/LaGGgggg/SkyLibrary/internal/repository"
)

// Thread traversal guards. The data model prevents reply cycles by
// construction, but a malformed row must not hang a request, so the walk is
// iterative with a visited set and a depth cap.
const (
	maxThreadDepth = 64
	// minPostInterval is the per-user write rate limit for comments.
	minPostInterval = 30 * time.Second
)

var (
	ErrCommentTooLong  = errors.New("comment content exceeds 500 characters")
	ErrCommentEmpty    = errors.New("comment content is empty")
	ErrPostTooSoon     = errors.New("wait at least 30 seconds between comments")
	ErrTargetNotFound  = errors.New("comment target does not exist")
	ErrMalformedThread = errors.New("reply tree contains a cycle or exceeds depth limit")
)

// replyLister is the slice of the comment store the tree assembler needs.
type replyLister interface {
	ListByTarget(ctx context.Context, target model.TargetRef) ([]model.Comment, error)
}

// commentStore is the comment repository surface the service writes and
// reads through, an interface so the validation paths run against a fake
// store in tests.
type commentStore interface {
	replyLister
	Create(ctx context.Context, c *model.Comment) error
	FindByID(ctx context.Context, id int64) (*model.Comment, error)
	LastPostTime(ctx context.Context, userID int64) (time.Time, error)
	SubmitVote(ctx context.Context, commentID, userID int64, vote int16) (int64, bool, error)
}

// mediaFinder resolves media rows for target existence checks.
type mediaFinder interface {
	FindByID(ctx context.Context, id int64) (*model.Media, error)
}

// CommentService owns comment writes, vote toggling and reply tree assembly.
type CommentService struct {
	repo  commentStore
	media mediaFinder
	cache *CacheService
	now   func() time.Time
}

func NewCommentService(repo *repository.CommentRepo, media *repository.MediaRepo, cache *CacheService) *CommentService {
	return &CommentService{repo: repo, media: media, cache: cache, now: time.Now}
}

// Create posts a comment on a media item or as a reply to another comment.
// Enforces the content length limit and the 30-second per-user rate limit
// as validation failures, and verifies the target row exists.
func (s *CommentService) Create(ctx context.Context, userID int64, target model.TargetRef, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrCommentEmpty
	}
	if len([]rune(content)) > model.MaxCommentLen {
		return nil, ErrCommentTooLong
	}

	last, err := s.repo.LastPostTime(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.now().Sub(last) < minPostInterval {
		return nil, ErrPostTooSoon
	}

	if err := s.resolveTarget(ctx, target); err != nil {
		return nil, err
	}

	c := &model.Comment{
		Target:       target,
		UserWhoAdded: userID,
		Content:      content,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.invalidateFor(ctx, target)
	return c, nil
}

// resolveTarget checks the referenced row exists, switching exhaustively on
// the target type so an id can never silently point at the wrong table.
func (s *CommentService) resolveTarget(ctx context.Context, target model.TargetRef) error {
	switch target.Type {
	case model.TargetMedia:
		_, err := s.media.FindByID(ctx, target.ID)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrTargetNotFound
		}
		return err
	case model.TargetComment:
		_, err := s.repo.FindByID(ctx, target.ID)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrTargetNotFound
		}
		return err
	default:
		return ErrTargetNotFound
	}
}

// Thread returns the full comment tree of a media item flattened into a
// single ordered sequence. Top-level comments sit at depth 0; each reply
// subtree is emitted in full (depth-first) before the next older sibling.
func (s *CommentService) Thread(ctx context.Context, mediaID int64) ([]model.CommentNode, error) {
	roots, err := s.repo.ListByTarget(ctx, model.MediaRef(mediaID))
	if err != nil {
		return nil, err
	}
	return flattenThread(ctx, s.repo, roots)
}

// Replies returns the flattened reply subtree of a single comment, every
// entry at depth >= 1.
func (s *CommentService) Replies(ctx context.Context, commentID int64) ([]model.CommentNode, error) {
	if _, err := s.repo.FindByID(ctx, commentID); err != nil {
		return nil, err
	}
	replies, err := s.repo.ListByTarget(ctx, model.CommentRef(commentID))
	if err != nil {
		return nil, err
	}
	nodes, err := flattenThread(ctx, s.repo, replies)
	if err != nil {
		return nil, err
	}
	for i := range nodes {
		nodes[i].Depth++
	}
	return nodes, nil
}

// flattenThread performs a depth-first pre-order walk over the reply trees
// rooted at the given comments, siblings in the order supplied (newest
// first). The explicit stack plus visited set keeps a malformed reference
// from recursing without bound.
func flattenThread(ctx context.Context, lister replyLister, roots []model.Comment) ([]model.CommentNode, error) {
	type frame struct {
		comment model.Comment
		depth   int
	}

	stack := make([]frame, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{roots[i], 0})
	}

	visited := make(map[int64]struct{}, len(roots))
	var out []model.CommentNode

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, seen := visited[f.comment.ID]; seen || f.depth > maxThreadDepth {
			return nil, ErrMalformedThread
		}
		visited[f.comment.ID] = struct{}{}

		out = append(out, model.CommentNode{Comment: f.comment, Depth: f.depth})

		replies, err := lister.ListByTarget(ctx, model.CommentRef(f.comment.ID))
		if err != nil {
			return nil, err
		}
		// Reversed push so the newest reply is popped first.
		for i := len(replies) - 1; i >= 0; i-- {
			stack = append(stack, frame{replies[i], f.depth + 1})
		}
	}

	return out, nil
}

// Vote applies an up/down vote with toggle semantics and returns the
// comment's new signed rating.
func (s *CommentService) Vote(ctx context.Context, commentID, userID int64, vote int16) (*model.VoteResponse, error) {
	if vote != model.UpVote && vote != model.DownVote {
		return nil, errors.New("vote must be +1 or -1")
	}

	newRating, removed, err := s.repo.SubmitVote(ctx, commentID, userID, vote)
	if err != nil {
		return nil, err
	}

	return &model.VoteResponse{
		Success:   true,
		Removed:   removed,
		NewRating: newRating,
	}, nil
}

func (s *CommentService) invalidateFor(ctx context.Context, target model.TargetRef) {
	if s.cache == nil || target.Type != model.TargetMedia {
		return
	}
	_ = s.cache.InvalidateMedia(ctx, target.ID)
}
