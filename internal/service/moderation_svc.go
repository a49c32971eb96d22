package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/LaGGgggg/SkyLibrary/internal/event"
	"github.com/LaGGgggg/SkyLibrary/internal/model"
	"github.com/LaGGgggg/SkyLibrary/internal/repository"
)

var ErrNoTaskAvailable = errors.New("no media awaiting moderation")

// ModerationService assigns exclusive review tasks to moderators and
// applies their verdicts.
type ModerationService struct {
	tasks  *repository.TaskRepo
	media  *repository.MediaRepo
	cache  *CacheService
	events event.Publisher
}

func NewModerationService(tasks *repository.TaskRepo, media *repository.MediaRepo, cache *CacheService, events event.Publisher) *ModerationService {
	return &ModerationService{tasks: tasks, media: media, cache: cache, events: events}
}

// Task returns the moderator's outstanding task, claiming the oldest
// pending media item if they hold none. ErrNoTaskAvailable means the queue
// is empty.
func (s *ModerationService) Task(ctx context.Context, moderatorID int64) (*model.TaskResponse, error) {
	task, err := s.tasks.FindByModerator(ctx, moderatorID)
	if errors.Is(err, pgx.ErrNoRows) {
		task, err = s.tasks.Claim(ctx, moderatorID)
		if errors.Is(err, repository.ErrNoPendingMedia) {
			return nil, ErrNoTaskAvailable
		}
	}
	if err != nil {
		return nil, err
	}
	return s.buildTaskResponse(ctx, task)
}

func (s *ModerationService) buildTaskResponse(ctx context.Context, task *model.ModeratorTask) (*model.TaskResponse, error) {
	m, err := s.media.FindByID(ctx, task.MediaID)
	if err != nil {
		return nil, err
	}
	return &model.TaskResponse{
		TaskID:  task.ID,
		Media:   *buildMediaResponse(m),
		Claimed: task.CreateDate,
	}, nil
}

// Decide removes the moderator's task and transitions the media item:
// approve makes it active, reject marks it not valid. Both happen in one
// transaction. With AutoNext set, the next pending item is claimed in the
// same request when available.
func (s *ModerationService) Decide(ctx context.Context, moderatorID int64, req model.DecisionRequest) (*model.DecisionResponse, error) {
	var newState int16
	switch req.Verdict {
	case model.VerdictApprove:
		newState = model.MediaActive
	case model.VerdictReject:
		newState = model.MediaNotValid
	default:
		return nil, fmt.Errorf("unknown verdict: %q", req.Verdict)
	}

	if err := s.tasks.Decide(ctx, moderatorID, req.MediaID, newState); err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.InvalidateMedia(ctx, req.MediaID)
	}
	_ = s.events.MediaDecided(ctx, req.MediaID, newState)

	resp := &model.DecisionResponse{
		MediaID:  req.MediaID,
		NewState: newState,
	}

	if req.AutoNext {
		next, err := s.Task(ctx, moderatorID)
		if err != nil && !errors.Is(err, ErrNoTaskAvailable) {
			return nil, err
		}
		resp.NextTask = next
	}

	return resp, nil
}
