package service

import (
	"context"
	"errors"

	"github.com/LaGGgggg/SkyLibrary/internal/model"
	"github.com/LaGGgggg/SkyLibrary/internal/repository"
)

var ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")

// RatingService handles 1-5 media ratings with upsert semantics.
type RatingService struct {
	repo  *repository.RatingRepo
	cache *CacheService
}

func NewRatingService(repo *repository.RatingRepo, cache *CacheService) *RatingService {
	return &RatingService{repo: repo, cache: cache}
}

// Rate stores or replaces the user's rating for a media item. Exactly one
// row per (media, user) pair exists afterwards; the media's denormalized
// aggregate moves with it in the same transaction.
func (s *RatingService) Rate(ctx context.Context, mediaID, userID int64, rating int16) error {
	if rating < 1 || rating > 5 {
		return ErrRatingOutOfRange
	}

	if err := s.repo.Upsert(ctx, mediaID, userID, rating); err != nil {
		return err
	}

	if s.cache != nil {
		_ = s.cache.InvalidateMedia(ctx, mediaID)
	}
	return nil
}

// MediaRating reports the rounded average for a media row already in hand.
func MediaRating(m *model.Media) float64 {
	return m.Rating()
}
