package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/LaGGgggg/SkyLibrary/internal/event"
	"github.com/LaGGgggg/SkyLibrary/internal/model"
	"github.com/LaGGgggg/SkyLibrary/internal/repository"
	"github.com/LaGGgggg/SkyLibrary/internal/storage"
	"github.com/LaGGgggg/SkyLibrary/pkg/hash"
)

var (
	ErrNotOwner       = errors.New("only the owner may edit this media")
	ErrUnknownTags    = errors.New("one or more tags do not exist")
	ErrMediaInactive  = errors.New("media is not active")
	ErrMissingFileKey = errors.New("fileKey is required")
)

// MediaService owns the media catalog: uploads, edits, detail reads,
// filter/search and downloads.
type MediaService struct {
	repo      *repository.MediaRepo
	tags      *repository.TagRepo
	downloads *repository.DownloadRepo
	store     *storage.S3Client
	cache     *CacheService
	events    event.Publisher
}

func NewMediaService(
	repo *repository.MediaRepo,
	tags *repository.TagRepo,
	downloads *repository.DownloadRepo,
	store *storage.S3Client,
	cache *CacheService,
	events event.Publisher,
) *MediaService {
	return &MediaService{
		repo:      repo,
		tags:      tags,
		downloads: downloads,
		store:     store,
		cache:     cache,
		events:    events,
	}
}

// Create registers an uploaded media item in the in-moderation state.
func (s *MediaService) Create(ctx context.Context, userID int64, req model.MediaCreateRequest) (*model.Media, error) {
	if req.FileKey == "" {
		return nil, ErrMissingFileKey
	}
	// Deduped up front so a repeated id never reaches the media_to_tags
	// primary key.
	tagIDs := dedupe(req.TagIDs)
	if err := s.checkTags(ctx, tagIDs); err != nil {
		return nil, err
	}

	m := &model.Media{
		Title:        strings.TrimSpace(req.Title),
		Description:  strings.TrimSpace(req.Description),
		Author:       strings.TrimSpace(req.Author),
		UserWhoAdded: userID,
		FileKey:      req.FileKey,
		CoverKey:     req.CoverKey,
	}
	if err := s.repo.Create(ctx, m, tagIDs); err != nil {
		return nil, err
	}

	_ = s.events.MediaUploaded(ctx, m)
	return m, nil
}

// Update applies an owner edit. Any change sends the media back to the
// moderation queue (active resets to in-moderation).
func (s *MediaService) Update(ctx context.Context, userID, mediaID int64, req model.MediaUpdateRequest) (*model.Media, error) {
	m, err := s.repo.FindByID(ctx, mediaID)
	if err != nil {
		return nil, err
	}
	if m.UserWhoAdded != userID {
		return nil, ErrNotOwner
	}
	tagIDs := dedupe(req.TagIDs)
	if err := s.checkTags(ctx, tagIDs); err != nil {
		return nil, err
	}

	m.Title = strings.TrimSpace(req.Title)
	m.Description = strings.TrimSpace(req.Description)
	m.Author = strings.TrimSpace(req.Author)
	if req.CoverKey != nil {
		m.CoverKey = req.CoverKey
	}
	if err := s.repo.Update(ctx, m, tagIDs); err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.InvalidateMedia(ctx, mediaID)
	}
	return m, nil
}

func (s *MediaService) checkTags(ctx context.Context, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}
	count, err := s.tags.CountByIDs(ctx, tagIDs)
	if err != nil {
		return err
	}
	if count != len(dedupe(tagIDs)) {
		return ErrUnknownTags
	}
	return nil
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// Get returns the media detail response, via cache when possible.
func (s *MediaService) Get(ctx context.Context, mediaID int64) (*model.MediaResponse, error) {
	m, err := s.repo.FindByID(ctx, mediaID)
	if err != nil {
		return nil, err
	}
	resp := buildMediaResponse(m)
	if s.cache != nil {
		_ = s.cache.SetMedia(ctx, mediaID, resp)
	}
	return resp, nil
}

// CachedGet returns the raw cached detail payload, or nil on a miss.
func (s *MediaService) CachedGet(ctx context.Context, mediaID int64) ([]byte, error) {
	if s.cache == nil {
		return nil, nil
	}
	return s.cache.GetMedia(ctx, mediaID)
}

func buildMediaResponse(m *model.Media) *model.MediaResponse {
	return &model.MediaResponse{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Author:      m.Author,
		PubDate:     m.PubDate,
		Active:      m.Active,
		Rating:      m.Rating(),
		Downloads:   m.DownloadCount,
		Tags:        m.Tags,
	}
}

// Search applies the filter chain over active media and shapes the catalog
// result list.
func (s *MediaService) Search(ctx context.Context, filter *repository.MediaFilter) ([]model.MediaListItem, error) {
	media, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]model.MediaListItem, 0, len(media))
	for i := range media {
		m := &media[i]
		items = append(items, model.MediaListItem{
			Title:  m.Title,
			Rating: m.Rating(),
			Link:   fmt.Sprintf("/api/media/%d", m.ID),
			Tags:   m.Tags,
		})
	}
	return items, nil
}

// SearchCacheKey derives a stable cache key for a filter combination.
func SearchCacheKey(f *repository.MediaFilter) string {
	tagIDs := append([]int64(nil), f.TagIDs...)
	sort.Slice(tagIDs, func(i, j int) bool { return tagIDs[i] < tagIDs[j] })

	canonical := fmt.Sprintf("t=%s|a=%s|u=%s|tags=%v|r=%t:%.2f:%.2f|d=%s|l=%d",
		f.Title, f.Author, f.Username, tagIDs, f.HasRating, f.RatingMin, f.RatingMax, f.Direction, f.Limit)
	return hash.SHA256Hex(canonical)
}

// CachedSearch returns the raw cached search payload, or nil on a miss.
func (s *MediaService) CachedSearch(ctx context.Context, key string) ([]byte, error) {
	if s.cache == nil {
		return nil, nil
	}
	return s.cache.GetSearch(ctx, key)
}

// StoreSearch caches a shaped search result page.
func (s *MediaService) StoreSearch(ctx context.Context, key string, items []model.MediaListItem) {
	if s.cache == nil {
		return
	}
	_ = s.cache.SetSearch(ctx, key, items)
}

// Download records a download for the (media, user) pair and returns a
// presigned object URL. A repeat download is not an error: the event is
// simply not recorded twice and the response says so.
func (s *MediaService) Download(ctx context.Context, mediaID, userID int64) (*model.DownloadResponse, error) {
	m, err := s.repo.FindByID(ctx, mediaID)
	if err != nil {
		return nil, err
	}
	if m.Active != model.MediaActive {
		return nil, ErrMediaInactive
	}

	already := false
	if err := s.downloads.Record(ctx, mediaID, userID); err != nil {
		if !errors.Is(err, repository.ErrAlreadyDownloaded) {
			return nil, err
		}
		already = true
	}

	url, err := s.store.PresignGetObject(ctx, m.FileKey)
	if err != nil {
		return nil, err
	}

	return &model.DownloadResponse{URL: url, AlreadyDownloaded: already}, nil
}

// Stats returns catalog-wide counters.
func (s *MediaService) Stats(ctx context.Context) (*model.StatsResponse, error) {
	return s.repo.Stats(ctx)
}

// ListTags returns every tag in the catalog.
func (s *MediaService) ListTags(ctx context.Context) ([]model.Tag, error) {
	return s.tags.List(ctx)
}

// CreateTag adds a new tag, recording who added it.
func (s *MediaService) CreateTag(ctx context.Context, userID int64, req model.TagCreateRequest) (*model.Tag, error) {
	t := &model.Tag{
		NameEn:       strings.TrimSpace(req.NameEn),
		NameRu:       strings.TrimSpace(req.NameRu),
		HelpTextEn:   req.HelpTextEn,
		HelpTextRu:   req.HelpTextRu,
		UserWhoAdded: userID,
	}
	if err := s.tags.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// FindOwned fetches a media row ensuring it exists; callers use the owner
// field for permission checks.
func (s *MediaService) FindOwned(ctx context.Context, mediaID int64) (*model.Media, error) {
	m, err := s.repo.FindByID(ctx, mediaID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, pgx.ErrNoRows
	}
	return m, err
}
