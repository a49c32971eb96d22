package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5"

	"github.com/LaGGgggg/SkyLibrary/internal/middleware"
	"github.com/LaGGgggg/SkyLibrary/internal/model"
	"github.com/LaGGgggg/SkyLibrary/internal/repository"
	"github.com/LaGGgggg/SkyLibrary/internal/service"
)

type MediaHandler struct {
	svc     *service.MediaService
	ratings *service.RatingService
}

func NewMediaHandler(svc *service.MediaService, ratings *service.RatingService) *MediaHandler {
	return &MediaHandler{svc: svc, ratings: ratings}
}

func parseID(c fiber.Ctx, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(param), 10, 64)
	return id, err == nil && id > 0
}

// Create handles POST /api/media
func (h *MediaHandler) Create(c fiber.Ctx) error {
	var req model.MediaCreateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	if errMsg := validateMediaFields(&req.Title, &req.Author, req.Description); errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	m, err := h.svc.Create(c.Context(), middleware.UserID(c), req)
	if err != nil {
		return mediaWriteError(c, err, "Failed to create media")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":     m.ID,
		"title":  m.Title,
		"active": m.Active,
	})
}

// Update handles PUT /api/media/:mediaId — owner-only, resets the item to
// the moderation queue.
func (h *MediaHandler) Update(c fiber.Ctx) error {
	mediaID, ok := parseID(c, "mediaId")
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "mediaId must be a positive integer")
	}

	var req model.MediaUpdateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	if errMsg := validateMediaFields(&req.Title, &req.Author, req.Description); errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	m, err := h.svc.Update(c.Context(), middleware.UserID(c), mediaID, req)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Media not found")
		case errors.Is(err, service.ErrNotOwner):
			return middleware.ErrorResponse(c, fiber.StatusForbidden, "FORBIDDEN", "Only the owner may edit this media")
		default:
			return mediaWriteError(c, err, "Failed to update media")
		}
	}

	return c.JSON(fiber.Map{
		"id":     m.ID,
		"title":  m.Title,
		"active": m.Active,
	})
}

func validateMediaFields(title *string, author *string, description string) string {
	t, errMsg := middleware.ValidateTitle(*title)
	if errMsg != "" {
		return errMsg
	}
	*title = t

	a, errMsg := middleware.ValidateAuthor(*author)
	if errMsg != "" {
		return errMsg
	}
	*author = a

	if description == "" {
		return "description is required"
	}
	return ""
}

func mediaWriteError(c fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateTitle):
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "DUPLICATE_TITLE", "Not a unique title, change it.")
	case errors.Is(err, repository.ErrDuplicateDescription):
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "DUPLICATE_DESCRIPTION", "Not a unique description, change it.")
	case errors.Is(err, service.ErrUnknownTags):
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "UNKNOWN_TAGS", "One or more tags do not exist")
	case errors.Is(err, service.ErrMissingFileKey):
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_FILE", "fileKey is required")
	default:
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}

// Get handles GET /api/media/:mediaId
func (h *MediaHandler) Get(c fiber.Ctx) error {
	mediaID, ok := parseID(c, "mediaId")
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "mediaId must be a positive integer")
	}

	if cached, err := h.svc.CachedGet(c.Context(), mediaID); err == nil && cached != nil {
		Metrics.CacheHits.Inc()
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(cached)
	}
	Metrics.CacheMisses.Inc()

	resp, err := h.svc.Get(c.Context(), mediaID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Media not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch media")
	}

	return c.JSON(resp)
}

// Search handles GET /api/media — the catalog filter/search endpoint.
func (h *MediaHandler) Search(c fiber.Ctx) error {
	filter := &repository.MediaFilter{
		Title:    fiber.Query[string](c, "title"),
		Author:   fiber.Query[string](c, "author"),
		Username: fiber.Query[string](c, "username"),
		Limit:    fiber.Query[int](c, "amount"),
	}

	if raw := fiber.Query[string](c, "tags"); raw != "" {
		tagIDs, err := parseIDList(raw)
		if err != nil {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "tags must be a comma-separated list of IDs")
		}
		filter.TagIDs = tagIDs
	}

	minRaw := fiber.Query[string](c, "ratingMin")
	maxRaw := fiber.Query[string](c, "ratingMax")
	if minRaw != "" || maxRaw != "" {
		minimum, maximum, errMsg := parseRatingRange(minRaw, maxRaw)
		if errMsg != "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
		}
		filter.HasRating = true
		filter.RatingMin = minimum
		filter.RatingMax = maximum
	}

	direction, errMsg := middleware.ValidateDirection(fiber.Query[string](c, "direction"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	filter.Direction = direction

	key := service.SearchCacheKey(filter)
	if cached, err := h.svc.CachedSearch(c.Context(), key); err == nil && cached != nil {
		Metrics.CacheHits.Inc()
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(cached)
	}
	Metrics.CacheMisses.Inc()

	items, err := h.svc.Search(c.Context(), filter)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to search media")
	}
	if items == nil {
		items = []model.MediaListItem{}
	}

	h.svc.StoreSearch(c.Context(), key, items)
	return c.JSON(items)
}

func parseIDList(raw string) ([]int64, error) {
	var ids []int64
	start := 0
	for i := 0; i <= len(raw); i++ {
		if i == len(raw) || raw[i] == ',' {
			if start == i {
				start = i + 1
				continue
			}
			id, err := strconv.ParseInt(raw[start:i], 10, 64)
			if err != nil || id <= 0 {
				return nil, errors.New("invalid id")
			}
			ids = append(ids, id)
			start = i + 1
		}
	}
	return ids, nil
}

func parseRatingRange(minRaw, maxRaw string) (float64, float64, string) {
	minimum, maximum := 0.0, 5.0
	if minRaw != "" {
		v, err := strconv.ParseFloat(minRaw, 64)
		if err != nil {
			return 0, 0, "ratingMin must be a number"
		}
		minimum = v
	}
	if maxRaw != "" {
		v, err := strconv.ParseFloat(maxRaw, 64)
		if err != nil {
			return 0, 0, "ratingMax must be a number"
		}
		maximum = v
	}
	if errMsg := middleware.ValidateRatingRange(minimum, maximum); errMsg != "" {
		return 0, 0, errMsg
	}
	return minimum, maximum, ""
}

// Download handles POST /api/media/:mediaId/download
func (h *MediaHandler) Download(c fiber.Ctx) error {
	mediaID, ok := parseID(c, "mediaId")
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "mediaId must be a positive integer")
	}

	resp, err := h.svc.Download(c.Context(), mediaID, middleware.UserID(c))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Media not found")
		case errors.Is(err, service.ErrMediaInactive):
			return middleware.ErrorResponse(c, fiber.StatusForbidden, "NOT_ACTIVE", "Media is not active")
		default:
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to prepare download")
		}
	}

	Metrics.DownloadsTotal.Inc()
	return c.JSON(resp)
}

// Rate handles POST /api/media/:mediaId/rating
func (h *MediaHandler) Rate(c fiber.Ctx) error {
	mediaID, ok := parseID(c, "mediaId")
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "mediaId must be a positive integer")
	}

	var req struct {
		Rating int16 `json:"rating"`
	}
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}
	if errMsg := middleware.ValidateRating(req.Rating); errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	err := h.ratings.Rate(c.Context(), mediaID, middleware.UserID(c), req.Rating)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Media not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to submit rating")
	}

	Metrics.RatingsTotal.WithLabelValues(strconv.Itoa(int(req.Rating))).Inc()
	return c.JSON(fiber.Map{"success": true})
}
