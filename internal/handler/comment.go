package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5"

	"github.com/LaGGgggg/SkyLibrary/internal/middleware"
	"github.com/LaGGgggg/SkyLibrary/internal/model"
	"github.com/LaGGgggg/SkyLibrary/internal/service"
)

type CommentHandler struct {
	svc *service.CommentService
}

func NewCommentHandler(svc *service.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// Create handles POST /api/comments
func (h *CommentHandler) Create(c fiber.Ctx) error {
	var req model.CommentCreateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	target, err := model.ParseTargetRef(req.TargetType, req.TargetID)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_TARGET", "targetType must be \"media\" or \"comment\" with a positive targetId")
	}

	comment, err := h.svc.Create(c.Context(), middleware.UserID(c), target, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCommentEmpty):
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "Comment content must not be empty")
		case errors.Is(err, service.ErrCommentTooLong):
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "Comment content must be at most 500 characters")
		case errors.Is(err, service.ErrPostTooSoon):
			return middleware.ErrorResponse(c, fiber.StatusTooManyRequests, "TOO_SOON", "Wait at least 30 seconds between comments")
		case errors.Is(err, service.ErrTargetNotFound):
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Comment target not found")
		default:
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to post comment")
		}
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// Thread handles GET /api/media/:mediaId/comments — the full flattened reply
// tree for a media item.
func (h *CommentHandler) Thread(c fiber.Ctx) error {
	mediaID, ok := parseID(c, "mediaId")
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "mediaId must be a positive integer")
	}

	nodes, err := h.svc.Thread(c.Context(), mediaID)
	if err != nil {
		return threadError(c, err)
	}
	if nodes == nil {
		nodes = []model.CommentNode{}
	}

	return c.JSON(nodes)
}

// Replies handles GET /api/comments/:commentId/replies
func (h *CommentHandler) Replies(c fiber.Ctx) error {
	commentID, ok := parseID(c, "commentId")
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "commentId must be a positive integer")
	}

	nodes, err := h.svc.Replies(c.Context(), commentID)
	if err != nil {
		return threadError(c, err)
	}
	if nodes == nil {
		nodes = []model.CommentNode{}
	}

	return c.JSON(nodes)
}

func threadError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows), errors.Is(err, service.ErrTargetNotFound):
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Comment target not found")
	case errors.Is(err, service.ErrMalformedThread):
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "MALFORMED_THREAD", "Comment thread could not be assembled")
	default:
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch comments")
	}
}

// Vote handles POST /api/comments/:commentId/vote
func (h *CommentHandler) Vote(c fiber.Ctx) error {
	commentID, ok := parseID(c, "commentId")
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "commentId must be a positive integer")
	}

	var req model.VoteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}
	if errMsg := middleware.ValidateVote(req.Vote); errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	resp, err := h.svc.Vote(c.Context(), commentID, middleware.UserID(c), req.Vote)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Comment not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to submit vote")
	}

	outcome := "set"
	if resp.Removed {
		outcome = "removed"
	}
	Metrics.CommentVotesTotal.WithLabelValues(outcome).Inc()

	return c.JSON(resp)
}
