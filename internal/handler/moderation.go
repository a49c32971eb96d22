package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5"

	"github.com/LaGGgggg/SkyLibrary/internal/middleware"
	"github.com/LaGGgggg/SkyLibrary/internal/model"
	"github.com/LaGGgggg/SkyLibrary/internal/repository"
	"github.com/LaGGgggg/SkyLibrary/internal/service"
)

type ModerationHandler struct {
	svc *service.ModerationService
}

func NewModerationHandler(svc *service.ModerationService) *ModerationHandler {
	return &ModerationHandler{svc: svc}
}

// Task handles GET /api/moderation/task — returns the moderator's current
// claim, claiming the oldest pending media item when they hold none.
func (h *ModerationHandler) Task(c fiber.Ctx) error {
	task, err := h.svc.Task(c.Context(), middleware.UserID(c))
	if err != nil {
		status, code, msg := taskErrorCode(err)
		return middleware.ErrorResponse(c, status, code, msg)
	}

	return c.JSON(task)
}

// taskErrorCode resolves the response for a failed claim. A conflict means
// the candidate row was claimed past the lock by another moderator.
func taskErrorCode(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, service.ErrNoTaskAvailable):
		return fiber.StatusNotFound, "QUEUE_EMPTY", "No media awaiting moderation"
	case errors.Is(err, repository.ErrTaskConflict):
		return fiber.StatusConflict, "TASK_CONFLICT", "Media item was claimed by another moderator"
	default:
		return fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to claim moderation task"
	}
}

// Decide handles POST /api/moderation/decision
func (h *ModerationHandler) Decide(c fiber.Ctx) error {
	var req model.DecisionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	if req.MediaID <= 0 {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "mediaId must be a positive integer")
	}
	if req.Verdict != model.VerdictApprove && req.Verdict != model.VerdictReject {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "verdict must be \"approve\" or \"reject\"")
	}

	resp, err := h.svc.Decide(c.Context(), middleware.UserID(c), req)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "You hold no claim on this media item")
		case errors.Is(err, repository.ErrTaskConflict):
			return middleware.ErrorResponse(c, fiber.StatusConflict, "TASK_CONFLICT", "Media item was claimed by another moderator")
		default:
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to apply verdict")
		}
	}

	Metrics.DecisionsTotal.WithLabelValues(req.Verdict).Inc()
	return c.JSON(resp)
}
