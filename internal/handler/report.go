package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/LaGGgggg/SkyLibrary/internal/middleware"
	"github.com/LaGGgggg/SkyLibrary/internal/model"
	"github.com/LaGGgggg/SkyLibrary/internal/repository"
	"github.com/LaGGgggg/SkyLibrary/internal/service"
)

type ReportHandler struct {
	svc *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// Create handles POST /api/reports
func (h *ReportHandler) Create(c fiber.Ctx) error {
	var req model.ReportCreateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	target, err := model.ParseTargetRef(req.TargetType, req.TargetID)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_TARGET", "targetType must be \"media\" or \"comment\" with a positive targetId")
	}

	report, err := h.svc.Create(c.Context(), middleware.UserID(c), target, req.Content, req.TypeIDs)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReportEmpty):
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "Report content must not be empty")
		case errors.Is(err, service.ErrReportTooSoon):
			return middleware.ErrorResponse(c, fiber.StatusTooManyRequests, "TOO_SOON", "Wait at least 30 seconds between reports")
		case errors.Is(err, service.ErrTargetNotFound):
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Report target not found")
		case errors.Is(err, repository.ErrDuplicateReport):
			return middleware.ErrorResponse(c, fiber.StatusConflict, "DUPLICATE_REPORT", "You have already reported this target")
		default:
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to file report")
		}
	}

	return c.Status(fiber.StatusCreated).JSON(report)
}

// ListTypes handles GET /api/reports/types
func (h *ReportHandler) ListTypes(c fiber.Ctx) error {
	types, err := h.svc.ListTypes(c.Context())
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch report types")
	}
	if types == nil {
		types = []model.ReportType{}
	}
	return c.JSON(types)
}

// CreateType handles POST /api/reports/types — moderator-only.
func (h *ReportHandler) CreateType(c fiber.Ctx) error {
	var req struct {
		Name       string `json:"name"`
		NameRu     string `json:"nameRu"`
		HelpText   string `json:"helpText"`
		HelpTextRu string `json:"helpTextRu"`
	}
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "name is required")
	}

	rt, err := h.svc.CreateType(c.Context(), middleware.UserID(c), req.Name, req.NameRu, req.HelpText, req.HelpTextRu)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create report type")
	}

	return c.Status(fiber.StatusCreated).JSON(rt)
}
