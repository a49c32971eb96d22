package handler

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/LaGGgggg/SkyLibrary/internal/middleware"
	"github.com/LaGGgggg/SkyLibrary/internal/model"
	"github.com/LaGGgggg/SkyLibrary/internal/service"
)

type TagHandler struct {
	svc *service.MediaService
}

func NewTagHandler(svc *service.MediaService) *TagHandler {
	return &TagHandler{svc: svc}
}

// List handles GET /api/tags
func (h *TagHandler) List(c fiber.Ctx) error {
	tags, err := h.svc.ListTags(c.Context())
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch tags")
	}
	if tags == nil {
		tags = []model.Tag{}
	}
	return c.JSON(tags)
}

// Create handles POST /api/tags — moderator-only.
func (h *TagHandler) Create(c fiber.Ctx) error {
	var req model.TagCreateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	if strings.TrimSpace(req.NameEn) == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "name is required")
	}

	tag, err := h.svc.CreateTag(c.Context(), middleware.UserID(c), req)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create tag")
	}

	return c.Status(fiber.StatusCreated).JSON(tag)
}
