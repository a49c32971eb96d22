package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/LaGGgggg/SkyLibrary/internal/middleware"
	"github.com/LaGGgggg/SkyLibrary/internal/model"
	"github.com/LaGGgggg/SkyLibrary/internal/service"
)

type UploadHandler struct {
	svc *service.UploadService
}

func NewUploadHandler(svc *service.UploadService) *UploadHandler {
	return &UploadHandler{svc: svc}
}

// Create handles POST /api/uploads — starts a multipart upload.
func (h *UploadHandler) Create(c fiber.Ctx) error {
	var req model.UploadCreateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	req.FileName = strings.TrimSpace(req.FileName)
	if req.FileName == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "fileName is required")
	}
	if req.FileSize <= 0 {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "fileSize must be a positive integer")
	}

	resp, err := h.svc.Create(c.Context(), middleware.UserID(c), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFileTooBig):
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "FILE_TOO_BIG", "File exceeds the 400Mb limit")
		case errors.Is(err, service.ErrCoverTooBig):
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "COVER_TOO_BIG", "Cover exceeds the 7Mb limit")
		default:
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to start upload")
		}
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// PartURL handles GET /api/uploads/:uploadId/parts/:partNumber — presigns one
// part of an in-flight multipart upload.
func (h *UploadHandler) PartURL(c fiber.Ctx) error {
	uploadID := c.Params("uploadId")
	if uploadID == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "uploadId is required")
	}

	partNumber, ok := parseID(c, "partNumber")
	if !ok || partNumber > 10000 {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "partNumber must be between 1 and 10000")
	}

	key := fiber.Query[string](c, "key")
	resp, err := h.svc.PartURL(c.Context(), middleware.UserID(c), key, uploadID, int32(partNumber))
	if err != nil {
		if errors.Is(err, service.ErrBadUploadKey) {
			return middleware.ErrorResponse(c, fiber.StatusForbidden, "FORBIDDEN", "Upload key does not belong to you")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to presign part")
	}

	return c.JSON(resp)
}

// Complete handles POST /api/uploads/:uploadId/complete
func (h *UploadHandler) Complete(c fiber.Ctx) error {
	uploadID := c.Params("uploadId")
	if uploadID == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "uploadId is required")
	}

	var req model.UploadCompleteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}
	if len(req.Parts) == 0 {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "parts must not be empty")
	}

	if err := h.svc.Complete(c.Context(), middleware.UserID(c), uploadID, req); err != nil {
		if errors.Is(err, service.ErrBadUploadKey) {
			return middleware.ErrorResponse(c, fiber.StatusForbidden, "FORBIDDEN", "Upload key does not belong to you")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to complete upload")
	}

	return c.JSON(fiber.Map{"success": true, "key": req.Key})
}

// Abort handles DELETE /api/uploads/:uploadId
func (h *UploadHandler) Abort(c fiber.Ctx) error {
	uploadID := c.Params("uploadId")
	if uploadID == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "uploadId is required")
	}

	key := fiber.Query[string](c, "key")
	if err := h.svc.Abort(c.Context(), middleware.UserID(c), key, uploadID); err != nil {
		if errors.Is(err, service.ErrBadUploadKey) {
			return middleware.ErrorResponse(c, fiber.StatusForbidden, "FORBIDDEN", "Upload key does not belong to you")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to abort upload")
	}

	return c.JSON(fiber.Map{"success": true})
}

// CoverURL handles POST /api/uploads/cover — presigns a single-shot PUT for
// a cover image, which never needs the multipart flow.
func (h *UploadHandler) CoverURL(c fiber.Ctx) error {
	var req struct {
		FileName string `json:"fileName"`
	}
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	req.FileName = strings.TrimSpace(req.FileName)
	if req.FileName == "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "fileName is required")
	}

	url, key, err := h.svc.CoverURL(c.Context(), middleware.UserID(c), req.FileName)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to presign cover upload")
	}

	return c.JSON(fiber.Map{"url": url, "key": key})
}
