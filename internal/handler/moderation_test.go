package handler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v3"

	"github.com/LaGGgggg/SkyLibrary/internal/repository"
	"github.com/LaGGgggg/SkyLibrary/internal/service"
)

func TestTaskErrorCode(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"empty queue", service.ErrNoTaskAvailable, fiber.StatusNotFound, "QUEUE_EMPTY"},
		{"claim conflict", repository.ErrTaskConflict, fiber.StatusConflict, "TASK_CONFLICT"},
		{"wrapped claim conflict", fmt.Errorf("claim: %w", repository.ErrTaskConflict), fiber.StatusConflict, "TASK_CONFLICT"},
		{"storage failure", errors.New("connection reset"), fiber.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, _ := taskErrorCode(tt.err)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if code != tt.wantCode {
				t.Errorf("code = %q, want %q", code, tt.wantCode)
			}
		})
	}
}
