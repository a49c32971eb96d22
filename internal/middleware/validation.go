package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
)

// Field length limits matching database schema constraints.
const (
	MaxTitleLen    = 60  // media.title VARCHAR(60)
	MaxAuthorLen   = 30  // media.author VARCHAR(30)
	MaxUsernameLen = 150 // users.username VARCHAR(150)
	MaxContentLen  = 500 // comments.content VARCHAR(500)
	MinPasswordLen = 8
)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateTitle checks a media title against schema limits.
func ValidateTitle(title string) (string, string) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", "title is required"
	}
	if len([]rune(title)) > MaxTitleLen {
		return "", "title must be at most 60 characters"
	}
	return title, ""
}

// ValidateAuthor checks a media author name.
func ValidateAuthor(author string) (string, string) {
	author = strings.TrimSpace(author)
	if author == "" {
		return "", "author is required"
	}
	if len([]rune(author)) > MaxAuthorLen {
		return "", "author must be at most 30 characters"
	}
	return author, ""
}

// ValidateUsername checks a username for registration and search.
func ValidateUsername(username string) (string, string) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", "username is required"
	}
	if len([]rune(username)) > MaxUsernameLen {
		return "", "username must be at most 150 characters"
	}
	for _, r := range username {
		if r == ' ' || r == '\t' || r == '\n' {
			return "", "username must not contain whitespace"
		}
	}
	return username, ""
}

// ValidatePassword enforces the minimum password length.
func ValidatePassword(password string) string {
	if len(password) < MinPasswordLen {
		return "password must be at least 8 characters"
	}
	return ""
}

// ValidateRating checks a 1-5 media rating value.
func ValidateRating(rating int16) string {
	if rating < 1 || rating > 5 {
		return "rating must be between 1 and 5"
	}
	return ""
}

// ValidateVote checks an up/down comment vote value.
func ValidateVote(vote int16) string {
	if vote != 1 && vote != -1 {
		return "vote must be 1 or -1"
	}
	return ""
}

// ValidateRatingRange checks the catalog filter's rating bounds.
func ValidateRatingRange(minimum, maximum float64) string {
	if minimum < 0 || maximum > 5 || minimum > maximum {
		return "rating range must satisfy 0 <= min <= max <= 5"
	}
	return ""
}

// ValidateDirection normalizes a rating sort direction, defaulting to
// descending.
func ValidateDirection(direction string) (string, string) {
	direction = strings.TrimSpace(strings.ToLower(direction))
	switch direction {
	case "":
		return "descending", ""
	case "ascending", "descending":
		return direction, ""
	default:
		return "", "direction must be 'ascending' or 'descending'"
	}
}
