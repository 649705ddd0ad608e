package services

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
)

const (
	minPasswordLen    = 6
	maxEmailLen       = 255
	maxTitleLen       = 200
	maxDescriptionLen = 5000
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,50}$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// NormalizeEmail trims and lowercases the whole address. Uniqueness and
// login lookups both use the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateUsername(username string) error {
	if n := utf8.RuneCountInString(username); n < 3 || n > 50 {
		return common.NewValidationError("username", "Username must be 3-50 characters")
	}
	if !usernamePattern.MatchString(username) {
		return common.NewValidationError("username", "Username may only contain letters, numbers, hyphens and underscores")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > maxEmailLen || !emailPattern.MatchString(email) {
		return common.NewValidationError("email", "Please provide a valid email")
	}
	return nil
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLen {
		return common.NewValidationError("password", "Password must be at least 6 characters")
	}
	return nil
}

func validateTitle(title string) error {
	if title == "" {
		return common.NewValidationError("title", "Title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return common.NewValidationError("title", "Title max length is 200 characters")
	}
	return nil
}

func validateDescription(description string) error {
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return common.NewValidationError("description", "Description max length is 5000 characters")
	}
	return nil
}

func parseStatus(s string) (models.TaskStatus, error) {
	st, ok := models.ParseTaskStatus(s)
	if !ok {
		return "", common.NewValidationError("status", "Invalid status value")
	}
	return st, nil
}
