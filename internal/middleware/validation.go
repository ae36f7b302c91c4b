package middleware

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ValidateQuestion rejects malformed questions at the boundary so the engine
// only ever sees a usable string.
func ValidateQuestion(question string) error {
	if strings.TrimSpace(question) == "" {
		return errors.New("question cannot be empty")
	}
	if len(question) > 2000 {
		return errors.New("question exceeds maximum length")
	}
	if !utf8.ValidString(question) {
		return errors.New("question must be valid UTF-8")
	}
	return nil
}

// ValidateSessionID validates a session ID.
func ValidateSessionID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New("invalid session ID format")
	}
	return nil
}

// ValidateMessageID validates a message ID.
func ValidateMessageID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New("invalid message ID format")
	}
	return nil
}

// ValidatePage validates the current-page context string.
func ValidatePage(page string) error {
	if len(page) > 256 {
		return errors.New("page exceeds maximum length")
	}
	if !utf8.ValidString(page) {
		return errors.New("page must be valid UTF-8")
	}
	return nil
}
