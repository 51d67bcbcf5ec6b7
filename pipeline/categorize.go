package pipeline

import (
	"strings"

	"lantern/models"
)

var (
	authKeywords = []string{"auth", "token", "login", "signup"}
	dbKeywords   = []string{"db", "sql", "database", "query"}
)

// Categorize assigns exactly one category reference to a log.
//
// Pass 1 scans the project's user-defined categories in the order
// given (callers supply creation order) and returns the id of the
// first category whose name appears, case-insensitively, anywhere in
// the message. Pass 2 falls back to a system category name: ERROR when
// the level is ERROR, then AUTH or DB by message keyword, else
// GENERAL. System categories never participate in pass 1 so a message
// like "db timeout" at level ERROR still lands in ERROR.
func Categorize(level, message string, categories []models.LogCategory) models.CategoryRef {
	msg := strings.ToLower(message)

	for _, c := range categories {
		if c.IsSystem {
			continue
		}
		if strings.Contains(msg, strings.ToLower(c.Name)) {
			return models.CategoryID(c.ID)
		}
	}

	return models.CategoryName(systemCategorize(level, msg))
}

// systemCategorize expects the message already lowercased.
func systemCategorize(level, msg string) string {
	if level == models.LevelError {
		return models.CategoryError
	}
	if containsAny(msg, authKeywords) {
		return models.CategoryAuth
	}
	if containsAny(msg, dbKeywords) {
		return models.CategoryDB
	}
	return models.CategoryGeneral
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
