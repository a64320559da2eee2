package common

import (
	"context"
	"fmt"
	"strings"

	"dentiq/internal/models"

	"github.com/google/uuid"
)

type contextKey string

const PrincipalKey contextKey = "principal"

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// WithPrincipal stores the authenticated user on the request context.
func WithPrincipal(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, PrincipalKey, user)
}

// GetPrincipalFromContext returns the user loaded by the principal middleware.
func GetPrincipalFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(PrincipalKey).(*models.User)
	return user, ok && user != nil
}

// ValidateUUID parses a path or body identifier.
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, NewValidationError(fieldName, "is required")
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, NewValidationError(fieldName, "must be a valid UUID")
	}
	return id, nil
}

// NormalizePagination clamps limit/offset to the API defaults.
func NormalizePagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// SanitizeSearchQuery strips LIKE wildcards and bounds the length of a search term.
func SanitizeSearchQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return ""
	}
	query = strings.ReplaceAll(query, "%", "")
	query = strings.ReplaceAll(query, "_", "")
	if len(query) > 100 {
		query = query[:100]
	}
	return strings.TrimSpace(query)
}

// RequireString returns a validation error when value is blank.
func RequireString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return NewValidationError(fieldName, "is required")
	}
	return nil
}

// RequireNonNegative returns a validation error for negative amounts.
func RequireNonNegative(value float64, fieldName string) error {
	if value < 0 {
		return NewValidationError(fieldName, fmt.Sprintf("must not be negative, got %.2f", value))
	}
	return nil
}
