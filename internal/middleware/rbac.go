package middleware

import (
	"fmt"
	"slices"

	"dentiq/internal/common"
	"dentiq/internal/models"

	"github.com/labstack/echo/v4"
)

// RequireRole lets the request through only for the listed roles.
func RequireRole(roles ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := CurrentUser(c)
			if err != nil {
				return err
			}
			if !slices.Contains(roles, user.Role) {
				return fmt.Errorf("insufficient permissions: %w", common.ErrForbidden)
			}
			return next(c)
		}
	}
}

// RequireActivePlan blocks dentists whose subscription is not ACTIVE.
// Admins always pass.
func RequireActivePlan() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := CurrentUser(c)
			if err != nil {
				return err
			}
			if !user.HasAccess() {
				return fmt.Errorf("an active subscription plan is required: %w", common.ErrForbidden)
			}
			return next(c)
		}
	}
}
