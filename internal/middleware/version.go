package middleware

import "github.com/labstack/echo/v4"

const APIVersion = "v1"

// VersionHeader stamps the API version on every response of the group.
func VersionHeader(version string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("X-API-Version", version)
			c.Set("api_version", version)
			return next(c)
		}
	}
}
