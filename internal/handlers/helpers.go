package handlers

import (
	"net/http"
	"strconv"

	"dentiq/internal/common"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// PageRequest represents the limit/offset query parameters of list endpoints
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

func pagination(c echo.Context) (int, int, error) {
	var req PageRequest
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
		return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	limit, offset := common.NormalizePagination(req.Limit, req.Offset)
	return limit, offset, nil
}

func pathID(c echo.Context, name string) (uuid.UUID, error) {
	return common.ValidateUUID(c.Param(name), name)
}

// bindBody binds the JSON body and runs the registered validator.
func bindBody(c echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if c.Echo().Validator != nil {
		return c.Validate(dst)
	}
	return nil
}

func queryInt(c echo.Context, name string, fallback int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, common.NewValidationError(name, "must be a number")
	}
	return v, nil
}

func listResponse(key string, items any, limit, offset int) map[string]any {
	return map[string]any{
		key:      items,
		"limit":  limit,
		"offset": offset,
	}
}
