package handlers

import (
	"net/http"

	"dentiq/internal/middleware"
	"dentiq/internal/services"

	"github.com/labstack/echo/v4"
)

// ResourceHandlers exposes the standard CRUD verbs for one tenant-owned entity.
type ResourceHandlers[T any] struct {
	key     string
	service services.TenantService[T]
}

func NewResourceHandlers[T any](key string, service services.TenantService[T]) *ResourceHandlers[T] {
	return &ResourceHandlers[T]{key: key, service: service}
}

// Register mounts list, create, get, update and delete under g.
func (h *ResourceHandlers[T]) Register(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

func (h *ResourceHandlers[T]) List(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}

	items, err := h.service.List(c.Request().Context(), user.ID, limit, offset)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*T{}
	}
	return c.JSON(http.StatusOK, listResponse(h.key, items, limit, offset))
}

func (h *ResourceHandlers[T]) Get(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	entity, err := h.service.GetByID(c.Request().Context(), user.ID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entity)
}

func (h *ResourceHandlers[T]) Create(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	entity := new(T)
	if err := bindBody(c, entity); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err := h.service.Create(ctx, user.ID, entity); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, entity)
}

func (h *ResourceHandlers[T]) Update(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	entity := new(T)
	if err := bindBody(c, entity); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err := h.service.Update(ctx, user.ID, id, entity); err != nil {
		return err
	}
	updated, err := h.service.GetByID(ctx, user.ID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *ResourceHandlers[T]) Delete(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), user.ID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
