package handlers

import (
	"net/http"

	"dentiq/internal/middleware"
	"dentiq/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles registration, login and the current-user endpoint
type AuthHandlers struct {
	authService services.AuthService
}

func NewAuthHandlers(authService services.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

// RegisterRequest represents the registration payload
type RegisterRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=50"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	FullName string  `json:"full_name" validate:"required"`
	Phone    *string `json:"phone" validate:"omitempty,max=32"`
}

// LoginRequest accepts either a username or an email as login
type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register godoc
// @Summary Register a dentist account
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Account"
// @Success 201 {object} models.User
// @Router /auth/register [post]
func (h *AuthHandlers) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// Login godoc
// @Summary Exchange credentials for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} services.LoginResult
// @Router /auth/login [post]
func (h *AuthHandlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	result, err := h.authService.Login(c.Request().Context(), req.Login, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Me returns the authenticated user with its current plan state
func (h *AuthHandlers) Me(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
