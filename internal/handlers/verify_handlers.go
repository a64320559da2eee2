package handlers

import (
	"net/http"
	"time"

	"dentiq/internal/middleware"
	"dentiq/internal/services"

	"github.com/labstack/echo/v4"
)

// VerifyHandlers sends and checks email/phone verification codes
type VerifyHandlers struct {
	verification services.VerificationService
}

func NewVerifyHandlers(verification services.VerificationService) *VerifyHandlers {
	return &VerifyHandlers{verification: verification}
}

// ConfirmCodeRequest carries the code received by the user
type ConfirmCodeRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

// Send handles POST /api/verify/:channel/send
func (h *VerifyHandlers) Send(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	channel := services.VerificationChannel(c.Param("channel"))

	expiresAt, err := h.verification.Send(c.Request().Context(), user, channel)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, map[string]any{
		"channel":    channel,
		"expires_at": expiresAt.UTC().Format(time.RFC3339),
	})
}

// Confirm handles POST /api/verify/:channel/confirm
func (h *VerifyHandlers) Confirm(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	var req ConfirmCodeRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	channel := services.VerificationChannel(c.Param("channel"))

	if err := h.verification.Confirm(c.Request().Context(), user, channel, req.Code); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"channel": channel, "verified": true})
}
