package middleware

import (
	"context"
	"errors"
	"net/http"

	"dentiq/internal/common"
	"dentiq/internal/models"
	"dentiq/internal/services"
	"dentiq/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const tokenContextKey = "user"

// UserLoader is the part of the user repository the principal middleware needs.
type UserLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// JWTConfig validates HS256 bearer tokens issued by the auth service.
func JWTConfig(secret string) echojwt.Config {
	return echojwt.Config{
		SigningKey:    []byte(secret),
		SigningMethod: jwt.SigningMethodHS256.Alg(),
		ContextKey:    tokenContextKey,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(services.TokenClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or missing token")
		},
	}
}

// Principal loads the token's user once per request, applies the lazy plan
// expiration check to dentists and stores the result on the request context.
func Principal(users UserLoader, expiration services.ExpirationChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get(tokenContextKey).(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or missing token")
			}
			claims, ok := token.Claims.(*services.TokenClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid claims")
			}
			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid user_id in token")
			}

			ctx := c.Request().Context()
			user, err := users.GetByID(ctx, userID)
			if err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "User no longer exists")
				}
				return err
			}

			if !user.IsAdmin() {
				user, err = expiration.CheckAndUpdateExpiration(ctx, user)
				if err != nil {
					return err
				}
			}

			ctx = common.WithPrincipal(ctx, user)
			ctx = logger.WithContext(ctx, logger.FromContext(ctx).With(zap.String("user_id", user.ID.String())))
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// CurrentUser returns the principal stored by Principal.
func CurrentUser(c echo.Context) (*models.User, error) {
	user, ok := common.GetPrincipalFromContext(c.Request().Context())
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return user, nil
}
