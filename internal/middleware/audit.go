package middleware

import (
	"net/http"
	"time"

	"dentiq/internal/common"
	"dentiq/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuditWrites logs every state-changing request together with the acting
// user. Reads are skipped.
func AuditWrites() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !isWrite(c.Request().Method) {
				return next(c)
			}

			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				status, _ = common.StatusFor(err)
			}
			fields := []zap.Field{
				zap.String("action", c.Request().Method+" "+c.Path()),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", status),
				zap.Duration("latency", time.Since(start)),
			}
			if user, ok := common.GetPrincipalFromContext(c.Request().Context()); ok {
				fields = append(fields, zap.String("actor_id", user.ID.String()), zap.String("actor_role", string(user.Role)))
			}
			for _, name := range c.ParamNames() {
				fields = append(fields, zap.String("param_"+name, c.Param(name)))
			}

			logger.FromContext(c.Request().Context()).Info("audit", fields...)
			return err
		}
	}
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
