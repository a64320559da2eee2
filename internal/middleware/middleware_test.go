package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dentiq/internal/common"
	"dentiq/internal/models"
	"dentiq/internal/services"
	"dentiq/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const testSecret = "middleware-secret"

type mockUserLoader struct {
	mock.Mock
}

func (m *mockUserLoader) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type mockExpirationChecker struct {
	mock.Mock
}

func (m *mockExpirationChecker) CheckAndUpdateExpiration(ctx context.Context, user *models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func signToken(t *testing.T, secret string, userID uuid.UUID, role models.Role) string {
	claims := services.TokenClaims{
		UserID: userID.String(),
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newTestServer(users UserLoader, checker services.ExpirationChecker, extra ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = common.HTTPErrorHandler
	chain := append([]echo.MiddlewareFunc{echojwt.WithConfig(JWTConfig(testSecret)), Principal(users, checker)}, extra...)
	g := e.Group("/api", chain...)
	g.GET("/me", func(c echo.Context) error {
		user, err := CurrentUser(c)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, user)
	})
	return e
}

func doGet(e *echo.Echo, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestPrincipal_LoadsUserAndRunsExpirationCheck(t *testing.T) {
	users := new(mockUserLoader)
	checker := new(mockExpirationChecker)
	id := uuid.New()
	user := &models.User{ID: id, Username: "drsmith", Role: models.RoleDentist, PlanStatus: models.PlanStatusActive}

	users.On("GetByID", mock.Anything, id).Return(user, nil).Once()
	checker.On("CheckAndUpdateExpiration", mock.Anything, user).Return(user, nil).Once()

	rec := doGet(newTestServer(users, checker), signToken(t, testSecret, id, models.RoleDentist))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"drsmith"`)
	users.AssertExpectations(t)
	checker.AssertExpectations(t)
}

func TestPrincipal_RejectsMissingAndForeignTokens(t *testing.T) {
	e := newTestServer(new(mockUserLoader), new(mockExpirationChecker))

	assert.Equal(t, http.StatusUnauthorized, doGet(e, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(e, signToken(t, "other-secret", uuid.New(), models.RoleAdmin)).Code)
}

func TestPrincipal_DeletedUser(t *testing.T) {
	users := new(mockUserLoader)
	id := uuid.New()
	users.On("GetByID", mock.Anything, id).Return(nil, fmt.Errorf("user %w", common.ErrNotFound))

	rec := doGet(newTestServer(users, new(mockExpirationChecker)), signToken(t, testSecret, id, models.RoleDentist))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireActivePlan(t *testing.T) {
	cases := []struct {
		name   string
		user   *models.User
		status int
	}{
		{"active dentist", &models.User{Role: models.RoleDentist, PlanStatus: models.PlanStatusActive}, http.StatusOK},
		{"waiting dentist", &models.User{Role: models.RoleDentist, PlanStatus: models.PlanStatusWaiting}, http.StatusForbidden},
		{"expired dentist", &models.User{Role: models.RoleDentist, PlanStatus: models.PlanStatusInactive}, http.StatusForbidden},
		{"admin without plan", &models.User{Role: models.RoleAdmin, PlanStatus: models.PlanStatusPending}, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := new(mockUserLoader)
			checker := new(mockExpirationChecker)
			tc.user.ID = uuid.New()
			users.On("GetByID", mock.Anything, tc.user.ID).Return(tc.user, nil)
			checker.On("CheckAndUpdateExpiration", mock.Anything, tc.user).Return(tc.user, nil).Maybe()

			rec := doGet(newTestServer(users, checker, RequireActivePlan()), signToken(t, testSecret, tc.user.ID, tc.user.Role))

			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	users := new(mockUserLoader)
	checker := new(mockExpirationChecker)
	dentist := &models.User{ID: uuid.New(), Role: models.RoleDentist, PlanStatus: models.PlanStatusActive}
	admin := &models.User{ID: uuid.New(), Role: models.RoleAdmin}
	users.On("GetByID", mock.Anything, dentist.ID).Return(dentist, nil)
	users.On("GetByID", mock.Anything, admin.ID).Return(admin, nil)
	checker.On("CheckAndUpdateExpiration", mock.Anything, dentist).Return(dentist, nil)

	e := newTestServer(users, checker, RequireRole(models.RoleAdmin))

	rec := doGet(e, signToken(t, testSecret, dentist.ID, models.RoleDentist))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"FORBIDDEN"`)
	assert.Contains(t, rec.Body.String(), "insufficient permissions")
	assert.Equal(t, http.StatusOK, doGet(e, signToken(t, testSecret, admin.ID, models.RoleAdmin)).Code)
}

func TestPrincipal_ExpirationFailureIsServerError(t *testing.T) {
	users := new(mockUserLoader)
	checker := new(mockExpirationChecker)
	user := &models.User{ID: uuid.New(), Role: models.RoleDentist}
	users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	checker.On("CheckAndUpdateExpiration", mock.Anything, user).Return(nil, errors.New("db down"))

	rec := doGet(newTestServer(users, checker), signToken(t, testSecret, user.ID, models.RoleDentist))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestIPRateLimit(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = common.HTTPErrorHandler
	e.POST("/auth/login", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, IPRateLimit(0.001, 2))

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}

func TestVersionHeader(t *testing.T) {
	e := echo.New()
	e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, VersionHeader(APIVersion))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, "v1", rec.Header().Get("X-API-Version"))
}

func TestAuditWrites(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	e := echo.New()
	e.HTTPErrorHandler = common.HTTPErrorHandler
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.SetRequest(c.Request().WithContext(logger.WithContext(c.Request().Context(), zap.New(core))))
			return next(c)
		}
	})
	handler := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }
	e.GET("/api/admin/plans", handler, AuditWrites())
	e.DELETE("/api/admin/plans/:id", handler, AuditWrites())

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/admin/plans", nil))
	assert.Zero(t, logs.Len())

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/api/admin/plans/42", nil))
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "DELETE /api/admin/plans/:id", fields["action"])
	assert.Equal(t, "42", fields["param_id"])
	assert.EqualValues(t, http.StatusNoContent, fields["status"])
}
