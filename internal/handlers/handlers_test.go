package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dentiq/internal/common"
	"dentiq/internal/models"
	"dentiq/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestEcho(user *models.User) *echo.Echo {
	e := echo.New()
	e.Validator = common.NewRequestValidator()
	e.HTTPErrorHandler = common.HTTPErrorHandler
	if user != nil {
		e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				c.SetRequest(c.Request().WithContext(common.WithPrincipal(c.Request().Context(), user)))
				return next(c)
			}
		})
	}
	return e
}

func serve(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func dentist() *models.User {
	return &models.User{ID: uuid.New(), Username: "drsmile", Role: models.RoleDentist, PlanStatus: models.PlanStatusActive}
}

func admin() *models.User {
	return &models.User{ID: uuid.New(), Username: "root", Role: models.RoleAdmin}
}

func TestHandPaymentHandlers_Create(t *testing.T) {
	user := dentist()
	svc := new(MockHandPaymentService)
	e := newTestEcho(user)
	e.POST("/api/hand-payments/create", NewHandPaymentHandlers(svc).Create)

	planID := uuid.New()
	payment := &models.HandPayment{ID: uuid.New(), UserID: user.ID, PlanID: planID, Status: models.PaymentStatusPending}
	svc.On("Create", mock.Anything, user.ID, mock.MatchedBy(func(in services.CreateHandPaymentInput) bool {
		return in.PlanID == planID && in.BillingCycle == "YEARLY" && in.Amount == nil
	})).Return(payment, nil)

	rec := serve(e, http.MethodPost, "/api/hand-payments/create", fmt.Sprintf(`{"plan_id":%q,"billing_cycle":"YEARLY"}`, planID))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, payment.ID.String(), decode(t, rec)["id"])
	svc.AssertExpectations(t)
}

func TestHandPaymentHandlers_CreateValidation(t *testing.T) {
	svc := new(MockHandPaymentService)
	e := newTestEcho(dentist())
	e.POST("/api/hand-payments/create", NewHandPaymentHandlers(svc).Create)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing plan", `{}`, "plan_id"},
		{"plan not a uuid", `{"plan_id":"basic"}`, "plan_id"},
		{"unknown cycle", fmt.Sprintf(`{"plan_id":%q,"billing_cycle":"WEEKLY"}`, uuid.New()), "billing_cycle"},
		{"negative amount", fmt.Sprintf(`{"plan_id":%q,"amount":-5}`, uuid.New()), "amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(e, http.MethodPost, "/api/hand-payments/create", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			details := decode(t, rec)["error"].(map[string]any)["details"].(map[string]any)
			assert.Contains(t, details, tt.field)
		})
	}
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandPaymentHandlers_ConfirmUsesActingAdmin(t *testing.T) {
	actor := admin()
	svc := new(MockHandPaymentService)
	e := newTestEcho(actor)
	h := NewHandPaymentHandlers(svc)
	e.POST("/api/hand-payments/confirm/:id", h.Confirm)
	e.POST("/api/hand-payments/reject/:id", h.Reject)

	paymentID := uuid.New()
	svc.On("Confirm", mock.Anything, paymentID, actor.ID).
		Return(&models.HandPayment{ID: paymentID, Status: models.PaymentStatusConfirmed}, nil)
	svc.On("Reject", mock.Anything, paymentID, actor.ID).
		Return(nil, fmt.Errorf("payment is CONFIRMED: %w", common.ErrIllegalTransition))

	rec := serve(e, http.MethodPost, "/api/hand-payments/confirm/"+paymentID.String(), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "CONFIRMED", decode(t, rec)["status"])

	rec = serve(e, http.MethodPost, "/api/hand-payments/reject/"+paymentID.String(), "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ILLEGAL_TRANSITION", decode(t, rec)["error"].(map[string]any)["code"])

	rec = serve(e, http.MethodPost, "/api/hand-payments/confirm/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertExpectations(t)
}

func TestHandPaymentHandlers_MineReturnsEmptyList(t *testing.T) {
	user := dentist()
	svc := new(MockHandPaymentService)
	e := newTestEcho(user)
	e.GET("/api/hand-payments/my-payments", NewHandPaymentHandlers(svc).Mine)

	svc.On("ListForUser", mock.Anything, user.ID, 5, 10).Return(nil, nil)

	rec := serve(e, http.MethodGet, "/api/hand-payments/my-payments?limit=5&offset=10", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, []any{}, body["payments"])
	assert.EqualValues(t, 5, body["limit"])
	assert.EqualValues(t, 10, body["offset"])
}

func TestHandlers_RequirePrincipal(t *testing.T) {
	e := newTestEcho(nil)
	e.GET("/api/hand-payments/my-payments", NewHandPaymentHandlers(new(MockHandPaymentService)).Mine)

	rec := serve(e, http.MethodGet, "/api/hand-payments/my-payments", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPlanHandlers(t *testing.T) {
	svc := new(MockPlanService)
	e := newTestEcho(admin())
	h := NewPlanHandlers(svc)
	e.GET("/api/plans", h.ListActive)
	e.POST("/api/admin/plans", h.Create)
	e.DELETE("/api/admin/plans/:id", h.Deactivate)

	svc.On("ListActive", mock.Anything).Return(nil, nil)
	rec := serve(e, http.MethodGet, "/api/plans", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, decode(t, rec)["plans"])

	input := services.PlanInput{Code: "PRO", Name: "Pro", MonthlyPrice: 30, YearlyMonthlyPrice: 25, DurationDays: 30}
	svc.On("Create", mock.Anything, input).Return(&models.Plan{ID: uuid.New(), Code: "PRO"}, nil)
	rec = serve(e, http.MethodPost, "/api/admin/plans",
		`{"code":"PRO","name":"Pro","monthly_price":30,"yearly_monthly_price":25,"duration_days":30}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = serve(e, http.MethodPost, "/api/admin/plans", `{"code":"PRO","name":"Pro","duration_days":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	id := uuid.New()
	svc.On("Deactivate", mock.Anything, id).Return(nil)
	rec = serve(e, http.MethodDelete, "/api/admin/plans/"+id.String(), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	svc.AssertExpectations(t)
}

func TestAuthHandlers(t *testing.T) {
	svc := new(MockAuthService)
	h := NewAuthHandlers(svc)
	e := newTestEcho(nil)
	e.POST("/auth/register", h.Register)
	e.POST("/auth/login", h.Login)

	svc.On("Register", mock.Anything, services.RegisterInput{
		Username: "drsmile", Email: "dr@smile.io", Password: "s3cretpass", FullName: "Dr Smile",
	}).Return(&models.User{ID: uuid.New(), Username: "drsmile", PlanStatus: models.PlanStatusPending}, nil)
	rec := serve(e, http.MethodPost, "/auth/register",
		`{"username":"drsmile","email":"dr@smile.io","password":"s3cretpass","full_name":"Dr Smile"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "s3cretpass")

	rec = serve(e, http.MethodPost, "/auth/register", `{"username":"dr","email":"nope","password":"short","full_name":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.On("Login", mock.Anything, "drsmile", "wrong").Return(nil, common.ErrInvalidCredential)
	rec = serve(e, http.MethodPost, "/auth/login", `{"login":"drsmile","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	svc.On("Login", mock.Anything, "drsmile", "s3cretpass").
		Return(&services.LoginResult{Token: "tok", TokenType: "Bearer", ExpiresAt: time.Now().Add(time.Hour)}, nil)
	rec = serve(e, http.MethodPost, "/auth/login", `{"login":"drsmile","password":"s3cretpass"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"tok"`)
	svc.AssertExpectations(t)
}

func TestResourceHandlers_CRUD(t *testing.T) {
	user := dentist()
	svc := new(MockTenantService[models.Expense])
	e := newTestEcho(user)
	NewResourceHandlers[models.Expense]("expenses", svc).Register(e.Group("/api/expenses"))

	svc.On("Create", mock.Anything, user.ID, mock.MatchedBy(func(x *models.Expense) bool {
		return x.Title == "Rent" && x.Amount == 1200
	})).Run(func(args mock.Arguments) {
		args.Get(2).(*models.Expense).ID = uuid.New()
	}).Return(nil)
	rec := serve(e, http.MethodPost, "/api/expenses", `{"title":"Rent","category":"office","amount":1200}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEqual(t, uuid.Nil.String(), decode(t, rec)["id"])

	missing := uuid.New()
	svc.On("GetByID", mock.Anything, user.ID, missing).Return(nil, fmt.Errorf("expense %w", common.ErrNotFound))
	rec = serve(e, http.MethodGet, "/api/expenses/"+missing.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	existing := uuid.New()
	svc.On("Update", mock.Anything, user.ID, existing, mock.Anything).Return(nil)
	svc.On("GetByID", mock.Anything, user.ID, existing).Return(&models.Expense{ID: existing, Title: "Rent v2"}, nil)
	rec = serve(e, http.MethodPut, "/api/expenses/"+existing.String(), `{"title":"Rent v2","category":"office","amount":1300}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Rent v2", decode(t, rec)["title"])

	svc.On("Delete", mock.Anything, user.ID, existing).Return(nil)
	rec = serve(e, http.MethodDelete, "/api/expenses/"+existing.String(), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	svc.On("List", mock.Anything, user.ID, common.DefaultPageLimit, 0).Return([]*models.Expense{{ID: existing}}, nil)
	rec = serve(e, http.MethodGet, "/api/expenses", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["expenses"], 1)

	svc.AssertExpectations(t)
}

func TestResourceHandlers_BadJSON(t *testing.T) {
	e := newTestEcho(dentist())
	NewResourceHandlers[models.Expense]("expenses", new(MockTenantService[models.Expense])).Register(e.Group("/api/expenses"))

	rec := serve(e, http.MethodPost, "/api/expenses", `{"title":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFinanceHandlers(t *testing.T) {
	user := dentist()
	svc := new(MockFinanceService)
	h := NewFinanceHandlers(svc)
	now := time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return now }
	e := newTestEcho(user)
	e.GET("/api/finance/cashflow", h.Cashflow)
	e.GET("/api/finance/categories", h.Categories)
	e.GET("/api/finance/summary", h.Summary)

	svc.On("MonthlyCashflow", mock.Anything, user.ID, 2026).Return(make([]models.MonthlyCashflow, 12), nil)
	rec := serve(e, http.MethodGet, "/api/finance/cashflow", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["months"], 12)

	rec = serve(e, http.MethodGet, "/api/finance/cashflow?year=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = serve(e, http.MethodGet, "/api/finance/cashflow?year=1500", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.On("CategoryBreakdown", mock.Anything, user.ID, now).Return([]models.CategoryTotal{{Category: "rent", Total: 900}}, nil)
	rec = serve(e, http.MethodGet, "/api/finance/categories", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	svc.On("Summary", mock.Anything, user.ID, now).Return(&models.FinanceSummary{Net: 42}, nil)
	rec = serve(e, http.MethodGet, "/api/finance/summary", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 42, decode(t, rec)["net"])
	svc.AssertExpectations(t)
}

func TestVerifyHandlers(t *testing.T) {
	user := dentist()
	svc := new(MockVerificationService)
	h := NewVerifyHandlers(svc)
	e := newTestEcho(user)
	e.POST("/api/verify/:channel/send", h.Send)
	e.POST("/api/verify/:channel/confirm", h.Confirm)

	svc.On("Send", mock.Anything, user, services.ChannelEmail).Return(time.Now().Add(10*time.Minute), nil)
	rec := serve(e, http.MethodPost, "/api/verify/email/send", "")
	assert.Equal(t, http.StatusAccepted, rec.Code)

	svc.On("Confirm", mock.Anything, user, services.ChannelPhone, "123456").Return(nil)
	rec = serve(e, http.MethodPost, "/api/verify/phone/confirm", `{"code":"123456"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["verified"])

	rec = serve(e, http.MethodPost, "/api/verify/phone/confirm", `{"code":"12ab"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertExpectations(t)
}

func TestDocumentHandlers_Upload(t *testing.T) {
	user := dentist()
	svc := new(MockDocumentService)
	e := newTestEcho(user)
	e.POST("/api/patients/:id/documents", NewDocumentHandlers(svc).Upload)

	patientID := uuid.New()
	svc.On("Upload", mock.Anything, user.ID, mock.MatchedBy(func(in services.UploadInput) bool {
		return in.PatientID == patientID && in.FileName == "xray.png" && in.Size == 4
	})).Return(&models.PatientDocument{ID: uuid.New(), PatientID: patientID, FileName: "xray.png"}, nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "xray.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("\x89PNG"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/patients/"+patientID.String()+"/documents", &body)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestDocumentHandlers_UploadRequiresFile(t *testing.T) {
	e := newTestEcho(dentist())
	e.POST("/api/patients/:id/documents", NewDocumentHandlers(new(MockDocumentService)).Upload)

	rec := serve(e, http.MethodPost, "/api/patients/"+uuid.New().String()+"/documents", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDocumentHandlers_DownloadURL(t *testing.T) {
	user := dentist()
	svc := new(MockDocumentService)
	e := newTestEcho(user)
	e.GET("/api/documents/:id/url", NewDocumentHandlers(svc).DownloadURL)

	id := uuid.New()
	svc.On("DownloadURL", mock.Anything, user.ID, id).Return("https://files.local/x", time.Now().Add(time.Minute), nil)

	rec := serve(e, http.MethodGet, "/api/documents/"+id.String()+"/url", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://files.local/x", decode(t, rec)["url"])
}

func TestAdminHandlers_ExpireNow(t *testing.T) {
	payments := new(MockHandPaymentService)
	e := newTestEcho(admin())
	e.POST("/api/admin/billing/expire", NewAdminHandlers(nil, payments).ExpireNow)

	payments.On("ExpireOverdue", mock.Anything).Return(2, nil)

	rec := serve(e, http.MethodPost, "/api/admin/billing/expire", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, decode(t, rec)["expired"])
}

func TestJobHandlers(t *testing.T) {
	runner := new(MockJobRunner)
	e := newTestEcho(admin())
	h := NewJobHandlers(runner)
	e.GET("/api/admin/jobs", h.List)
	e.POST("/api/admin/jobs/:name/run", h.Trigger)

	runner.On("JobNames").Return([]string{"inventory-low-stock", "plan-expiration-sweep"})
	runner.On("RunNow", "plan-expiration-sweep").Return(nil)
	runner.On("RunNow", "reindex").Return(fmt.Errorf("job %q %w", "reindex", common.ErrNotFound))

	rec := serve(e, http.MethodGet, "/api/admin/jobs", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["jobs"], 2)

	rec = serve(e, http.MethodPost, "/api/admin/jobs/plan-expiration-sweep/run", "")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "triggered", decode(t, rec)["status"])

	rec = serve(e, http.MethodPost, "/api/admin/jobs/reindex/run", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	runner.AssertExpectations(t)
}

func TestHealthHandlers(t *testing.T) {
	up := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("connection refused") })

	e := echo.New()
	healthy := NewHealthHandlers("test", map[string]Pinger{"database": up})
	broken := NewHealthHandlers("test", map[string]Pinger{"database": up, "redis": down})
	e.GET("/health", healthy.LivenessCheck)
	e.GET("/ready", healthy.ReadinessCheck)
	e.GET("/broken", broken.ReadinessCheck)

	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/ready", "").Code)

	rec := serve(e, http.MethodGet, "/broken", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	checks := decode(t, rec)["services"].(map[string]any)
	assert.Equal(t, "unhealthy", checks["redis"])
	assert.Equal(t, "healthy", checks["database"])
}
