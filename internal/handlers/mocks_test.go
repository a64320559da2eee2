package handlers

import (
	"context"
	"time"

	"dentiq/internal/models"
	"dentiq/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockHandPaymentService struct {
	mock.Mock
}

func (m *MockHandPaymentService) Create(ctx context.Context, userID uuid.UUID, input services.CreateHandPaymentInput) (*models.HandPayment, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.HandPayment), args.Error(1)
}

func (m *MockHandPaymentService) Confirm(ctx context.Context, paymentID, adminID uuid.UUID) (*models.HandPayment, error) {
	args := m.Called(ctx, paymentID, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.HandPayment), args.Error(1)
}

func (m *MockHandPaymentService) Reject(ctx context.Context, paymentID, adminID uuid.UUID) (*models.HandPayment, error) {
	args := m.Called(ctx, paymentID, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.HandPayment), args.Error(1)
}

func (m *MockHandPaymentService) CheckAndUpdateExpiration(ctx context.Context, user *models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockHandPaymentService) ExpireOverdue(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockHandPaymentService) ListPending(ctx context.Context, limit, offset int) ([]*models.HandPayment, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.HandPayment), args.Error(1)
}

func (m *MockHandPaymentService) ListAll(ctx context.Context, limit, offset int) ([]*models.HandPayment, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.HandPayment), args.Error(1)
}

func (m *MockHandPaymentService) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.HandPayment, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.HandPayment), args.Error(1)
}

func (m *MockHandPaymentService) History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.BillingAuditEntry, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BillingAuditEntry), args.Error(1)
}

type MockPlanService struct {
	mock.Mock
}

func (m *MockPlanService) ListActive(ctx context.Context) ([]*models.Plan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Plan), args.Error(1)
}

func (m *MockPlanService) ListAll(ctx context.Context) ([]*models.Plan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Plan), args.Error(1)
}

func (m *MockPlanService) GetByID(ctx context.Context, id uuid.UUID) (*models.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Plan), args.Error(1)
}

func (m *MockPlanService) Create(ctx context.Context, input services.PlanInput) (*models.Plan, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Plan), args.Error(1)
}

func (m *MockPlanService) Update(ctx context.Context, id uuid.UUID, input services.PlanInput) (*models.Plan, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Plan), args.Error(1)
}

func (m *MockPlanService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, input services.RegisterInput) (*models.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, login, password string) (*services.LoginResult, error) {
	args := m.Called(ctx, login, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.LoginResult), args.Error(1)
}

func (m *MockAuthService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	return m.Called(ctx, username, email, password).Error(0)
}

func (m *MockAuthService) GenerateToken(user *models.User) (string, time.Time, error) {
	args := m.Called(user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

type MockTenantService[T any] struct {
	mock.Mock
}

func (m *MockTenantService[T]) Create(ctx context.Context, ownerID uuid.UUID, entity *T) error {
	return m.Called(ctx, ownerID, entity).Error(0)
}

func (m *MockTenantService[T]) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*T, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockTenantService[T]) Update(ctx context.Context, ownerID, id uuid.UUID, entity *T) error {
	return m.Called(ctx, ownerID, id, entity).Error(0)
}

func (m *MockTenantService[T]) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return m.Called(ctx, ownerID, id).Error(0)
}

func (m *MockTenantService[T]) List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*T, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*T), args.Error(1)
}

type MockFinanceService struct {
	mock.Mock
}

func (m *MockFinanceService) MonthlyCashflow(ctx context.Context, ownerID uuid.UUID, year int) ([]models.MonthlyCashflow, error) {
	args := m.Called(ctx, ownerID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MonthlyCashflow), args.Error(1)
}

func (m *MockFinanceService) CategoryBreakdown(ctx context.Context, ownerID uuid.UUID, now time.Time) ([]models.CategoryTotal, error) {
	args := m.Called(ctx, ownerID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CategoryTotal), args.Error(1)
}

func (m *MockFinanceService) Summary(ctx context.Context, ownerID uuid.UUID, now time.Time) (*models.FinanceSummary, error) {
	args := m.Called(ctx, ownerID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FinanceSummary), args.Error(1)
}

func (m *MockFinanceService) InvalidateTenant(ctx context.Context, ownerID uuid.UUID) {
	m.Called(ctx, ownerID)
}

type MockVerificationService struct {
	mock.Mock
}

func (m *MockVerificationService) Send(ctx context.Context, user *models.User, channel services.VerificationChannel) (time.Time, error) {
	args := m.Called(ctx, user, channel)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockVerificationService) Confirm(ctx context.Context, user *models.User, channel services.VerificationChannel, code string) error {
	return m.Called(ctx, user, channel, code).Error(0)
}

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Upload(ctx context.Context, ownerID uuid.UUID, input services.UploadInput) (*models.PatientDocument, error) {
	args := m.Called(ctx, ownerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PatientDocument), args.Error(1)
}

func (m *MockDocumentService) ListByPatient(ctx context.Context, ownerID, patientID uuid.UUID) ([]*models.PatientDocument, error) {
	args := m.Called(ctx, ownerID, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PatientDocument), args.Error(1)
}

func (m *MockDocumentService) DownloadURL(ctx context.Context, ownerID, id uuid.UUID) (string, time.Time, error) {
	args := m.Called(ctx, ownerID, id)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockDocumentService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return m.Called(ctx, ownerID, id).Error(0)
}

type MockJobRunner struct {
	mock.Mock
}

func (m *MockJobRunner) RunNow(name string) error {
	return m.Called(name).Error(0)
}

func (m *MockJobRunner) JobNames() []string {
	return m.Called().Get(0).([]string)
}
