package services

import (
	"context"
	"time"

	"dentiq/internal/models"
	"dentiq/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

func stringPtr(s string) *string {
	return &s
}

func floatPtr(f float64) *float64 {
	return &f
}

// fakeTxRunner runs fn without a real transaction. Repository mocks ignore
// the nil tx handed to WithTx.
type fakeTxRunner struct {
	calls int
}

func (f *fakeTxRunner) WithinTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	f.calls++
	return fn(nil)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePlanState(ctx context.Context, id uuid.UUID, status models.PlanStatus, planID *uuid.UUID, expiration *time.Time) error {
	args := m.Called(ctx, id, status, planID, expiration)
	return args.Error(0)
}

func (m *MockUserRepository) TransitionPlanStatus(ctx context.Context, id uuid.UUID, from, to models.PlanStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ListExpired(ctx context.Context, now time.Time, limit int) ([]*models.User, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) MarkPhoneVerified(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) ListDentistIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockUserRepository) WithTx(tx pgx.Tx) repositories.UserRepository {
	return m
}

type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) Create(ctx context.Context, plan *models.Plan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockPlanRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Plan), args.Error(1)
}

func (m *MockPlanRepository) Update(ctx context.Context, plan *models.Plan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockPlanRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *MockPlanRepository) ListActive(ctx context.Context) ([]*models.Plan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Plan), args.Error(1)
}

func (m *MockPlanRepository) ListAll(ctx context.Context) ([]*models.Plan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Plan), args.Error(1)
}

func (m *MockPlanRepository) WithTx(tx pgx.Tx) repositories.PlanRepository {
	return m
}

type MockHandPaymentRepository struct {
	mock.Mock
}

func (m *MockHandPaymentRepository) Create(ctx context.Context, payment *models.HandPayment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockHandPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.HandPayment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.HandPayment), args.Error(1)
}

func (m *MockHandPaymentRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.HandPayment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.HandPayment), args.Error(1)
}

func (m *MockHandPaymentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.PaymentStatus, processedAt time.Time, processedBy uuid.UUID) error {
	args := m.Called(ctx, id, from, to, processedAt, processedBy)
	return args.Error(0)
}

func (m *MockHandPaymentRepository) HasPending(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockHandPaymentRepository) ListByStatus(ctx context.Context, status models.PaymentStatus, limit, offset int) ([]*models.HandPayment, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.HandPayment), args.Error(1)
}

func (m *MockHandPaymentRepository) ListAll(ctx context.Context, limit, offset int) ([]*models.HandPayment, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.HandPayment), args.Error(1)
}

func (m *MockHandPaymentRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.HandPayment, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.HandPayment), args.Error(1)
}

func (m *MockHandPaymentRepository) WithTx(tx pgx.Tx) repositories.HandPaymentRepository {
	return m
}

type MockBillingAuditRepository struct {
	mock.Mock
}

func (m *MockBillingAuditRepository) Create(ctx context.Context, entry *models.BillingAuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockBillingAuditRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.BillingAuditEntry, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BillingAuditEntry), args.Error(1)
}

func (m *MockBillingAuditRepository) WithTx(tx pgx.Tx) repositories.BillingAuditRepository {
	return m
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	args := m.Called(ctx, routingKey, payload)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetReport(ctx context.Context, ownerID uuid.UUID, report string, dest any) (bool, error) {
	args := m.Called(ctx, ownerID, report, dest)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) SetReport(ctx context.Context, ownerID uuid.UUID, report string, value any, ttl time.Duration) error {
	args := m.Called(ctx, ownerID, report, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateTenantCache(ctx context.Context, ownerID uuid.UUID) error {
	args := m.Called(ctx, ownerID)
	return args.Error(0)
}

func (m *MockCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetString(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockFinanceRepository struct {
	mock.Mock
}

func (m *MockFinanceRepository) MonthlyPayments(ctx context.Context, ownerID uuid.UUID, year int) (map[int]float64, error) {
	args := m.Called(ctx, ownerID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]float64), args.Error(1)
}

func (m *MockFinanceRepository) MonthlyExpenses(ctx context.Context, ownerID uuid.UUID, year int) (map[int]float64, error) {
	args := m.Called(ctx, ownerID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]float64), args.Error(1)
}

func (m *MockFinanceRepository) MonthlyPurchases(ctx context.Context, ownerID uuid.UUID, year int) (map[int]float64, error) {
	args := m.Called(ctx, ownerID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]float64), args.Error(1)
}

func (m *MockFinanceRepository) ExpensesByCategory(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]models.CategoryTotal, error) {
	args := m.Called(ctx, ownerID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CategoryTotal), args.Error(1)
}

func (m *MockFinanceRepository) SumPayments(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (float64, error) {
	args := m.Called(ctx, ownerID, from, to)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockFinanceRepository) SumExpenses(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (float64, error) {
	args := m.Called(ctx, ownerID, from, to)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockFinanceRepository) SumTreatments(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (float64, error) {
	args := m.Called(ctx, ownerID, from, to)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockFinanceRepository) InventoryValue(ctx context.Context, ownerID uuid.UUID) (float64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(float64), args.Error(1)
}

type MockTenantRepository[T any] struct {
	mock.Mock
}

func (m *MockTenantRepository[T]) Create(ctx context.Context, entity *T) error {
	return m.Called(ctx, entity).Error(0)
}

func (m *MockTenantRepository[T]) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*T, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockTenantRepository[T]) Update(ctx context.Context, entity *T) error {
	return m.Called(ctx, entity).Error(0)
}

func (m *MockTenantRepository[T]) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return m.Called(ctx, ownerID, id).Error(0)
}

func (m *MockTenantRepository[T]) List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*T, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*T), args.Error(1)
}

type MockPatientRepository struct {
	MockTenantRepository[models.Patient]
}

func (m *MockPatientRepository) Search(ctx context.Context, ownerID uuid.UUID, term string, limit, offset int) ([]*models.Patient, error) {
	args := m.Called(ctx, ownerID, term, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Patient), args.Error(1)
}

type MockTreatmentRepository struct {
	MockTenantRepository[models.Treatment]
}

func (m *MockTreatmentRepository) ListByPatient(ctx context.Context, ownerID, patientID uuid.UUID) ([]*models.Treatment, error) {
	args := m.Called(ctx, ownerID, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Treatment), args.Error(1)
}

type MockItemRepository struct {
	MockTenantRepository[models.Item]
}

func (m *MockItemRepository) ListLowStock(ctx context.Context, ownerID uuid.UUID) ([]*models.Item, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Item), args.Error(1)
}

type MockTenantInvalidator struct {
	mock.Mock
}

func (m *MockTenantInvalidator) InvalidateTenant(ctx context.Context, ownerID uuid.UUID) {
	m.Called(ctx, ownerID)
}
