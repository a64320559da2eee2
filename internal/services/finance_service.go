package services

import (
	"context"
	"fmt"
	"time"

	"dentiq/internal/caching"
	"dentiq/internal/models"
	"dentiq/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FinanceService builds the per-tenant finance reports. Reports are cached
// per tenant and dropped by InvalidateTenant whenever revenue, expense or
// stock data of that tenant changes.
type FinanceService interface {
	MonthlyCashflow(ctx context.Context, ownerID uuid.UUID, year int) ([]models.MonthlyCashflow, error)
	CategoryBreakdown(ctx context.Context, ownerID uuid.UUID, now time.Time) ([]models.CategoryTotal, error)
	Summary(ctx context.Context, ownerID uuid.UUID, now time.Time) (*models.FinanceSummary, error)
	InvalidateTenant(ctx context.Context, ownerID uuid.UUID)
}

type financeService struct {
	repo  repositories.FinanceRepository
	cache caching.CacheService
	ttl   time.Duration
	log   *zap.Logger
}

func NewFinanceService(repo repositories.FinanceRepository, cache caching.CacheService, ttl time.Duration, log *zap.Logger) FinanceService {
	return &financeService{repo: repo, cache: cache, ttl: ttl, log: log}
}

func (s *financeService) MonthlyCashflow(ctx context.Context, ownerID uuid.UUID, year int) ([]models.MonthlyCashflow, error) {
	report := fmt.Sprintf("cashflow:%d", year)
	var cached []models.MonthlyCashflow
	if s.fromCache(ctx, ownerID, report, &cached) {
		return cached, nil
	}

	revenue, err := s.repo.MonthlyPayments(ctx, ownerID, year)
	if err != nil {
		return nil, fmt.Errorf("monthly payments: %w", err)
	}
	expenses, err := s.repo.MonthlyExpenses(ctx, ownerID, year)
	if err != nil {
		return nil, fmt.Errorf("monthly expenses: %w", err)
	}
	purchases, err := s.repo.MonthlyPurchases(ctx, ownerID, year)
	if err != nil {
		return nil, fmt.Errorf("monthly purchases: %w", err)
	}

	rows := make([]models.MonthlyCashflow, 12)
	for i := range rows {
		month := i + 1
		out := expenses[month] + purchases[month]
		rows[i] = models.MonthlyCashflow{
			Month:    month,
			Revenue:  revenue[month],
			Expenses: out,
			Net:      revenue[month] - out,
		}
	}

	s.toCache(ctx, ownerID, report, rows)
	return rows, nil
}

// CategoryBreakdown totals expenses per category from the first day of the
// current month up to now.
func (s *financeService) CategoryBreakdown(ctx context.Context, ownerID uuid.UUID, now time.Time) ([]models.CategoryTotal, error) {
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	report := "categories:" + from.Format("2006-01")

	var cached []models.CategoryTotal
	if s.fromCache(ctx, ownerID, report, &cached) {
		return cached, nil
	}

	totals, err := s.repo.ExpensesByCategory(ctx, ownerID, from, now)
	if err != nil {
		return nil, fmt.Errorf("expenses by category: %w", err)
	}
	if totals == nil {
		totals = []models.CategoryTotal{}
	}

	s.toCache(ctx, ownerID, report, totals)
	return totals, nil
}

// summaryResolution is the step the rolling summary window moves in. A
// cached summary is keyed by its window end, so it never outlives it.
const summaryResolution = time.Minute

// Summary covers the window (end - 1 month, end], where end is now truncated
// to summaryResolution.
func (s *financeService) Summary(ctx context.Context, ownerID uuid.UUID, now time.Time) (*models.FinanceSummary, error) {
	end := now.Truncate(summaryResolution)
	report := "summary:" + end.UTC().Format(time.RFC3339)
	cached := &models.FinanceSummary{}
	if s.fromCache(ctx, ownerID, report, cached) {
		return cached, nil
	}

	from := end.AddDate(0, -1, 0)
	summary := &models.FinanceSummary{From: from, To: end}

	var err error
	if summary.TotalExpenses, err = s.repo.SumExpenses(ctx, ownerID, from, end); err != nil {
		return nil, fmt.Errorf("sum expenses: %w", err)
	}
	if summary.TotalPayments, err = s.repo.SumPayments(ctx, ownerID, from, end); err != nil {
		return nil, fmt.Errorf("sum payments: %w", err)
	}
	if summary.TreatmentRevenue, err = s.repo.SumTreatments(ctx, ownerID, from, end); err != nil {
		return nil, fmt.Errorf("sum treatments: %w", err)
	}
	if summary.InventoryValue, err = s.repo.InventoryValue(ctx, ownerID); err != nil {
		return nil, fmt.Errorf("inventory value: %w", err)
	}
	summary.Net = summary.TotalPayments - summary.TotalExpenses

	s.toCache(ctx, ownerID, report, summary)
	return summary, nil
}

// InvalidateTenant drops every cached report of the tenant. Failures are
// logged; the cache TTL bounds how stale a report can get.
func (s *financeService) InvalidateTenant(ctx context.Context, ownerID uuid.UUID) {
	if err := s.cache.InvalidateTenantCache(ctx, ownerID); err != nil {
		s.log.Warn("failed to invalidate finance cache", zap.String("owner_id", ownerID.String()), zap.Error(err))
	}
}

func (s *financeService) fromCache(ctx context.Context, ownerID uuid.UUID, report string, dest any) bool {
	hit, err := s.cache.GetReport(ctx, ownerID, report, dest)
	if err != nil {
		s.log.Warn("finance cache read failed", zap.String("report", report), zap.Error(err))
		return false
	}
	return hit
}

func (s *financeService) toCache(ctx context.Context, ownerID uuid.UUID, report string, value any) {
	if err := s.cache.SetReport(ctx, ownerID, report, value, s.ttl); err != nil {
		s.log.Warn("finance cache write failed", zap.String("report", report), zap.Error(err))
	}
}
