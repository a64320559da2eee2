package repositories

import (
	"context"
	"testing"
	"time"

	"dentiq/internal/common"
	"dentiq/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type PlanRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    PlanRepository
	context context.Context
}

func (suite *PlanRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewPlanRepository(mock)
	suite.context = context.Background()
}

func (suite *PlanRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestPlanRepoTestSuite(t *testing.T) {
	suite.Run(t, new(PlanRepoTestSuite))
}

func planRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "code", "name", "monthly_price", "yearly_monthly_price", "duration_days", "active", "created_at", "updated_at"})
}

func (suite *PlanRepoTestSuite) TestCreate_DuplicateCode() {
	plan := &models.Plan{ID: uuid.New(), Code: "BASIC", Name: "Basic", MonthlyPrice: 20, YearlyMonthlyPrice: 16, DurationDays: 30, Active: true}

	suite.mock.ExpectExec(`INSERT INTO plans`).
		WithArgs(plan.ID, plan.Code, plan.Name, plan.MonthlyPrice, plan.YearlyMonthlyPrice, plan.DurationDays, plan.Active).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "plans_code_key"})

	err := suite.repo.Create(suite.context, plan)
	assert.ErrorIs(suite.T(), err, common.ErrConflict)
}

func (suite *PlanRepoTestSuite) TestGetByID_NotFound() {
	id := uuid.New()
	suite.mock.ExpectQuery(`FROM plans WHERE id = \$1`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	plan, err := suite.repo.GetByID(suite.context, id)
	assert.Nil(suite.T(), plan)
	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
	assert.EqualError(suite.T(), err, "plan not found")
}

func (suite *PlanRepoTestSuite) TestSetActive_Deactivates() {
	id := uuid.New()
	suite.mock.ExpectExec(`UPDATE plans SET active = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs(false, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(suite.T(), suite.repo.SetActive(suite.context, id, false))
}

func (suite *PlanRepoTestSuite) TestUpdate_MissingPlan() {
	plan := &models.Plan{ID: uuid.New(), Code: "PRO", Name: "Pro", MonthlyPrice: 50, YearlyMonthlyPrice: 40, DurationDays: 30}
	suite.mock.ExpectExec(`UPDATE plans`).
		WithArgs(plan.Code, plan.Name, plan.MonthlyPrice, plan.YearlyMonthlyPrice, plan.DurationDays, plan.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.Update(suite.context, plan)
	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
}

func (suite *PlanRepoTestSuite) TestListActive() {
	now := time.Now()
	suite.mock.ExpectQuery(`FROM plans WHERE active = TRUE ORDER BY monthly_price, code`).
		WillReturnRows(planRows().
			AddRow(uuid.New(), "TRIAL", "Trial", 0.0, 0.0, 7, true, now, now).
			AddRow(uuid.New(), "BASIC", "Basic", 20.0, 16.0, 30, true, now, now))

	plans, err := suite.repo.ListActive(suite.context)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), plans, 2)
	assert.Equal(suite.T(), "TRIAL", plans[0].Code)
}
