package repositories

import (
	"context"
	"testing"
	"time"

	"dentiq/internal/common"
	"dentiq/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "created_by", "name", "category", "quantity", "unit_price", "minimum_stock",
		"supplier", "purchase_date", "created_at", "updated_at"})
}

func TestItemRepo_ListLowStock(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewItemRepository(mock)
	ownerID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`WHERE created_by = \$1 AND quantity <= minimum_stock`).
		WithArgs(ownerID).
		WillReturnRows(itemRows().
			AddRow(uuid.New(), ownerID, "Gloves", stringPtr("Consumables"), 2, 5.5, 10, nil, nil, now, now).
			AddRow(uuid.New(), ownerID, "Composite", nil, 3, 40.0, 3, stringPtr("DentalCo"), &now, now, now))

	items, err := repo.ListLowStock(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.True(t, item.IsLowStock())
	}
	assert.Equal(t, "DentalCo", *items[1].Supplier)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepo_CreateForeignKeyViolation(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewItemRepository(mock)
	item := &models.Item{ID: uuid.New(), CreatedBy: uuid.New(), Name: "Gloves", Quantity: 1, UnitPrice: 2, MinimumStock: 5}

	mock.ExpectExec(`INSERT INTO items`).
		WithArgs(item.ID, item.CreatedBy, item.Name, item.Category, item.Quantity, item.UnitPrice, item.MinimumStock,
			item.Supplier, item.PurchaseDate).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "items_created_by_fkey"})

	err = repo.Create(context.Background(), item)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

// Every tenant-scoped delete must carry the owner in its predicate.
func TestTenantRepos_DeleteIsOwnerScoped(t *testing.T) {
	cases := []struct {
		table string
		del   func(db DBTX, owner, id uuid.UUID) error
	}{
		{"appointments", func(db DBTX, o, id uuid.UUID) error { return NewAppointmentRepository(db).Delete(context.Background(), o, id) }},
		{"treatment_catalog", func(db DBTX, o, id uuid.UUID) error { return NewTreatmentCatalogRepository(db).Delete(context.Background(), o, id) }},
		{"treatments", func(db DBTX, o, id uuid.UUID) error { return NewTreatmentRepository(db).Delete(context.Background(), o, id) }},
		{"payments", func(db DBTX, o, id uuid.UUID) error { return NewPaymentRepository(db).Delete(context.Background(), o, id) }},
		{"items", func(db DBTX, o, id uuid.UUID) error { return NewItemRepository(db).Delete(context.Background(), o, id) }},
		{"expenses", func(db DBTX, o, id uuid.UUID) error { return NewExpenseRepository(db).Delete(context.Background(), o, id) }},
		{"medications", func(db DBTX, o, id uuid.UUID) error { return NewMedicationRepository(db).Delete(context.Background(), o, id) }},
		{"prescriptions", func(db DBTX, o, id uuid.UUID) error { return NewPrescriptionRepository(db).Delete(context.Background(), o, id) }},
		{"employees", func(db DBTX, o, id uuid.UUID) error { return NewEmployeeRepository(db).Delete(context.Background(), o, id) }},
		{"working_hours", func(db DBTX, o, id uuid.UUID) error { return NewWorkingHoursRepository(db).Delete(context.Background(), o, id) }},
		{"patient_documents", func(db DBTX, o, id uuid.UUID) error { return NewPatientDocumentRepository(db).Delete(context.Background(), o, id) }},
	}

	for _, tc := range cases {
		t.Run(tc.table, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			owner, other, id := uuid.New(), uuid.New(), uuid.New()
			mock.ExpectExec(`DELETE FROM ` + tc.table + ` WHERE created_by = \$1 AND id = \$2`).
				WithArgs(owner, id).
				WillReturnResult(pgxmock.NewResult("DELETE", 1))
			mock.ExpectExec(`DELETE FROM ` + tc.table + ` WHERE created_by = \$1 AND id = \$2`).
				WithArgs(other, id).
				WillReturnResult(pgxmock.NewResult("DELETE", 0))

			assert.NoError(t, tc.del(mock, owner, id))
			assert.ErrorIs(t, tc.del(mock, other, id), common.ErrNotFound)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
