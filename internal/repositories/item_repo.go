package repositories

import (
	"context"

	"dentiq/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Item, error)
	Update(ctx context.Context, item *models.Item) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Item, error)
	ListLowStock(ctx context.Context, ownerID uuid.UUID) ([]*models.Item, error)
}

type itemRepo struct {
	db DBTX
}

func NewItemRepository(db DBTX) ItemRepository {
	return &itemRepo{db: db}
}

const itemColumns = `id, created_by, name, category, quantity, unit_price, minimum_stock, supplier, purchase_date, created_at, updated_at`

func scanItem(row pgx.Row) (*models.Item, error) {
	i := &models.Item{}
	err := row.Scan(&i.ID, &i.CreatedBy, &i.Name, &i.Category, &i.Quantity, &i.UnitPrice, &i.MinimumStock, &i.Supplier,
		&i.PurchaseDate, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return i, nil
}

func (r *itemRepo) Create(ctx context.Context, item *models.Item) error {
	query := `
		INSERT INTO items (id, created_by, name, category, quantity, unit_price, minimum_stock, supplier, purchase_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, item.ID, item.CreatedBy, item.Name, item.Category, item.Quantity, item.UnitPrice,
		item.MinimumStock, item.Supplier, item.PurchaseDate)
	return translateError("item", err)
}

func (r *itemRepo) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE created_by = $1 AND id = $2`
	item, err := scanItem(r.db.QueryRow(ctx, query, ownerID, id))
	if err != nil {
		return nil, translateError("item", err)
	}
	return item, nil
}

func (r *itemRepo) Update(ctx context.Context, item *models.Item) error {
	query := `
		UPDATE items
		SET name = $1, category = $2, quantity = $3, unit_price = $4, minimum_stock = $5, supplier = $6, purchase_date = $7, updated_at = NOW()
		WHERE created_by = $8 AND id = $9
	`
	tag, err := r.db.Exec(ctx, query, item.Name, item.Category, item.Quantity, item.UnitPrice, item.MinimumStock,
		item.Supplier, item.PurchaseDate, item.CreatedBy, item.ID)
	return expectAffected("item", tag, err)
}

func (r *itemRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	query := `DELETE FROM items WHERE created_by = $1 AND id = $2`
	tag, err := r.db.Exec(ctx, query, ownerID, id)
	return expectAffected("item", tag, err)
}

func (r *itemRepo) List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE created_by = $1
		ORDER BY name
		LIMIT $2 OFFSET $3
	`
	return r.queryItems(ctx, query, ownerID, limit, offset)
}

// ListLowStock returns items at or below their minimum stock level.
func (r *itemRepo) ListLowStock(ctx context.Context, ownerID uuid.UUID) ([]*models.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE created_by = $1 AND quantity <= minimum_stock
		ORDER BY quantity, name
	`
	return r.queryItems(ctx, query, ownerID)
}

func (r *itemRepo) queryItems(ctx context.Context, query string, args ...any) ([]*models.Item, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
