package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dentiq/internal/events"
	"dentiq/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DentistLister interface {
	ListDentistIDs(ctx context.Context) ([]uuid.UUID, error)
}

type LowStockLister interface {
	ListLowStock(ctx context.Context, ownerID uuid.UUID) ([]*models.Item, error)
}

// InventoryAlertService finds items at or below their minimum stock and
// publishes one alert per practice.
type InventoryAlertService struct {
	dentists  DentistLister
	items     LowStockLister
	publisher events.Publisher
	log       *zap.Logger
	now       func() time.Time
}

func NewInventoryAlertService(dentists DentistLister, items LowStockLister, publisher events.Publisher, log *zap.Logger) *InventoryAlertService {
	return &InventoryAlertService{
		dentists:  dentists,
		items:     items,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// CheckLowStock builds the alert for a single practice. It returns nil when
// nothing is low.
func (a *InventoryAlertService) CheckLowStock(ctx context.Context, ownerID uuid.UUID) (*events.LowStockAlert, error) {
	items, err := a.items.ListLowStock(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list low stock for %s: %w", ownerID, err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	alert := &events.LowStockAlert{
		OwnerID:   ownerID,
		Items:     make([]events.LowStockItem, 0, len(items)),
		CheckedAt: a.now().UTC(),
	}
	for _, item := range items {
		alert.Items = append(alert.Items, events.LowStockItem{
			ItemID:       item.ID,
			Name:         item.Name,
			Quantity:     item.Quantity,
			MinimumStock: item.MinimumStock,
		})
	}
	return alert, nil
}

// CheckAllPractices publishes low-stock alerts for every dentist. A failure
// for one practice is logged and the remaining practices are still checked.
func (a *InventoryAlertService) CheckAllPractices(ctx context.Context) (int, error) {
	owners, err := a.dentists.ListDentistIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list dentists: %w", err)
	}

	var errs []error
	published := 0
	for _, owner := range owners {
		if err := ctx.Err(); err != nil {
			return published, err
		}

		alert, err := a.CheckLowStock(ctx, owner)
		if err != nil {
			a.log.Warn("low stock check failed", zap.String("owner_id", owner.String()), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		if alert == nil {
			continue
		}
		if err := a.publisher.Publish(ctx, events.KeyInventoryLowStock, alert); err != nil {
			a.log.Warn("publish low stock alert failed", zap.String("owner_id", owner.String()), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		published++
	}

	a.log.Info("low stock check completed",
		zap.Int("practices", len(owners)),
		zap.Int("alerts", published))
	return published, errors.Join(errs...)
}
