package persistence

import (
	"context"
	"errors"

	"github.com/b2bportal/backend/internal/domain/pricing"
	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPriceListRepository implements PriceListRepository using GORM
type GormPriceListRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormPriceListRepository creates a new GormPriceListRepository
func NewGormPriceListRepository(db *gorm.DB) *GormPriceListRepository {
	return &GormPriceListRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormPriceListRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByCustomerID finds a customer's price list with its entries
func (r *GormPriceListRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID) (*pricing.CustomerPriceList, error) {
	var list pricing.CustomerPriceList
	if err := r.db.WithContext(ctx).
		Preload("Entries").
		Where("customer_id = ?", customerID).
		First(&list).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &list, nil
}

// FindByCustomerIDs loads price lists for several customers in one query
func (r *GormPriceListRepository) FindByCustomerIDs(ctx context.Context, customerIDs []uuid.UUID) ([]pricing.CustomerPriceList, error) {
	if len(customerIDs) == 0 {
		return []pricing.CustomerPriceList{}, nil
	}

	var lists []pricing.CustomerPriceList
	if err := r.db.WithContext(ctx).
		Preload("Entries").
		Where("customer_id IN ?", customerIDs).
		Find(&lists).Error; err != nil {
		return nil, err
	}
	return lists, nil
}

// Save creates or updates a price list together with its entries.
// Entries removed from the aggregate are deleted from the database.
func (r *GormPriceListRepository) Save(ctx context.Context, list *pricing.CustomerPriceList) error {
	events := list.GetDomainEvents()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Entries").Save(list).Error; err != nil {
			return err
		}

		// Delete entries no longer present in the aggregate
		currentEntryIDs := make([]uuid.UUID, len(list.Entries))
		for i, entry := range list.Entries {
			currentEntryIDs[i] = entry.ID
		}

		if len(currentEntryIDs) > 0 {
			if err := tx.Where("price_list_id = ? AND id NOT IN ?", list.ID, currentEntryIDs).
				Delete(&pricing.CustomerPriceEntry{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("price_list_id = ?", list.ID).
				Delete(&pricing.CustomerPriceEntry{}).Error; err != nil {
				return err
			}
		}

		// Save/update remaining entries
		for i := range list.Entries {
			list.Entries[i].PriceListID = list.ID
			if err := tx.Save(&list.Entries[i]).Error; err != nil {
				return err
			}
		}

		if r.outboxSaver != nil && len(events) > 0 {
			if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	list.ClearDomainEvents()
	return nil
}

// RemoveProductFromAllLists removes every price entry referencing the product
func (r *GormPriceListRepository) RemoveProductFromAllLists(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&pricing.CustomerPriceEntry{}).Error
}

// Ensure GormPriceListRepository implements PriceListRepository
var _ pricing.PriceListRepository = (*GormPriceListRepository)(nil)
