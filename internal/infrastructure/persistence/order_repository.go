package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/b2bportal/backend/internal/domain/ordering"
	"github.com/b2bportal/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormOrderRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds an order by its ID with lines loaded
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	var order ordering.Order
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByIDs finds multiple orders by their IDs with lines loaded
func (r *GormOrderRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]ordering.Order, error) {
	if len(ids) == 0 {
		return []ordering.Order{}, nil
	}

	var orders []ordering.Order
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("id IN ?", ids).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByOrderNo finds an order by its order number
func (r *GormOrderRepository) FindByOrderNo(ctx context.Context, orderNo string) (*ordering.Order, error) {
	var order ordering.Order
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("order_no = ?", strings.ToUpper(orderNo)).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll finds orders matching the filter, newest first.
// Logically deleted orders are excluded.
func (r *GormOrderRepository) FindAll(ctx context.Context, filter ordering.OrderFilter) ([]ordering.Order, error) {
	var orders []ordering.Order
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&ordering.Order{}).Preload("Lines").Where("is_deleted = ?", false),
		filter,
	)

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter ordering.OrderFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&ordering.Order{}).Where("is_deleted = ?", false)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an order together with its lines, and writes pending
// domain events to the outbox in the same transaction. A duplicate order number
// maps to ErrAlreadyExists so callers can retry with a fresh number.
func (r *GormOrderRepository) Save(ctx context.Context, order *ordering.Order) error {
	events := order.GetDomainEvents()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(order).Error; err != nil {
			return err
		}

		// Delete lines no longer present in the aggregate
		currentLineIDs := make([]uuid.UUID, len(order.Lines))
		for i, line := range order.Lines {
			currentLineIDs[i] = line.ID
		}

		if len(currentLineIDs) > 0 {
			if err := tx.Where("order_id = ? AND id NOT IN ?", order.ID, currentLineIDs).
				Delete(&ordering.OrderLine{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("order_id = ?", order.ID).
				Delete(&ordering.OrderLine{}).Error; err != nil {
				return err
			}
		}

		// Save/update remaining lines
		for i := range order.Lines {
			order.Lines[i].OrderID = order.ID
			if err := tx.Save(&order.Lines[i]).Error; err != nil {
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
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}

	order.ClearDomainEvents()
	return nil
}

// isUniqueViolation reports whether the error is a unique constraint violation
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 23505") || strings.Contains(msg, "duplicate key value")
}

// applyFilter applies filter options to the query
func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter ordering.OrderFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering; sort fields are whitelisted
	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, OrderSortFields, "created_at")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		// Default ordering: newest first
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter ordering.OrderFilter) *gorm.DB {
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}

	// Apply search on order number and customer snapshot
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("order_no ILIKE ? OR customer_name ILIKE ? OR customer_email ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	return query
}

// Ensure GormOrderRepository implements OrderRepository
var _ ordering.OrderRepository = (*GormOrderRepository)(nil)
