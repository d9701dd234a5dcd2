package repository

import (
	"context"
	"time"

	"timebill/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ItemListFilter narrows billable item listings. Zero-valued fields are
// ignored.
type ItemListFilter struct {
	CompanyID *uuid.UUID
	From      *time.Time
	To        *time.Time
	Invoiced  *bool
	Page      int
	Limit     int
}

type BillableItemRepository interface {
	Create(ctx context.Context, item *model.BillableItem) error
	CreateBatch(ctx context.Context, items []model.BillableItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.BillableItem, error)
	List(ctx context.Context, filter ItemListFilter) ([]model.BillableItem, int64, error)
	FindUnbilled(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]model.BillableItem, error)
	Update(ctx context.Context, item *model.BillableItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	MarkInvoiced(ctx context.Context, ids []uuid.UUID, invoiceID uuid.UUID) error
	ReleaseInvoiced(ctx context.Context, invoiceID uuid.UUID) error
}

type billableItemRepository struct {
	db *gorm.DB
}

func NewBillableItemRepository(db *gorm.DB) BillableItemRepository {
	return &billableItemRepository{db: db}
}

func (r *billableItemRepository) Create(ctx context.Context, item *model.BillableItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *billableItemRepository) CreateBatch(ctx context.Context, items []model.BillableItem) error {
	if len(items) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Create(&items).Error
}

func (r *billableItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.BillableItem, error) {
	var item model.BillableItem
	if err := GetDB(ctx, r.db).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *billableItemRepository) List(ctx context.Context, filter ItemListFilter) ([]model.BillableItem, int64, error) {
	var items []model.BillableItem
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.BillableItem{})
	query = applyItemFilter(query, filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	fetchQuery := applyItemFilter(db.Model(&model.BillableItem{}), filter)
	if err := fetchQuery.Order("date_worked desc, created_at desc").Offset(offset).Limit(filter.Limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func applyItemFilter(query *gorm.DB, filter ItemListFilter) *gorm.DB {
	if filter.CompanyID != nil {
		query = query.Where("company_id = ?", *filter.CompanyID)
	}
	if filter.From != nil {
		query = query.Where("date_worked >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date_worked <= ?", *filter.To)
	}
	if filter.Invoiced != nil {
		query = query.Where("is_invoiced = ?", *filter.Invoiced)
	}
	return query
}

// FindUnbilled returns non-invoiced items for the company within the date
// range in insertion order, which fixes the grouping order of invoice
// assembly.
func (r *billableItemRepository) FindUnbilled(ctx context.Context, companyID uuid.UUID, from, to time.Time) ([]model.BillableItem, error) {
	var items []model.BillableItem
	err := GetDB(ctx, r.db).
		Where("company_id = ? AND is_invoiced = ? AND date_worked >= ? AND date_worked <= ?", companyID, false, from, to).
		Order("created_at asc, id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *billableItemRepository) Update(ctx context.Context, item *model.BillableItem) error {
	return GetDB(ctx, r.db).Save(item).Error
}

func (r *billableItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.BillableItem{}, "id = ?", id).Error
}

// MarkInvoiced attaches the given items to an invoice in a single UPDATE.
// Run inside the assembly transaction so either every item is frozen or
// none are.
func (r *billableItemRepository) MarkInvoiced(ctx context.Context, ids []uuid.UUID, invoiceID uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.BillableItem{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{"is_invoiced": true, "invoice_id": invoiceID}).Error
}

// ReleaseInvoiced detaches all items from a cancelled draft invoice so they
// become billable again.
func (r *billableItemRepository) ReleaseInvoiced(ctx context.Context, invoiceID uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.BillableItem{}).
		Where("invoice_id = ?", invoiceID).
		Updates(map[string]interface{}{"is_invoiced": false, "invoice_id": nil}).Error
}
