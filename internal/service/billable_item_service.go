package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"timebill/internal/model"
	"timebill/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateItemRequest struct {
	CompanyID    string `json:"company_id" binding:"required"`
	Description  string `json:"description" binding:"required"`
	Project      string `json:"project"`
	TaskCategory string `json:"task_category"`
	DateWorked   string `json:"date_worked" binding:"required"` // YYYY-MM-DD
	Hours        string `json:"hours" binding:"required"`       // positive decimal string
	HourlyRate   string `json:"hourly_rate"`                    // optional override
}

type UpdateItemRequest struct {
	Description  *string `json:"description"`
	Project      *string `json:"project"`
	TaskCategory *string `json:"task_category"`
	DateWorked   *string `json:"date_worked"`
	Hours        *string `json:"hours"`
	HourlyRate   *string `json:"hourly_rate"` // empty string clears the override
}

type ItemFilter struct {
	CompanyID string
	From      string // YYYY-MM-DD
	To        string // YYYY-MM-DD
	Invoiced  *bool
	Page      int
	Limit     int
}

type ItemResponse struct {
	ID           uuid.UUID  `json:"id"`
	CompanyID    uuid.UUID  `json:"company_id"`
	Description  string     `json:"description"`
	Project      string     `json:"project"`
	TaskCategory string     `json:"task_category"`
	DateWorked   string     `json:"date_worked"`
	Hours        string     `json:"hours"`
	HourlyRate   *string    `json:"hourly_rate"`
	IsInvoiced   bool       `json:"is_invoiced"`
	InvoiceID    *uuid.UUID `json:"invoice_id"`
	ImportSource string     `json:"import_source,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// --- Interface ---

type BillableItemService interface {
	CreateItem(ctx context.Context, req CreateItemRequest) (ItemResponse, error)
	GetItem(ctx context.Context, id string) (ItemResponse, error)
	ListItems(ctx context.Context, filter ItemFilter) ([]ItemResponse, int64, error)
	UpdateItem(ctx context.Context, id string, req UpdateItemRequest) (ItemResponse, error)
	DeleteItem(ctx context.Context, id string) error
}

type billableItemService struct {
	itemRepo    repository.BillableItemRepository
	companyRepo repository.CompanyRepository
}

func NewBillableItemService(itemRepo repository.BillableItemRepository, companyRepo repository.CompanyRepository) BillableItemService {
	return &billableItemService{itemRepo: itemRepo, companyRepo: companyRepo}
}

const dateLayout = "2006-01-02"

// --- Implementation ---

func (s *billableItemService) CreateItem(ctx context.Context, req CreateItemRequest) (ItemResponse, error) {
	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		return ItemResponse{}, fmt.Errorf("invalid company id: %w", err)
	}

	if _, err := s.companyRepo.FindByID(ctx, companyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ItemResponse{}, fmt.Errorf("company %s: %w", req.CompanyID, ErrNotFound)
		}
		return ItemResponse{}, fmt.Errorf("failed to fetch company: %w", err)
	}

	dateWorked, err := time.Parse(dateLayout, req.DateWorked)
	if err != nil {
		return ItemResponse{}, fmt.Errorf("invalid date_worked: %w", err)
	}

	hours, err := parseHours(req.Hours)
	if err != nil {
		return ItemResponse{}, err
	}

	var rate *decimal.Decimal
	if req.HourlyRate != "" {
		parsed, err := decimal.NewFromString(req.HourlyRate)
		if err != nil {
			return ItemResponse{}, fmt.Errorf("invalid hourly_rate: %w", err)
		}
		if parsed.IsNegative() {
			return ItemResponse{}, fmt.Errorf("hourly_rate must not be negative")
		}
		rate = &parsed
	}

	item := model.BillableItem{
		CompanyID:    companyID,
		Description:  req.Description,
		Project:      req.Project,
		TaskCategory: req.TaskCategory,
		DateWorked:   dateWorked,
		Hours:        hours,
		HourlyRate:   rate,
	}

	if err := s.itemRepo.Create(ctx, &item); err != nil {
		return ItemResponse{}, fmt.Errorf("failed to create billable item: %w", err)
	}

	return toItemResponse(item), nil
}

func (s *billableItemService) GetItem(ctx context.Context, id string) (ItemResponse, error) {
	item, err := s.findItem(ctx, id)
	if err != nil {
		return ItemResponse{}, err
	}
	return toItemResponse(*item), nil
}

func (s *billableItemService) ListItems(ctx context.Context, filter ItemFilter) ([]ItemResponse, int64, error) {
	repoFilter := repository.ItemListFilter{
		Invoiced: filter.Invoiced,
		Page:     filter.Page,
		Limit:    filter.Limit,
	}

	if filter.CompanyID != "" {
		companyID, err := uuid.Parse(filter.CompanyID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid company id: %w", err)
		}
		repoFilter.CompanyID = &companyID
	}
	if filter.From != "" {
		from, err := time.Parse(dateLayout, filter.From)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid from date: %w", err)
		}
		repoFilter.From = &from
	}
	if filter.To != "" {
		to, err := time.Parse(dateLayout, filter.To)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid to date: %w", err)
		}
		repoFilter.To = &to
	}

	items, total, err := s.itemRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch billable items: %w", err)
	}

	result := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		result = append(result, toItemResponse(item))
	}
	return result, total, nil
}

func (s *billableItemService) UpdateItem(ctx context.Context, id string, req UpdateItemRequest) (ItemResponse, error) {
	item, err := s.findItem(ctx, id)
	if err != nil {
		return ItemResponse{}, err
	}

	// Invoiced items are part of a frozen invoice snapshot
	if item.IsInvoiced {
		return ItemResponse{}, fmt.Errorf("item %s: %w", id, ErrItemInvoiced)
	}

	if req.Description != nil {
		if *req.Description == "" {
			return ItemResponse{}, fmt.Errorf("description must not be empty")
		}
		item.Description = *req.Description
	}
	if req.Project != nil {
		item.Project = *req.Project
	}
	if req.TaskCategory != nil {
		item.TaskCategory = *req.TaskCategory
	}
	if req.DateWorked != nil {
		dateWorked, err := time.Parse(dateLayout, *req.DateWorked)
		if err != nil {
			return ItemResponse{}, fmt.Errorf("invalid date_worked: %w", err)
		}
		item.DateWorked = dateWorked
	}
	if req.Hours != nil {
		hours, err := parseHours(*req.Hours)
		if err != nil {
			return ItemResponse{}, err
		}
		item.Hours = hours
	}
	if req.HourlyRate != nil {
		if *req.HourlyRate == "" {
			item.HourlyRate = nil
		} else {
			parsed, err := decimal.NewFromString(*req.HourlyRate)
			if err != nil {
				return ItemResponse{}, fmt.Errorf("invalid hourly_rate: %w", err)
			}
			if parsed.IsNegative() {
				return ItemResponse{}, fmt.Errorf("hourly_rate must not be negative")
			}
			item.HourlyRate = &parsed
		}
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return ItemResponse{}, fmt.Errorf("failed to update billable item: %w", err)
	}

	return toItemResponse(*item), nil
}

func (s *billableItemService) DeleteItem(ctx context.Context, id string) error {
	item, err := s.findItem(ctx, id)
	if err != nil {
		return err
	}

	if item.IsInvoiced {
		return fmt.Errorf("item %s: %w", id, ErrItemInvoiced)
	}

	if err := s.itemRepo.Delete(ctx, item.ID); err != nil {
		return fmt.Errorf("failed to delete billable item: %w", err)
	}
	return nil
}

// --- Helpers ---

func (s *billableItemService) findItem(ctx context.Context, id string) (*model.BillableItem, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid item id: %w", err)
	}

	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("billable item %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch billable item: %w", err)
	}
	return item, nil
}

func parseHours(raw string) (decimal.Decimal, error) {
	hours, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid hours: %w", err)
	}
	if !hours.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("hours must be positive")
	}
	return hours, nil
}

func toItemResponse(item model.BillableItem) ItemResponse {
	resp := ItemResponse{
		ID:           item.ID,
		CompanyID:    item.CompanyID,
		Description:  item.Description,
		Project:      item.Project,
		TaskCategory: item.TaskCategory,
		DateWorked:   item.DateWorked.Format(dateLayout),
		Hours:        item.Hours.StringFixed(2),
		IsInvoiced:   item.IsInvoiced,
		InvoiceID:    item.InvoiceID,
		ImportSource: item.ImportSource,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
	if item.HourlyRate != nil {
		s := item.HourlyRate.StringFixed(2)
		resp.HourlyRate = &s
	}
	return resp
}
