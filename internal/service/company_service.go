package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"timebill/internal/model"
	"timebill/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateCompanyRequest struct {
	Name              string `json:"name" binding:"required"`
	ContactPerson     string `json:"contact_person"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	Address           string `json:"address"`
	City              string `json:"city"`
	State             string `json:"state"`
	ZipCode           string `json:"zip_code"`
	Country           string `json:"country"`
	TaxID             string `json:"tax_id"`
	DefaultHourlyRate string `json:"default_hourly_rate"` // decimal string, e.g. "80.00"
	Currency          string `json:"currency"`
}

type UpdateCompanyRequest struct {
	Name              *string `json:"name"`
	ContactPerson     *string `json:"contact_person"`
	Email             *string `json:"email"`
	Phone             *string `json:"phone"`
	Address           *string `json:"address"`
	City              *string `json:"city"`
	State             *string `json:"state"`
	ZipCode           *string `json:"zip_code"`
	Country           *string `json:"country"`
	TaxID             *string `json:"tax_id"`
	DefaultHourlyRate *string `json:"default_hourly_rate"`
	Currency          *string `json:"currency"`
}

type CompanyResponse struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	ContactPerson     string    `json:"contact_person"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	Address           string    `json:"address"`
	City              string    `json:"city"`
	State             string    `json:"state"`
	ZipCode           string    `json:"zip_code"`
	Country           string    `json:"country"`
	TaxID             string    `json:"tax_id"`
	DefaultHourlyRate string    `json:"default_hourly_rate"`
	Currency          string    `json:"currency"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// --- Interface ---

type CompanyService interface {
	CreateCompany(ctx context.Context, req CreateCompanyRequest) (CompanyResponse, error)
	GetCompany(ctx context.Context, id string) (CompanyResponse, error)
	ListCompanies(ctx context.Context, search string, activeOnly bool, page, limit int) ([]CompanyResponse, int64, error)
	UpdateCompany(ctx context.Context, id string, req UpdateCompanyRequest) (CompanyResponse, error)
	DeactivateCompany(ctx context.Context, id string) error
}

type companyService struct {
	companyRepo     repository.CompanyRepository
	defaultCurrency string
}

func NewCompanyService(companyRepo repository.CompanyRepository, defaultCurrency string) CompanyService {
	return &companyService{companyRepo: companyRepo, defaultCurrency: defaultCurrency}
}

// --- Implementation ---

func (s *companyService) CreateCompany(ctx context.Context, req CreateCompanyRequest) (CompanyResponse, error) {
	if req.Email != "" {
		if _, err := mail.ParseAddress(req.Email); err != nil {
			return CompanyResponse{}, fmt.Errorf("invalid email format")
		}
	}

	rate := decimal.Zero
	if req.DefaultHourlyRate != "" {
		var err error
		rate, err = decimal.NewFromString(req.DefaultHourlyRate)
		if err != nil {
			return CompanyResponse{}, fmt.Errorf("invalid default_hourly_rate: %w", err)
		}
		if rate.IsNegative() {
			return CompanyResponse{}, fmt.Errorf("default_hourly_rate must not be negative")
		}
	}

	currency := req.Currency
	if currency == "" {
		currency = s.defaultCurrency
	}

	company := model.Company{
		Name:              req.Name,
		ContactPerson:     req.ContactPerson,
		Email:             req.Email,
		Phone:             req.Phone,
		Address:           req.Address,
		City:              req.City,
		State:             req.State,
		ZipCode:           req.ZipCode,
		Country:           req.Country,
		TaxID:             req.TaxID,
		DefaultHourlyRate: rate,
		Currency:          currency,
		IsActive:          true,
	}

	if err := s.companyRepo.Create(ctx, &company); err != nil {
		return CompanyResponse{}, fmt.Errorf("failed to create company: %w", err)
	}

	return toCompanyResponse(company), nil
}

func (s *companyService) GetCompany(ctx context.Context, id string) (CompanyResponse, error) {
	company, err := s.findCompany(ctx, id)
	if err != nil {
		return CompanyResponse{}, err
	}
	return toCompanyResponse(*company), nil
}

func (s *companyService) ListCompanies(ctx context.Context, search string, activeOnly bool, page, limit int) ([]CompanyResponse, int64, error) {
	companies, total, err := s.companyRepo.List(ctx, search, activeOnly, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch companies: %w", err)
	}

	result := make([]CompanyResponse, 0, len(companies))
	for _, c := range companies {
		result = append(result, toCompanyResponse(c))
	}
	return result, total, nil
}

func (s *companyService) UpdateCompany(ctx context.Context, id string, req UpdateCompanyRequest) (CompanyResponse, error) {
	company, err := s.findCompany(ctx, id)
	if err != nil {
		return CompanyResponse{}, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return CompanyResponse{}, fmt.Errorf("name must not be empty")
		}
		company.Name = *req.Name
	}
	if req.ContactPerson != nil {
		company.ContactPerson = *req.ContactPerson
	}
	if req.Email != nil {
		if *req.Email != "" {
			if _, err := mail.ParseAddress(*req.Email); err != nil {
				return CompanyResponse{}, fmt.Errorf("invalid email format")
			}
		}
		company.Email = *req.Email
	}
	if req.Phone != nil {
		company.Phone = *req.Phone
	}
	if req.Address != nil {
		company.Address = *req.Address
	}
	if req.City != nil {
		company.City = *req.City
	}
	if req.State != nil {
		company.State = *req.State
	}
	if req.ZipCode != nil {
		company.ZipCode = *req.ZipCode
	}
	if req.Country != nil {
		company.Country = *req.Country
	}
	if req.TaxID != nil {
		company.TaxID = *req.TaxID
	}
	if req.DefaultHourlyRate != nil {
		rate, err := decimal.NewFromString(*req.DefaultHourlyRate)
		if err != nil {
			return CompanyResponse{}, fmt.Errorf("invalid default_hourly_rate: %w", err)
		}
		if rate.IsNegative() {
			return CompanyResponse{}, fmt.Errorf("default_hourly_rate must not be negative")
		}
		company.DefaultHourlyRate = rate
	}
	if req.Currency != nil && *req.Currency != "" {
		company.Currency = *req.Currency
	}

	if err := s.companyRepo.Update(ctx, company); err != nil {
		return CompanyResponse{}, fmt.Errorf("failed to update company: %w", err)
	}

	return toCompanyResponse(*company), nil
}

// DeactivateCompany hides a company from selection. Companies are never
// hard-deleted because invoices keep referencing them.
func (s *companyService) DeactivateCompany(ctx context.Context, id string) error {
	company, err := s.findCompany(ctx, id)
	if err != nil {
		return err
	}

	company.IsActive = false
	if err := s.companyRepo.Update(ctx, company); err != nil {
		return fmt.Errorf("failed to deactivate company: %w", err)
	}
	return nil
}

// --- Helpers ---

func (s *companyService) findCompany(ctx context.Context, id string) (*model.Company, error) {
	companyID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid company id: %w", err)
	}

	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("company %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch company: %w", err)
	}
	return company, nil
}

func toCompanyResponse(c model.Company) CompanyResponse {
	return CompanyResponse{
		ID:                c.ID,
		Name:              c.Name,
		ContactPerson:     c.ContactPerson,
		Email:             c.Email,
		Phone:             c.Phone,
		Address:           c.Address,
		City:              c.City,
		State:             c.State,
		ZipCode:           c.ZipCode,
		Country:           c.Country,
		TaxID:             c.TaxID,
		DefaultHourlyRate: c.DefaultHourlyRate.StringFixed(2),
		Currency:          c.Currency,
		IsActive:          c.IsActive,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}
