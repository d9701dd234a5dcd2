package service

import (
	"context"

	"timebill/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DashboardResponse aggregates the headline numbers the dashboard shows.
type DashboardResponse struct {
	ActiveCompanies int64            `json:"active_companies"`
	UnbilledItems   int64            `json:"unbilled_items"`
	UnbilledHours   string           `json:"unbilled_hours"`
	UnbilledAmount  string           `json:"unbilled_amount"`
	InvoiceTotals   []StatusTotal    `json:"invoice_totals"`
	TopCompanies    []CompanyRanking `json:"top_companies"`
}

// StatusTotal sums invoices per status.
type StatusTotal struct {
	Status     string `json:"status"`
	Count      int64  `json:"count"`
	GrossTotal string `json:"gross_total"`
}

// CompanyRanking ranks companies by unbilled work waiting to be invoiced.
type CompanyRanking struct {
	CompanyID      string `json:"company_id"`
	CompanyName    string `json:"company_name"`
	UnbilledHours  string `json:"unbilled_hours"`
	UnbilledAmount string `json:"unbilled_amount"`
}

type StatisticsService interface {
	GetDashboard(ctx context.Context) (DashboardResponse, error)
}

type statisticsService struct {
	db *gorm.DB
}

func NewStatisticsService(db *gorm.DB) StatisticsService {
	return &statisticsService{db: db}
}

// GetDashboard computes counts and unbilled totals in SQL. The unbilled
// amount resolves each item's rate to the override or the company default,
// the same rule invoice assembly applies.
func (s *statisticsService) GetDashboard(ctx context.Context) (DashboardResponse, error) {
	var response DashboardResponse

	if err := s.db.WithContext(ctx).Model(&model.Company{}).
		Where("is_active = ?", true).
		Count(&response.ActiveCompanies).Error; err != nil {
		return DashboardResponse{}, err
	}

	var unbilled struct {
		Items  int64
		Hours  float64
		Amount float64
	}
	err := s.db.WithContext(ctx).Table("billable_items").
		Select("COUNT(*) as items, COALESCE(SUM(billable_items.hours), 0) as hours, COALESCE(SUM(billable_items.hours * COALESCE(billable_items.hourly_rate, companies.default_hourly_rate)), 0) as amount").
		Joins("JOIN companies ON companies.id = billable_items.company_id").
		Where("billable_items.is_invoiced = ?", false).
		Scan(&unbilled).Error
	if err != nil {
		return DashboardResponse{}, err
	}
	response.UnbilledItems = unbilled.Items
	response.UnbilledHours = formatFloat2(unbilled.Hours)
	response.UnbilledAmount = formatFloat2(unbilled.Amount)

	var statusTotals []struct {
		Status string
		Count  int64
		Gross  float64
	}
	err = s.db.WithContext(ctx).Table("invoices").
		Select("status, COUNT(*) as count, COALESCE(SUM(gross_total), 0) as gross").
		Group("status").
		Order("status asc").
		Scan(&statusTotals).Error
	if err != nil {
		return DashboardResponse{}, err
	}
	for _, st := range statusTotals {
		response.InvoiceTotals = append(response.InvoiceTotals, StatusTotal{
			Status:     st.Status,
			Count:      st.Count,
			GrossTotal: formatFloat2(st.Gross),
		})
	}

	var rankings []struct {
		CompanyID   string
		CompanyName string
		Hours       float64
		Amount      float64
	}
	err = s.db.WithContext(ctx).Table("billable_items").
		Select("companies.id as company_id, companies.name as company_name, SUM(billable_items.hours) as hours, SUM(billable_items.hours * COALESCE(billable_items.hourly_rate, companies.default_hourly_rate)) as amount").
		Joins("JOIN companies ON companies.id = billable_items.company_id").
		Where("billable_items.is_invoiced = ?", false).
		Group("companies.id, companies.name").
		Order("amount DESC").
		Limit(5).
		Scan(&rankings).Error
	if err != nil {
		return DashboardResponse{}, err
	}
	for _, r := range rankings {
		response.TopCompanies = append(response.TopCompanies, CompanyRanking{
			CompanyID:      r.CompanyID,
			CompanyName:    r.CompanyName,
			UnbilledHours:  formatFloat2(r.Hours),
			UnbilledAmount: formatFloat2(r.Amount),
		})
	}

	return response, nil
}

func formatFloat2(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
