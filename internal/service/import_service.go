package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"timebill/internal/model"
	"timebill/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// --- DTOs ---

// RowError reports one rejected row: 1-based data row index plus reason.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportReport summarizes one import run. Imports are all-or-nothing: when
// Errors is non-empty, ImportedCount is zero and nothing was persisted.
type ImportReport struct {
	FileName      string     `json:"file_name"`
	TotalRows     int        `json:"total_rows"`
	ImportedCount int        `json:"imported_count"`
	RejectedCount int        `json:"rejected_count"`
	Errors        []RowError `json:"errors,omitempty"`
}

type ImportRequest struct {
	CompanyID string
	FileName  string
	// ColumnMapping renames source headers to the expected column names,
	// e.g. {"Datum": "date_worked"}.
	ColumnMapping map[string]string
}

// --- Interface ---

type ImportService interface {
	ImportFile(ctx context.Context, req ImportRequest, file io.Reader) (ImportReport, error)
}

type importService struct {
	itemRepo    repository.BillableItemRepository
	companyRepo repository.CompanyRepository
	txManager   repository.TransactionManager
	events      eventPublisher
	logger      *zap.Logger
}

func NewImportService(
	itemRepo repository.BillableItemRepository,
	companyRepo repository.CompanyRepository,
	txManager repository.TransactionManager,
	events eventPublisher,
	logger *zap.Logger,
) ImportService {
	return &importService{
		itemRepo:    itemRepo,
		companyRepo: companyRepo,
		txManager:   txManager,
		events:      events,
		logger:      logger,
	}
}

// --- Implementation ---

var requiredColumns = []string{"date_worked", "description", "hours"}

// Accepted layouts for the date_worked column, tried in order.
var importDateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02.01.2006",
	"01/02/2006",
	"2006-01-02 15:04:05",
}

func (s *importService) ImportFile(ctx context.Context, req ImportRequest, file io.Reader) (ImportReport, error) {
	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		return ImportReport{}, fmt.Errorf("invalid company id: %w", err)
	}

	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ImportReport{}, fmt.Errorf("company %s: %w", req.CompanyID, ErrNotFound)
		}
		return ImportReport{}, fmt.Errorf("failed to fetch company: %w", err)
	}

	header, rows, err := readTable(req.FileName, file)
	if err != nil {
		return ImportReport{}, err
	}

	columns, err := resolveColumns(header, req.ColumnMapping)
	if err != nil {
		return ImportReport{}, err
	}

	report := ImportReport{FileName: req.FileName, TotalRows: len(rows)}
	importDate := time.Now()

	items := make([]model.BillableItem, 0, len(rows))
	for i, row := range rows {
		item, rowErr := buildItem(row, columns, company.ID, req.FileName, importDate)
		if rowErr != nil {
			report.Errors = append(report.Errors, RowError{Row: i + 1, Reason: rowErr.Error()})
			continue
		}
		items = append(items, item)
	}

	report.RejectedCount = len(report.Errors)

	// All-or-nothing: a single bad row rejects the whole file
	if report.RejectedCount > 0 {
		s.logger.Warn("import rejected",
			zap.String("file", req.FileName),
			zap.Int("total_rows", report.TotalRows),
			zap.Int("rejected", report.RejectedCount))
		return report, nil
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.itemRepo.CreateBatch(txCtx, items)
	})
	if err != nil {
		return ImportReport{}, fmt.Errorf("failed to persist imported items: %w", err)
	}

	report.ImportedCount = len(items)
	s.logger.Info("import completed",
		zap.String("file", req.FileName),
		zap.String("company_id", company.ID.String()),
		zap.Int("imported", report.ImportedCount))

	if s.events != nil {
		s.events.Publish("import.completed", map[string]interface{}{
			"company_id": company.ID.String(),
			"file_name":  req.FileName,
			"imported":   report.ImportedCount,
		})
	}

	return report, nil
}

// --- Table reading ---

// readTable parses the uploaded file into a header row and data rows,
// dispatching on the file extension.
func readTable(fileName string, file io.Reader) ([]string, [][]string, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return readCSV(file)
	case ".xlsx", ".xlsm":
		return readExcel(file)
	default:
		return nil, nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(fileName))
	}
}

func readCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("file has no header row")
	}
	return records[0], records[1:], nil
}

func readExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("file has no header row")
	}
	return rows[0], rows[1:], nil
}

// --- Column resolution & row validation ---

// columnIndex maps normalized column names to their position in each row.
type columnIndex map[string]int

func resolveColumns(header []string, mapping map[string]string) (columnIndex, error) {
	normalizedMapping := make(map[string]string, len(mapping))
	for from, to := range mapping {
		normalizedMapping[normalizeHeader(from)] = normalizeHeader(to)
	}

	columns := make(columnIndex, len(header))
	for i, h := range header {
		name := normalizeHeader(h)
		if renamed, ok := normalizedMapping[name]; ok {
			name = renamed
		}
		columns[name] = i
	}

	var missing []string
	for _, required := range requiredColumns {
		if _, ok := columns[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	return columns, nil
}

func normalizeHeader(h string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
}

func (c columnIndex) get(row []string, name string) string {
	idx, ok := c[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func buildItem(row []string, columns columnIndex, companyID uuid.UUID, fileName string, importDate time.Time) (model.BillableItem, error) {
	description := columns.get(row, "description")
	if description == "" {
		return model.BillableItem{}, fmt.Errorf("description is required")
	}

	rawDate := columns.get(row, "date_worked")
	dateWorked, err := parseImportDate(rawDate)
	if err != nil {
		return model.BillableItem{}, fmt.Errorf("invalid date format: %q", rawDate)
	}

	rawHours := columns.get(row, "hours")
	hours, err := decimal.NewFromString(rawHours)
	if err != nil {
		return model.BillableItem{}, fmt.Errorf("invalid hours value: %q", rawHours)
	}
	if !hours.IsPositive() {
		return model.BillableItem{}, fmt.Errorf("hours must be positive, got %q", rawHours)
	}

	item := model.BillableItem{
		CompanyID:    companyID,
		Description:  description,
		Project:      columns.get(row, "project"),
		TaskCategory: columns.get(row, "task_category"),
		DateWorked:   dateWorked,
		Hours:        hours,
		ImportSource: fileName,
		ImportDate:   &importDate,
	}

	if rawRate := columns.get(row, "hourly_rate"); rawRate != "" {
		rate, err := parseImportRate(rawRate)
		if err != nil {
			return model.BillableItem{}, err
		}
		item.HourlyRate = &rate
	}

	return item, nil
}

func parseImportDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range importDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

// parseImportRate tolerates currency decoration like "$80.00" or "1,200.50".
func parseImportRate(raw string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(raw)
	rate, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid hourly_rate value: %q", raw)
	}
	if rate.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("hourly_rate must not be negative, got %q", raw)
	}
	return rate, nil
}
