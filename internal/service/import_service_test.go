package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"timebill/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type importFixture struct {
	service  ImportService
	company  *model.Company
	itemRepo *fakeItemRepo
	events   *recordingPublisher
}

func newImportFixture(t *testing.T) *importFixture {
	t.Helper()

	company := &model.Company{
		ID:                uuid.New(),
		Name:              "Acme Corp",
		DefaultHourlyRate: dec("80.00"),
		Currency:          "USD",
		IsActive:          true,
	}

	itemRepo := newFakeItemRepo()
	events := &recordingPublisher{}
	svc := NewImportService(itemRepo, newFakeCompanyRepo(company), &noopTxManager{}, events, zap.NewNop())

	return &importFixture{service: svc, company: company, itemRepo: itemRepo, events: events}
}

func TestImportCSV(t *testing.T) {
	f := newImportFixture(t)

	csvData := strings.Join([]string{
		"date_worked,description,hours,project,hourly_rate",
		"2025-03-03,Backend development,2.5,Platform,$90.00",
		"2025-03-04,Code review,1,Platform,",
	}, "\n")

	report, err := f.service.ImportFile(context.Background(), ImportRequest{
		CompanyID: f.company.ID.String(),
		FileName:  "march.csv",
	}, strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Equal(t, 2, report.TotalRows)
	assert.Equal(t, 2, report.ImportedCount)
	assert.Equal(t, 0, report.RejectedCount)
	assert.Empty(t, report.Errors)

	require.Len(t, f.itemRepo.items, 2)
	first := f.itemRepo.items[0]
	assert.Equal(t, "Backend development", first.Description)
	assert.Equal(t, "Platform", first.Project)
	assert.True(t, first.Hours.Equal(dec("2.5")))
	require.NotNil(t, first.HourlyRate)
	assert.True(t, first.HourlyRate.Equal(dec("90.00")))
	assert.Equal(t, "march.csv", first.ImportSource)
	require.NotNil(t, first.ImportDate)

	second := f.itemRepo.items[1]
	assert.Nil(t, second.HourlyRate)

	assert.Contains(t, f.events.events, "import.completed")
}

func TestImportCSVAllOrNothing(t *testing.T) {
	f := newImportFixture(t)

	// Row 2 has bogus hours, row 3 a bad date: the valid row 1 must not
	// be persisted either
	csvData := strings.Join([]string{
		"date_worked,description,hours",
		"2025-03-03,Backend development,2.5",
		"2025-03-04,Code review,abc",
		"not-a-date,Meetings,1",
	}, "\n")

	report, err := f.service.ImportFile(context.Background(), ImportRequest{
		CompanyID: f.company.ID.String(),
		FileName:  "march.csv",
	}, strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalRows)
	assert.Equal(t, 0, report.ImportedCount)
	assert.Equal(t, 2, report.RejectedCount)
	require.Len(t, report.Errors, 2)
	assert.Equal(t, 2, report.Errors[0].Row)
	assert.Contains(t, report.Errors[0].Reason, "hours")
	assert.Equal(t, 3, report.Errors[1].Row)
	assert.Contains(t, report.Errors[1].Reason, "date")

	assert.Empty(t, f.itemRepo.items)
	assert.Zero(t, f.itemRepo.batchCalls)
}

func TestImportCSVMissingRequiredColumn(t *testing.T) {
	f := newImportFixture(t)

	csvData := "date_worked,hours\n2025-03-03,2.5\n"

	_, err := f.service.ImportFile(context.Background(), ImportRequest{
		CompanyID: f.company.ID.String(),
		FileName:  "march.csv",
	}, strings.NewReader(csvData))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "description")
}

func TestImportCSVColumnMapping(t *testing.T) {
	f := newImportFixture(t)

	csvData := strings.Join([]string{
		"Datum,Beschreibung,Stunden",
		"2025-03-03,Entwicklung,4",
	}, "\n")

	report, err := f.service.ImportFile(context.Background(), ImportRequest{
		CompanyID: f.company.ID.String(),
		FileName:  "march.csv",
		ColumnMapping: map[string]string{
			"Datum":        "date_worked",
			"Beschreibung": "description",
			"Stunden":      "hours",
		},
	}, strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Equal(t, 1, report.ImportedCount)
	require.Len(t, f.itemRepo.items, 1)
	assert.Equal(t, "Entwicklung", f.itemRepo.items[0].Description)
}

func TestImportHeaderNormalization(t *testing.T) {
	f := newImportFixture(t)

	// Headers with mixed case and spaces resolve to the expected columns
	csvData := strings.Join([]string{
		"Date Worked,Description,Hours",
		"2025-03-03,Development,3",
	}, "\n")

	report, err := f.service.ImportFile(context.Background(), ImportRequest{
		CompanyID: f.company.ID.String(),
		FileName:  "march.csv",
	}, strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 1, report.ImportedCount)
}

func TestImportExcel(t *testing.T) {
	f := newImportFixture(t)

	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	rows := [][]interface{}{
		{"date_worked", "description", "hours"},
		{"2025-03-03", "Development", "2"},
		{"2025-03-04", "Testing", "1.5"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, wb.SetSheetRow(sheet, cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, wb.Write(&buf))

	report, err := f.service.ImportFile(context.Background(), ImportRequest{
		CompanyID: f.company.ID.String(),
		FileName:  "march.xlsx",
	}, &buf)
	require.NoError(t, err)

	assert.Equal(t, 2, report.ImportedCount)
	require.Len(t, f.itemRepo.items, 2)
	assert.Equal(t, "Testing", f.itemRepo.items[1].Description)
}

func TestImportUnsupportedExtension(t *testing.T) {
	f := newImportFixture(t)

	_, err := f.service.ImportFile(context.Background(), ImportRequest{
		CompanyID: f.company.ID.String(),
		FileName:  "march.txt",
	}, strings.NewReader("whatever"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestImportUnknownCompany(t *testing.T) {
	f := newImportFixture(t)

	_, err := f.service.ImportFile(context.Background(), ImportRequest{
		CompanyID: uuid.NewString(),
		FileName:  "march.csv",
	}, strings.NewReader("date_worked,description,hours\n"))
	require.ErrorIs(t, err, ErrNotFound)
}
