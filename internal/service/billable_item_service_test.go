package service

import (
	"context"
	"testing"

	"timebill/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newItemServiceFixture(t *testing.T, items ...*model.BillableItem) (BillableItemService, *model.Company, *fakeItemRepo) {
	t.Helper()

	company := &model.Company{
		ID:                uuid.New(),
		Name:              "Acme Corp",
		DefaultHourlyRate: dec("80.00"),
		Currency:          "USD",
		IsActive:          true,
	}
	for _, it := range items {
		it.CompanyID = company.ID
	}

	itemRepo := newFakeItemRepo(items...)
	svc := NewBillableItemService(itemRepo, newFakeCompanyRepo(company))
	return svc, company, itemRepo
}

func TestCreateItem(t *testing.T) {
	svc, company, repo := newItemServiceFixture(t)

	resp, err := svc.CreateItem(context.Background(), CreateItemRequest{
		CompanyID:   company.ID.String(),
		Description: "Development",
		Project:     "Alpha",
		DateWorked:  "2025-03-03",
		Hours:       "2.5",
		HourlyRate:  "95.00",
	})
	require.NoError(t, err)

	assert.Equal(t, "2.50", resp.Hours)
	require.NotNil(t, resp.HourlyRate)
	assert.Equal(t, "95.00", *resp.HourlyRate)
	assert.False(t, resp.IsInvoiced)
	require.Len(t, repo.items, 1)
}

func TestCreateItemValidation(t *testing.T) {
	svc, company, _ := newItemServiceFixture(t)

	cases := []struct {
		name string
		req  CreateItemRequest
	}{
		{"zero hours", CreateItemRequest{CompanyID: company.ID.String(), Description: "x", DateWorked: "2025-03-03", Hours: "0"}},
		{"negative hours", CreateItemRequest{CompanyID: company.ID.String(), Description: "x", DateWorked: "2025-03-03", Hours: "-1"}},
		{"bad date", CreateItemRequest{CompanyID: company.ID.String(), Description: "x", DateWorked: "03/03/2025", Hours: "1"}},
		{"negative rate", CreateItemRequest{CompanyID: company.ID.String(), Description: "x", DateWorked: "2025-03-03", Hours: "1", HourlyRate: "-5"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateItem(context.Background(), tc.req)
			require.Error(t, err)
		})
	}
}

func TestCreateItemUnknownCompany(t *testing.T) {
	svc, _, _ := newItemServiceFixture(t)

	_, err := svc.CreateItem(context.Background(), CreateItemRequest{
		CompanyID:   uuid.NewString(),
		Description: "Development",
		DateWorked:  "2025-03-03",
		Hours:       "1",
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateItemRejectsInvoiced(t *testing.T) {
	frozen := item("Development", "Alpha", "2025-03-03", "2", nil)
	frozen.IsInvoiced = true
	svc, _, _ := newItemServiceFixture(t, frozen)

	desc := "Changed"
	_, err := svc.UpdateItem(context.Background(), frozen.ID.String(), UpdateItemRequest{Description: &desc})
	require.ErrorIs(t, err, ErrItemInvoiced)
}

func TestUpdateItemClearsRateOverride(t *testing.T) {
	existing := item("Development", "Alpha", "2025-03-03", "2", decPtr("95.00"))
	svc, _, repo := newItemServiceFixture(t, existing)

	empty := ""
	resp, err := svc.UpdateItem(context.Background(), existing.ID.String(), UpdateItemRequest{HourlyRate: &empty})
	require.NoError(t, err)
	assert.Nil(t, resp.HourlyRate)
	assert.Nil(t, repo.items[0].HourlyRate)
}

func TestDeleteItemRejectsInvoiced(t *testing.T) {
	frozen := item("Development", "Alpha", "2025-03-03", "2", nil)
	frozen.IsInvoiced = true
	svc, _, repo := newItemServiceFixture(t, frozen)

	err := svc.DeleteItem(context.Background(), frozen.ID.String())
	require.ErrorIs(t, err, ErrItemInvoiced)
	assert.Len(t, repo.items, 1)
}

func TestDeleteItem(t *testing.T) {
	existing := item("Development", "Alpha", "2025-03-03", "2", nil)
	svc, _, repo := newItemServiceFixture(t, existing)

	require.NoError(t, svc.DeleteItem(context.Background(), existing.ID.String()))
	assert.Empty(t, repo.items)

	err := svc.DeleteItem(context.Background(), existing.ID.String())
	require.ErrorIs(t, err, ErrNotFound)
}
