package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCompanyDefaults(t *testing.T) {
	svc := NewCompanyService(newFakeCompanyRepo(), "USD")

	resp, err := svc.CreateCompany(context.Background(), CreateCompanyRequest{
		Name:              "Acme Corp",
		Email:             "billing@acme.example",
		DefaultHourlyRate: "80",
	})
	require.NoError(t, err)

	assert.Equal(t, "80.00", resp.DefaultHourlyRate)
	assert.Equal(t, "USD", resp.Currency)
	assert.True(t, resp.IsActive)
}

func TestCreateCompanyValidation(t *testing.T) {
	svc := NewCompanyService(newFakeCompanyRepo(), "USD")

	_, err := svc.CreateCompany(context.Background(), CreateCompanyRequest{
		Name:  "Acme",
		Email: "not-an-email",
	})
	require.Error(t, err)

	_, err = svc.CreateCompany(context.Background(), CreateCompanyRequest{
		Name:              "Acme",
		DefaultHourlyRate: "-10",
	})
	require.Error(t, err)
}

func TestDeactivateCompanyKeepsRecord(t *testing.T) {
	repo := newFakeCompanyRepo()
	svc := NewCompanyService(repo, "USD")

	created, err := svc.CreateCompany(context.Background(), CreateCompanyRequest{Name: "Acme"})
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateCompany(context.Background(), created.ID.String()))

	// The record survives deactivation; only the flag flips
	got, err := svc.GetCompany(context.Background(), created.ID.String())
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestUpdateCompanyPartialFields(t *testing.T) {
	svc := NewCompanyService(newFakeCompanyRepo(), "USD")

	created, err := svc.CreateCompany(context.Background(), CreateCompanyRequest{
		Name:              "Acme",
		DefaultHourlyRate: "80.00",
	})
	require.NoError(t, err)

	rate := "95.50"
	updated, err := svc.UpdateCompany(context.Background(), created.ID.String(), UpdateCompanyRequest{
		DefaultHourlyRate: &rate,
	})
	require.NoError(t, err)

	assert.Equal(t, "95.50", updated.DefaultHourlyRate)
	assert.Equal(t, "Acme", updated.Name, "untouched fields keep their values")

	empty := ""
	_, err = svc.UpdateCompany(context.Background(), created.ID.String(), UpdateCompanyRequest{Name: &empty})
	require.Error(t, err)
}
