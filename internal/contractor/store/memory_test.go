package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whitelist/internal/contractor/models"
	"whitelist/internal/sentinel"
)

func strPtr(s string) *string { return &s }

func newTestContractor(name, taxID string, accounts ...string) *models.Contractor {
	if accounts == nil {
		accounts = []string{}
	}
	return &models.Contractor{
		Name:               name,
		TaxID:              taxID,
		VATStatus:          "Czynny",
		RegistrationNumber: strPtr("012345678"),
		Accounts:           accounts,
	}
}

func TestSave_RoundTrip(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	c := newTestContractor("ABC Company", "5260250274",
		"61109010140000071219812874", "83101010230000261395100000")
	c.CourtRegistryID = strPtr("0000012345")
	c.ResidenceAddress = strPtr("ul. Testowa 1, Warszawa")

	require.NoError(t, s.Save(ctx, c))
	assert.NotZero(t, c.ID)

	page, err := s.Search(ctx, 1, 10, "")
	require.NoError(t, err)
	require.Len(t, page, 1)

	got := page[0]
	assert.Equal(t, c.Name, got.Name)
	assert.Equal(t, c.TaxID, got.TaxID)
	assert.Equal(t, c.VATStatus, got.VATStatus)
	assert.Equal(t, c.RegistrationNumber, got.RegistrationNumber)
	assert.Equal(t, c.CourtRegistryID, got.CourtRegistryID)
	assert.Equal(t, c.ResidenceAddress, got.ResidenceAddress)
	assert.Nil(t, got.WorkingAddress)
	assert.Equal(t, []string{
		"61109010140000071219812874",
		"83101010230000261395100000",
	}, got.Accounts)
}

func TestSave_DuplicateTaxIDReturnsError(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, newTestContractor("First", "5260250274")))

	err := s.Save(ctx, newTestContractor("Second", "5260250274"))
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel.ErrAlreadyUsed)
}

func TestSearch_EmptyStoreReturnsEmptySequence(t *testing.T) {
	s := NewInMemory()

	page, err := s.Search(context.Background(), 1, 10, "")
	require.NoError(t, err)
	assert.NotNil(t, page)
	assert.Empty(t, page)
}

func TestSearch_ZeroAccountsComesBackEmpty(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, newTestContractor("No Accounts", "1111111111")))

	page, err := s.Search(ctx, 1, 10, "")
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.NotNil(t, page[0].Accounts)
	assert.Empty(t, page[0].Accounts)
}

func TestSearch_PaginationCoversAllWithoutDuplicates(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		c := newTestContractor(fmt.Sprintf("Company %d", i), fmt.Sprintf("526025027%d", i))
		require.NoError(t, s.Save(ctx, c))
	}

	seen := make(map[string]bool)
	sizes := []int{2, 2, 1}
	for page := uint(1); page <= 3; page++ {
		got, err := s.Search(ctx, page, 2, "")
		require.NoError(t, err)
		assert.Len(t, got, sizes[page-1], "page %d", page)
		for _, c := range got {
			assert.False(t, seen[c.TaxID], "tax id %s returned twice", c.TaxID)
			seen[c.TaxID] = true
		}
	}
	assert.Len(t, seen, 5)
}

func TestSearch_PageZeroBehavesLikePageOne(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, newTestContractor("Solo", "5260250274")))

	pageZero, err := s.Search(ctx, 0, 10, "")
	require.NoError(t, err)
	pageOne, err := s.Search(ctx, 1, 10, "")
	require.NoError(t, err)
	assert.Equal(t, pageOne, pageZero)
}

func TestSearch_FilterMatchesNameAndTaxID(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, newTestContractor("ABC Company", "5260250274")))
	require.NoError(t, s.Save(ctx, newTestContractor("XYZ Corporation", "9999999999")))

	byName, err := s.Search(ctx, 1, 10, "ABC")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "ABC Company", byName[0].Name)

	byTaxID, err := s.Search(ctx, 1, 10, "99999")
	require.NoError(t, err)
	require.Len(t, byTaxID, 1)
	assert.Equal(t, "XYZ Corporation", byTaxID[0].Name)
}

func TestSearch_FilterIsCaseInsensitive(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, newTestContractor("ABC Company", "5260250274")))

	got, err := s.Search(ctx, 1, 10, "abc company")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSearch_UnmatchedFilterReturnsEmptyNotError(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, newTestContractor("ABC Company", "5260250274")))

	got, err := s.Search(ctx, 1, 10, "does-not-exist")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearch_ReturnedAggregatesAreCopies(t *testing.T) {
	s := NewInMemory()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, newTestContractor("ABC Company", "5260250274", "61109010140000071219812874")))

	first, err := s.Search(ctx, 1, 10, "")
	require.NoError(t, err)
	first[0].Accounts[0] = "mutated"

	second, err := s.Search(ctx, 1, 10, "")
	require.NoError(t, err)
	assert.Equal(t, "61109010140000071219812874", second[0].Accounts[0])
}
