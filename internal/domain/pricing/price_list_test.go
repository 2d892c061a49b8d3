package pricing

import (
	"testing"

	"github.com/b2bportal/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerPriceList_UpsertEntry(t *testing.T) {
	list, err := NewCustomerPriceList(uuid.New())
	require.NoError(t, err)
	productID := uuid.New()

	t.Run("insert new entry", func(t *testing.T) {
		created, err := list.UpsertEntry(productID, valueobject.NewMoneyUSDFromFloat(9.99), true)
		require.NoError(t, err)
		assert.True(t, created)
		require.Len(t, list.Entries, 1)
		assert.Equal(t, "9.99", list.Entries[0].Price.StringFixed(2))
	})

	t.Run("update existing entry keeps favorite flag", func(t *testing.T) {
		require.NoError(t, list.SetEntryFavorite(productID, true))

		created, err := list.UpsertEntry(productID, valueobject.NewMoneyUSDFromFloat(8.50), false)
		require.NoError(t, err)
		assert.False(t, created)
		require.Len(t, list.Entries, 1)

		entry := list.EntryFor(productID)
		require.NotNil(t, entry)
		assert.Equal(t, "8.50", entry.Price.StringFixed(2))
		assert.False(t, entry.TaxEnabled)
		assert.True(t, entry.IsFavorite)
	})

	t.Run("negative price rejected", func(t *testing.T) {
		_, err := list.UpsertEntry(uuid.New(), valueobject.NewMoneyUSDFromFloat(-1), true)
		assert.Error(t, err)
	})

	t.Run("mutations emit change event", func(t *testing.T) {
		assert.NotEmpty(t, list.GetDomainEvents())
	})
}

func TestCustomerPriceList_RemoveEntry(t *testing.T) {
	list, _ := NewCustomerPriceList(uuid.New())
	productID := uuid.New()
	_, err := list.UpsertEntry(productID, valueobject.NewMoneyUSDFromFloat(5), true)
	require.NoError(t, err)

	require.NoError(t, list.RemoveEntry(productID))
	assert.Empty(t, list.Entries)
	assert.False(t, list.HasProduct(productID))

	assert.Error(t, list.RemoveEntry(productID))
}

func TestCustomerPriceList_SetEntryTaxEnabled(t *testing.T) {
	list, _ := NewCustomerPriceList(uuid.New())
	productID := uuid.New()
	_, err := list.UpsertEntry(productID, valueobject.NewMoneyUSDFromFloat(5), true)
	require.NoError(t, err)

	require.NoError(t, list.SetEntryTaxEnabled(productID, false))
	assert.False(t, list.EntryFor(productID).TaxEnabled)

	assert.Error(t, list.SetEntryTaxEnabled(uuid.New(), false))
}

func TestNewCustomerPriceList_RequiresCustomer(t *testing.T) {
	_, err := NewCustomerPriceList(uuid.Nil)
	assert.Error(t, err)
}
