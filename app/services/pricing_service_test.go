package services

import (
	"context"
	"errors"
	"testing"

	"github.com/cetak3d/go-printshop/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testPriceRules() []models.PriceRule {
	return []models.PriceRule{
		{Material: "PLA", LayerHeight: 0.20, PricePerGram: decimal.NewFromInt(800), IsActive: true},
		{Material: "PLA", LayerHeight: 0.10, PricePerGram: decimal.NewFromInt(1000), IsActive: true},
		{Material: "PETG", LayerHeight: 0.20, PricePerGram: decimal.NewFromInt(1100), IsActive: true},
	}
}

func TestFindPricePerGram_ExactMatch(t *testing.T) {
	price, ok := FindPricePerGram(testPriceRules(), "PLA", "0.20")
	require.True(t, ok)
	assert.True(t, price.Equal(decimal.NewFromInt(800)))
}

func TestFindPricePerGram_WithinTolerance(t *testing.T) {
	price, ok := FindPricePerGram(testPriceRules(), "PLA", "0.2001")
	require.True(t, ok)
	assert.True(t, price.Equal(decimal.NewFromInt(800)))

	_, ok = FindPricePerGram(testPriceRules(), "PLA", "0.202")
	assert.False(t, ok, "0.202 is outside the ±0.001 tolerance around 0.20")
}

func TestFindPricePerGram_MaterialIsExact(t *testing.T) {
	_, ok := FindPricePerGram(testPriceRules(), "pla", "0.20")
	assert.False(t, ok)

	_, ok = FindPricePerGram(testPriceRules(), "ABS", "0.20")
	assert.False(t, ok)
}

func TestFindPricePerGram_BadLayerHeight(t *testing.T) {
	_, ok := FindPricePerGram(testPriceRules(), "PLA", "abc")
	assert.False(t, ok)
}

func TestItemTotalPrice(t *testing.T) {
	// 50 g at 800/g, twice.
	total := ItemTotalPrice(50, 2, decimal.NewFromInt(800))
	assert.True(t, total.Equal(decimal.NewFromInt(80000)), "got %s", total)
}

func TestItemTotalPrice_RoundsToTwoDecimals(t *testing.T) {
	total := ItemTotalPrice(10.333, 1, decimal.NewFromFloat(1.5))
	assert.Equal(t, "15.5", total.String())
}

func TestQuote_AggregatesPricedItems(t *testing.T) {
	ctx := context.Background()
	repoMock := new(PriceRuleRepoMock)
	repoMock.On("GetActiveRules", mock.Anything).Return(testPriceRules(), nil)

	svc := NewPricingService(repoMock)

	result, err := svc.Quote(ctx, []QuoteItem{
		{FileName: "case.stl", Material: "PLA", LayerHeight: "0.20", Qty: 2, FilamentWeight: 50},
		{FileName: "bracket.stl", Material: "PETG", LayerHeight: "0.20", Qty: 1, FilamentWeight: 20},
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 2)

	assert.True(t, result.Items[0].Priced)
	assert.True(t, result.Items[0].TotalPrice.Equal(decimal.NewFromInt(80000)))
	assert.True(t, result.Items[1].Priced)
	assert.True(t, result.Items[1].TotalPrice.Equal(decimal.NewFromInt(22000)))

	assert.True(t, result.Subtotal.Equal(decimal.NewFromInt(102000)), "got %s", result.Subtotal)
	assert.Equal(t, 120.0, result.TotalWeight)
}

func TestQuote_UnpricedItemExcludedFromTotals(t *testing.T) {
	ctx := context.Background()
	repoMock := new(PriceRuleRepoMock)
	repoMock.On("GetActiveRules", mock.Anything).Return(testPriceRules(), nil)

	svc := NewPricingService(repoMock)

	result, err := svc.Quote(ctx, []QuoteItem{
		{FileName: "case.stl", Material: "PLA", LayerHeight: "0.20", Qty: 1, FilamentWeight: 50},
		{FileName: "gear.stl", Material: "NYLON", LayerHeight: "0.20", Qty: 3, FilamentWeight: 100},
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 2)

	assert.False(t, result.Items[1].Priced)
	assert.True(t, result.Items[1].TotalPrice.IsZero())

	// Only the priced item contributes.
	assert.True(t, result.Subtotal.Equal(decimal.NewFromInt(40000)))
	assert.Equal(t, 50.0, result.TotalWeight)
}

func TestQuote_RepoError(t *testing.T) {
	repoMock := new(PriceRuleRepoMock)
	repoMock.On("GetActiveRules", mock.Anything).Return(nil, errors.New("db down"))

	svc := NewPricingService(repoMock)

	_, err := svc.Quote(context.Background(), []QuoteItem{
		{FileName: "case.stl", Material: "PLA", LayerHeight: "0.20", Qty: 1, FilamentWeight: 50},
	})
	assert.Error(t, err)
}
