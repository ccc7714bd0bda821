package services

import (
	"context"
	"math"
	"strconv"

	"github.com/cetak3d/go-printshop/app/models"
	"github.com/cetak3d/go-printshop/app/repositories"
	"github.com/shopspring/decimal"
)

// layerHeightTolerance absorbs float noise when matching a submitted layer
// height string against the price table.
const layerHeightTolerance = 0.001

// QuoteItem is one configured file submitted for pricing.
type QuoteItem struct {
	FileName       string  `json:"file_name"`
	Material       string  `json:"material"`
	LayerHeight    string  `json:"layer_height"`
	Qty            int     `json:"qty"`
	FilamentWeight float64 `json:"filament_weight"`
}

// QuotedItem mirrors a QuoteItem with its resolved price. Priced is false
// when no price rule matched; unpriced items are excluded from totals.
type QuotedItem struct {
	QuoteItem
	Priced       bool            `json:"priced"`
	PricePerGram decimal.Decimal `json:"price_per_gram"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

type QuoteResult struct {
	Items       []QuotedItem    `json:"items"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	TotalWeight float64         `json:"total_weight"`
}

type PricingService struct {
	priceRuleRepo repositories.PriceRuleRepository
}

func NewPricingService(priceRuleRepo repositories.PriceRuleRepository) *PricingService {
	return &PricingService{priceRuleRepo: priceRuleRepo}
}

// FindPricePerGram matches (material, layerHeight) against the given rules.
// Material is compared exactly, layer height within ±0.001.
func FindPricePerGram(rules []models.PriceRule, material, layerHeight string) (decimal.Decimal, bool) {
	height, err := strconv.ParseFloat(layerHeight, 64)
	if err != nil {
		return decimal.Zero, false
	}
	for _, rule := range rules {
		if rule.Material != material {
			continue
		}
		if math.Abs(rule.LayerHeight-height) <= layerHeightTolerance {
			return rule.PricePerGram, true
		}
	}
	return decimal.Zero, false
}

// ItemTotalPrice computes weight(grams) * qty * pricePerGram.
func ItemTotalPrice(filamentWeight float64, qty int, pricePerGram decimal.Decimal) decimal.Decimal {
	return decimal.NewFromFloat(filamentWeight).
		Mul(decimal.NewFromInt(int64(qty))).
		Mul(pricePerGram).
		Round(2)
}

// Quote prices each item against the active price table. Items without a
// matching rule are returned unpriced and left out of the aggregates; the
// caller decides whether that is acceptable.
func (s *PricingService) Quote(ctx context.Context, items []QuoteItem) (*QuoteResult, error) {
	rules, err := s.priceRuleRepo.GetActiveRules(ctx)
	if err != nil {
		return nil, err
	}

	result := &QuoteResult{
		Items:    make([]QuotedItem, 0, len(items)),
		Subtotal: decimal.Zero,
	}

	for _, item := range items {
		quoted := QuotedItem{QuoteItem: item}

		pricePerGram, ok := FindPricePerGram(rules, item.Material, item.LayerHeight)
		if ok {
			quoted.Priced = true
			quoted.PricePerGram = pricePerGram
			quoted.TotalPrice = ItemTotalPrice(item.FilamentWeight, item.Qty, pricePerGram)

			result.Subtotal = result.Subtotal.Add(quoted.TotalPrice)
			result.TotalWeight += item.FilamentWeight * float64(item.Qty)
		}

		result.Items = append(result.Items, quoted)
	}

	return result, nil
}
