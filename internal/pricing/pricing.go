// Package pricing turns catalog prices and discount percentages into the
// amounts shown and charged for a cart.
package pricing

import (
	"github.com/ikkim/tene-backend/internal/app/model"
	"github.com/shopspring/decimal"
)

// Rule maps a unit price and a discount percentage to the charged unit price.
type Rule func(price, discountPercent decimal.Decimal) decimal.Decimal

var (
	hundred       = decimal.NewFromInt(100)
	charmEnding   = decimal.RequireFromString("0.99")
	centPrecision = int32(2)
)

// CharmRule floors the discounted price and appends .99.
// Undiscounted prices pass through unrounded.
func CharmRule(price, discountPercent decimal.Decimal) decimal.Decimal {
	if discountPercent.IsZero() {
		return price
	}
	return discounted(price, discountPercent).Floor().Add(charmEnding)
}

// RoundToCentRule rounds the discounted price to the nearest cent.
// Kept for product pages that still display this variant; carts use CharmRule.
func RoundToCentRule(price, discountPercent decimal.Decimal) decimal.Decimal {
	if discountPercent.IsZero() {
		return price
	}
	return discounted(price, discountPercent).Round(centPrecision)
}

func discounted(price, discountPercent decimal.Decimal) decimal.Decimal {
	return price.Sub(price.Mul(discountPercent).Div(hundred))
}

// UnitFinalPrice is the charged unit price under the cart rule
func UnitFinalPrice(price, discountPercent float64) decimal.Decimal {
	return CharmRule(decimal.NewFromFloat(price), decimal.NewFromFloat(discountPercent))
}

// ItemUnitPrice prices one unit of a cart line
func ItemUnitPrice(item model.LineItem) decimal.Decimal {
	return UnitFinalPrice(item.Product.Price, item.Product.Discount)
}

// LineTotal is the charged amount for a cart line
func LineTotal(item model.LineItem) decimal.Decimal {
	return ItemUnitPrice(item).Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// LineDiscount is the saving of a cart line against its undiscounted price.
// Zero when the product carries no discount.
func LineDiscount(item model.LineItem) decimal.Decimal {
	if item.Product.Discount == 0 {
		return decimal.Zero
	}
	price := decimal.NewFromFloat(item.Product.Price)
	return price.Sub(ItemUnitPrice(item)).Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// ItemCount sums quantities across lines
func ItemCount(items []model.LineItem) int {
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

// TotalPrice sums LineTotal across lines
func TotalPrice(items []model.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(LineTotal(item))
	}
	return total
}

// TotalDiscount sums LineDiscount across lines
func TotalDiscount(items []model.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(LineDiscount(item))
	}
	return total
}

// Summary is the price block shown next to a cart or checkout form
type Summary struct {
	ItemCount  int             `json:"item_count"`
	Subtotal   decimal.Decimal `json:"subtotal"` // before discounts
	Discount   decimal.Decimal `json:"discount"`
	Total      decimal.Decimal `json:"total"`
	Delivery   decimal.Decimal `json:"delivery"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// Summarize prices a cart. Delivery is charged only on a non-empty cart.
func Summarize(items []model.LineItem, delivery decimal.Decimal) Summary {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(decimal.NewFromFloat(item.Product.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	if len(items) == 0 {
		delivery = decimal.Zero
	}
	total := TotalPrice(items)
	return Summary{
		ItemCount:  ItemCount(items),
		Subtotal:   subtotal,
		Discount:   TotalDiscount(items),
		Total:      total,
		Delivery:   delivery,
		GrandTotal: total.Add(delivery),
	}
}
