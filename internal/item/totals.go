package item

import "github.com/shopspring/decimal"

// Total returns the sum of all line totals.
func Total(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

// Count returns the number of units across all items.
func Count(items []Item) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

// Money renders an amount with a currency prefix and two decimals.
func Money(symbol string, amount decimal.Decimal) string {
	return symbol + amount.StringFixed(2)
}
