package view

import "github.com/shopspring/decimal"

// Money renders an amount the way the storefront shows prices, e.g. "$9.99".
func Money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
