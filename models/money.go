package models

import "github.com/shopspring/decimal"

// Money fields are written as JSON numbers, not strings. The digits are
// emitted exactly; no float conversion happens.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}
