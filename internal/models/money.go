package models

import "github.com/shopspring/decimal"

func init() {
	// Game clients read balances and prices as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}
