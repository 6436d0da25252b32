package models

import "github.com/shopspring/decimal"

// CreditPackage is a fixed price / credit grant pair offered in the store.
type CreditPackage struct {
	ID      string          `json:"id" db:"id"`
	Name    string          `json:"name" db:"name"`
	Price   decimal.Decimal `json:"price" db:"price"`
	Credits decimal.Decimal `json:"credits" db:"credits"`
}
