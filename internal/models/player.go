package models

import "github.com/shopspring/decimal"

// Player is the public view of a row in players. The password hash never
// leaves the store.
type Player struct {
	ID       string          `json:"id" db:"id"`
	Username string          `json:"username" db:"username"`
	Email    string          `json:"email" db:"email"`
	Credits  decimal.Decimal `json:"credits" db:"credits"`
	IsActive bool            `json:"is_active" db:"is_active"`
}
