package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction status values
const (
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
)

// Transaction records one purchase attempt. Rows are written once and never updated.
type Transaction struct {
	ID               string          `json:"id" db:"id"`
	PlayerID         string          `json:"player_id" db:"player_id"`
	PackageID        string          `json:"package_id" db:"package_id"`
	Amount           decimal.Decimal `json:"amount" db:"amount"`
	CreditsPurchased decimal.Decimal `json:"credits_purchased" db:"credits_purchased"`
	PaymentMethod    string          `json:"payment_method" db:"payment_method"`
	Status           string          `json:"status" db:"status"`
	CompletedAt      *time.Time      `json:"completed_at,omitempty" db:"completed_at"`
}
