package models

import "github.com/shopspring/decimal"

const ChangeTypePurchase = "purchase"

// CreditHistoryEntry is an append-only ledger row explaining a balance change.
type CreditHistoryEntry struct {
	PlayerID      string          `json:"player_id" db:"player_id"`
	TransactionID string          `json:"transaction_id" db:"transaction_id"`
	CreditsChange decimal.Decimal `json:"credits_change" db:"credits_change"`
	CreditsBefore decimal.Decimal `json:"credits_before" db:"credits_before"`
	CreditsAfter  decimal.Decimal `json:"credits_after" db:"credits_after"`
	ChangeType    string          `json:"change_type" db:"change_type"`
	Description   string          `json:"description" db:"description"`
}
