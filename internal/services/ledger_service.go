package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/creditstore/backend/internal/models"
)

// CreditLedger owns every write a payment makes. A completed purchase is a
// single database transaction.
type CreditLedger struct {
	db *sql.DB
}

func NewCreditLedger(db *sql.DB) *CreditLedger {
	return &CreditLedger{db: db}
}

// Purchase describes an approved charge to be recorded.
type Purchase struct {
	TransactionID string
	PlayerID      string
	Package       models.CreditPackage
	PaymentMethod string
}

// RecordPurchase inserts the completed transaction, increments the player's
// balance and appends the credit history entry. It returns the new balance.
// Nothing is persisted unless all three writes succeed.
func (l *CreditLedger) RecordPurchase(ctx context.Context, p Purchase) (decimal.Decimal, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	completedAt := time.Now().UTC()
	if err := insertTransaction(ctx, tx, p.transaction(models.TransactionStatusCompleted, &completedAt)); err != nil {
		return decimal.Zero, err
	}

	after, err := l.incrementBalance(ctx, tx, p.PlayerID, p.Package.Credits, p.Package.Price)
	if err != nil {
		return decimal.Zero, err
	}

	entry := models.CreditHistoryEntry{
		PlayerID:      p.PlayerID,
		TransactionID: p.TransactionID,
		CreditsChange: p.Package.Credits,
		CreditsBefore: after.Sub(p.Package.Credits),
		CreditsAfter:  after,
		ChangeType:    models.ChangeTypePurchase,
		Description:   "Purchased " + p.Package.Name,
	}
	if err := l.appendHistory(ctx, tx, entry); err != nil {
		return decimal.Zero, err
	}

	if err := tx.Commit(); err != nil {
		return decimal.Zero, fmt.Errorf("commit: %w", err)
	}
	return after, nil
}

// incrementBalance adds credits in the database so concurrent purchases for
// the same player cannot overwrite each other.
func (l *CreditLedger) incrementBalance(ctx context.Context, tx *sql.Tx, playerID string, credits, amount decimal.Decimal) (decimal.Decimal, error) {
	var after decimal.Decimal
	err := tx.QueryRowContext(ctx, `
		UPDATE players
		SET credits = credits + $2, total_spent = COALESCE(total_spent, 0) + $3, updated_at = NOW()
		WHERE id = $1 AND is_active = true
		RETURNING credits`, playerID, credits, amount).Scan(&after)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, fmt.Errorf("updating balance: %w", ErrPlayerNotFound)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("updating balance: %w", err)
	}
	return after, nil
}

func (l *CreditLedger) appendHistory(ctx context.Context, tx *sql.Tx, e models.CreditHistoryEntry) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO credit_history (player_id, transaction_id, credits_change, credits_before, credits_after, change_type, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())`,
		e.PlayerID, e.TransactionID, e.CreditsChange, e.CreditsBefore, e.CreditsAfter, e.ChangeType, e.Description)
	if err != nil {
		return fmt.Errorf("inserting credit history: %w", err)
	}
	return nil
}

// RecordFailure inserts a failed transaction. The balance is untouched.
func (l *CreditLedger) RecordFailure(ctx context.Context, p Purchase) error {
	return insertTransaction(ctx, l.db, p.transaction(models.TransactionStatusFailed, nil))
}

func (p Purchase) transaction(status string, completedAt *time.Time) models.Transaction {
	return models.Transaction{
		ID:               p.TransactionID,
		PlayerID:         p.PlayerID,
		PackageID:        p.Package.ID,
		Amount:           p.Package.Price,
		CreditsPurchased: p.Package.Credits,
		PaymentMethod:    p.PaymentMethod,
		Status:           status,
		CompletedAt:      completedAt,
	}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertTransaction(ctx context.Context, db execer, t models.Transaction) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO transactions (id, player_id, package_id, amount, credits_purchased, payment_method, status, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.PlayerID, t.PackageID, t.Amount, t.CreditsPurchased, t.PaymentMethod, t.Status, t.CompletedAt)
	if err != nil {
		return fmt.Errorf("inserting %s transaction: %w", t.Status, err)
	}
	return nil
}
