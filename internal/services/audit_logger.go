package services

import (
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/creditstore/backend/internal/logger"
)

// Audit event types
const (
	AuditEventPurchase = "PURCHASE"
	AuditEventError    = "ERROR"
)

// AuditLogger writes one structured event per payment outcome.
type AuditLogger struct {
	log *logger.Logger
}

func NewAuditLogger(log *logger.Logger) *AuditLogger {
	return &AuditLogger{log: log.With(zap.String("component", "audit"))}
}

func (a *AuditLogger) LogPurchase(transactionID, playerID string, amount, credits decimal.Decimal, status, gatewayRef string) {
	a.log.Info("audit event",
		zap.Time("timestamp", time.Now()),
		zap.String("event_type", AuditEventPurchase),
		zap.String("transaction_id", transactionID),
		zap.String("player_id", playerID),
		zap.String("amount", amount.String()),
		zap.String("credits", credits.String()),
		zap.String("status", status),
		zap.String("gateway_reference", gatewayRef),
	)
}

func (a *AuditLogger) LogError(transactionID, playerID string, err error) {
	a.log.Error("audit event", err,
		zap.Time("timestamp", time.Now()),
		zap.String("event_type", AuditEventError),
		zap.String("transaction_id", transactionID),
		zap.String("player_id", playerID),
		zap.String("status", "FAILED"),
	)
}
