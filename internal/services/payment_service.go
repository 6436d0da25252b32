package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/creditstore/backend/internal/gateway"
	"github.com/creditstore/backend/internal/logger"
	"github.com/creditstore/backend/internal/metrics"
	"github.com/creditstore/backend/internal/models"
)

type PlayerDirectory interface {
	FindActive(ctx context.Context, playerID string) (*models.Player, error)
}

type PackageCatalog interface {
	FindActive(ctx context.Context, packageID string) (*models.CreditPackage, error)
}

// Ledger persists payment outcomes.
type Ledger interface {
	RecordPurchase(ctx context.Context, p Purchase) (decimal.Decimal, error)
	RecordFailure(ctx context.Context, p Purchase) error
}

// PaymentRequest represents a credit purchase
// @Description Credit purchase request. Amount and credits must match the package.
type PaymentRequest struct {
	PlayerID  string          `json:"playerId" example:"6f1c2a9e-3d4b-4c5a-8e7f-1a2b3c4d5e6f"`
	PackageID string          `json:"packageId" example:"b7e4d1c2-0a9f-4e3d-8c2b-1a0f9e8d7c6b"`
	Amount    decimal.Decimal `json:"amount" swaggertype:"number" example:"15.00"`
	Credits   decimal.Decimal `json:"credits" swaggertype:"number" example:"500"`
}

// PaymentResult is returned for a completed purchase
// @Description Completed purchase
type PaymentResult struct {
	Success       bool            `json:"success" example:"true"`
	Message       string          `json:"message" example:"Payment successful"`
	NewCredits    decimal.Decimal `json:"newCredits" swaggertype:"number" example:"600"`
	TransactionID string          `json:"transactionId" example:"0d8c7b6a-5e4f-4a3b-9c2d-1e0f9a8b7c6d"`
}

type PaymentService struct {
	players PlayerDirectory
	catalog PackageCatalog
	ledger  Ledger
	gateway gateway.Gateway
	audit   *AuditLogger
	log     *logger.Logger
}

func NewPaymentService(players PlayerDirectory, catalog PackageCatalog, ledger Ledger, gw gateway.Gateway, log *logger.Logger) *PaymentService {
	return &PaymentService{
		players: players,
		catalog: catalog,
		ledger:  ledger,
		gateway: gw,
		audit:   NewAuditLogger(log),
		log:     log.With(zap.String("component", "payments")),
	}
}

// Process validates a purchase against the catalog, charges it and records
// the outcome.
func (s *PaymentService) Process(ctx context.Context, req PaymentRequest) (*PaymentResult, error) {
	timer := prometheus.NewTimer(metrics.PaymentDuration)
	defer timer.ObserveDuration()

	result, err := s.process(ctx, req)
	metrics.PaymentsTotal.WithLabelValues(outcomeOf(err)).Inc()
	return result, err
}

func (s *PaymentService) process(ctx context.Context, req PaymentRequest) (*PaymentResult, error) {
	if req.PlayerID == "" || req.PackageID == "" || req.Amount.IsZero() || req.Credits.IsZero() {
		return nil, ErrMissingFields
	}

	player, err := s.players.FindActive(ctx, req.PlayerID)
	if err != nil {
		return nil, err
	}

	pkg, err := s.catalog.FindActive(ctx, req.PackageID)
	if err != nil {
		return nil, err
	}

	if !req.Amount.Equal(pkg.Price) || !req.Credits.Equal(pkg.Credits) {
		s.log.Warn("payment amount mismatch",
			zap.String("player_id", player.ID),
			zap.String("package_id", pkg.ID),
			zap.String("claimed_amount", req.Amount.String()),
			zap.String("price", pkg.Price.String()))
		return nil, ErrAmountMismatch
	}

	purchase := Purchase{
		TransactionID: uuid.NewString(),
		PlayerID:      player.ID,
		Package:       *pkg,
		PaymentMethod: s.gateway.Method(),
	}

	charge, err := s.gateway.Charge(ctx, gateway.ChargeRequest{
		TransactionID: purchase.TransactionID,
		PlayerID:      player.ID,
		Amount:        pkg.Price,
		Description:   "Purchased " + pkg.Name,
	})
	if err != nil || !charge.Approved {
		if err != nil {
			s.log.Error("gateway charge failed", err, zap.String("transaction_id", purchase.TransactionID))
		}
		if ferr := s.ledger.RecordFailure(ctx, purchase); ferr != nil {
			s.log.Error("recording failed transaction", ferr, zap.String("transaction_id", purchase.TransactionID))
		}
		s.audit.LogPurchase(purchase.TransactionID, player.ID, pkg.Price, pkg.Credits, models.TransactionStatusFailed, "")
		return nil, ErrPaymentDeclined
	}

	newCredits, err := s.ledger.RecordPurchase(ctx, purchase)
	if err != nil {
		s.audit.LogError(purchase.TransactionID, player.ID, err)
		return nil, fmt.Errorf("%w: %w", ErrTransactionWriteFailed, err)
	}

	metrics.CreditsGrantedTotal.Add(pkg.Credits.InexactFloat64())
	s.audit.LogPurchase(purchase.TransactionID, player.ID, pkg.Price, pkg.Credits, models.TransactionStatusCompleted, charge.Reference)

	return &PaymentResult{
		Success:       true,
		Message:       "Payment successful",
		NewCredits:    newCredits,
		TransactionID: purchase.TransactionID,
	}, nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeCompleted
	case errors.Is(err, ErrTransactionWriteFailed):
		return metrics.OutcomeError
	case errors.Is(err, ErrPaymentDeclined):
		return metrics.OutcomeDeclined
	case errors.Is(err, ErrMissingFields), errors.Is(err, ErrPlayerNotFound),
		errors.Is(err, ErrPackageNotFound), errors.Is(err, ErrAmountMismatch):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}

// ProcessPayment handles a credit purchase
// @Summary Process payment
// @Description Charge the configured gateway for a credit package and add the credits to the player's balance
// @Tags payments
// @Accept json
// @Produce json
// @Param request body PaymentRequest true "Purchase"
// @Success 200 {object} PaymentResult
// @Failure 400 {object} ErrorResponse "Missing fields, amount mismatch or declined payment"
// @Failure 404 {object} ErrorResponse "Player or package not found"
// @Failure 500 {object} ErrorResponse "Transaction recording failed"
// @Router /process-payment [post]
func (s *PaymentService) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.log.Warn("process payment: invalid body", zap.Error(err))
		SendErrorResponse(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid request", nil)
		return
	}

	result, err := s.Process(r.Context(), req)
	if err != nil {
		if outcomeOf(err) == metrics.OutcomeError {
			s.log.Error("payment processing failed", err,
				zap.String("player_id", req.PlayerID),
				zap.String("package_id", req.PackageID))
		}
		sendServiceError(w, err, "Payment processing failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
