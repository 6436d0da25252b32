// Package gateway defines the payment provider boundary used by the payment
// workflow. The store ships with a simulated provider; a real one only has to
// satisfy Gateway.
package gateway

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Gateway charges a customer for a purchase.
type Gateway interface {
	// Charge asks the provider to collect Amount. A nil error with
	// Approved == false is a decline.
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
	// Method is the payment_method tag recorded on transactions.
	Method() string
}

type ChargeRequest struct {
	TransactionID string
	PlayerID      string
	Amount        decimal.Decimal
	Description   string
}

type ChargeResult struct {
	Approved  bool
	Reference string
}

// SimulatedGateway approves a fixed share of charges at random.
type SimulatedGateway struct {
	successRate float64
	method      string
	roll        func() float64
}

// NewSimulatedGateway approves with probability successRate, which must lie in [0, 1].
func NewSimulatedGateway(successRate float64, method string) (*SimulatedGateway, error) {
	if successRate < 0 || successRate > 1 {
		return nil, fmt.Errorf("success rate must be within [0, 1], got %v", successRate)
	}
	return &SimulatedGateway{
		successRate: successRate,
		method:      method,
		roll:        rand.Float64,
	}, nil
}

func (g *SimulatedGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &ChargeResult{
		Approved:  g.roll() < g.successRate,
		Reference: "sim_" + uuid.NewString(),
	}, nil
}

func (g *SimulatedGateway) Method() string {
	return g.method
}
