package services

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/creditstore/backend/internal/gateway"
	"github.com/creditstore/backend/internal/models"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Charge(ctx context.Context, req gateway.ChargeRequest) (*gateway.ChargeResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.ChargeResult), args.Error(1)
}

func (m *MockGateway) Method() string {
	return "mock_payment"
}

type MockPlayerDirectory struct {
	mock.Mock
}

func (m *MockPlayerDirectory) FindActive(ctx context.Context, playerID string) (*models.Player, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Player), args.Error(1)
}

type MockPackageCatalog struct {
	mock.Mock
}

func (m *MockPackageCatalog) FindActive(ctx context.Context, packageID string) (*models.CreditPackage, error) {
	args := m.Called(ctx, packageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CreditPackage), args.Error(1)
}

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) RecordPurchase(ctx context.Context, p Purchase) (decimal.Decimal, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedger) RecordFailure(ctx context.Context, p Purchase) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
