package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/creditstore/backend/internal/models"
	"github.com/creditstore/backend/internal/services"
)

type MockPlayerFinder struct {
	mock.Mock
}

func (m *MockPlayerFinder) FindActive(ctx context.Context, playerID string) (*models.Player, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Player), args.Error(1)
}

type MockPackageLister struct {
	mock.Mock
}

func (m *MockPackageLister) ListActive(ctx context.Context) ([]models.CreditPackage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CreditPackage), args.Error(1)
}

type MockPaymentProcessor struct {
	mock.Mock
}

func (m *MockPaymentProcessor) Process(ctx context.Context, req services.PaymentRequest) (*services.PaymentResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.PaymentResult), args.Error(1)
}
