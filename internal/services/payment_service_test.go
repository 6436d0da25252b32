package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/creditstore/backend/internal/gateway"
	"github.com/creditstore/backend/internal/logger"
	"github.com/creditstore/backend/internal/metrics"
	"github.com/creditstore/backend/internal/models"
)

var (
	testPlayer = &models.Player{ID: "p-1", Username: "alice", Email: "alice@example.com", Credits: decimal.NewFromInt(100), IsActive: true}
	testPkg    = &models.CreditPackage{ID: "pkg-mid", Name: "Value Pack", Price: decimal.RequireFromString("15.00"), Credits: decimal.NewFromInt(500)}
)

type paymentMocks struct {
	players *MockPlayerDirectory
	catalog *MockPackageCatalog
	ledger  *MockLedger
	gateway *MockGateway
}

func newMockedPaymentService() (*PaymentService, paymentMocks) {
	m := paymentMocks{
		players: &MockPlayerDirectory{},
		catalog: &MockPackageCatalog{},
		ledger:  &MockLedger{},
		gateway: &MockGateway{},
	}
	return NewPaymentService(m.players, m.catalog, m.ledger, m.gateway, logger.Nop()), m
}

func validRequest() PaymentRequest {
	return PaymentRequest{
		PlayerID:  "p-1",
		PackageID: "pkg-mid",
		Amount:    decimal.RequireFromString("15"),
		Credits:   decimal.NewFromInt(500),
	}
}

func TestPaymentService_Process(t *testing.T) {
	t.Run("approved purchase", func(t *testing.T) {
		s, m := newMockedPaymentService()
		m.players.On("FindActive", mock.Anything, "p-1").Return(testPlayer, nil)
		m.catalog.On("FindActive", mock.Anything, "pkg-mid").Return(testPkg, nil)
		m.gateway.On("Charge", mock.Anything, mock.MatchedBy(func(r gateway.ChargeRequest) bool {
			return r.PlayerID == "p-1" && r.Amount.Equal(testPkg.Price) && r.TransactionID != ""
		})).Return(&gateway.ChargeResult{Approved: true, Reference: "sim_1"}, nil)
		m.ledger.On("RecordPurchase", mock.Anything, mock.MatchedBy(func(p Purchase) bool {
			return p.PlayerID == "p-1" && p.Package.ID == "pkg-mid" && p.PaymentMethod == "mock_payment"
		})).Return(decimal.NewFromInt(600), nil)

		result, err := s.Process(context.Background(), validRequest())
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, "Payment successful", result.Message)
		assert.True(t, result.NewCredits.Equal(decimal.NewFromInt(600)))
		assert.NotEmpty(t, result.TransactionID)
		m.ledger.AssertNotCalled(t, "RecordFailure", mock.Anything, mock.Anything)
		m.gateway.AssertExpectations(t)
	})

	t.Run("transaction id is shared by gateway and ledger", func(t *testing.T) {
		s, m := newMockedPaymentService()
		var charged string
		m.players.On("FindActive", mock.Anything, "p-1").Return(testPlayer, nil)
		m.catalog.On("FindActive", mock.Anything, "pkg-mid").Return(testPkg, nil)
		m.gateway.On("Charge", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { charged = args.Get(1).(gateway.ChargeRequest).TransactionID }).
			Return(&gateway.ChargeResult{Approved: true}, nil)
		m.ledger.On("RecordPurchase", mock.Anything, mock.Anything).Return(decimal.NewFromInt(600), nil)

		result, err := s.Process(context.Background(), validRequest())
		require.NoError(t, err)
		assert.Equal(t, charged, result.TransactionID)
	})

	tests := []struct {
		name    string
		req     func() PaymentRequest
		setup   func(m paymentMocks)
		wantErr error
	}{
		{
			name:    "missing player id",
			req:     func() PaymentRequest { r := validRequest(); r.PlayerID = ""; return r },
			setup:   func(m paymentMocks) {},
			wantErr: ErrMissingFields,
		},
		{
			name:    "zero amount",
			req:     func() PaymentRequest { r := validRequest(); r.Amount = decimal.Zero; return r },
			setup:   func(m paymentMocks) {},
			wantErr: ErrMissingFields,
		},
		{
			name: "unknown player",
			req:  validRequest,
			setup: func(m paymentMocks) {
				m.players.On("FindActive", mock.Anything, "p-1").Return(nil, ErrPlayerNotFound)
			},
			wantErr: ErrPlayerNotFound,
		},
		{
			name: "unknown package",
			req:  validRequest,
			setup: func(m paymentMocks) {
				m.players.On("FindActive", mock.Anything, "p-1").Return(testPlayer, nil)
				m.catalog.On("FindActive", mock.Anything, "pkg-mid").Return(nil, ErrPackageNotFound)
			},
			wantErr: ErrPackageNotFound,
		},
		{
			name: "amount mismatch",
			req:  func() PaymentRequest { r := validRequest(); r.Amount = decimal.RequireFromString("1.00"); return r },
			setup: func(m paymentMocks) {
				m.players.On("FindActive", mock.Anything, "p-1").Return(testPlayer, nil)
				m.catalog.On("FindActive", mock.Anything, "pkg-mid").Return(testPkg, nil)
			},
			wantErr: ErrAmountMismatch,
		},
		{
			name: "credits mismatch",
			req:  func() PaymentRequest { r := validRequest(); r.Credits = decimal.NewFromInt(5000); return r },
			setup: func(m paymentMocks) {
				m.players.On("FindActive", mock.Anything, "p-1").Return(testPlayer, nil)
				m.catalog.On("FindActive", mock.Anything, "pkg-mid").Return(testPkg, nil)
			},
			wantErr: ErrAmountMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, m := newMockedPaymentService()
			tt.setup(m)

			_, err := s.Process(context.Background(), tt.req())
			assert.ErrorIs(t, err, tt.wantErr)
			m.gateway.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything)
			m.ledger.AssertNotCalled(t, "RecordPurchase", mock.Anything, mock.Anything)
			m.ledger.AssertNotCalled(t, "RecordFailure", mock.Anything, mock.Anything)
		})
	}

	t.Run("declined records failure only", func(t *testing.T) {
		s, m := newMockedPaymentService()
		m.players.On("FindActive", mock.Anything, "p-1").Return(testPlayer, nil)
		m.catalog.On("FindActive", mock.Anything, "pkg-mid").Return(testPkg, nil)
		m.gateway.On("Charge", mock.Anything, mock.Anything).Return(&gateway.ChargeResult{Approved: false}, nil)
		m.ledger.On("RecordFailure", mock.Anything, mock.Anything).Return(nil)

		_, err := s.Process(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrPaymentDeclined)
		m.ledger.AssertNumberOfCalls(t, "RecordFailure", 1)
		m.ledger.AssertNotCalled(t, "RecordPurchase", mock.Anything, mock.Anything)
	})

	t.Run("gateway error is a decline", func(t *testing.T) {
		s, m := newMockedPaymentService()
		m.players.On("FindActive", mock.Anything, "p-1").Return(testPlayer, nil)
		m.catalog.On("FindActive", mock.Anything, "pkg-mid").Return(testPkg, nil)
		m.gateway.On("Charge", mock.Anything, mock.Anything).Return(nil, errors.New("provider unavailable"))
		m.ledger.On("RecordFailure", mock.Anything, mock.Anything).Return(nil)

		_, err := s.Process(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrPaymentDeclined)
	})

	t.Run("failure insert error is not surfaced", func(t *testing.T) {
		s, m := newMockedPaymentService()
		m.players.On("FindActive", mock.Anything, "p-1").Return(testPlayer, nil)
		m.catalog.On("FindActive", mock.Anything, "pkg-mid").Return(testPkg, nil)
		m.gateway.On("Charge", mock.Anything, mock.Anything).Return(&gateway.ChargeResult{Approved: false}, nil)
		m.ledger.On("RecordFailure", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

		_, err := s.Process(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrPaymentDeclined)
	})

	t.Run("ledger failure after approval", func(t *testing.T) {
		s, m := newMockedPaymentService()
		m.players.On("FindActive", mock.Anything, "p-1").Return(testPlayer, nil)
		m.catalog.On("FindActive", mock.Anything, "pkg-mid").Return(testPkg, nil)
		m.gateway.On("Charge", mock.Anything, mock.Anything).Return(&gateway.ChargeResult{Approved: true}, nil)
		m.ledger.On("RecordPurchase", mock.Anything, mock.Anything).Return(decimal.Zero, errors.New("disk full"))

		_, err := s.Process(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrTransactionWriteFailed)
		assert.Contains(t, err.Error(), "disk full")
	})
}

func TestPaymentService_AuditTrail(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := paymentMocks{players: &MockPlayerDirectory{}, catalog: &MockPackageCatalog{}, ledger: &MockLedger{}, gateway: &MockGateway{}}
	s := NewPaymentService(m.players, m.catalog, m.ledger, m.gateway, logger.FromZap(zap.New(core)))

	m.players.On("FindActive", mock.Anything, "p-1").Return(testPlayer, nil)
	m.catalog.On("FindActive", mock.Anything, "pkg-mid").Return(testPkg, nil)
	m.gateway.On("Charge", mock.Anything, mock.Anything).Return(&gateway.ChargeResult{Approved: true, Reference: "sim_ref"}, nil)
	m.ledger.On("RecordPurchase", mock.Anything, mock.Anything).Return(decimal.NewFromInt(600), nil)

	_, err := s.Process(context.Background(), validRequest())
	require.NoError(t, err)

	events := logs.FilterMessage("audit event").FilterField(zap.String("event_type", AuditEventPurchase)).All()
	require.Len(t, events, 1)
	fields := events[0].ContextMap()
	assert.Equal(t, models.TransactionStatusCompleted, fields["status"])
	assert.Equal(t, "sim_ref", fields["gateway_reference"])
	assert.Equal(t, "audit", fields["component"])
}

// fixedGateway approves or declines every charge.
type fixedGateway struct {
	approve bool
}

func (g fixedGateway) Charge(ctx context.Context, req gateway.ChargeRequest) (*gateway.ChargeResult, error) {
	return &gateway.ChargeResult{Approved: g.approve, Reference: "fixed"}, nil
}

func (g fixedGateway) Method() string { return "demo_payment" }

// newDBPaymentService wires the real directory, catalog and ledger over sqlmock.
func newDBPaymentService(t *testing.T, approve bool) (*PaymentService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logger.Nop()
	return NewPaymentService(
		NewPlayerService(db, log),
		NewCatalogService(db, nil, time.Minute, log),
		NewCreditLedger(db),
		fixedGateway{approve: approve},
		log,
	), mock
}

func expectLookups(mock sqlmock.Sqlmock, balance string) {
	mock.ExpectQuery(findPlayerQuery).WithArgs("p-1").
		WillReturnRows(sqlmock.NewRows(playerColumns).AddRow("p-1", "alice", "alice@example.com", balance, true))
	mock.ExpectQuery(findPackageQuery).WithArgs("pkg-mid").
		WillReturnRows(sqlmock.NewRows(packageColumns).AddRow("pkg-mid", "Value Pack", "15.00", "500"))
}

func TestPaymentService_ProcessPayment(t *testing.T) {
	post := func(s *PaymentService, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		s.ProcessPayment(w, httptest.NewRequest(http.MethodPost, "/api/process-payment", bytes.NewBufferString(body)))
		return w
	}

	t.Run("completed purchase writes transaction, balance and history", func(t *testing.T) {
		s, mock := newDBPaymentService(t, true)
		expectLookups(mock, "100")
		mock.ExpectBegin()
		mock.ExpectExec(insertTransactionQuery).
			WithArgs(sqlmock.AnyArg(), "p-1", "pkg-mid", "15", "500", "demo_payment", "completed", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectQuery(incrementBalanceQuery).
			WithArgs("p-1", "500", "15").
			WillReturnRows(sqlmock.NewRows([]string{"credits"}).AddRow("600"))
		mock.ExpectExec(insertHistoryQuery).
			WithArgs("p-1", sqlmock.AnyArg(), "500", "100", "600", "purchase", "Purchased Value Pack").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		w := post(s, `{"playerId":"p-1","packageId":"pkg-mid","amount":15.00,"credits":500}`)

		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "Payment successful", body["message"])
		assert.Equal(t, float64(600), body["newCredits"])
		assert.NotEmpty(t, body["transactionId"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("repeated purchases accumulate", func(t *testing.T) {
		s, mock := newDBPaymentService(t, true)
		for _, step := range []struct{ before, after string }{{"100", "600"}, {"600", "1100"}} {
			expectLookups(mock, step.before)
			mock.ExpectBegin()
			mock.ExpectExec(insertTransactionQuery).WillReturnResult(sqlmock.NewResult(1, 1))
			mock.ExpectQuery(incrementBalanceQuery).WillReturnRows(sqlmock.NewRows([]string{"credits"}).AddRow(step.after))
			mock.ExpectExec(insertHistoryQuery).
				WithArgs("p-1", sqlmock.AnyArg(), "500", step.before, step.after, "purchase", "Purchased Value Pack").
				WillReturnResult(sqlmock.NewResult(1, 1))
			mock.ExpectCommit()
		}

		first := post(s, `{"playerId":"p-1","packageId":"pkg-mid","amount":"15","credits":500}`)
		second := post(s, `{"playerId":"p-1","packageId":"pkg-mid","amount":"15","credits":500}`)

		require.Equal(t, http.StatusOK, first.Code)
		require.Equal(t, http.StatusOK, second.Code)
		var a, b PaymentResult
		require.NoError(t, json.Unmarshal(first.Body.Bytes(), &a))
		require.NoError(t, json.Unmarshal(second.Body.Bytes(), &b))
		assert.True(t, b.NewCredits.Equal(decimal.NewFromInt(1100)))
		assert.NotEqual(t, a.TransactionID, b.TransactionID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("amount mismatch writes nothing", func(t *testing.T) {
		s, mock := newDBPaymentService(t, true)
		expectLookups(mock, "100")

		w := post(s, `{"playerId":"p-1","packageId":"pkg-mid","amount":1.00,"credits":500}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, CodeAmountMismatch, resp.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown player writes nothing", func(t *testing.T) {
		s, mock := newDBPaymentService(t, true)
		mock.ExpectQuery(findPlayerQuery).WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows(playerColumns))

		w := post(s, `{"playerId":"ghost","packageId":"pkg-mid","amount":15,"credits":500}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("decline writes one failed transaction", func(t *testing.T) {
		s, mock := newDBPaymentService(t, false)
		expectLookups(mock, "100")
		mock.ExpectExec(insertTransactionQuery).
			WithArgs(sqlmock.AnyArg(), "p-1", "pkg-mid", "15", "500", "demo_payment", "failed", nil).
			WillReturnResult(sqlmock.NewResult(1, 1))

		w := post(s, `{"playerId":"p-1","packageId":"pkg-mid","amount":15,"credits":500}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, "Payment failed. Please try again.", resp.Message)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("history failure leaves no partial write", func(t *testing.T) {
		s, mock := newDBPaymentService(t, true)
		expectLookups(mock, "100")
		mock.ExpectBegin()
		mock.ExpectExec(insertTransactionQuery).WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectQuery(incrementBalanceQuery).WillReturnRows(sqlmock.NewRows([]string{"credits"}).AddRow("600"))
		mock.ExpectExec(insertHistoryQuery).WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		w := post(s, `{"playerId":"p-1","packageId":"pkg-mid","amount":15,"credits":500}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, CodeTransactionWriteFailed, resp.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("player deactivated after approval", func(t *testing.T) {
		s, mock := newDBPaymentService(t, true)
		expectLookups(mock, "100")
		mock.ExpectBegin()
		mock.ExpectExec(insertTransactionQuery).WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectQuery(incrementBalanceQuery).WillReturnRows(sqlmock.NewRows([]string{"credits"}))
		mock.ExpectRollback()

		w := post(s, `{"playerId":"p-1","packageId":"pkg-mid","amount":15,"credits":500}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, CodeTransactionWriteFailed, resp.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing fields", func(t *testing.T) {
		s, mock := newDBPaymentService(t, true)

		w := post(s, `{"playerId":"p-1"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, CodeMissingFields, resp.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid body", func(t *testing.T) {
		s, _ := newDBPaymentService(t, true)

		w := post(s, `invalid`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOutcomeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"completed", nil, metrics.OutcomeCompleted},
		{"declined", ErrPaymentDeclined, metrics.OutcomeDeclined},
		{"mismatch", ErrAmountMismatch, metrics.OutcomeRejected},
		{"unknown player", ErrPlayerNotFound, metrics.OutcomeRejected},
		{"write failed after approval", fmt.Errorf("%w: %w", ErrTransactionWriteFailed, ErrPlayerNotFound), metrics.OutcomeError},
		{"unexpected", errors.New("connection reset"), metrics.OutcomeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, outcomeOf(tt.err))
		})
	}
}
