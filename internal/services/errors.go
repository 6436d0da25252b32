package services

import (
	"errors"
	"net/http"

	"github.com/lib/pq"
)

var (
	ErrMissingFields          = errors.New("missing required fields")
	ErrPlayerNotFound         = errors.New("player not found")
	ErrPackageNotFound        = errors.New("package not found")
	ErrAmountMismatch         = errors.New("amount mismatch")
	ErrPaymentDeclined        = errors.New("payment declined")
	ErrTransactionWriteFailed = errors.New("transaction write failed")
	ErrPlayerExists           = errors.New("username or email already exists")
)

// Error codes returned in the "code" field of error bodies.
const (
	CodeInvalidRequest         = "INVALID_REQUEST"
	CodeMissingFields          = "MISSING_FIELDS"
	CodePlayerNotFound         = "PLAYER_NOT_FOUND"
	CodePackageNotFound        = "PACKAGE_NOT_FOUND"
	CodeAmountMismatch         = "AMOUNT_MISMATCH"
	CodePaymentDeclined        = "PAYMENT_DECLINED"
	CodeTransactionWriteFailed = "TRANSACTION_WRITE_FAILED"
	CodePlayerExists           = "PLAYER_EXISTS"
	CodeMethodNotAllowed       = "METHOD_NOT_ALLOWED"
	CodeNotFound               = "NOT_FOUND"
	CodeInternal               = "INTERNAL"
)

type errorMapping struct {
	err     error
	status  int
	code    string
	message string
}

// Checked in order. ErrTransactionWriteFailed wraps the underlying cause,
// which may itself be another sentinel, so it comes first.
var errorMappings = []errorMapping{
	{ErrTransactionWriteFailed, http.StatusInternalServerError, CodeTransactionWriteFailed, "Transaction recording failed"},
	{ErrMissingFields, http.StatusBadRequest, CodeMissingFields, "Missing required fields"},
	{ErrPlayerNotFound, http.StatusNotFound, CodePlayerNotFound, "Player not found"},
	{ErrPackageNotFound, http.StatusNotFound, CodePackageNotFound, "Package not found"},
	{ErrAmountMismatch, http.StatusBadRequest, CodeAmountMismatch, "Amount mismatch"},
	{ErrPaymentDeclined, http.StatusBadRequest, CodePaymentDeclined, "Payment failed. Please try again."},
	{ErrPlayerExists, http.StatusBadRequest, CodePlayerExists, "Username or email already exists"},
}

// Describe maps a service error to its HTTP status, code and user-facing
// message. Unknown errors become a 500 carrying fallback.
func Describe(err error, fallback string) (status int, code, message string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.status, m.code, m.message
		}
	}
	return http.StatusInternalServerError, CodeInternal, fallback
}

// Postgres error codes
const (
	pqInvalidTextRepresentation = "22P02"
	pqUniqueViolation           = "23505"
)

func hasPQCode(err error, code string) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == code
}

// isMalformedID reports whether Postgres rejected an identifier before looking
// it up, e.g. a non-UUID string compared against a uuid column.
func isMalformedID(err error) bool {
	return hasPQCode(err, pqInvalidTextRepresentation)
}

func isUniqueViolation(err error) bool {
	return hasPQCode(err, pqUniqueViolation)
}
