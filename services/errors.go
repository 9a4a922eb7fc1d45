package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies ledger failures so handlers can map them to HTTP
// statuses without string matching.
type ErrorKind string

const (
	KindNotFound          ErrorKind = "not_found"
	KindInsufficientFunds ErrorKind = "insufficient_funds"
	KindConflict          ErrorKind = "conflict"
	KindValidation        ErrorKind = "validation"
)

type LedgerError struct {
	Kind    ErrorKind
	Message string
}

func (e *LedgerError) Error() string { return e.Message }

func notFoundf(format string, args ...interface{}) error {
	return &LedgerError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func conflictf(format string, args ...interface{}) error {
	return &LedgerError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func validationf(format string, args ...interface{}) error {
	return &LedgerError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func insufficientFundsf(format string, args ...interface{}) error {
	return &LedgerError{Kind: KindInsufficientFunds, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the ledger kind of err, or "" for storage-layer errors.
func KindOf(err error) ErrorKind {
	var le *LedgerError
	if errors.As(err, &le) {
		return le.Kind
	}
	return ""
}

// IsKind reports whether err carries the given ledger kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
