package services

import (
	"errors"
	"fmt"

	"github.com/diewo77/workshop-quotes/internal/db"
	"github.com/shopspring/decimal"
)

var (
	// ErrDataStoreNotConfigured is returned by every service built without a connection.
	ErrDataStoreNotConfigured = db.ErrNotConfigured
	ErrQuoteNotFound          = errors.New("quote not found")
	ErrTotalMismatch          = errors.New("total does not match items")
)

// TotalMismatchError carries both sides of a rejected total.
type TotalMismatchError struct {
	Declared decimal.Decimal
	Computed decimal.Decimal
}

func (e *TotalMismatchError) Error() string {
	return fmt.Sprintf("total %s does not match items sum %s", e.Declared.StringFixed(2), e.Computed.StringFixed(2))
}

func (e *TotalMismatchError) Is(target error) bool { return target == ErrTotalMismatch }
