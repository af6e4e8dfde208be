package models

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Ledger error taxonomy. Every rejection is detected before any mutation, so a
// failed trade leaves transactions, holdings, and balance untouched. Callers
// match with errors.Is / errors.As.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrStockNotFound     = errors.New("stock not found")
	ErrPortfolioNotFound = errors.New("portfolio not found")
	ErrPortfolioExists   = errors.New("portfolio with this name already exists")
	ErrHoldingNotFound   = errors.New("holding not found")
)

// InsufficientBalanceError rejects a buy costing more than the available cash.
type InsufficientBalanceError struct {
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: need $%s but only have $%s",
		e.Required.StringFixed(2), e.Available.StringFixed(2))
}

// InsufficientSharesError rejects a sell of more shares than the holding covers.
type InsufficientSharesError struct {
	Symbol    string
	Requested int64
	Available int64
}

func (e *InsufficientSharesError) Error() string {
	return fmt.Sprintf("insufficient shares: have %d %s shares but trying to sell %d",
		e.Available, e.Symbol, e.Requested)
}
