package folio

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CashBalance is the cash held in one currency. Reserved cash is committed to
// pending orders and cannot be withdrawn. Every operation returns a new
// balance and leaves the receiver untouched.
type CashBalance struct {
	Currency  string          `json:"currency"`
	Available decimal.Decimal `json:"available"`
	Reserved  decimal.Decimal `json:"reserved"`
}

// NewCashBalance returns an empty balance.
func NewCashBalance(currency string) (CashBalance, error) {
	if !ValidCurrency(currency) {
		return CashBalance{}, validationf("unknown currency %q", currency)
	}
	return CashBalance{Currency: currency}, nil
}

// Total is available + reserved.
func (c CashBalance) Total() decimal.Decimal { return c.Available.Add(c.Reserved) }

// IsZero reports whether nothing is available or reserved.
func (c CashBalance) IsZero() bool { return c.Available.IsZero() && c.Reserved.IsZero() }

// Deposit adds amount to the available cash.
func (c CashBalance) Deposit(amount decimal.Decimal) (CashBalance, error) {
	if err := checkAmount("deposit", amount); err != nil {
		return c, err
	}
	c.Available = c.Available.Add(amount)
	return c, nil
}

// Withdraw takes amount from the available cash.
func (c CashBalance) Withdraw(amount decimal.Decimal) (CashBalance, error) {
	if err := checkAmount("withdraw", amount); err != nil {
		return c, err
	}
	if amount.GreaterThan(c.Available) {
		return c, fmt.Errorf("%w: withdraw %s %s, %s available", ErrInsufficientFunds, amount, c.Currency, c.Available)
	}
	c.Available = c.Available.Sub(amount)
	return c, nil
}

// Reserve moves amount from available to reserved.
func (c CashBalance) Reserve(amount decimal.Decimal) (CashBalance, error) {
	if err := checkAmount("reserve", amount); err != nil {
		return c, err
	}
	if amount.GreaterThan(c.Available) {
		return c, fmt.Errorf("%w: reserve %s %s, %s available", ErrInsufficientFunds, amount, c.Currency, c.Available)
	}
	c.Available = c.Available.Sub(amount)
	c.Reserved = c.Reserved.Add(amount)
	return c, nil
}

// Release moves amount from reserved back to available.
func (c CashBalance) Release(amount decimal.Decimal) (CashBalance, error) {
	if err := checkAmount("release", amount); err != nil {
		return c, err
	}
	if amount.GreaterThan(c.Reserved) {
		return c, fmt.Errorf("%w: release %s %s, %s reserved", ErrInsufficientFunds, amount, c.Currency, c.Reserved)
	}
	c.Reserved = c.Reserved.Sub(amount)
	c.Available = c.Available.Add(amount)
	return c, nil
}

func checkAmount(op string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return validationf("%s: negative amount %s", op, amount)
	}
	return nil
}
