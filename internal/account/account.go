package account

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type classifies an account in the chart of accounts.
type Type string

const (
	TypeAsset     Type = "asset"
	TypeLiability Type = "liability"
	TypeEquity    Type = "equity"
	TypeRevenue   Type = "revenue"
	TypeExpense   Type = "expense"
)

// Valid reports whether t is one of the five account types.
func (t Type) Valid() bool {
	switch t {
	case TypeAsset, TypeLiability, TypeEquity, TypeRevenue, TypeExpense:
		return true
	}

	return false
}

// DebitNormal reports whether accounts of this type increase on the debit
// side. Asset and expense accounts are debit-normal; liability, equity and
// revenue accounts are credit-normal.
func (t Type) DebitNormal() bool {
	return t == TypeAsset || t == TypeExpense
}

// SignedAmount converts a debit/credit pair into a signed balance
// contribution for this account type.
func (t Type) SignedAmount(debit, credit decimal.Decimal) decimal.Decimal {
	if t.DebitNormal() {
		return debit.Sub(credit)
	}

	return credit.Sub(debit)
}

var (
	ErrNotFound      = errors.New("account not found")
	ErrDuplicateCode = errors.New("account code already exists")
	ErrInvalidType   = errors.New("invalid account type")
	ErrSystemAccount = errors.New("system accounts cannot be deleted")
	ErrInUse         = errors.New("account is referenced by journal lines")
)

// Account is one row in the chart of accounts. Balance is never written
// directly; it is mutated only by posting or reversing journal entries.
type Account struct {
	ID          uuid.UUID
	Code        string
	Name        string
	Type        Type
	Category    string
	ParentID    *uuid.UUID
	Description string
	IsSystem    bool
	IsActive    bool
	Balance     decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
