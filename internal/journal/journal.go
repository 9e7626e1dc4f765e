package journal

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReferenceType links a journal entry back to the business event that
// produced it. Manual entries are created directly by an operator.
type ReferenceType string

const (
	RefOrder           ReferenceType = "order"
	RefDirectSale      ReferenceType = "direct_sale"
	RefCollection      ReferenceType = "collection"
	RefExpense         ReferenceType = "expense"
	RefSupplierInvoice ReferenceType = "supplier_invoice"
	RefSupplierPayment ReferenceType = "supplier_payment"
	RefSalary          ReferenceType = "salary"
	RefProduction      ReferenceType = "production"
	RefReturn          ReferenceType = "return"
	RefDeposit         ReferenceType = "deposit"
	RefRawMaterial     ReferenceType = "rm_purchase"
	RefManual          ReferenceType = "manual"
	RefReversal        ReferenceType = "reversal"
)

func (r ReferenceType) Valid() bool {
	switch r {
	case RefOrder, RefDirectSale, RefCollection, RefExpense, RefSupplierInvoice,
		RefSupplierPayment, RefSalary, RefProduction, RefReturn, RefDeposit,
		RefRawMaterial, RefManual, RefReversal:
		return true
	}

	return false
}

var (
	ErrNotFound         = errors.New("journal entry not found")
	ErrTooFewLines      = errors.New("journal entry needs at least two lines")
	ErrBothSides        = errors.New("journal line cannot carry both a debit and a credit")
	ErrNegativeAmount   = errors.New("journal line amounts must not be negative")
	ErrInvalidReference = errors.New("invalid reference type")
	ErrAccountNotFound  = errors.New("journal line references an unknown account")
	ErrAccountInactive  = errors.New("journal line references an inactive account")
	ErrNotPosted        = errors.New("journal entry is not posted")
	ErrAlreadyReversed  = errors.New("journal entry is already reversed")
)

// UnbalancedError reports a debit/credit mismatch with the computed
// difference, which the UI displays inline.
type UnbalancedError struct {
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

func (e *UnbalancedError) Error() string {
	return fmt.Sprintf("entry is out of balance: debits %s, credits %s (difference %s)",
		e.TotalDebit.String(), e.TotalCredit.String(), e.Difference().String())
}

// Difference returns |debits - credits|.
func (e *UnbalancedError) Difference() decimal.Decimal {
	return e.TotalDebit.Sub(e.TotalCredit).Abs()
}

// Entry is a balanced set of debit and credit lines. Once posted it is
// immutable except for reversal.
type Entry struct {
	ID            uuid.UUID
	EntryNumber   string
	EntryDate     time.Time
	Description   string
	ReferenceType ReferenceType // empty when the entry has no originating event
	ReferenceID   *uuid.UUID
	TotalDebit    decimal.Decimal
	TotalCredit   decimal.Decimal
	IsPosted      bool
	IsReversed    bool
	Lines         []Line
	CreatedAt     time.Time
}

// Line is one side (or part of one side) of a journal entry. Exactly one
// of Debit and Credit is non-zero.
type Line struct {
	ID          uuid.UUID
	EntryID     uuid.UUID
	AccountID   uuid.UUID
	AccountCode string
	AccountName string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string
}
