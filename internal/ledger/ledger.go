package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openledgerhq/ledgerd/internal/account"
	"github.com/openledgerhq/ledgerd/internal/journal"
)

// Line is one posted journal line annotated with the account's running
// balance immediately after it.
type Line struct {
	EntryID        uuid.UUID
	EntryNumber    string
	EntryDate      time.Time
	Description    string
	ReferenceType  journal.ReferenceType
	ReferenceID    *uuid.UUID
	Debit          decimal.Decimal
	Credit         decimal.Decimal
	RunningBalance decimal.Decimal
}

// AccountLedger is the transaction history of one account over an
// optional date window. It is derived on every query, never stored.
type AccountLedger struct {
	AccountID      uuid.UUID
	AccountCode    string
	AccountName    string
	AccountType    account.Type
	StartDate      *time.Time
	EndDate        *time.Time
	OpeningBalance decimal.Decimal
	ClosingBalance decimal.Decimal
	Lines          []Line
}
