package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openledgerhq/ledgerd/internal/account"
)

// StatementLine is one account's contribution to a financial statement.
type StatementLine struct {
	AccountID   uuid.UUID
	AccountCode string
	AccountName string
	Amount      decimal.Decimal
}

// IncomeStatement reports period movements, not point-in-time balances.
type IncomeStatement struct {
	StartDate time.Time
	EndDate   time.Time

	Revenue      []StatementLine
	TotalRevenue decimal.Decimal

	COGS        []StatementLine
	TotalCOGS   decimal.Decimal
	GrossProfit decimal.Decimal

	OperatingExpenses      []StatementLine
	TotalOperatingExpenses decimal.Decimal

	NetProfit decimal.Decimal
}

// BalanceSheet is a point-in-time snapshot. Balanced is checked
// server-side; an out-of-balance sheet signals a posting bug.
type BalanceSheet struct {
	AsOfDate time.Time

	Assets      []StatementLine
	TotalAssets decimal.Decimal

	Liabilities      []StatementLine
	TotalLiabilities decimal.Decimal

	Equity      []StatementLine
	TotalEquity decimal.Decimal

	TotalLiabilitiesAndEquity decimal.Decimal
	Difference                decimal.Decimal
	Balanced                  bool
}

// TrialBalanceLine holds an account's balance in its debit or credit
// column; exactly one of the two is non-zero.
type TrialBalanceLine struct {
	AccountID   uuid.UUID
	AccountCode string
	AccountName string
	AccountType account.Type
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

type TrialBalance struct {
	AsOfDate    time.Time
	Lines       []TrialBalanceLine
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	Balanced    bool
}
