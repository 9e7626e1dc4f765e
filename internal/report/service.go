package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openledgerhq/ledgerd/internal/account"
)

// identityTolerance is the accounting-identity slack the UI checks the
// balance sheet against.
var identityTolerance = decimal.New(1, -2) // 0.01

// AccountTotals is one account's summed posted debits and credits over
// some span (a window for movements, everything up to a date for
// balances).
type AccountTotals struct {
	AccountID   uuid.UUID
	AccountCode string
	AccountName string
	AccountType account.Type
	Category    string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=report
type Repository interface {
	// Movements sums posted lines per account within [start, end].
	Movements(ctx context.Context, start, end time.Time) ([]AccountTotals, error)

	// BalancesAsOf sums posted lines per account up to and including the
	// given date.
	BalancesAsOf(ctx context.Context, asOf time.Time) ([]AccountTotals, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// IncomeStatement sums movements within the window. Income statements are
// period-based, so snapshot balances would be wrong here.
func (s *Service) IncomeStatement(ctx context.Context, start, end time.Time) (*IncomeStatement, error) {
	totals, err := s.repo.Movements(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("loading movements: %w", err)
	}

	stmt := &IncomeStatement{StartDate: start, EndDate: end}

	for _, t := range totals {
		switch t.AccountType {
		case account.TypeRevenue:
			amount := t.Credit.Sub(t.Debit)
			if amount.IsZero() {
				continue
			}

			stmt.Revenue = append(stmt.Revenue, toLine(t, amount))
			stmt.TotalRevenue = stmt.TotalRevenue.Add(amount)
		case account.TypeExpense:
			amount := t.Debit.Sub(t.Credit)
			if amount.IsZero() {
				continue
			}

			if isCOGS(t.Category) {
				stmt.COGS = append(stmt.COGS, toLine(t, amount))
				stmt.TotalCOGS = stmt.TotalCOGS.Add(amount)
			} else {
				stmt.OperatingExpenses = append(stmt.OperatingExpenses, toLine(t, amount))
				stmt.TotalOperatingExpenses = stmt.TotalOperatingExpenses.Add(amount)
			}
		}
	}

	stmt.GrossProfit = stmt.TotalRevenue.Sub(stmt.TotalCOGS)
	stmt.NetProfit = stmt.GrossProfit.Sub(stmt.TotalOperatingExpenses)

	return stmt, nil
}

// BalanceSheet uses cumulative balances as of the date. Revenue and
// expense balances roll up into a computed current-earnings equity line,
// which is what makes the accounting identity hold before closing
// entries are ever posted.
func (s *Service) BalanceSheet(ctx context.Context, asOf time.Time) (*BalanceSheet, error) {
	totals, err := s.repo.BalancesAsOf(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("loading balances: %w", err)
	}

	sheet := &BalanceSheet{AsOfDate: asOf}

	var earnings decimal.Decimal

	for _, t := range totals {
		switch t.AccountType {
		case account.TypeAsset:
			amount := t.Debit.Sub(t.Credit)
			if amount.IsZero() {
				continue
			}

			sheet.Assets = append(sheet.Assets, toLine(t, amount))
			sheet.TotalAssets = sheet.TotalAssets.Add(amount)
		case account.TypeLiability:
			amount := t.Credit.Sub(t.Debit)
			if amount.IsZero() {
				continue
			}

			sheet.Liabilities = append(sheet.Liabilities, toLine(t, amount))
			sheet.TotalLiabilities = sheet.TotalLiabilities.Add(amount)
		case account.TypeEquity:
			amount := t.Credit.Sub(t.Debit)
			if amount.IsZero() {
				continue
			}

			sheet.Equity = append(sheet.Equity, toLine(t, amount))
			sheet.TotalEquity = sheet.TotalEquity.Add(amount)
		case account.TypeRevenue:
			earnings = earnings.Add(t.Credit.Sub(t.Debit))
		case account.TypeExpense:
			earnings = earnings.Sub(t.Debit.Sub(t.Credit))
		}
	}

	if !earnings.IsZero() {
		sheet.Equity = append(sheet.Equity, StatementLine{
			AccountName: "Current Period Earnings",
			Amount:      earnings,
		})
		sheet.TotalEquity = sheet.TotalEquity.Add(earnings)
	}

	sheet.TotalLiabilitiesAndEquity = sheet.TotalLiabilities.Add(sheet.TotalEquity)
	sheet.Difference = sheet.TotalAssets.Sub(sheet.TotalLiabilitiesAndEquity)
	sheet.Balanced = sheet.Difference.Abs().LessThanOrEqual(identityTolerance)

	if !sheet.Balanced {
		// The books are corrupt; surface it loudly, never silently.
		slog.Error("balance sheet out of balance",
			"as_of", asOf.Format(time.DateOnly),
			"total_assets", sheet.TotalAssets.String(),
			"total_liabilities_and_equity", sheet.TotalLiabilitiesAndEquity.String(),
			"difference", sheet.Difference.String(),
		)
	}

	return sheet, nil
}

// TrialBalance lists every account with a non-zero balance as of the
// date. An account's net goes in the debit column when positive on the
// debit side and in the credit column otherwise, so the two columns
// always total equal for balanced books.
func (s *Service) TrialBalance(ctx context.Context, asOf time.Time) (*TrialBalance, error) {
	totals, err := s.repo.BalancesAsOf(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("loading balances: %w", err)
	}

	tb := &TrialBalance{AsOfDate: asOf}

	for _, t := range totals {
		net := t.Debit.Sub(t.Credit)
		if net.IsZero() {
			continue
		}

		line := TrialBalanceLine{
			AccountID:   t.AccountID,
			AccountCode: t.AccountCode,
			AccountName: t.AccountName,
			AccountType: t.AccountType,
		}

		if net.IsPositive() {
			line.Debit = net
			tb.TotalDebit = tb.TotalDebit.Add(net)
		} else {
			line.Credit = net.Neg()
			tb.TotalCredit = tb.TotalCredit.Add(net.Neg())
		}

		tb.Lines = append(tb.Lines, line)
	}

	tb.Balanced = tb.TotalDebit.Sub(tb.TotalCredit).Abs().LessThanOrEqual(identityTolerance)

	if !tb.Balanced {
		slog.Error("trial balance out of balance",
			"as_of", asOf.Format(time.DateOnly),
			"total_debit", tb.TotalDebit.String(),
			"total_credit", tb.TotalCredit.String(),
		)
	}

	return tb, nil
}

func toLine(t AccountTotals, amount decimal.Decimal) StatementLine {
	return StatementLine{
		AccountID:   t.AccountID,
		AccountCode: t.AccountCode,
		AccountName: t.AccountName,
		Amount:      amount,
	}
}

// isCOGS classifies an expense account as cost of goods sold by its
// free-text category.
func isCOGS(category string) bool {
	c := strings.ToLower(strings.TrimSpace(category))
	return c == "cogs" || strings.Contains(c, "cost of goods")
}
