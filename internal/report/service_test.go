package report_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/openledgerhq/ledgerd/internal/account"
	"github.com/openledgerhq/ledgerd/internal/report"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func totals(code, name string, t account.Type, category, debit, credit string) report.AccountTotals {
	return report.AccountTotals{
		AccountID:   uuid.New(),
		AccountCode: code,
		AccountName: name,
		AccountType: t,
		Category:    category,
		Debit:       dec(debit),
		Credit:      dec(credit),
	}
}

func TestService_IncomeStatement(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := report.NewMockRepository(ctrl)
	svc := report.NewService(repo)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	repo.EXPECT().
		Movements(gomock.Any(), start, end).
		Return([]report.AccountTotals{
			totals("4000", "Sales Revenue", account.TypeRevenue, "", "50", "1050"),
			totals("5000", "Cost of Goods Sold", account.TypeExpense, "COGS", "400", "0"),
			totals("6000", "Rent", account.TypeExpense, "Operating", "250", "0"),
			totals("1000", "Cash", account.TypeAsset, "", "1050", "650"),
			totals("4100", "Idle Revenue", account.TypeRevenue, "", "0", "0"),
		}, nil)

	stmt, err := svc.IncomeStatement(context.Background(), start, end)
	require.NoError(t, err)

	// Asset movements and zero-movement accounts never appear.
	require.Len(t, stmt.Revenue, 1)
	assert.Equal(t, "1000", stmt.TotalRevenue.String())

	require.Len(t, stmt.COGS, 1)
	assert.Equal(t, "400", stmt.TotalCOGS.String())
	assert.Equal(t, "600", stmt.GrossProfit.String())

	require.Len(t, stmt.OperatingExpenses, 1)
	assert.Equal(t, "250", stmt.TotalOperatingExpenses.String())
	assert.Equal(t, "350", stmt.NetProfit.String())
}

func TestService_BalanceSheet_IdentityHolds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := report.NewMockRepository(ctrl)
	svc := report.NewService(repo)

	asOf := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	// Books with open revenue/expense balances: assets 1600, liabilities
	// 400, equity 850, revenue 1000, expenses 650.
	repo.EXPECT().
		BalancesAsOf(gomock.Any(), asOf).
		Return([]report.AccountTotals{
			totals("1000", "Cash", account.TypeAsset, "", "2050", "450"),
			totals("2000", "Accounts Payable", account.TypeLiability, "", "0", "400"),
			totals("3000", "Owner Capital", account.TypeEquity, "", "0", "850"),
			totals("4000", "Sales Revenue", account.TypeRevenue, "", "0", "1000"),
			totals("6000", "Rent", account.TypeExpense, "Operating", "650", "0"),
		}, nil)

	sheet, err := svc.BalanceSheet(context.Background(), asOf)
	require.NoError(t, err)

	assert.Equal(t, "1600", sheet.TotalAssets.String())
	assert.Equal(t, "400", sheet.TotalLiabilities.String())

	// Net income rolls into a computed equity line so the identity holds
	// without closing entries.
	require.Len(t, sheet.Equity, 2)
	earnings := sheet.Equity[1]
	assert.Equal(t, "Current Period Earnings", earnings.AccountName)
	assert.Equal(t, uuid.Nil, earnings.AccountID)
	assert.Equal(t, "350", earnings.Amount.String())

	assert.Equal(t, "1200", sheet.TotalEquity.String())
	assert.Equal(t, "1600", sheet.TotalLiabilitiesAndEquity.String())
	assert.True(t, sheet.Difference.IsZero())
	assert.True(t, sheet.Balanced)
}

func TestService_BalanceSheet_OutOfBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := report.NewMockRepository(ctrl)
	svc := report.NewService(repo)

	asOf := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	repo.EXPECT().
		BalancesAsOf(gomock.Any(), asOf).
		Return([]report.AccountTotals{
			totals("1000", "Cash", account.TypeAsset, "", "1000", "0"),
			totals("3000", "Owner Capital", account.TypeEquity, "", "0", "900"),
		}, nil)

	sheet, err := svc.BalanceSheet(context.Background(), asOf)
	require.NoError(t, err)

	assert.False(t, sheet.Balanced)
	assert.Equal(t, "100", sheet.Difference.String())
}

func TestService_TrialBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := report.NewMockRepository(ctrl)
	svc := report.NewService(repo)

	asOf := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	repo.EXPECT().
		BalancesAsOf(gomock.Any(), asOf).
		Return([]report.AccountTotals{
			totals("1000", "Cash", account.TypeAsset, "", "1500", "300"),
			totals("2000", "Accounts Payable", account.TypeLiability, "", "100", "500"),
			totals("4000", "Sales Revenue", account.TypeRevenue, "", "0", "800"),
			totals("1100", "Zeroed Account", account.TypeAsset, "", "250", "250"),
		}, nil)

	tb, err := svc.TrialBalance(context.Background(), asOf)
	require.NoError(t, err)

	// Zero-balance accounts are excluded.
	require.Len(t, tb.Lines, 3)

	assert.Equal(t, "1200", tb.Lines[0].Debit.String())
	assert.True(t, tb.Lines[0].Credit.IsZero())

	assert.Equal(t, "400", tb.Lines[1].Credit.String())
	assert.True(t, tb.Lines[1].Debit.IsZero())

	assert.Equal(t, "800", tb.Lines[2].Credit.String())

	assert.Equal(t, "1200", tb.TotalDebit.String())
	assert.Equal(t, "1200", tb.TotalCredit.String())
	assert.True(t, tb.Balanced)
}

func TestService_RepositoryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := report.NewMockRepository(ctrl)
	svc := report.NewService(repo)

	asOf := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	repo.EXPECT().BalancesAsOf(gomock.Any(), asOf).Return(nil, errors.New("db error"))

	tb, err := svc.TrialBalance(context.Background(), asOf)
	assert.Error(t, err)
	assert.Nil(t, tb)
}
