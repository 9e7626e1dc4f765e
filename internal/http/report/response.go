package report

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openledgerhq/ledgerd/internal/report"
)

type statementLineResponse struct {
	AccountID   *uuid.UUID  `json:"accountId,omitempty"`
	AccountCode string      `json:"accountCode,omitempty"`
	AccountName string      `json:"accountName"`
	Amount      json.Number `json:"amount"`
}

type incomeStatementResponse struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`

	Revenue      []statementLineResponse `json:"revenue"`
	TotalRevenue json.Number             `json:"totalRevenue"`

	COGS        []statementLineResponse `json:"cogs"`
	TotalCOGS   json.Number             `json:"totalCogs"`
	GrossProfit json.Number             `json:"grossProfit"`

	OperatingExpenses      []statementLineResponse `json:"operatingExpenses"`
	TotalOperatingExpenses json.Number             `json:"totalOperatingExpenses"`

	NetProfit json.Number `json:"netProfit"`
}

type balanceSheetResponse struct {
	AsOfDate string `json:"asOfDate"`

	Assets      []statementLineResponse `json:"assets"`
	TotalAssets json.Number             `json:"totalAssets"`

	Liabilities      []statementLineResponse `json:"liabilities"`
	TotalLiabilities json.Number             `json:"totalLiabilities"`

	Equity      []statementLineResponse `json:"equity"`
	TotalEquity json.Number             `json:"totalEquity"`

	TotalLiabilitiesAndEquity json.Number `json:"totalLiabilitiesAndEquity"`
	Difference                json.Number `json:"difference"`
	Balanced                  bool        `json:"balanced"`
}

type trialBalanceLineResponse struct {
	AccountID   uuid.UUID   `json:"accountId"`
	AccountCode string      `json:"accountCode"`
	AccountName string      `json:"accountName"`
	AccountType string      `json:"accountType"`
	Debit       json.Number `json:"debit"`
	Credit      json.Number `json:"credit"`
}

type trialBalanceResponse struct {
	AsOfDate    string                     `json:"asOfDate"`
	Lines       []trialBalanceLineResponse `json:"lines"`
	TotalDebit  json.Number                `json:"totalDebit"`
	TotalCredit json.Number                `json:"totalCredit"`
	Balanced    bool                       `json:"balanced"`
}

func amount(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

func toStatementLines(lines []report.StatementLine) []statementLineResponse {
	resp := make([]statementLineResponse, len(lines))

	for i, l := range lines {
		resp[i] = statementLineResponse{
			AccountCode: l.AccountCode,
			AccountName: l.AccountName,
			Amount:      amount(l.Amount),
		}

		// Computed lines (current period earnings) have no account.
		if l.AccountID != uuid.Nil {
			id := l.AccountID
			resp[i].AccountID = &id
		}
	}

	return resp
}

func toIncomeStatementResponse(stmt *report.IncomeStatement) incomeStatementResponse {
	return incomeStatementResponse{
		StartDate:              stmt.StartDate.Format(time.DateOnly),
		EndDate:                stmt.EndDate.Format(time.DateOnly),
		Revenue:                toStatementLines(stmt.Revenue),
		TotalRevenue:           amount(stmt.TotalRevenue),
		COGS:                   toStatementLines(stmt.COGS),
		TotalCOGS:              amount(stmt.TotalCOGS),
		GrossProfit:            amount(stmt.GrossProfit),
		OperatingExpenses:      toStatementLines(stmt.OperatingExpenses),
		TotalOperatingExpenses: amount(stmt.TotalOperatingExpenses),
		NetProfit:              amount(stmt.NetProfit),
	}
}

func toBalanceSheetResponse(sheet *report.BalanceSheet) balanceSheetResponse {
	return balanceSheetResponse{
		AsOfDate:                  sheet.AsOfDate.Format(time.DateOnly),
		Assets:                    toStatementLines(sheet.Assets),
		TotalAssets:               amount(sheet.TotalAssets),
		Liabilities:               toStatementLines(sheet.Liabilities),
		TotalLiabilities:          amount(sheet.TotalLiabilities),
		Equity:                    toStatementLines(sheet.Equity),
		TotalEquity:               amount(sheet.TotalEquity),
		TotalLiabilitiesAndEquity: amount(sheet.TotalLiabilitiesAndEquity),
		Difference:                amount(sheet.Difference),
		Balanced:                  sheet.Balanced,
	}
}

func toTrialBalanceResponse(tb *report.TrialBalance) trialBalanceResponse {
	lines := make([]trialBalanceLineResponse, len(tb.Lines))
	for i, l := range tb.Lines {
		lines[i] = trialBalanceLineResponse{
			AccountID:   l.AccountID,
			AccountCode: l.AccountCode,
			AccountName: l.AccountName,
			AccountType: string(l.AccountType),
			Debit:       amount(l.Debit),
			Credit:      amount(l.Credit),
		}
	}

	return trialBalanceResponse{
		AsOfDate:    tb.AsOfDate.Format(time.DateOnly),
		Lines:       lines,
		TotalDebit:  amount(tb.TotalDebit),
		TotalCredit: amount(tb.TotalCredit),
		Balanced:    tb.Balanced,
	}
}
